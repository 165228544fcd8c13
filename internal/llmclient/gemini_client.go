// internal/llmclient/gemini_client.go
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/berea-app/berea/api/schemas"
)

// GeminiClient talks to the Google generative language API. It is the one
// provider whose endpoint accepts direct browser-origin calls, which makes it
// the only candidate for the client-side generation path.
type GeminiClient struct {
	apiKey       string
	baseEndpoint string
	model        string
	maxTokens    int
	temp         float32
	httpClient   *http.Client
	logger       *zap.Logger
}

// -- Gemini API Request/Response Structures (Internal to this file) --

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiSystemInstruction struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float32 `json:"temperature"`
	ResponseMimeType string  `json:"response_mime_type,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
}

type geminiRequestPayload struct {
	Contents          []geminiContent          `json:"contents"`
	SystemInstruction *geminiSystemInstruction `json:"system_instruction,omitempty"`
	GenerationConfig  geminiGenerationConfig   `json:"generationConfig,omitempty"`
}

type geminiResponsePayload struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// NewGeminiClient initializes the client.
func NewGeminiClient(opts Options, logger *zap.Logger) (*GeminiClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}

	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	}

	return &GeminiClient{
		apiKey:       opts.APIKey,
		baseEndpoint: endpoint,
		model:        opts.Model,
		maxTokens:    opts.MaxTokens,
		temp:         opts.Temperature,
		httpClient:   &http.Client{Timeout: opts.Timeout},
		logger:       logger.Named("llm_client.gemini"),
	}, nil
}

func (c *GeminiClient) Name() schemas.ProviderID { return schemas.ProviderGemini }
func (c *GeminiClient) Model() string            { return c.model }

// Generate sends the prompts to the Gemini API and returns the generated
// content. One attempt only; the fallback orchestrator owns failure handling.
func (c *GeminiClient) Generate(ctx context.Context, req schemas.PromptRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	payload := c.buildRequestPayload(req)

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent", c.baseEndpoint, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	startTime := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Gemini API returned error status",
			zap.Int("status", resp.StatusCode), zap.String("response", string(respBody)))
		return "", &APIError{Provider: schemas.ProviderGemini, Status: resp.StatusCode, Body: string(respBody)}
	}

	var responsePayload geminiResponsePayload
	if err := json.Unmarshal(respBody, &responsePayload); err != nil {
		return "", &ParseError{Provider: schemas.ProviderGemini, Reason: "undecodable response envelope", Err: err}
	}
	if len(responsePayload.Candidates) == 0 {
		return "", &ParseError{Provider: schemas.ProviderGemini, Reason: "response carried no candidates"}
	}

	candidate := responsePayload.Candidates[0]
	if len(candidate.Content.Parts) == 0 {
		return "", &ParseError{
			Provider: schemas.ProviderGemini,
			Reason:   fmt.Sprintf("response carried empty content parts (finish reason %s)", candidate.FinishReason),
		}
	}

	c.logger.Info("LLM generation complete (Gemini)",
		zap.String("model", model),
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("prompt_tokens", responsePayload.UsageMetadata.PromptTokenCount),
		zap.Int("completion_tokens", responsePayload.UsageMetadata.CandidatesTokenCount),
	)
	return candidate.Content.Parts[0].Text, nil
}

func (c *GeminiClient) buildRequestPayload(req schemas.PromptRequest) geminiRequestPayload {
	temperature := req.Options.Temperature
	if temperature == 0 {
		temperature = c.temp
	}
	maxTokens := req.Options.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	genConfig := geminiGenerationConfig{
		Temperature:     temperature,
		MaxOutputTokens: maxTokens,
	}
	if req.Options.ForceJSONFormat {
		genConfig.ResponseMimeType = "application/json"
	}

	return geminiRequestPayload{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: req.UserPrompt}},
			},
		},
		SystemInstruction: &geminiSystemInstruction{
			Parts: []geminiPart{{Text: req.SystemPrompt}},
		},
		GenerationConfig: genConfig,
	}
}
