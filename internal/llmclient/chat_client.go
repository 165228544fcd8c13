// File: internal/llmclient/chat_client.go
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

// Options configures a single provider adapter.
type Options struct {
	APIKey      string
	Endpoint    string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float32
	// Headers are extra constant request headers (OpenRouter attribution).
	Headers map[string]string
}

// -- OpenAI-compatible wire structures (shared by Groq and OpenRouter) --

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatRequestPayload struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	Temperature    float32             `json:"temperature,omitempty"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatResponsePayload struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// chatClient is the shared adapter for providers speaking the OpenAI chat
// completions protocol with bearer auth. Groq and OpenRouter differ only in
// endpoint, default model, and constant headers.
type chatClient struct {
	name       schemas.ProviderID
	apiKey     string
	endpoint   string
	model      string
	headers    map[string]string
	maxTokens  int
	temp       float32
	httpClient *http.Client
	logger     *zap.Logger
}

func newChatClient(name schemas.ProviderID, opts Options, logger *zap.Logger) (*chatClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%s: API key is required", name)
	}
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("%s: endpoint is required", name)
	}
	return &chatClient{
		name:       name,
		apiKey:     opts.APIKey,
		endpoint:   opts.Endpoint,
		model:      opts.Model,
		headers:    opts.Headers,
		maxTokens:  opts.MaxTokens,
		temp:       opts.Temperature,
		httpClient: &http.Client{Timeout: opts.Timeout},
		logger:     logger.Named("llm_client." + string(name)),
	}, nil
}

func (c *chatClient) Name() schemas.ProviderID { return c.name }
func (c *chatClient) Model() string            { return c.model }

// Generate performs exactly one request against the chat completions
// endpoint and returns the assistant text. It never retries.
func (c *chatClient) Generate(ctx context.Context, req schemas.PromptRequest) (string, error) {
	payload := c.buildRequestPayload(req)

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

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

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Provider returned error status",
			zap.Int("status", resp.StatusCode), zap.String("response", string(respBody)))
		return "", &APIError{Provider: c.name, Status: resp.StatusCode, Body: string(respBody)}
	}

	var responsePayload chatResponsePayload
	if err := json.Unmarshal(respBody, &responsePayload); err != nil {
		return "", &ParseError{Provider: c.name, Reason: "undecodable response envelope", Err: err}
	}
	if len(responsePayload.Choices) == 0 {
		return "", &ParseError{Provider: c.name, Reason: "response carried no choices"}
	}
	content := responsePayload.Choices[0].Message.Content
	if content == "" {
		return "", &ParseError{Provider: c.name, Reason: "response carried empty content"}
	}

	c.logger.Info("LLM generation complete",
		zap.String("model", payload.Model),
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("prompt_tokens", responsePayload.Usage.PromptTokens),
		zap.Int("completion_tokens", responsePayload.Usage.CompletionTokens),
	)
	return content, nil
}

func (c *chatClient) buildRequestPayload(req schemas.PromptRequest) chatRequestPayload {
	model := req.Model
	if model == "" {
		model = c.model
	}

	temperature := req.Options.Temperature
	if temperature == 0 {
		temperature = c.temp
	}
	maxTokens := req.Options.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	payload := chatRequestPayload{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	if req.Options.ForceJSONFormat {
		payload.ResponseFormat = &chatResponseFormat{Type: "json_object"}
	}
	return payload
}
