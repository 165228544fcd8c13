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

const anthropicVersion = "2023-06-01"

// ClaudeClient talks to the Anthropic messages API. The system prompt rides
// in its own field and max_tokens is mandatory on this protocol.
type ClaudeClient struct {
	apiKey     string
	endpoint   string
	model      string
	maxTokens  int
	temp       float32
	httpClient *http.Client
	logger     *zap.Logger
}

type claudeRequestPayload struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	System      string        `json:"system,omitempty"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature,omitempty"`
}

type claudeResponsePayload struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// NewClaudeClient initializes the client.
func NewClaudeClient(opts Options, logger *zap.Logger) (*ClaudeClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("claude: API key is required")
	}

	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = "https://api.anthropic.com/v1/messages"
	}

	return &ClaudeClient{
		apiKey:     opts.APIKey,
		endpoint:   endpoint,
		model:      opts.Model,
		maxTokens:  opts.MaxTokens,
		temp:       opts.Temperature,
		httpClient: &http.Client{Timeout: opts.Timeout},
		logger:     logger.Named("llm_client.claude"),
	}, nil
}

func (c *ClaudeClient) Name() schemas.ProviderID { return schemas.ProviderClaude }
func (c *ClaudeClient) Model() string            { return c.model }

// Generate performs one request against the messages endpoint. The messages
// protocol has no JSON response mode, so ForceJSONFormat is carried entirely
// by the prompt text and the normalizer cleans up whatever comes back.
func (c *ClaudeClient) Generate(ctx context.Context, req schemas.PromptRequest) (string, error) {
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
	if maxTokens == 0 {
		maxTokens = 4096
	}

	payload := claudeRequestPayload{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: req.UserPrompt}},
		System:      req.SystemPrompt,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

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
		c.logger.Error("Anthropic API returned error status",
			zap.Int("status", resp.StatusCode), zap.String("response", string(respBody)))
		return "", &APIError{Provider: schemas.ProviderClaude, Status: resp.StatusCode, Body: string(respBody)}
	}

	var responsePayload claudeResponsePayload
	if err := json.Unmarshal(respBody, &responsePayload); err != nil {
		return "", &ParseError{Provider: schemas.ProviderClaude, Reason: "undecodable response envelope", Err: err}
	}

	var content string
	for _, block := range responsePayload.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	if content == "" {
		return "", &ParseError{Provider: schemas.ProviderClaude, Reason: "response carried no text content"}
	}

	c.logger.Info("LLM generation complete (Claude)",
		zap.String("model", model),
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("prompt_tokens", responsePayload.Usage.InputTokens),
		zap.Int("completion_tokens", responsePayload.Usage.OutputTokens),
	)
	return content, nil
}
