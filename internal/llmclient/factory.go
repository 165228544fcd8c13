// -- internal/llmclient/factory.go --
package llmclient

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/berea-app/berea/api/schemas"
	"github.com/berea-app/berea/internal/config"
)

// CredentialSource resolves a provider's API key: environment variables on
// the server, the local credential store on a client. Empty means
// unconfigured.
type CredentialSource func(schemas.ProviderID) string

// NewClient is a factory function that creates the adapter for one provider.
func NewClient(id schemas.ProviderID, key string, cfg config.LLMConfig, logger *zap.Logger) (schemas.TextGenerator, error) {
	spec, ok := config.ProviderByID(id)
	if !ok {
		return nil, fmt.Errorf("unknown or unsupported LLM provider: %q", id)
	}

	model := cfg.ModelFor(id)
	if model == "" {
		model = spec.DefaultModel
	}
	opts := Options{
		APIKey:      key,
		Endpoint:    spec.Endpoint,
		Model:       model,
		Timeout:     cfg.RequestTimeout,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}

	switch id {
	case schemas.ProviderGroq:
		return NewGroqClient(opts, logger)
	case schemas.ProviderOpenRouter:
		return NewOpenRouterClient(opts, logger)
	case schemas.ProviderGemini:
		return NewGeminiClient(opts, logger)
	case schemas.ProviderClaude:
		return NewClaudeClient(opts, logger)
	default:
		return nil, fmt.Errorf("unknown or unsupported LLM provider: %q", id)
	}
}

// BuildClients constructs adapters for every provider whose credential is
// present, in priority order. Providers without credentials are skipped, not
// errors; the orchestrator reports what would unblock them.
func BuildClients(cfg config.LLMConfig, creds CredentialSource, logger *zap.Logger) ([]schemas.TextGenerator, error) {
	var clients []schemas.TextGenerator
	for _, spec := range config.Providers {
		key := creds(spec.ID)
		if key == "" {
			continue
		}
		client, err := NewClient(spec.ID, key, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("building %s client: %w", spec.ID, err)
		}
		clients = append(clients, client)
	}
	return clients, nil
}
