package llmclient

import (
	"go.uber.org/zap"

	"github.com/berea-app/berea/api/schemas"
)

// openRouterAttribution headers identify the app to OpenRouter's ranking;
// required for the free-tier models this deployment defaults to.
var openRouterAttribution = map[string]string{
	"HTTP-Referer": "https://berea.app",
	"X-Title":      "Berea Bible Study",
}

// OpenRouterClient talks to OpenRouter's OpenAI-compatible endpoint.
type OpenRouterClient struct {
	*chatClient
}

// NewOpenRouterClient initializes the client.
func NewOpenRouterClient(opts Options, logger *zap.Logger) (*OpenRouterClient, error) {
	if opts.Headers == nil {
		opts.Headers = openRouterAttribution
	}
	base, err := newChatClient(schemas.ProviderOpenRouter, opts, logger)
	if err != nil {
		return nil, err
	}
	return &OpenRouterClient{chatClient: base}, nil
}
