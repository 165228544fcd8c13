package llmclient

import (
	"go.uber.org/zap"

	"github.com/berea-app/berea/api/schemas"
)

// GroqClient talks to Groq's OpenAI-compatible chat completions endpoint.
// Bearer auth, standard chat body; the cheapest and fastest of the four,
// which is why it heads the automatic priority order.
type GroqClient struct {
	*chatClient
}

// NewGroqClient initializes the client.
func NewGroqClient(opts Options, logger *zap.Logger) (*GroqClient, error) {
	base, err := newChatClient(schemas.ProviderGroq, opts, logger)
	if err != nil {
		return nil, err
	}
	return &GroqClient{chatClient: base}, nil
}
