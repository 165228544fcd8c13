package schemas

import "context"

// GenerationOptions carries the per-call tuning knobs an adapter honors.
// Everything else about a provider call (roles, endpoint, auth) is a fixed
// constant of that provider's adapter.
type GenerationOptions struct {
	ForceJSONFormat bool
	Temperature     float32
	MaxTokens       int
}

// PromptRequest is the adapter-level input: a fully formatted prompt pair and
// an optional model override.
type PromptRequest struct {
	SystemPrompt string
	UserPrompt   string
	Model        string
	Options      GenerationOptions
}

// TextGenerator is the contract every provider adapter implements: one
// request to the provider's completion endpoint, returning the extracted
// assistant text as a single unparsed string. Adapters never retry and never
// return a partial payload silently; any missing credential, non-2xx status,
// or absent content field surfaces as an error.
type TextGenerator interface {
	Generate(ctx context.Context, req PromptRequest) (string, error)
	Name() ProviderID
	Model() string
}
