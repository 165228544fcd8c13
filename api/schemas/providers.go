package schemas

// ProviderID identifies one of the supported LLM providers.
type ProviderID string

const (
	// ProviderAuto means "no preference": the orchestrator picks candidates
	// in priority order from whatever credentials are configured.
	ProviderAuto ProviderID = ""

	ProviderGroq       ProviderID = "groq"
	ProviderOpenRouter ProviderID = "openrouter"
	ProviderGemini     ProviderID = "gemini"
	ProviderClaude     ProviderID = "claude"

	// ProviderError is the provider reported on a result whose study is the
	// degenerate error study (every candidate failed, or none was configured).
	ProviderError ProviderID = "error"
)

// ProviderPriority is the default attempt order in automatic mode,
// cheapest/fastest first.
var ProviderPriority = []ProviderID{
	ProviderGroq,
	ProviderOpenRouter,
	ProviderGemini,
	ProviderClaude,
}

// Known reports whether id names a real, selectable provider.
func (id ProviderID) Known() bool {
	switch id {
	case ProviderGroq, ProviderOpenRouter, ProviderGemini, ProviderClaude:
		return true
	}
	return false
}
