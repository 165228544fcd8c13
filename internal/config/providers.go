package config

import "github.com/berea-app/berea/api/schemas"

// ESVCredentialEnv names the environment variable for the passage-text API key.
const ESVCredentialEnv = "ESV_API_KEY"

// ProviderSpec describes one LLM provider: where it lives, what it runs by
// default, which credential unlocks it, and where it sits in the automatic
// fallback order. The table is fixed per deployment; nothing mutates it.
type ProviderSpec struct {
	ID           schemas.ProviderID
	Endpoint     string
	DefaultModel string
	CredentialEnv string
	Priority     int
	// CORSEligible marks a provider whose endpoint accepts direct
	// browser-origin calls; exactly one provider qualifies.
	CORSEligible bool
}

// Providers is the read-only provider table, in priority order
// (cheapest/fastest first).
var Providers = []ProviderSpec{
	{
		ID:            schemas.ProviderGroq,
		Endpoint:      "https://api.groq.com/openai/v1/chat/completions",
		DefaultModel:  "llama-3.3-70b-versatile",
		CredentialEnv: "GROQ_API_KEY",
		Priority:      1,
	},
	{
		ID:            schemas.ProviderOpenRouter,
		Endpoint:      "https://openrouter.ai/api/v1/chat/completions",
		DefaultModel:  "deepseek/deepseek-chat-v3-0324:free",
		CredentialEnv: "OPENROUTER_API_KEY",
		Priority:      2,
	},
	{
		ID:            schemas.ProviderGemini,
		Endpoint:      "https://generativelanguage.googleapis.com/v1beta/models",
		DefaultModel:  "gemini-2.0-flash",
		CredentialEnv: "GEMINI_API_KEY",
		Priority:      3,
		CORSEligible:  true,
	},
	{
		ID:            schemas.ProviderClaude,
		Endpoint:      "https://api.anthropic.com/v1/messages",
		DefaultModel:  "claude-3-5-haiku-latest",
		CredentialEnv: "ANTHROPIC_API_KEY",
		Priority:      4,
	},
}

// ProviderByID looks a provider up in the table.
func ProviderByID(id schemas.ProviderID) (ProviderSpec, bool) {
	for _, p := range Providers {
		if p.ID == id {
			return p, true
		}
	}
	return ProviderSpec{}, false
}

// CredentialEnv names the environment variable holding a provider's key.
func CredentialEnv(id schemas.ProviderID) string {
	if p, ok := ProviderByID(id); ok {
		return p.CredentialEnv
	}
	return ""
}

// CredentialEnvNames lists every provider credential name, in priority order.
// Used by the orchestrator's "nothing is configured" message.
func CredentialEnvNames() []string {
	names := make([]string, 0, len(Providers))
	for _, p := range Providers {
		names = append(names, p.CredentialEnv)
	}
	return names
}

// CORSEligibleProvider returns the one provider whose endpoint permits direct
// browser calls.
func CORSEligibleProvider() schemas.ProviderID {
	for _, p := range Providers {
		if p.CORSEligible {
			return p.ID
		}
	}
	return schemas.ProviderAuto
}
