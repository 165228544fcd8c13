package llmclient

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/berea-app/berea/api/schemas"
)

// -- Shared Test Setup Helpers --

func setupTestLogger(t *testing.T) *zap.Logger {
	t.Helper()
	return zaptest.NewLogger(t)
}

// setupObservedLogger captures log entries for assertions on log output.
func setupObservedLogger(level zap.AtomicLevel) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}

func testOptions(endpoint string) Options {
	return Options{
		APIKey:      "test-key",
		Endpoint:    endpoint,
		Model:       "test-model",
		Timeout:     5 * time.Second,
		MaxTokens:   1024,
		Temperature: 0.7,
	}
}

func testPromptRequest() schemas.PromptRequest {
	return schemas.PromptRequest{
		SystemPrompt: "System prompt instructions.",
		UserPrompt:   "User query.",
		Options: schemas.GenerationOptions{
			ForceJSONFormat: true,
			Temperature:     0.7,
		},
	}
}

// validStudyJSON is a minimal payload that survives normalization.
const validStudyJSON = `{
	"purpose": "See the shape of saving faith.",
	"context": "Jesus speaks with Nicodemus at night.",
	"summary": "God gave his Son so that believers have eternal life.",
	"key_themes": ["belief", "eternal life"],
	"study_flow": [{
		"passage_section": "John 3:16",
		"section_heading": "The gift",
		"observation_question": "What did God give?",
		"observation_answer": "His only Son.",
		"interpretation_question": "Why?",
		"interpretation_answer": "Out of love for the world."
	}],
	"application_questions": ["Where do you look for life?"],
	"cross_references": [{"reference": "Romans 5:8", "note": "love demonstrated"}],
	"prayer_prompt": "Thank God for the gift of his Son."
}`

// fakeGenerator is an injectable TextGenerator for orchestrator tests.
type fakeGenerator struct {
	name         schemas.ProviderID
	model        string
	generateFunc func(ctx context.Context, req schemas.PromptRequest) (string, error)
	calls        int
}

func (f *fakeGenerator) Generate(ctx context.Context, req schemas.PromptRequest) (string, error) {
	f.calls++
	if f.generateFunc != nil {
		return f.generateFunc(ctx, req)
	}
	return validStudyJSON, nil
}

func (f *fakeGenerator) Name() schemas.ProviderID { return f.name }
func (f *fakeGenerator) Model() string            { return f.model }
