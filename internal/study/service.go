// Package study turns a passage request into a finished study guide. It
// owns the prompt contract, fetches the passage text, and drives the
// provider fallback chain; callers see one Generate call and typed results.
package study

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/berea-app/berea/api/schemas"
	"github.com/berea-app/berea/internal/bible"
	"github.com/berea-app/berea/internal/cache"
	"github.com/berea-app/berea/internal/config"
	"github.com/berea-app/berea/internal/esv"
	"github.com/berea-app/berea/internal/llmclient"
)

// Generator is the slice of the fallback orchestrator the service uses.
type Generator interface {
	GenerateStudy(ctx context.Context, req schemas.PromptRequest, preferred schemas.ProviderID) (schemas.Study, schemas.ProviderID)
	GenerateText(ctx context.Context, req schemas.PromptRequest, preferred schemas.ProviderID) (string, schemas.ProviderID, error)
}

// PassageFetcher is the slice of the ESV client the service uses. It is nil
// when no ESV credential is configured; studies are then generated from the
// reference alone.
type PassageFetcher interface {
	PassageText(ctx context.Context, reference string, includeHeadings bool) (string, error)
}

// Service coordinates passage lookup and study generation.
type Service struct {
	logger   *zap.Logger
	gen      Generator
	passages PassageFetcher
	cache    *cache.Cache
	cfg      config.LLMConfig
}

// NewService wires the generation service. passages may be nil.
func NewService(logger *zap.Logger, gen Generator, passages PassageFetcher, cfg config.LLMConfig) *Service {
	return &Service{
		logger:   logger.Named("study"),
		gen:      gen,
		passages: passages,
		cache:    cache.New(),
		cfg:      cfg,
	}
}

// Generate produces a study for the requested passage. Invalid requests are
// the only error path; generation failures surface as an error study inside
// the result, never as a Go error.
func (s *Service) Generate(ctx context.Context, req schemas.StudyRequest) (schemas.GenerationResult, error) {
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return schemas.GenerationResult{}, err
	}
	ref, err := bible.FromRequest(req)
	if err != nil {
		return schemas.GenerationResult{}, err
	}

	reference := ref.String()
	passageText := s.fetchPassage(ctx, reference)

	prompt := studyPrompt(reference, passageText, req.Model)
	prompt.Options.Temperature = s.cfg.Temperature
	prompt.Options.MaxTokens = s.cfg.MaxTokens

	result, provider := s.gen.GenerateStudy(ctx, prompt, req.Provider)
	s.logger.Info("Study generated",
		zap.String("reference", reference),
		zap.String("provider", string(provider)),
		zap.Bool("is_error", result.IsError))

	return schemas.GenerationResult{
		Reference:   reference,
		PassageText: passageText,
		Study:       result,
		Provider:    provider,
	}, nil
}

// Enhance rewrites a single piece of study text. Unlike Generate, total
// provider failure here is a real error; there is no placeholder value for
// "rephrase this sentence".
func (s *Service) Enhance(ctx context.Context, op EnhanceOp, text, reference string, preferred schemas.ProviderID) (string, schemas.ProviderID, error) {
	if text == "" {
		return "", schemas.ProviderError, fmt.Errorf("no text to enhance")
	}
	prompt, err := enhancePrompt(op, text, reference)
	if err != nil {
		return "", schemas.ProviderError, err
	}
	prompt.Options.Temperature = s.cfg.Temperature
	prompt.Options.MaxTokens = s.cfg.MaxTokens
	return s.gen.GenerateText(ctx, prompt, preferred)
}

// Passage returns the ESV text for a raw reference string, going through the
// same cache as generation.
func (s *Service) Passage(ctx context.Context, reference string, includeHeadings bool) (string, error) {
	if s.passages == nil {
		return "", esv.ErrNoCredential
	}
	key := fmt.Sprintf("passage:%s:headings=%t", reference, includeHeadings)
	v, err := s.cache.Do(key, func() (any, error) {
		return s.passages.PassageText(ctx, reference, includeHeadings)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// fetchPassage resolves the passage text for generation. Lookup failures
// degrade to an empty passage rather than blocking the study; the prompt
// then leans on the model's own knowledge of the text.
func (s *Service) fetchPassage(ctx context.Context, reference string) string {
	if s.passages == nil {
		return ""
	}
	text, err := s.Passage(ctx, reference, false)
	if err != nil {
		s.logger.Warn("Passage lookup failed, generating without text",
			zap.String("reference", reference), zap.Error(err))
		return ""
	}
	return text
}

// compile-time wiring check
var _ Generator = (*llmclient.Orchestrator)(nil)
