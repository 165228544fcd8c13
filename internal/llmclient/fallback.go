// File: internal/llmclient/fallback.go
package llmclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/berea-app/berea/api/schemas"
	"github.com/berea-app/berea/internal/config"
)

// Orchestrator attempts providers strictly in priority order, one attempt
// each, and returns the first result that both generates and normalizes
// cleanly. Failures are logged with the provider's identity and never
// retried; the loop simply moves on. No exceptions-as-control-flow: every
// adapter outcome arrives as a value and the loop consumes it.
type Orchestrator struct {
	logger  *zap.Logger
	clients map[schemas.ProviderID]schemas.TextGenerator
	order   []schemas.ProviderID
}

// NewOrchestrator builds an orchestrator over the configured adapters.
// The attempt order is the fixed provider priority filtered to what was
// actually constructed.
func NewOrchestrator(logger *zap.Logger, clients []schemas.TextGenerator) *Orchestrator {
	byID := make(map[schemas.ProviderID]schemas.TextGenerator, len(clients))
	for _, c := range clients {
		byID[c.Name()] = c
	}
	var order []schemas.ProviderID
	for _, id := range schemas.ProviderPriority {
		if _, ok := byID[id]; ok {
			order = append(order, id)
		}
	}
	return &Orchestrator{
		logger:  logger.Named("fallback"),
		clients: byID,
		order:   order,
	}
}

// Configured reports whether a provider has a usable adapter.
func (o *Orchestrator) Configured(id schemas.ProviderID) bool {
	_, ok := o.clients[id]
	return ok
}

// candidates resolves the attempt list. In automatic mode it is the full
// filtered priority order; when the caller pins one provider, the list is
// exactly that provider and a missing credential is terminal — requested-
// provider mode never falls back.
func (o *Orchestrator) candidates(preferred schemas.ProviderID) ([]schemas.TextGenerator, error) {
	if preferred != schemas.ProviderAuto {
		client, ok := o.clients[preferred]
		if !ok {
			return nil, missingCredentialError(preferred, config.CredentialEnv(preferred))
		}
		return []schemas.TextGenerator{client}, nil
	}

	if len(o.order) == 0 {
		return nil, fmt.Errorf("no LLM provider credentials configured; set one of %s",
			strings.Join(config.CredentialEnvNames(), ", "))
	}
	out := make([]schemas.TextGenerator, 0, len(o.order))
	for _, id := range o.order {
		out = append(out, o.clients[id])
	}
	return out, nil
}

// GenerateStudy runs the fallback loop for a structured study. Total failure
// is not an error to the caller: it yields the error study with provider
// "error" so downstream code has no special "no result" case.
func (o *Orchestrator) GenerateStudy(ctx context.Context, req schemas.PromptRequest, preferred schemas.ProviderID) (schemas.Study, schemas.ProviderID) {
	cands, err := o.candidates(preferred)
	if err != nil {
		o.logger.Warn("Study generation impossible", zap.Error(err))
		return schemas.NewErrorStudy(err.Error()), schemas.ProviderError
	}

	attemptID := uuid.NewString()
	for i, client := range cands {
		raw, err := client.Generate(ctx, req)
		if err != nil {
			o.logAttemptFailure(attemptID, client.Name(), i, len(cands), err)
			continue
		}
		study, err := ParseStudy(client.Name(), raw)
		if err != nil {
			o.logAttemptFailure(attemptID, client.Name(), i, len(cands), err)
			continue
		}
		if i > 0 {
			o.logger.Info("Provider fallback succeeded",
				zap.String("attempt_id", attemptID),
				zap.String("provider", string(client.Name())),
				zap.Int("attempt", i+1))
		}
		return study, client.Name()
	}

	o.logger.Error("All providers failed",
		zap.String("attempt_id", attemptID), zap.Int("attempted", len(cands)))
	return schemas.NewErrorStudy(fmt.Sprintf("all %d available providers failed to generate a study", len(cands))), schemas.ProviderError
}

// GenerateText runs the same loop for plain-text completions (the
// enhancement operations). There is no sensible placeholder for these, so
// total failure escalates as an error.
func (o *Orchestrator) GenerateText(ctx context.Context, req schemas.PromptRequest, preferred schemas.ProviderID) (string, schemas.ProviderID, error) {
	cands, err := o.candidates(preferred)
	if err != nil {
		return "", schemas.ProviderError, err
	}

	attemptID := uuid.NewString()
	var lastErr error
	for i, client := range cands {
		raw, err := client.Generate(ctx, req)
		if err != nil {
			o.logAttemptFailure(attemptID, client.Name(), i, len(cands), err)
			lastErr = err
			continue
		}
		text, err := ParseText(client.Name(), raw)
		if err != nil {
			o.logAttemptFailure(attemptID, client.Name(), i, len(cands), err)
			lastErr = err
			continue
		}
		return text, client.Name(), nil
	}
	return "", schemas.ProviderError, fmt.Errorf("all %d available providers failed: %w", len(cands), lastErr)
}

func (o *Orchestrator) logAttemptFailure(attemptID string, provider schemas.ProviderID, idx, total int, err error) {
	o.logger.Warn("Provider attempt failed, trying next",
		zap.String("attempt_id", attemptID),
		zap.String("provider", string(provider)),
		zap.Int("attempt", idx+1),
		zap.Int("remaining", total-idx-1),
		zap.Error(err))
}
