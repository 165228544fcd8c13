package client

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/berea-app/berea/api/schemas"
	"github.com/berea-app/berea/internal/config"
	"github.com/berea-app/berea/internal/esv"
	"github.com/berea-app/berea/internal/llmclient"
	"github.com/berea-app/berea/internal/study"
)

// Router picks between local generation and the proxy server. Local
// generation is limited to the one provider whose API is callable without a
// proxy in front of it; everything else goes to the server, and a failed
// local attempt falls back to the server exactly once.
type Router struct {
	logger   *zap.Logger
	local    *study.Service
	passages study.PassageFetcher
	server   *APIClient

	esvKey    string
	corsKey   string
	corsID    schemas.ProviderID
	hasServer bool
}

// RouterOptions configures the router. Server may be nil when no proxy is
// reachable; the router then runs local-only and reports hard failures.
type RouterOptions struct {
	ESVKey  string
	CORSKey string
	Server  *APIClient
	LLM     config.LLMConfig
	ESV     config.ESVConfig
}

// NewRouter wires the local generation path when the needed credentials are
// present. A missing credential is not an error here; it just narrows the
// routing decision.
func NewRouter(opts RouterOptions, logger *zap.Logger) (*Router, error) {
	r := &Router{
		logger:    logger.Named("router"),
		server:    opts.Server,
		esvKey:    opts.ESVKey,
		corsKey:   opts.CORSKey,
		corsID:    config.CORSEligibleProvider(),
		hasServer: opts.Server != nil,
	}

	if opts.ESVKey != "" {
		ec, err := esv.NewClient(esv.Options{
			APIKey:   opts.ESVKey,
			Endpoint: opts.ESV.Endpoint,
			Timeout:  opts.ESV.RequestTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		r.passages = ec
	}

	if opts.CORSKey != "" {
		gen, err := llmclient.NewClient(r.corsID, opts.CORSKey, opts.LLM, logger)
		if err != nil {
			return nil, err
		}
		orch := llmclient.NewOrchestrator(logger, []schemas.TextGenerator{gen})
		r.local = study.NewService(logger, orch, r.passages, opts.LLM)
	}
	return r, nil
}

// LocalEligible reports whether a request can be served with local
// credentials alone: both the passage key and the directly-callable
// provider's key must be present, and the request must not pin a provider
// that only the server can reach.
func (r *Router) LocalEligible(preferred schemas.ProviderID) bool {
	if r.local == nil || r.esvKey == "" {
		return false
	}
	return preferred == schemas.ProviderAuto || preferred == r.corsID
}

// GenerateStudy routes one study request. A local attempt that errors or
// comes back as the error study falls back to the server once; a server-only
// request goes straight there.
func (r *Router) GenerateStudy(ctx context.Context, req schemas.StudyRequest) (schemas.GenerationResult, error) {
	if r.LocalEligible(req.Provider) {
		result, err := r.local.Generate(ctx, req)
		if err == nil && result.Provider != schemas.ProviderError {
			return result, nil
		}
		if !r.hasServer {
			if err != nil {
				return schemas.GenerationResult{}, err
			}
			return result, nil
		}
		r.logger.Warn("Local generation failed, falling back to server",
			zap.NamedError("local_error", err))
		return r.server.GenerateStudy(ctx, req)
	}

	if !r.hasServer {
		return schemas.GenerationResult{}, fmt.Errorf(
			"request requires the proxy server (provider %q not callable locally) and no server is configured", req.Provider)
	}
	return r.server.GenerateStudy(ctx, req)
}

// PassageText routes a passage lookup: direct when the local ESV key exists,
// with one fallback hop to the server's proxy endpoint on failure.
func (r *Router) PassageText(ctx context.Context, reference string, includeHeadings bool) (string, error) {
	if r.passages != nil {
		text, err := r.passages.PassageText(ctx, reference, includeHeadings)
		if err == nil {
			return text, nil
		}
		if !r.hasServer {
			return "", err
		}
		r.logger.Warn("Direct passage lookup failed, falling back to server",
			zap.String("reference", reference), zap.Error(err))
	}
	if !r.hasServer {
		return "", esv.ErrNoCredential
	}
	return r.server.PassageText(ctx, reference, includeHeadings)
}
