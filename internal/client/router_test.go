package client

import (
	"context"
	stdjson "encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/berea-app/berea/api/schemas"
	"github.com/berea-app/berea/internal/config"
	"github.com/berea-app/berea/internal/study"
)

// -- Test Setup Helpers --

// fakeProxy is an httptest stand-in for a running proxy server.
func fakeProxy(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	hits := new(int)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate-study", func(w http.ResponseWriter, r *http.Request) {
		*hits++
		io.Copy(io.Discard, r.Body)
		stdjson.NewEncoder(w).Encode(schemas.GenerationResult{
			Reference:   "John 3:16",
			PassageText: "from the server",
			Study:       schemas.Study{Purpose: "server-made", StudyFlow: []schemas.FlowSection{{PassageSection: "John 3:16"}}},
			Provider:    schemas.ProviderGroq,
		})
	})
	mux.HandleFunc("/api/passage", func(w http.ResponseWriter, r *http.Request) {
		*hits++
		stdjson.NewEncoder(w).Encode(map[string]string{
			"reference": r.URL.Query().Get("q"),
			"text":      "server passage text",
		})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		stdjson.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, hits
}

func testAPIClient(t *testing.T, url string) *APIClient {
	t.Helper()
	return NewAPIClient(url, 5*time.Second, zaptest.NewLogger(t))
}

// localGenerator stands in for the locally-runnable provider chain.
type localGenerator struct {
	study    schemas.Study
	provider schemas.ProviderID
}

func (l *localGenerator) GenerateStudy(context.Context, schemas.PromptRequest, schemas.ProviderID) (schemas.Study, schemas.ProviderID) {
	return l.study, l.provider
}

func (l *localGenerator) GenerateText(context.Context, schemas.PromptRequest, schemas.ProviderID) (string, schemas.ProviderID, error) {
	return "", schemas.ProviderError, errors.New("unused")
}

type localPassages struct {
	text string
	err  error
}

func (l *localPassages) PassageText(context.Context, string, bool) (string, error) {
	return l.text, l.err
}

// assembleRouter wires a Router around injected local components, the way
// NewRouter does from credentials.
func assembleRouter(t *testing.T, gen study.Generator, passages study.PassageFetcher, server *APIClient) *Router {
	t.Helper()
	logger := zaptest.NewLogger(t)
	r := &Router{
		logger:    logger.Named("router"),
		passages:  passages,
		server:    server,
		corsID:    config.CORSEligibleProvider(),
		hasServer: server != nil,
	}
	if gen != nil {
		r.corsKey = "local-gemini-key"
		r.local = study.NewService(logger, gen, passages, config.LLMConfig{Temperature: 0.7})
	}
	if passages != nil {
		r.esvKey = "local-esv-key"
	}
	return r
}

func johnRequest() schemas.StudyRequest {
	return schemas.StudyRequest{Book: "John", StartChapter: 3, StartVerse: 16, EndChapter: 3, EndVerse: 16}
}

// -- Test Cases: Routing Decision (LocalEligible) --

func TestLocalEligible(t *testing.T) {
	gen := &localGenerator{provider: schemas.ProviderGemini}
	passages := &localPassages{text: "t"}

	testCases := []struct {
		name      string
		gen       study.Generator
		passages  study.PassageFetcher
		preferred schemas.ProviderID
		eligible  bool
	}{
		{name: "both keys, auto", gen: gen, passages: passages, preferred: schemas.ProviderAuto, eligible: true},
		{name: "both keys, pinned to local provider", gen: gen, passages: passages, preferred: schemas.ProviderGemini, eligible: true},
		{name: "both keys, pinned to server-only provider", gen: gen, passages: passages, preferred: schemas.ProviderClaude, eligible: false},
		{name: "missing passage key", gen: gen, passages: nil, preferred: schemas.ProviderAuto, eligible: false},
		{name: "missing generation key", gen: nil, passages: passages, preferred: schemas.ProviderAuto, eligible: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := assembleRouter(t, tc.gen, tc.passages, nil)
			assert.Equal(t, tc.eligible, r.LocalEligible(tc.preferred))
		})
	}
}

// -- Test Cases: Study Routing (GenerateStudy) --

func TestGenerateStudy_LocalPath(t *testing.T) {
	proxy, hits := fakeProxy(t)
	gen := &localGenerator{
		study:    schemas.Study{Purpose: "locally-made", StudyFlow: []schemas.FlowSection{{PassageSection: "John 3:16"}}},
		provider: schemas.ProviderGemini,
	}
	r := assembleRouter(t, gen, &localPassages{text: "local text"}, testAPIClient(t, proxy.URL))

	result, err := r.GenerateStudy(context.Background(), johnRequest())

	require.NoError(t, err)
	assert.Equal(t, "locally-made", result.Study.Purpose)
	assert.Equal(t, schemas.ProviderGemini, result.Provider)
	assert.Zero(t, *hits, "an eligible request must not touch the server")
}

// A local total failure falls back to the server exactly once.
func TestGenerateStudy_LocalFailureFallsBackToServer(t *testing.T) {
	proxy, hits := fakeProxy(t)
	gen := &localGenerator{
		study:    schemas.NewErrorStudy("all 1 available providers failed to generate a study"),
		provider: schemas.ProviderError,
	}
	r := assembleRouter(t, gen, &localPassages{text: "local text"}, testAPIClient(t, proxy.URL))

	result, err := r.GenerateStudy(context.Background(), johnRequest())

	require.NoError(t, err)
	assert.Equal(t, "server-made", result.Study.Purpose)
	assert.Equal(t, 1, *hits)
}

// Without a server, the local outcome is final even when it is the error study.
func TestGenerateStudy_LocalFailureNoServer(t *testing.T) {
	gen := &localGenerator{
		study:    schemas.NewErrorStudy("all 1 available providers failed to generate a study"),
		provider: schemas.ProviderError,
	}
	r := assembleRouter(t, gen, &localPassages{text: "t"}, nil)

	result, err := r.GenerateStudy(context.Background(), johnRequest())

	require.NoError(t, err)
	assert.True(t, result.Study.IsError)
}

func TestGenerateStudy_ServerOnlyProvider(t *testing.T) {
	proxy, hits := fakeProxy(t)
	gen := &localGenerator{provider: schemas.ProviderGemini}
	r := assembleRouter(t, gen, &localPassages{text: "t"}, testAPIClient(t, proxy.URL))

	req := johnRequest()
	req.Provider = schemas.ProviderClaude
	result, err := r.GenerateStudy(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "server-made", result.Study.Purpose)
	assert.Equal(t, 1, *hits)
}

func TestGenerateStudy_NotEligibleNoServer(t *testing.T) {
	r := assembleRouter(t, nil, nil, nil)

	_, err := r.GenerateStudy(context.Background(), johnRequest())

	assert.Error(t, err)
}

// -- Test Cases: Passage Routing (PassageText) --

func TestPassageText_DirectPath(t *testing.T) {
	proxy, hits := fakeProxy(t)
	r := assembleRouter(t, nil, &localPassages{text: "direct text"}, testAPIClient(t, proxy.URL))

	text, err := r.PassageText(context.Background(), "John 3:16", false)

	require.NoError(t, err)
	assert.Equal(t, "direct text", text)
	assert.Zero(t, *hits)
}

func TestPassageText_DirectFailureFallsBackToProxy(t *testing.T) {
	proxy, hits := fakeProxy(t)
	r := assembleRouter(t, nil, &localPassages{err: errors.New("invalid token")}, testAPIClient(t, proxy.URL))

	text, err := r.PassageText(context.Background(), "John 3:16", false)

	require.NoError(t, err)
	assert.Equal(t, "server passage text", text)
	assert.Equal(t, 1, *hits)
}

func TestPassageText_NoKeyUsesProxy(t *testing.T) {
	proxy, hits := fakeProxy(t)
	r := assembleRouter(t, nil, nil, testAPIClient(t, proxy.URL))

	text, err := r.PassageText(context.Background(), "John 3:16", false)

	require.NoError(t, err)
	assert.Equal(t, "server passage text", text)
	assert.Equal(t, 1, *hits)
}

func TestPassageText_NothingAvailable(t *testing.T) {
	r := assembleRouter(t, nil, nil, nil)

	_, err := r.PassageText(context.Background(), "John 3:16", false)

	assert.Error(t, err)
}

// -- Test Cases: Proxy API Client --

func TestAPIClient_GenerateStudy(t *testing.T) {
	proxy, _ := fakeProxy(t)
	api := testAPIClient(t, proxy.URL)

	result, err := api.GenerateStudy(context.Background(), johnRequest())

	require.NoError(t, err)
	assert.Equal(t, "John 3:16", result.Reference)
	assert.Equal(t, schemas.ProviderGroq, result.Provider)
}

func TestAPIClient_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error": "book is required"}`)
	}))
	t.Cleanup(server.Close)
	api := testAPIClient(t, server.URL)

	_, err := api.GenerateStudy(context.Background(), schemas.StudyRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestAPIClient_Healthy(t *testing.T) {
	proxy, _ := fakeProxy(t)
	api := testAPIClient(t, proxy.URL)

	assert.True(t, api.Healthy(context.Background()))

	down := testAPIClient(t, "http://127.0.0.1:1")
	assert.False(t, down.Healthy(context.Background()))
}

// NewRouter itself: wiring from credentials, without touching the network.
func TestNewRouter_Wiring(t *testing.T) {
	logger := zaptest.NewLogger(t)
	llmCfg := config.LLMConfig{RequestTimeout: 5 * time.Second, Temperature: 0.7}

	r, err := NewRouter(RouterOptions{
		ESVKey:  "esv-key",
		CORSKey: "gemini-key",
		LLM:     llmCfg,
		ESV:     config.ESVConfig{RequestTimeout: 5 * time.Second},
	}, logger)
	require.NoError(t, err)
	assert.True(t, r.LocalEligible(schemas.ProviderAuto))

	// No credentials at all: nothing is locally eligible.
	r, err = NewRouter(RouterOptions{LLM: llmCfg}, logger)
	require.NoError(t, err)
	assert.False(t, r.LocalEligible(schemas.ProviderAuto))
}
