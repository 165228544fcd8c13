// Package server exposes the study service over HTTP: study generation, the
// passage proxy, and a health probe. Generation failures are payload, not
// status: the generation endpoint answers 200 with the error study so a
// browser client has a single response shape to handle.
package server

import (
	"errors"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/berea-app/berea/api/schemas"
	"github.com/berea-app/berea/internal/esv"
	"github.com/berea-app/berea/internal/study"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxRequestBody caps the generation request body; study requests are tiny.
const maxRequestBody = 1 << 16

type handlers struct {
	logger        *zap.Logger
	svc           *study.Service
	allowedOrigin string
}

func newHandlers(logger *zap.Logger, svc *study.Service, allowedOrigin string) *handlers {
	return &handlers{
		logger:        logger.Named("http"),
		svc:           svc,
		allowedOrigin: allowedOrigin,
	}
}

func (h *handlers) register(mux *http.ServeMux) {
	mux.HandleFunc("/api/generate-study", h.withCORS(h.handleGenerateStudy))
	mux.HandleFunc("/api/passage", h.withCORS(h.handlePassage))
	mux.HandleFunc("/healthz", h.handleHealth)
}

// withCORS answers preflight requests and stamps the configured origin on
// every response so a browser front end can call the API directly.
func (h *handlers) withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.allowedOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", h.allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

// handleGenerateStudy accepts POST /api/generate-study. Malformed bodies are
// the caller's fault and answer 400; everything past validation answers 200,
// with provider "error" marking total generation failure.
func (h *handlers) handleGenerateStudy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "unreadable request body")
		return
	}
	var req schemas.StudyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	result, err := h.svc.Generate(r.Context(), req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info("Study request served",
		zap.String("reference", result.Reference),
		zap.String("provider", string(result.Provider)),
		zap.String("remote", r.RemoteAddr))
	h.writeJSON(w, http.StatusOK, result)
}

// handlePassage accepts GET /api/passage?q=<reference>&include-headings=.
// Upstream ESV statuses are mirrored so the client sees what the API saw.
func (h *handlers) handlePassage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	reference := r.URL.Query().Get("q")
	if reference == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	includeHeadings := r.URL.Query().Get("include-headings") == "true"

	text, err := h.svc.Passage(r.Context(), reference, includeHeadings)
	if err != nil {
		h.writePassageError(w, reference, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{
		"reference": reference,
		"text":      text,
	})
}

func (h *handlers) writePassageError(w http.ResponseWriter, reference string, err error) {
	var apiErr *esv.APIError
	switch {
	case errors.Is(err, esv.ErrNoCredential):
		h.writeError(w, http.StatusInternalServerError, err.Error())
	case errors.Is(err, esv.ErrPassageNotFound):
		h.writeError(w, http.StatusNotFound, "no passage matches "+reference)
	case errors.As(err, &apiErr):
		h.writeError(w, apiErr.Status, "passage lookup failed upstream")
	default:
		h.logger.Error("Passage lookup failed",
			zap.String("reference", reference), zap.Error(err))
		h.writeError(w, http.StatusBadGateway, "passage lookup failed")
	}
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *handlers) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
