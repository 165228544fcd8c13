package esv

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// -- Test Setup Helpers --

func setupClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Options{
		APIKey:   "test-esv-key",
		Endpoint: server.URL,
		Timeout:  5 * time.Second,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return client
}

func passagesHandler(passages ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"query":    r.URL.Query().Get("q"),
			"passages": passages,
		})
	}
}

// -- Test Cases: Initialization --

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(Options{}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

// -- Test Cases: Request Construction --

func TestPassageText_QueryParameters(t *testing.T) {
	var query map[string]string
	var auth string
	handler := func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		q := r.URL.Query()
		query = map[string]string{
			"q":                          q.Get("q"),
			"include-headings":           q.Get("include-headings"),
			"include-footnotes":          q.Get("include-footnotes"),
			"include-short-copyright":    q.Get("include-short-copyright"),
			"include-passage-references": q.Get("include-passage-references"),
		}
		passagesHandler("For God so loved the world...")(w, r)
	}
	client := setupClient(t, handler)

	_, err := client.PassageText(context.Background(), "John 3:16", true)
	require.NoError(t, err)

	assert.Equal(t, "Token test-esv-key", auth)
	assert.Equal(t, "John 3:16", query["q"])
	assert.Equal(t, "true", query["include-headings"])
	assert.Equal(t, "false", query["include-footnotes"])
	assert.Equal(t, "false", query["include-short-copyright"])
	assert.Equal(t, "false", query["include-passage-references"])
}

// -- Test Cases: Response Handling --

func TestPassageText_JoinsPassages(t *testing.T) {
	client := setupClient(t, passagesHandler("  Psalm text one.  ", "Psalm text two."))

	text, err := client.PassageText(context.Background(), "Psalm 23", false)

	require.NoError(t, err)
	assert.Equal(t, "Psalm text one.  \n\nPsalm text two.", text)
}

func TestPassageText_NotFound(t *testing.T) {
	client := setupClient(t, passagesHandler())

	_, err := client.PassageText(context.Background(), "John 99:1", false)

	assert.ErrorIs(t, err, ErrPassageNotFound)
}

// The upstream status is preserved so the proxy endpoint can mirror it.
func TestPassageText_APIErrorMirrorsStatus(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail": "Invalid token."}`)
	}
	client := setupClient(t, handler)

	_, err := client.PassageText(context.Background(), "John 3:16", false)

	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestPassageText_UndecodableBody(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>not json</html>")
	}
	client := setupClient(t, handler)

	_, err := client.PassageText(context.Background(), "John 3:16", false)

	assert.Error(t, err)
}
