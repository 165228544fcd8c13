// Package esv fetches passage text from the ESV API. The wire protocol is a
// fixed external contract: one GET with Token auth and query parameters,
// answering a list of rendered passages.
package esv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrPassageNotFound means the API answered but matched no passage.
var ErrPassageNotFound = errors.New("no matching passage")

// ErrNoCredential means no ESV API key is configured, so passage lookup is
// unavailable entirely.
var ErrNoCredential = errors.New("no ESV API key configured; set ESV_API_KEY")

// APIError is a non-success answer from the ESV API; the status is preserved
// so the proxy endpoint can mirror it.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("esv API error: status %d: %s", e.Status, e.Body)
}

// Options configures the client.
type Options struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// Client is the passage-text client.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

type passageResponse struct {
	Query    string   `json:"query"`
	Passages []string `json:"passages"`
}

// NewClient initializes the client.
func NewClient(opts Options, logger *zap.Logger) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("ESV API key is required")
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = "https://api.esv.org/v3/passage/text/"
	}
	return &Client{
		apiKey:     opts.APIKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: opts.Timeout},
		logger:     logger.Named("esv"),
	}, nil
}

// PassageText fetches the rendered text for a reference. Footnotes and
// copyright boilerplate are always suppressed; headings are caller's choice.
func (c *Client) PassageText(ctx context.Context, reference string, includeHeadings bool) (string, error) {
	params := url.Values{}
	params.Set("q", reference)
	params.Set("include-headings", strconv.FormatBool(includeHeadings))
	params.Set("include-footnotes", "false")
	params.Set("include-short-copyright", "false")
	params.Set("include-passage-references", "false")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Token "+c.apiKey)

	startTime := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("ESV API returned error status",
			zap.Int("status", resp.StatusCode), zap.String("reference", reference))
		return "", &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var payload passageResponse
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return "", fmt.Errorf("failed to decode passage response: %w", err)
	}
	if len(payload.Passages) == 0 {
		return "", fmt.Errorf("%w for %q", ErrPassageNotFound, reference)
	}

	text := strings.TrimSpace(strings.Join(payload.Passages, "\n\n"))
	if text == "" {
		return "", fmt.Errorf("%w for %q", ErrPassageNotFound, reference)
	}

	c.logger.Debug("Passage fetched",
		zap.String("reference", reference),
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("length", len(text)))
	return text, nil
}
