// Package client is the browser-analog side of the system: it decides
// whether a study can be produced with local credentials alone or must go
// through the proxy server, and it speaks the proxy's HTTP API.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/berea-app/berea/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// APIClient talks to a running proxy server.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAPIClient initializes a proxy client against baseURL, e.g.
// "http://localhost:8080".
func NewAPIClient(baseURL string, timeout time.Duration, logger *zap.Logger) *APIClient {
	return &APIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("apiclient"),
	}
}

// GenerateStudy posts a study request to the server. The server answers 200
// for every generation outcome including the error study, so a non-200 here
// means the request itself was rejected or the server is down.
func (c *APIClient) GenerateStudy(ctx context.Context, req schemas.StudyRequest) (schemas.GenerationResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return schemas.GenerationResult{}, fmt.Errorf("encoding request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate-study", bytes.NewReader(body))
	if err != nil {
		return schemas.GenerationResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return schemas.GenerationResult{}, fmt.Errorf("proxy request failed: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return schemas.GenerationResult{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return schemas.GenerationResult{}, fmt.Errorf("proxy answered status %d: %s", resp.StatusCode, string(data))
	}

	var result schemas.GenerationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return schemas.GenerationResult{}, fmt.Errorf("decoding proxy response: %w", err)
	}
	return result, nil
}

// PassageText fetches passage text through the server's ESV proxy endpoint.
func (c *APIClient) PassageText(ctx context.Context, reference string, includeHeadings bool) (string, error) {
	params := url.Values{}
	params.Set("q", reference)
	params.Set("include-headings", strconv.FormatBool(includeHeadings))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/passage?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("proxy request failed: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("proxy answered status %d: %s", resp.StatusCode, string(data))
	}

	var payload struct {
		Reference string `json:"reference"`
		Text      string `json:"text"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("decoding proxy response: %w", err)
	}
	return payload.Text, nil
}

// Healthy probes the server's health endpoint.
func (c *APIClient) Healthy(ctx context.Context) bool {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}
