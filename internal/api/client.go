// Package api provides the HTTP client for the metering service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/barkgg/barkdash/internal/logger"
	"github.com/barkgg/barkdash/internal/models"
)

const apiKeyHeader = "x-api-key"

var (
	// ErrInvalidKey signals a 401 from the metering service.
	ErrInvalidKey = errors.New("invalid API key")
	// ErrAccessDenied signals a 403 from the metering service.
	ErrAccessDenied = errors.New("access denied")
)

// StatusError wraps any other non-2xx response status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: %d", e.StatusCode)
}

// Client talks to the metering service. A zero timeout on the provided
// http.Client is replaced with a 30 second default.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchUsage retrieves the usage snapshot for an API key over the
// given date range. On any non-2xx status no partially-parsed record
// is returned.
func (c *Client) FetchUsage(ctx context.Context, apiKey string, rng models.DateRange) (models.UsageRecord, error) {
	if apiKey == "" {
		return models.UsageRecord{}, fmt.Errorf("API key is empty")
	}

	query := url.Values{}
	query.Set("from", rng.From)
	query.Set("to", rng.To)

	body, err := c.get(ctx, apiKey, "/usage?"+query.Encode())
	if err != nil {
		return models.UsageRecord{}, err
	}

	var record models.UsageRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return models.UsageRecord{}, fmt.Errorf("failed to parse usage response: %w", err)
	}
	return record, nil
}

// FetchMetrics retrieves per-endpoint latency metrics for an API key.
func (c *Client) FetchMetrics(ctx context.Context, apiKey string) (models.MetricsResponse, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is empty")
	}

	body, err := c.get(ctx, apiKey, "/metrics")
	if err != nil {
		return nil, err
	}

	var metrics models.MetricsResponse
	if err := json.Unmarshal(body, &metrics); err != nil {
		return nil, fmt.Errorf("failed to parse metrics response: %w", err)
	}
	return metrics, nil
}

// SendEmergencyAlert posts an emergency alert for an API key. Success
// is any 2xx; the response carries no payload.
func (c *Client) SendEmergencyAlert(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("API key is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emergency-alert", nil)
	if err != nil {
		return fmt.Errorf("failed to create alert request: %w", err)
	}
	req.Header.Set(apiKeyHeader, apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("alert request failed: %w", err)
	}
	defer closeBody(resp.Body)

	if err := statusError(resp.StatusCode); err != nil {
		return err
	}
	return nil
}

func (c *Client) get(ctx context.Context, apiKey, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer closeBody(resp.Body)

	if err := statusError(resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return ErrInvalidKey
	case code == http.StatusForbidden:
		return ErrAccessDenied
	default:
		return &StatusError{StatusCode: code}
	}
}

func closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		logger.Error("failed to close response body", "error", err)
	}
}
