package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient is the shared HTTP base every vendor dispatcher builds on.
// It provides connection pooling, JSON encoding/decoding, and uniform
// status-to-error mapping so that classification sees the same error
// shapes regardless of vendor.
//
// Unlike the adapter's retry loop, HTTPClient performs no retries of its
// own: a failed dispatch surfaces immediately so the pool can bench the
// credential and the adapter can fail over to another one.
type HTTPClient struct {
	vendor string
	client *http.Client
}

// NewHTTPClient creates an HTTP base for one vendor with pooled
// connections and the given per-request timeout.
func NewHTTPClient(vendor string, timeout time.Duration) *HTTPClient {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPClient{
		vendor: vendor,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// PostJSON sends a JSON POST and decodes the JSON response into respBody.
//
// Non-2xx responses become *StatusError with the Retry-After header parsed;
// transport failures are returned as-is (an *url.Error) for Classify to
// pick up; undecodable bodies become *ParseError.
func (h *HTTPClient) PostJSON(ctx context.Context, url string, headers map[string]string, reqBody, respBody interface{}) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ParseError{
			Vendor: h.vendor,
			Cause:  fmt.Errorf("failed to read response: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{
			Vendor:     h.vendor,
			StatusCode: resp.StatusCode,
			Body:       string(body),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	if respBody != nil && len(body) > 0 {
		if err := json.Unmarshal(body, respBody); err != nil {
			return &ParseError{
				Vendor: h.vendor,
				Raw:    string(body),
				Cause:  fmt.Errorf("failed to unmarshal response: %w", err),
			}
		}
	}

	return nil
}

// CloseIdleConnections releases pooled connections.
func (h *HTTPClient) CloseIdleConnections() {
	h.client.CloseIdleConnections()
}

// parseRetryAfter parses the Retry-After header value.
// It supports both delay-seconds and HTTP-date formats.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}

	return 0
}
