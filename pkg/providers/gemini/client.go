package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lectern-hq/polaris/pkg/providers"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	temperature = 0.2
)

// Client dispatches generateContent requests to the Gemini API.
//
// Gemini has no multi-message chat shape in this API version; the
// conversation is rendered into a single "role: content" transcript. The
// secret travels as a query parameter, so request URLs must never be
// logged verbatim.
type Client struct {
	http *providers.HTTPClient
}

// NewClient creates a Gemini dispatcher with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{http: providers.NewHTTPClient("gemini", timeout)}
}

// Vendor returns the vendor tag.
func (c *Client) Vendor() string { return "gemini" }

type request struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type response struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content struct {
		Parts []part `json:"parts"`
	} `json:"content"`
}

// Dispatch sends one generateContent request and returns the first
// candidate's text.
func (c *Client) Dispatch(ctx context.Context, target providers.Target, messages []providers.Message, model string) (string, error) {
	base := target.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(base, "/"), model, target.Secret)

	lines := make([]string, len(messages))
	for i, m := range messages {
		lines[i] = m.Role + ": " + m.Content
	}

	req := request{
		Contents:         []content{{Parts: []part{{Text: strings.Join(lines, "\n")}}}},
		GenerationConfig: generationConfig{Temperature: temperature},
	}

	var resp response
	if err := c.http.PostJSON(ctx, url, nil, req, &resp); err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &providers.ParseError{
			Vendor: "gemini",
			Cause:  errors.New("response contained no candidates"),
		}
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
