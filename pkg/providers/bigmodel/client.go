package bigmodel

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"lectern-hq/polaris/pkg/providers"
)

const (
	defaultBaseURL = "https://open.bigmodel.cn/api/paas/v4"

	temperature = 0.2
)

// Client dispatches chat completions to the BigModel (GLM) API.
//
// The endpoint speaks an OpenAI-compatible dialect, but message content in
// responses is not reliably a string: some deployments return a list of
// typed parts. Extraction tolerates both, plus the legacy choice.text
// fallback.
type Client struct {
	http *providers.HTTPClient
}

// NewClient creates a BigModel dispatcher with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{http: providers.NewHTTPClient("bigmodel", timeout)}
}

// Vendor returns the vendor tag.
func (c *Client) Vendor() string { return "bigmodel" }

type request struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type response struct {
	Choices []choice `json:"choices"`
}

type choice struct {
	Message *message `json:"message,omitempty"`
	Text    string   `json:"text,omitempty"`
}

type message struct {
	// Content may be a JSON string or a list of typed parts.
	Content json.RawMessage `json:"content"`
}

type contentPart struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	Content string `json:"content"`
}

// Dispatch sends one chat completion request and returns the completion text.
func (c *Client) Dispatch(ctx context.Context, target providers.Target, messages []providers.Message, model string) (string, error) {
	base := target.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	url := strings.TrimRight(base, "/") + "/chat/completions"

	req := request{
		Model:       model,
		Messages:    make([]wireMessage, len(messages)),
		Temperature: temperature,
		Stream:      false,
	}
	for i, m := range messages {
		req.Messages[i] = wireMessage{Role: m.Role, Content: m.Content}
	}

	headers := map[string]string{
		"Authorization": "Bearer " + target.Secret,
	}

	var resp response
	if err := c.http.PostJSON(ctx, url, headers, req, &resp); err != nil {
		return "", err
	}

	return extractText(resp)
}

// extractText handles the three content shapes seen in the wild: a plain
// string, a list of typed parts, and the legacy choice.text field.
func extractText(resp response) (string, error) {
	if len(resp.Choices) == 0 {
		return "", &providers.ParseError{
			Vendor: "bigmodel",
			Cause:  errors.New("completion contained no choices"),
		}
	}
	ch := resp.Choices[0]

	if ch.Message != nil && len(ch.Message.Content) > 0 {
		var s string
		if err := json.Unmarshal(ch.Message.Content, &s); err == nil && s != "" {
			return s, nil
		}

		var parts []contentPart
		if err := json.Unmarshal(ch.Message.Content, &parts); err == nil {
			var sb strings.Builder
			for _, p := range parts {
				if p.Text != "" {
					sb.WriteString(p.Text)
				} else if p.Content != "" {
					sb.WriteString(p.Content)
				}
			}
			if sb.Len() > 0 {
				return sb.String(), nil
			}
		}
	}

	if ch.Text != "" {
		return ch.Text, nil
	}

	return "", &providers.ParseError{
		Vendor: "bigmodel",
		Cause:  errors.New("completion contained no text"),
	}
}
