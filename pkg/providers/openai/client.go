package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	"lectern-hq/polaris/pkg/providers"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"

	// Content generation wants reproducible prose; temperature is pinned low.
	temperature = 0.2
)

// Client dispatches chat completions to OpenAI-compatible endpoints.
// A credential's base_url override routes the call through a proxy or
// compatible gateway instead of the official endpoint.
type Client struct {
	http *providers.HTTPClient
}

// NewClient creates an OpenAI dispatcher with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{http: providers.NewHTTPClient("openai", timeout)}
}

// Vendor returns the vendor tag.
func (c *Client) Vendor() string { return "openai" }

// request is the chat completions wire format.
type request struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type response struct {
	Choices []choice `json:"choices"`
	Usage   *usage   `json:"usage,omitempty"`
}

type choice struct {
	Message *wireMessage `json:"message,omitempty"`
	Text    string       `json:"text,omitempty"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
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

// extractText prefers choices[0].message.content and falls back to the
// legacy choices[0].text field some compatible gateways still return.
func extractText(resp response) (string, error) {
	if len(resp.Choices) > 0 {
		ch := resp.Choices[0]
		if ch.Message != nil && ch.Message.Content != "" {
			return ch.Message.Content, nil
		}
		if ch.Text != "" {
			return ch.Text, nil
		}
	}
	return "", &providers.ParseError{
		Vendor: "openai",
		Cause:  errors.New("completion contained no text"),
	}
}
