package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lectern-hq/polaris/pkg/providers"
)

func TestDispatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Model != "gpt-4o-mini" {
			t.Errorf("model = %q, want gpt-4o-mini", req.Model)
		}
		if len(req.Messages) != 1 || req.Messages[0].Content != "hello" {
			t.Errorf("messages = %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "hi there"}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(5 * time.Second)
	got, err := c.Dispatch(context.Background(),
		providers.Target{Secret: "sk-test", BaseURL: srv.URL},
		[]providers.Message{providers.Text("user", "hello")},
		"gpt-4o-mini")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if got != "hi there" {
		t.Errorf("Dispatch() = %q, want %q", got, "hi there")
	}
}

func TestExtractText_LegacyTextField(t *testing.T) {
	got, err := extractText(response{Choices: []choice{{Text: "legacy"}}})
	if err != nil {
		t.Fatalf("extractText() error = %v", err)
	}
	if got != "legacy" {
		t.Errorf("extractText() = %q, want legacy", got)
	}
}

func TestExtractText_Empty(t *testing.T) {
	_, err := extractText(response{})
	var pe *providers.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("extractText(empty) error = %T, want *ParseError", err)
	}
}
