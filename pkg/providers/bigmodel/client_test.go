package bigmodel

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

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Stream {
			t.Error("stream should be disabled")
		}
		if req.Model != "glm-4.5" {
			t.Errorf("model = %q, want glm-4.5", req.Model)
		}

		w.Write([]byte(`{"choices":[{"message":{"content":"hi there"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(5 * time.Second)
	got, err := c.Dispatch(context.Background(),
		providers.Target{Secret: "zk-test", BaseURL: srv.URL},
		[]providers.Message{providers.Text("user", "hello")},
		"glm-4.5")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if got != "hi there" {
		t.Errorf("Dispatch() = %q, want %q", got, "hi there")
	}
}

func TestExtractText_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"string content",
			`{"choices":[{"message":{"content":"plain"}}]}`,
			"plain",
		},
		{
			"typed parts",
			`{"choices":[{"message":{"content":[{"type":"text","text":"a"},{"type":"text","text":"b"}]}}]}`,
			"ab",
		},
		{
			"parts with content field",
			`{"choices":[{"message":{"content":[{"type":"text","content":"from content"}]}}]}`,
			"from content",
		},
		{
			"legacy text field",
			`{"choices":[{"text":"legacy"}]}`,
			"legacy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp response
			if err := json.Unmarshal([]byte(tt.body), &resp); err != nil {
				t.Fatalf("unmarshal fixture: %v", err)
			}
			got, err := extractText(resp)
			if err != nil {
				t.Fatalf("extractText() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("extractText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractText_NoChoices(t *testing.T) {
	_, err := extractText(response{})
	var pe *providers.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("extractText(empty) error = %T, want *ParseError", err)
	}
}
