package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lectern-hq/polaris/pkg/providers"
)

func TestDispatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if want := "/models/gemini-1.5-flash:generateContent"; r.URL.Path != want {
			t.Errorf("path = %q, want %q", r.URL.Path, want)
		}
		if got := r.URL.Query().Get("key"); got != "gm-test" {
			t.Errorf("key query param = %q, want gm-test", got)
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 {
			t.Fatalf("contents = %+v", req.Contents)
		}
		transcript := req.Contents[0].Parts[0].Text
		if !strings.Contains(transcript, "system: be brief") ||
			!strings.Contains(transcript, "user: hello") {
			t.Errorf("transcript = %q", transcript)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "hi there"}},
				}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(5 * time.Second)
	got, err := c.Dispatch(context.Background(),
		providers.Target{Secret: "gm-test", BaseURL: srv.URL},
		[]providers.Message{
			providers.Text("system", "be brief"),
			providers.Text("user", "hello"),
		},
		"gemini-1.5-flash")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if got != "hi there" {
		t.Errorf("Dispatch() = %q, want %q", got, "hi there")
	}
}

func TestDispatch_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewClient(5 * time.Second)
	_, err := c.Dispatch(context.Background(),
		providers.Target{Secret: "gm-test", BaseURL: srv.URL},
		[]providers.Message{providers.Text("user", "hello")},
		"gemini-1.5-flash")

	var pe *providers.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Dispatch() error = %T, want *ParseError", err)
	}
}
