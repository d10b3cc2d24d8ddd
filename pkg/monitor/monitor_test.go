package monitor

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"lectern-hq/polaris/pkg/keypool"
	"lectern-hq/polaris/pkg/limits/ratelimit"
	"lectern-hq/polaris/pkg/providers"
)

func buildPool(t *testing.T) *keypool.Pool {
	t.Helper()

	live := keypool.NewCredential("sk-live", "openai", 1, ratelimit.NewTokenBucket(10, 1))
	dead := keypool.NewCredential("sk-dead", "openai", 1, ratelimit.NewTokenBucket(10, 1))
	benched := keypool.NewCredential("sk-benched", "gemini", 1, ratelimit.NewTokenBucket(10, 1))

	pool := keypool.New([]*keypool.Credential{live, dead, benched})
	pool.ReportFailure(dead, providers.FailureAuth, 0)
	for i := 0; i < keypool.DefaultFailureThreshold; i++ {
		pool.ReportFailure(benched, providers.FailureServer, 0)
	}
	return pool
}

func TestSummarize(t *testing.T) {
	m := New(buildPool(t), "@daily", "", slog.New(slog.NewTextHandler(io.Discard, nil)))

	s := m.Summarize()
	if s.Total != 3 || s.Live != 1 || s.Dead != 1 || s.Open != 1 {
		t.Errorf("summary = total %d live %d dead %d open %d, want 3/1/1/1",
			s.Total, s.Live, s.Dead, s.Open)
	}

	oa := s.Vendors["openai"]
	if oa.Total != 2 || oa.Live != 1 || oa.Dead != 1 {
		t.Errorf("openai health = %+v, want total 2 live 1 dead 1", oa)
	}
	gm := s.Vendors["gemini"]
	if gm.Total != 1 || gm.Open != 1 {
		t.Errorf("gemini health = %+v, want total 1 open 1", gm)
	}
}

func TestReport_PushesWebhook(t *testing.T) {
	received := make(chan Summary, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", got)
		}
		var s Summary
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			t.Errorf("decoding webhook payload: %v", err)
		}
		received <- s
	}))
	defer srv.Close()

	m := New(buildPool(t), "@daily", srv.URL, slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.Report()

	select {
	case s := <-received:
		if s.Total != 3 || s.Live != 1 {
			t.Errorf("webhook summary = %+v", s)
		}
	default:
		t.Fatal("webhook was never called")
	}
}

func TestStart_RejectsBadSchedule(t *testing.T) {
	m := New(buildPool(t), "not a cron expression", "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := m.Start(); err == nil {
		m.Stop()
		t.Error("Start() accepted an invalid schedule")
	}
}

func TestStartStop(t *testing.T) {
	m := New(buildPool(t), "@every 1h", "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := m.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	m.Stop()
}
