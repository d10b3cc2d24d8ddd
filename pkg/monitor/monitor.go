package monitor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"lectern-hq/polaris/pkg/keypool"
)

const webhookTimeout = 10 * time.Second

// Monitor reports pool health on a cron schedule: a structured log line
// per run, and optionally a JSON summary POSTed to a webhook so an
// operations channel sees credential decay before the pool runs dry.
type Monitor struct {
	pool       *keypool.Pool
	schedule   string
	webhookURL string
	log        *slog.Logger
	client     *http.Client
	cron       *cron.Cron
}

// Summary is the per-run health report.
type Summary struct {
	Time    time.Time               `json:"time"`
	Total   int                     `json:"total"`
	Live    int                     `json:"live"`
	Dead    int                     `json:"dead"`
	Open    int                     `json:"open"`
	Vendors map[string]VendorHealth `json:"vendors"`
}

// VendorHealth aggregates credential state for one vendor.
type VendorHealth struct {
	Total int `json:"total"`
	Live  int `json:"live"`
	Dead  int `json:"dead"`
	Open  int `json:"open"`
}

// New creates a monitor over the pool. schedule is a standard cron
// expression; webhookURL may be empty to log only.
func New(pool *keypool.Pool, schedule, webhookURL string, log *slog.Logger) *Monitor {
	if log == nil {
		log = slog.Default()
	}
	return &Monitor{
		pool:       pool,
		schedule:   schedule,
		webhookURL: webhookURL,
		log:        log,
		client:     &http.Client{Timeout: webhookTimeout},
	}
}

// Start schedules the report job. Returns an error when the cron
// expression does not parse.
func (m *Monitor) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(m.schedule, m.Report); err != nil {
		return fmt.Errorf("invalid monitor schedule %q: %w", m.schedule, err)
	}
	c.Start()
	m.cron = c

	m.log.Info("pool monitor started", "schedule", m.schedule)
	return nil
}

// Stop cancels the schedule. In-flight reports finish.
func (m *Monitor) Stop() {
	if m.cron != nil {
		m.cron.Stop()
	}
}

// Report snapshots the pool, logs the aggregate, and pushes the webhook
// when configured. Exported so the status CLI can run it once on demand.
func (m *Monitor) Report() {
	summary := m.Summarize()

	m.log.Info("pool health",
		"total", summary.Total,
		"live", summary.Live,
		"dead", summary.Dead,
		"open", summary.Open,
	)

	if summary.Live == 0 && summary.Total > 0 {
		m.log.Warn("no live credential in pool")
	}

	if m.webhookURL != "" {
		if err := m.push(summary); err != nil {
			m.log.Error("pool health webhook push failed", "error", err)
		}
	}
}

// Summarize aggregates the pool snapshot per vendor.
func (m *Monitor) Summarize() Summary {
	snapshot := m.pool.Snapshot()

	summary := Summary{
		Time:    time.Now(),
		Total:   len(snapshot),
		Vendors: make(map[string]VendorHealth),
	}

	for _, cs := range snapshot {
		vh := summary.Vendors[cs.Vendor]
		vh.Total++
		switch {
		case cs.Dead:
			vh.Dead++
			summary.Dead++
		case cs.Open:
			vh.Open++
			summary.Open++
		default:
			vh.Live++
			summary.Live++
		}
		summary.Vendors[cs.Vendor] = vh
	}

	return summary
}

// push POSTs the summary as JSON to the webhook.
func (m *Monitor) push(summary Summary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal health summary: %w", err)
	}

	resp, err := m.client.Post(m.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
