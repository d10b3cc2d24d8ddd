package keypool

import "time"

// CredentialStatus is one credential's state at a point in time, with the
// secret already masked. Produced for the monitor and the status CLI.
type CredentialStatus struct {
	Secret       string        `json:"secret"`
	Vendor       string        `json:"vendor"`
	Weight       int           `json:"weight"`
	Dead         bool          `json:"dead"`
	Open         bool          `json:"open"`
	OpenFor      time.Duration `json:"open_for"`
	Failures     int           `json:"failures"`
	TokensLeft   float64       `json:"tokens_left"`
	BurstCeiling float64       `json:"burst_ceiling"`
}

// Snapshot returns the current state of every credential. It takes the
// pool lock, so calling it from a hot path is discouraged; the monitor
// calls it on a schedule.
func (p *Pool) Snapshot() []CredentialStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]CredentialStatus, len(p.creds))
	for i, c := range p.creds {
		out[i] = CredentialStatus{
			Secret:       c.MaskedSecret(),
			Vendor:       c.Vendor,
			Weight:       c.Weight,
			Dead:         c.dead,
			Open:         c.breaker.IsOpen(),
			OpenFor:      c.breaker.OpenFor(),
			Failures:     c.breaker.FailureCount(),
			TokensLeft:   c.bucket.Remaining(),
			BurstCeiling: c.bucket.Capacity(),
		}
	}
	return out
}
