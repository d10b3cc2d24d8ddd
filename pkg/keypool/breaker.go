package keypool

import "time"

const (
	// DefaultFailureThreshold is the consecutive-failure count that trips
	// the breaker.
	DefaultFailureThreshold = 3

	// DefaultCooldown is the open window applied when a failure carries no
	// explicit cooldown.
	DefaultCooldown = time.Second
)

// Breaker is a credential's failure memory. A run of consecutive failures
// opens it for a cooldown window during which the credential is not
// selected; a single success closes it and clears the count.
//
// Breaker is not self-locking; the owning pool serializes access.
type Breaker struct {
	failureCount int
	lastFailure  time.Time
	openUntil    time.Time
	threshold    int
	cooldown     time.Duration
	now          func() time.Time
}

// NewBreaker creates a breaker with the default threshold and cooldown.
func NewBreaker() *Breaker {
	return &Breaker{
		threshold: DefaultFailureThreshold,
		cooldown:  DefaultCooldown,
		now:       time.Now,
	}
}

// WithClock replaces the breaker's time source for tests.
func (b *Breaker) WithClock(now func() time.Time) *Breaker {
	b.now = now
	return b
}

// RecordSuccess closes the breaker and resets the failure count.
// Safe to call in any state.
func (b *Breaker) RecordSuccess() {
	b.failureCount = 0
	b.lastFailure = time.Time{}
	b.openUntil = time.Time{}
}

// RecordFailure counts one failure. Once the count reaches the threshold
// the breaker opens for the given cooldown (the default when cooldown is
// zero or negative). Failures while already open can only extend the open
// window, never shorten it.
func (b *Breaker) RecordFailure(cooldown time.Duration) {
	b.failureCount++
	b.lastFailure = b.now()

	if b.failureCount >= b.threshold {
		if cooldown <= 0 {
			cooldown = b.cooldown
		}
		until := b.now().Add(cooldown)
		if until.After(b.openUntil) {
			b.openUntil = until
		}
	}
}

// IsOpen reports whether the breaker currently blocks the credential.
func (b *Breaker) IsOpen() bool {
	return b.now().Before(b.openUntil)
}

// HalfOpenProbeAllowed reports whether the next use of this credential is
// a cautious probe: the cooldown has expired, but no success has cleared
// the failure count yet.
func (b *Breaker) HalfOpenProbeAllowed() bool {
	return !b.IsOpen() && b.failureCount >= b.threshold
}

// FailureCount returns the current consecutive-failure count.
func (b *Breaker) FailureCount() int {
	return b.failureCount
}

// OpenFor returns how much longer the breaker stays open, or 0 when closed.
func (b *Breaker) OpenFor() time.Duration {
	if d := b.openUntil.Sub(b.now()); d > 0 {
		return d
	}
	return 0
}
