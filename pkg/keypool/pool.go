package keypool

import (
	"math/rand"
	"sync"
	"time"

	"lectern-hq/polaris/pkg/limits/ratelimit"
	"lectern-hq/polaris/pkg/providers"
)

// Cooldown windows applied per failure kind when the vendor gives no hint.
const (
	rateLimitCooldownMin = 8 * time.Second
	rateLimitCooldownMax = 20 * time.Second
	outageCooldownMin    = 10 * time.Second
	outageCooldownMax    = 60 * time.Second
)

// Pool owns a static set of credentials and hands one out per request.
// Selection is weighted rotation over the currently eligible credentials,
// and the whole acquire step (eligibility, rotation, token consumption)
// runs under one mutex so two callers can never spend the same token.
//
// The pool's composition never changes at runtime. Config reloads build a
// new pool and swap the handle at the owner.
type Pool struct {
	mu      sync.Mutex
	creds   []*Credential
	cursor  int
	rng     *rand.Rand
	now     func() time.Time
	metrics *Metrics
}

// New creates a pool over the given credentials. The cooldown randomness
// is seeded from the wall clock; use WithRand for deterministic windows.
func New(creds []*Credential) *Pool {
	return &Pool{
		creds: creds,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
	}
}

// WithRand replaces the cooldown randomness source.
func (p *Pool) WithRand(rng *rand.Rand) *Pool {
	p.rng = rng
	return p
}

// WithClock replaces the time source of the pool and of every owned bucket
// and breaker, so simulated time moves the whole assembly together.
func (p *Pool) WithClock(now func() time.Time) *Pool {
	p.now = now
	for _, c := range p.creds {
		c.bucket.WithClock(now)
		c.breaker.WithClock(now)
	}
	return p
}

// WithMetrics attaches Prometheus instrumentation.
func (p *Pool) WithMetrics(m *Metrics) *Pool {
	p.metrics = m
	return p
}

// Acquired is the result of a successful Acquire.
type Acquired struct {
	// Credential is the selected credential
	Credential *Credential

	// Fallback is true when every eligible credential was rate-limited and
	// this one was returned WITHOUT consuming a token. The caller may
	// exceed the credential's configured rate on this request.
	Fallback bool

	// Probe is true when the credential's breaker cooldown just expired
	// and this use is the first since; informational only, selection does
	// not treat probes differently.
	Probe bool
}

// Acquire selects a usable credential for the vendor (any vendor when
// empty). It walks the weighted rotation up to one full turn over the
// eligible set, returning the first credential with spare quota. If every
// candidate is dry, the one with the shortest finite wait is returned as a
// fallback without consuming a token. Returns false when no credential is
// eligible at all.
func (p *Pool) Acquire(vendor string) (*Acquired, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	eligible := make([]*Credential, 0, len(p.creds))
	for _, c := range p.creds {
		if c.dead || c.breaker.IsOpen() {
			continue
		}
		if vendor != "" && c.Vendor != vendor {
			continue
		}
		eligible = append(eligible, c)
	}

	if len(eligible) == 0 {
		p.metrics.recordAcquire(vendor, acquireNone)
		return nil, false
	}

	var fallback *Credential
	bestWait := ratelimit.InfiniteWait

	for i := 0; i < len(eligible); i++ {
		c := p.nextByWeight(eligible)
		if c == nil {
			break
		}

		if c.bucket.TryConsume(1) {
			p.metrics.recordAcquire(vendor, acquireConsumed)
			return &Acquired{
				Credential: c,
				Probe:      c.breaker.HalfOpenProbeAllowed(),
			}, true
		}

		if wait := c.bucket.TimeUntilAvailable(1); wait < bestWait {
			bestWait = wait
			fallback = c
		}
	}

	if fallback == nil {
		// Every dry candidate had an infinite wait (zero refill); nothing
		// sensible to hand out.
		p.metrics.recordAcquire(vendor, acquireNone)
		return nil, false
	}

	p.metrics.recordAcquire(vendor, acquireFallback)
	return &Acquired{
		Credential: fallback,
		Fallback:   true,
		Probe:      fallback.breaker.HalfOpenProbeAllowed(),
	}, true
}

// nextByWeight expands candidates by weight into a virtual list and takes
// the entry under the persistent cursor, advancing it by one. Callers hold
// the pool lock.
func (p *Pool) nextByWeight(candidates []*Credential) *Credential {
	expanded := make([]*Credential, 0, len(candidates))
	for _, c := range candidates {
		for i := 0; i < c.Weight; i++ {
			expanded = append(expanded, c)
		}
	}
	if len(expanded) == 0 {
		return nil
	}

	c := expanded[p.cursor%len(expanded)]
	p.cursor++
	return c
}

// ReportSuccess records a successful call on the credential, closing its
// breaker and clearing its failure count.
func (p *Pool) ReportSuccess(c *Credential) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c.breaker.RecordSuccess()
	p.metrics.recordOutcome(c.Vendor, "success")
}

// ReportFailure records a failed call, benching the credential according
// to the failure kind:
//
//   - auth: the credential is dead permanently
//   - rate_limit: cooldown is the vendor's retry-after hint, or a random
//     8-20s window without one
//   - server / network: random 10-60s window
//   - other: the credential's MinCooldown
func (p *Pool) ReportFailure(c *Credential, kind providers.FailureKind, retryAfter time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.metrics.recordOutcome(c.Vendor, kind.String())

	if kind == providers.FailureAuth {
		c.dead = true
		p.metrics.recordDead(c.Vendor)
		return
	}

	wasOpen := c.breaker.IsOpen()

	switch kind {
	case providers.FailureRateLimit:
		cooldown := retryAfter
		if cooldown <= 0 {
			cooldown = p.randDuration(rateLimitCooldownMin, rateLimitCooldownMax)
		}
		c.breaker.RecordFailure(cooldown)
	case providers.FailureServer, providers.FailureNetwork:
		c.breaker.RecordFailure(p.randDuration(outageCooldownMin, outageCooldownMax))
	default:
		c.breaker.RecordFailure(c.MinCooldown)
	}

	if !wasOpen && c.breaker.IsOpen() {
		p.metrics.recordBreakerOpen(c.Vendor)
	}
}

// HasLiveCredential reports whether any credential is currently healthy.
// Callers use it to fail fast instead of spinning on an exhausted pool.
func (p *Pool) HasLiveCredential() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, c := range p.creds {
		if c.Healthy() {
			return true
		}
	}
	return false
}

// Len returns the number of credentials in the pool, dead or alive.
func (p *Pool) Len() int {
	return len(p.creds)
}

// randDuration returns a uniformly random duration in [min, max).
func (p *Pool) randDuration(min, max time.Duration) time.Duration {
	return min + time.Duration(p.rng.Float64()*float64(max-min))
}
