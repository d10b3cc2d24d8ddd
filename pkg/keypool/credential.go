package keypool

import (
	"time"

	"lectern-hq/polaris/pkg/limits/ratelimit"
	"lectern-hq/polaris/pkg/telemetry/logging"
)

// DefaultMinCooldown is the short bench applied on unclassified failures.
const DefaultMinCooldown = 5 * time.Second

// Metadata carries vendor-specific connection overrides for one credential.
type Metadata struct {
	// BaseURL overrides the vendor's default endpoint base when non-empty
	BaseURL string
}

// Credential bundles one API secret with its vendor tag, selection weight,
// rate limiter, and failure memory. Secret, Vendor, Weight, and Metadata
// are immutable after construction; the mutable state (bucket, breaker,
// dead flag) is owned by the pool and only touched under its lock.
type Credential struct {
	// Secret is the opaque API key material
	Secret string

	// Vendor tags which dispatch path and auth scheme this secret is for
	Vendor string

	// Weight biases selection; higher weight means picked more often
	Weight int

	// MinCooldown is the short bench used for unclassified failures
	MinCooldown time.Duration

	// Metadata holds per-credential connection overrides
	Metadata Metadata

	dead    bool
	bucket  *ratelimit.TokenBucket
	breaker *Breaker
}

// NewCredential creates a credential around the given bucket. Weights below
// one are clamped to one so every credential keeps a chance of selection.
func NewCredential(secret, vendor string, weight int, bucket *ratelimit.TokenBucket) *Credential {
	if weight < 1 {
		weight = 1
	}
	return &Credential{
		Secret:      secret,
		Vendor:      vendor,
		Weight:      weight,
		MinCooldown: DefaultMinCooldown,
		bucket:      bucket,
		breaker:     NewBreaker(),
	}
}

// Healthy reports whether the credential may be selected: not dead and
// breaker closed. A rate-limited but otherwise fine credential is healthy.
func (c *Credential) Healthy() bool {
	return !c.dead && !c.breaker.IsOpen()
}

// Dead reports whether the credential was permanently retired by an auth
// failure. Dead is a one-way transition.
func (c *Credential) Dead() bool {
	return c.dead
}

// Bucket returns the credential's rate limiter.
func (c *Credential) Bucket() *ratelimit.TokenBucket {
	return c.bucket
}

// Breaker returns the credential's failure memory.
func (c *Credential) Breaker() *Breaker {
	return c.breaker
}

// MaskedSecret returns the secret in redacted form for logs and status
// output.
func (c *Credential) MaskedSecret() string {
	return logging.MaskSecret(c.Secret)
}
