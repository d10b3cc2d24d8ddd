package ratelimit

import (
	"math"
	"time"
)

// InfiniteWait is returned by TimeUntilAvailable when the requested tokens
// can never become available (zero refill rate).
const InfiniteWait = time.Duration(math.MaxInt64)

// TokenBucket implements the token bucket rate limiting algorithm with
// continuous (fractional) refill.
//
// Tokens accumulate at refillRate per second, capped at capacity, and the
// stock is topped up on every observation rather than on a fixed tick. This
// allows bursts up to the capacity while bounding the sustained rate.
//
// TokenBucket is NOT safe for concurrent use on its own. The credential
// pool owns every bucket and serializes access under its mutex; this keeps
// "select a credential" and "consume one token" atomic with respect to
// other acquirers, which a per-bucket lock could not guarantee.
type TokenBucket struct {
	capacity   float64   // Maximum tokens in bucket
	tokens     float64   // Current available tokens
	refillRate float64   // Tokens added per second
	lastRefill time.Time // Last time tokens were refilled
	now        func() time.Time
}

// NewTokenBucket creates a new token bucket.
//
// Parameters:
//   - capacity: Maximum number of tokens in the bucket (burst size)
//   - refillRate: Number of tokens added per second (average rate)
//
// The bucket starts full, so a fresh credential can serve an immediate
// burst up to its capacity.
func NewTokenBucket(capacity, refillRate float64) *TokenBucket {
	tb := &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		now:        time.Now,
	}
	tb.lastRefill = tb.now()
	return tb
}

// WithClock replaces the bucket's time source. Tests use this to simulate
// elapsed time without sleeping.
func (tb *TokenBucket) WithClock(now func() time.Time) *TokenBucket {
	tb.now = now
	tb.lastRefill = now()
	return tb
}

// TryConsume attempts to consume n tokens from the bucket.
// Returns true if tokens were available and consumed, false otherwise.
// The refill that happens on the way in is the only side effect of a
// failed attempt.
func (tb *TokenBucket) TryConsume(n float64) bool {
	tb.refill()

	if tb.tokens >= n {
		tb.tokens -= n
		return true
	}

	return false
}

// TimeUntilAvailable returns how long until n tokens will be available.
// Returns 0 if the tokens are immediately consumable, and InfiniteWait if
// the bucket never refills.
func (tb *TokenBucket) TimeUntilAvailable(n float64) time.Duration {
	tb.refill()

	if tb.tokens >= n {
		return 0
	}
	if tb.refillRate <= 0 {
		return InfiniteWait
	}

	needed := n - tb.tokens
	return time.Duration(needed / tb.refillRate * float64(time.Second))
}

// Remaining returns the current token stock after refilling.
func (tb *TokenBucket) Remaining() float64 {
	tb.refill()
	return tb.tokens
}

// Capacity returns the maximum bucket capacity.
func (tb *TokenBucket) Capacity() float64 {
	return tb.capacity
}

// refill adds tokens based on elapsed time since the last refill,
// capped at capacity.
func (tb *TokenBucket) refill() {
	now := tb.now()
	elapsed := now.Sub(tb.lastRefill).Seconds()

	if elapsed > 0 {
		tb.tokens = math.Min(tb.capacity, tb.tokens+elapsed*tb.refillRate)
	}
	tb.lastRefill = now
}
