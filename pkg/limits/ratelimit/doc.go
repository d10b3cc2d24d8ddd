// Package ratelimit provides the per-credential token bucket used by the
// credential pool.
//
// The bucket uses continuous, fractional refill: a credential configured
// for 90 requests/minute gains 1.5 tokens per second, so quota becomes
// available smoothly rather than in one-minute steps. Capacity bounds the
// burst a fresh or idle credential can absorb.
//
// Buckets are deliberately not self-locking. The owning pool serializes
// every bucket operation under its own mutex so that credential selection
// and token consumption form one atomic step.
package ratelimit
