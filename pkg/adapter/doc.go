// Package adapter exposes the single call surface generation workers use:
// Chat(messages, model). It owns the static model-to-vendor table, the
// bounded retry/failover loop over the credential pool, and the feedback
// path that reports classified outcomes back to the pool.
//
// Retry semantics: a call gets maxRetries attempts. An attempt that finds
// no eligible credential sleeps briefly and still consumes budget; a
// failed dispatch benches the credential per its failure kind and the next
// attempt acquires fresh (possibly the same credential, possibly another).
// Unknown models fail immediately without touching the pool.
package adapter
