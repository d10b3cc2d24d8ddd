// Package keypool implements the shared credential pool: a static set of
// vendor API credentials, each with its own token bucket and circuit
// breaker, selected by weighted rotation under a single mutex.
//
// # Selection
//
// Acquire filters to eligible credentials (alive, breaker closed, matching
// vendor), expands them by weight into a virtual list, and rotates a
// persistent cursor over it. The first candidate with spare quota wins and
// one token is consumed atomically with selection, so concurrent callers
// can never double-spend. When every candidate is dry, the one with the
// shortest finite wait is returned as a documented soft fallback without
// consuming a token.
//
// # Feedback
//
// Callers report every call outcome back through ReportSuccess and
// ReportFailure. Failure kinds map to benching policies: auth failures
// retire a credential permanently, rate limits honor the vendor's
// retry-after hint (or a randomized 8-20s window), server and network
// failures bench for a randomized 10-60s, and anything else gets the
// credential's short MinCooldown.
//
// A credential is never checked out exclusively: acquisition reserves one
// unit of quota, and the same credential may serve many in-flight requests
// up to its bucket capacity.
package keypool
