package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"
)

// FailureKind classifies a dispatch failure by its originating cause, not
// by Go error type. The pool uses the kind to decide how long to bench the
// credential that produced it.
type FailureKind int

const (
	// FailureOther is anything not classified below; short fixed cooldown.
	FailureOther FailureKind = iota

	// FailureAuth means the vendor rejected the credential (401/403).
	// The credential is dead permanently.
	FailureAuth

	// FailureRateLimit means the vendor throttled the request (429),
	// optionally with an explicit retry-after hint.
	FailureRateLimit

	// FailureServer is a vendor-side 5xx class failure.
	FailureServer

	// FailureNetwork is a transport-level failure (refused, reset, timeout).
	FailureNetwork
)

// String returns the kind's label as used in logs and metrics.
func (k FailureKind) String() string {
	switch k {
	case FailureAuth:
		return "auth"
	case FailureRateLimit:
		return "rate_limit"
	case FailureServer:
		return "server"
	case FailureNetwork:
		return "network"
	default:
		return "other"
	}
}

// Failure is the classified outcome of one failed dispatch attempt.
type Failure struct {
	// Kind is the failure classification
	Kind FailureKind

	// RetryAfter is the vendor's throttle hint, if it gave one
	RetryAfter time.Duration

	// Err is the underlying error
	Err error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.RetryAfter > 0 {
		return fmt.Sprintf("%s failure (retry after %s): %v", f.Kind, f.RetryAfter, f.Err)
	}
	return fmt.Sprintf("%s failure: %v", f.Kind, f.Err)
}

// Unwrap returns the underlying error for error chain support.
func (f *Failure) Unwrap() error {
	return f.Err
}

// StatusError is a non-2xx HTTP response from a vendor.
type StatusError struct {
	// Vendor is the vendor that returned the status
	Vendor string

	// StatusCode is the HTTP status code
	StatusCode int

	// Body is the raw error response body
	Body string

	// RetryAfter is the parsed Retry-After header, if present
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("vendor %q returned status %d: %s", e.Vendor, e.StatusCode, e.Body)
}

// ParseError is a response the vendor returned but we could not make
// sense of.
type ParseError struct {
	// Vendor is the vendor whose response failed to parse
	Vendor string

	// Raw is the raw response that failed to parse
	Raw string

	// Cause is the underlying parse error
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("vendor %q response parse error: %v", e.Vendor, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Classify maps a dispatch error onto the failure taxonomy.
//
// HTTP statuses: 401/403 are auth, 429 is rate limit (carrying the
// Retry-After hint), 5xx is server. Transport errors (connection refused,
// reset, timeout, cancelled context) are network. Everything else,
// including parse errors and unexpected 4xx, is other.
func Classify(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	var se *StatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == 401 || se.StatusCode == 403:
			return &Failure{Kind: FailureAuth, Err: err}
		case se.StatusCode == 429:
			return &Failure{Kind: FailureRateLimit, RetryAfter: se.RetryAfter, Err: err}
		case se.StatusCode >= 500 && se.StatusCode < 600:
			return &Failure{Kind: FailureServer, Err: err}
		default:
			return &Failure{Kind: FailureOther, Err: err}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Failure{Kind: FailureNetwork, Err: err}
	}

	var ne net.Error
	if errors.As(err, &ne) {
		return &Failure{Kind: FailureNetwork, Err: err}
	}

	// http.Client wraps all transport failures in *url.Error.
	var ue *url.Error
	if errors.As(err, &ue) {
		return &Failure{Kind: FailureNetwork, Err: err}
	}

	return &Failure{Kind: FailureOther, Err: err}
}
