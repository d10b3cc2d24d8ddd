package providers

import "context"

// Dispatcher is the per-vendor call shape. Each upstream LLM vendor has
// exactly one implementation; adding a vendor means adding an
// implementation, not branching on vendor names through the codebase.
//
// Dispatch sends the flattened messages to the vendor using the target's
// secret (and endpoint override, when the vendor honors one) and returns
// the completion text. It must be safe for concurrent use: many in-flight
// requests share one dispatcher.
//
// Dispatch runs outside the credential pool's lock; it is the slow,
// network-bound part of a request and must never hold up selection.
type Dispatcher interface {
	// Vendor returns the vendor tag this dispatcher serves
	// (e.g. "openai", "gemini", "bigmodel").
	Vendor() string

	// Dispatch performs one vendor call and returns the completion text.
	// Errors should be *StatusError, *ParseError, or raw transport errors
	// so that Classify can map them onto the failure taxonomy.
	Dispatch(ctx context.Context, target Target, messages []Message, model string) (string, error)
}
