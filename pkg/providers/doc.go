// Package providers defines the vendor dispatch layer: provider-agnostic
// message types, the Dispatcher interface each vendor implements, the
// shared HTTP base, and the failure taxonomy that drives credential
// benching.
//
// # Failure taxonomy
//
// Every dispatch error is classified into exactly one of five kinds:
//
//   - auth: the vendor rejected the credential; it is dead permanently
//   - rate_limit: the vendor throttled; cooldown honors Retry-After
//   - server: vendor 5xx; medium randomized cooldown
//   - network: transport failure; medium randomized cooldown
//   - other: everything else; short fixed cooldown
//
// Classification is by originating cause, not by Go error type, so vendor
// clients only need to surface *StatusError for HTTP statuses and let
// transport errors through untouched.
//
// Vendor implementations live in the openai, gemini, and bigmodel
// sub-packages.
package providers
