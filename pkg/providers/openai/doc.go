// Package openai implements the Dispatcher for OpenAI chat completions and
// OpenAI-compatible gateways selected via a credential's base_url override.
package openai
