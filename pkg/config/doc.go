// Package config loads the two configuration surfaces of the module.
//
// The credential file is JSON and comes in two shapes: the multi-key shape
// with per-key vendor, weight, rpm, capacity, and base_url, and the legacy
// single-key shape kept for old deployments (a top-level llm_key plus a
// base URL in one of the settings sections). A missing credential file is
// not an error; it builds an empty pool.
//
// The runtime configuration is YAML (logging, adapter tuning, monitor
// schedule) with POLARIS_* environment overrides and a
// load -> defaults -> override -> validate sequence.
package config
