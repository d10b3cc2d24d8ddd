// Package logging builds the structured loggers used across the module and
// keeps credential material out of log output. Every logger constructed
// here masks attributes named like secrets (secret, key, token, ...), and
// MaskSecret is exported for call sites that embed key material in other
// strings.
package logging
