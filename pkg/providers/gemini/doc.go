// Package gemini implements the Dispatcher for the Google Gemini
// generateContent API.
package gemini
