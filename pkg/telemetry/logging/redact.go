package logging

import "log/slog"

// sensitiveKeys are attribute names whose string values are masked before
// they leave the process.
var sensitiveKeys = map[string]struct{}{
	"secret":        {},
	"key":           {},
	"api_key":       {},
	"token":         {},
	"authorization": {},
}

// MaskSecret redacts credential material down to its first and last four
// characters ("sk-a…wxyz"). Values too short to keep any context are
// replaced entirely.
func MaskSecret(s string) string {
	if len(s) > 8 {
		return s[:4] + "…" + s[len(s)-4:]
	}
	return "****"
}

// redactAttr is the slog ReplaceAttr hook masking sensitive attributes.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[a.Key]; ok && a.Value.Kind() == slog.KindString {
		a.Value = slog.StringValue(MaskSecret(a.Value.String()))
	}
	return a
}
