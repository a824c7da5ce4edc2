package pkglog

import (
	"net/http"
	"strings"
)

// Masked replaces the value of a sensitive field in logs.
const Masked = "***"

//nolint:gochecknoglobals // global for fast reuse
var sensitiveKeys = map[string]struct{}{
	"password":         {},
	"new_password":     {},
	"current_password": {},
	"access_token":     {},
	"refresh_token":    {},
	"authorization":    {},
	"cookie":           {},
	"card_number":      {},
	"cvv":              {},
}

// IsSensitive reports whether a field or header name must not be logged.
func IsSensitive(key string) bool {
	_, found := sensitiveKeys[strings.ToLower(key)]
	return found
}

// MaskHeaders returns a copy of headers with sensitive values replaced.
func MaskHeaders(headers http.Header) http.Header {
	result := headers.Clone()
	for key := range result {
		if IsSensitive(key) {
			result.Set(key, Masked)
		}
	}
	return result
}

// MaskData walks a decoded JSON value and replaces sensitive fields.
func MaskData(v any) any {
	switch val := v.(type) {
	case map[string]any:
		masked := make(map[string]any, len(val))
		for k, v2 := range val {
			if IsSensitive(k) {
				masked[k] = Masked
			} else {
				masked[k] = MaskData(v2)
			}
		}
		return masked
	case []any:
		res := make([]any, len(val))
		for i, v2 := range val {
			res[i] = MaskData(v2)
		}
		return res
	default:
		return v
	}
}
