// Package redact masks key material before it reaches logs or audit trails.
package redact

import (
	"fmt"
	"regexp"
	"strings"
)

// Secret replaces every masked value.
const Secret = "[REDACTED_SECRET]"

// keyParams are the operation parameters that carry cipher keys.
var keyParams = map[string]struct{}{
	"password": {},
	"key":      {},
	"mapping":  {},
	"shift":    {},
}

var kvSecretRe = regexp.MustCompile(`(?i)\b((?:password|key|mapping|shift)['"]?\s*[:=]\s*)(['"]?)([^\s'",}]+)(['"]?)`)

// String masks key=value and key: value pairs naming key parameters.
func String(in string) string {
	if strings.TrimSpace(in) == "" {
		return in
	}
	return kvSecretRe.ReplaceAllString(in, `$1$2`+Secret+`$4`)
}

// IsKeyParam reports whether name is a parameter holding key material.
func IsKeyParam(name string) bool {
	_, ok := keyParams[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Params masks the values of key parameters and redacts strings inside the
// others. The input is not modified.
func Params(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		if IsKeyParam(k) {
			out[k] = Secret
			continue
		}
		out[k] = Interface(v)
	}
	return out
}

// Interface redacts strings within nested values.
func Interface(value any) any {
	switch v := value.(type) {
	case string:
		return String(v)
	case fmt.Stringer:
		return String(v.String())
	case []string:
		out := make([]string, len(v))
		for i, s := range v {
			out[i] = String(s)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = Interface(elem)
		}
		return out
	case map[string]any:
		return Params(v)
	default:
		return value
	}
}
