package auditlog

import "strings"

var sensitiveFlags = map[string]struct{}{
	"--token": {},
}

// SanitizeArgs redacts sensitive flag values for audit storage. Sheet URLs
// may embed access keys, so their query strings are dropped as well.
func SanitizeArgs(args []string) []string {
	sanitized := make([]string, 0, len(args))
	skipNext := false
	stripNext := false

	for _, arg := range args {
		if skipNext {
			sanitized = append(sanitized, "<redacted>")
			skipNext = false
			continue
		}
		if stripNext {
			sanitized = append(sanitized, stripQuery(arg))
			stripNext = false
			continue
		}

		if _, ok := sensitiveFlags[arg]; ok {
			sanitized = append(sanitized, arg)
			skipNext = true
			continue
		}
		if arg == "--sheet-url" {
			sanitized = append(sanitized, arg)
			stripNext = true
			continue
		}

		if key, value, ok := strings.Cut(arg, "="); ok {
			if _, ok := sensitiveFlags[key]; ok {
				sanitized = append(sanitized, key+"=<redacted>")
				continue
			}
			if key == "--sheet-url" {
				sanitized = append(sanitized, key+"="+stripQuery(value))
				continue
			}
		}

		sanitized = append(sanitized, arg)
	}

	if skipNext {
		sanitized = append(sanitized, "<redacted>")
	}

	return sanitized
}

func stripQuery(u string) string {
	if before, _, ok := strings.Cut(u, "?"); ok {
		return before + "?<redacted>"
	}
	return u
}
