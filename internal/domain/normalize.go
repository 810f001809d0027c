package domain

import (
	"strings"
)

// NormalizeName returns the uniqueness key of a name: trimmed and lowercased.
// Internal whitespace is significant.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
