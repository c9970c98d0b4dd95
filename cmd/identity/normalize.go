package identity

import "strings"

// NormalizeEmail performs case-insensitive canonicalization.
// The normalized form is the uniqueness and lookup key; the entered spelling is kept for display.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeName trims surrounding whitespace from a display name.
func NormalizeName(s string) string {
	return strings.TrimSpace(s)
}
