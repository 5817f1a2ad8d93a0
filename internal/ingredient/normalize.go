// Package ingredient turns the loosely shaped ingredient and step data found in
// recipe storage into clean, ordered string slices.
package ingredient

import "strings"

// Normalize lowercases and trims whitespace from a raw ingredient name.
// All ingredient comparisons are done on the normalized form.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeAll normalizes every name, preserving order.
func NormalizeAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = Normalize(n)
	}
	return out
}
