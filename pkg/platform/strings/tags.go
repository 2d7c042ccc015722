// Package strings has helpers for user-supplied string lists.
package strings

import (
	"slices"
	"strings"
)

// Normalize applies norm to every trimmed value, drops blanks and keeps the
// first occurrence of each result. Order is preserved. A nil norm only trims.
func Normalize(values []string, norm func(string) string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if norm != nil {
			v = norm(v)
		}
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Tags lower-cases and deduplicates tag input, so "Tutoring" and " tutoring"
// select the same tag.
func Tags(values []string) []string {
	return Normalize(values, strings.ToLower)
}
