// Package textx provides small text utilities used across the project.
package textx

import (
	"strings"
)

// SanitizeText removes control characters except tab/newline/CR and trims spaces.
func SanitizeText(s string) string {
	// strip control chars outside tab/newline/carriage return
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// ContentWords splits s into lowercase whitespace-separated words longer
// than three characters. Short function words are dropped so overlap
// heuristics compare meaningful vocabulary only.
func ContentWords(s string) []string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	out := make([]string, 0, len(fields))
	for _, w := range fields {
		if len(w) > 3 {
			out = append(out, w)
		}
	}
	return out
}

// Sentences splits s on sentence terminators and newlines, returning the
// trimmed non-empty fragments.
func Sentences(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ContainsWord reports whether needle appears in the haystack word list.
func ContainsWord(words []string, needle string) bool {
	for _, w := range words {
		if w == needle {
			return true
		}
	}
	return false
}
