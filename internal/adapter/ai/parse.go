// Package ai provides model-output parsing helpers and client wrappers
// shared by the evaluation pipeline. Generated text is free-form; every
// helper here parses defensively and never panics on malformed input.
package ai

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	bulletRe     = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)]?)\s*`)
	leadingIntRe = regexp.MustCompile(`-?\d+`)
)

// ExtractSection returns the text between marker and nextMarker. The
// search is case-insensitive; an empty nextMarker (or a missing one)
// extends the section to the end of the input. Returns "" when marker
// is absent.
func ExtractSection(s, marker, nextMarker string) string {
	lower := strings.ToLower(s)
	i := strings.Index(lower, strings.ToLower(marker))
	if i == -1 {
		return ""
	}
	rest := s[i+len(marker):]
	if nextMarker != "" {
		if j := strings.Index(strings.ToLower(rest), strings.ToLower(nextMarker)); j != -1 {
			rest = rest[:j]
		}
	}
	return strings.TrimSpace(rest)
}

// StripBulletPrefix removes a leading bullet or numbering token
// ("1.", "2)", "-", "*") from a line.
func StripBulletPrefix(s string) string {
	return strings.TrimSpace(bulletRe.ReplaceAllString(s, ""))
}

// Lines splits a section into trimmed, bullet-stripped, non-empty lines.
func Lines(section string) []string {
	raw := strings.Split(section, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = StripBulletPrefix(strings.TrimSpace(l))
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// LeadingInt extracts the first integer appearing anywhere in s.
func LeadingInt(s string) (int, bool) {
	m := leadingIntRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseIntList parses up to n comma-separated integers from s, taking
// the first integer found in each token. Missing or unparsable entries
// get def. The result always has exactly n values.
func ParseIntList(s string, n, def int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = def
	}
	parts := strings.Split(s, ",")
	for i := 0; i < n && i < len(parts); i++ {
		if v, ok := LeadingInt(parts[i]); ok {
			out[i] = v
		}
	}
	return out
}

// CommaList splits a comma-separated list into trimmed non-empty items.
func CommaList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
