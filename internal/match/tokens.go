// Package match computes the rule-based relevance of a job to the user's
// preferences.
package match

import (
	"regexp"
	"strconv"
	"strings"
)

// ParseTokens splits comma-separated free text into lowercase, trimmed,
// non-empty tokens. Duplicates are dropped, keeping the first occurrence.
func ParseTokens(s string) []string {
	var tokens []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		tok := strings.ToLower(strings.TrimSpace(part))
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		tokens = append(tokens, tok)
	}
	return tokens
}

// normalizeAll lowercases and trims every entry, dropping empties.
func normalizeAll(values []string) []string {
	return ParseTokens(strings.Join(values, ","))
}

var salaryRe = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// SalaryValue extracts the first numeric token from a free-text salary range.
// Thousands separators inside the token are ignored, so "$80,000 - $120,000"
// yields 80000. Text without a number yields 0.
func SalaryValue(s string) float64 {
	tok := salaryRe.FindString(s)
	if tok == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}
