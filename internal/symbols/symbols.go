// Package symbols normalizes user-supplied ticker symbols.
//
// The canonical form keys every cache, rate-limit bookkeeping entry and
// ranking row. Provider-specific forms are derived from it, never from
// raw input.
package symbols

import "strings"

// marketSuffix is the Tokyo Stock Exchange suffix expected by the
// primary provider for domestic codes.
const marketSuffix = ".T"

// Canonical returns the normalized provider-agnostic form of a raw
// ticker: trimmed, uppercased, exchange suffix stripped. Empty input
// yields an empty string; callers reject that before hitting providers.
func Canonical(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	return strings.TrimSuffix(s, marketSuffix)
}

// Primary returns the primary provider's form of a canonical symbol.
// Purely numeric codes are TSE-listed by convention and get the market
// suffix; everything else passes through unchanged.
func Primary(canonical string) string {
	if canonical != "" && isDigits(canonical) {
		return canonical + marketSuffix
	}
	return canonical
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
