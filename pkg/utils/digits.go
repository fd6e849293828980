package utils

import "strings"

// DigitsOnly strips every non-digit rune from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsAllDigits reports whether s is non-empty and consists only of digits.
func IsAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// TruncateDigits strips non-digits from s and truncates the result to max runes.
func TruncateDigits(s string, max int) string {
	d := DigitsOnly(s)
	if len(d) > max {
		return d[:max]
	}
	return d
}
