package util

import (
	"strings"
	"unicode/utf8"
)

// Preview returns the first n characters of s, trimmed, with "..." appended
// when s was longer than n.
func Preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// ReadTimeMinutes estimates reading time at 200 words per minute, never less than one.
func ReadTimeMinutes(s string) int {
	minutes := (WordCount(s) + 199) / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}
