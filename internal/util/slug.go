// Package util provides common utility functions.
package util

import (
	"regexp"
	"strings"
)

// MaxSlugLength is the longest slug Slugify produces.
const MaxSlugLength = 50

var (
	// Matches everything outside lowercase ASCII letters, digits and spaces.
	slugDisallowedRe = regexp.MustCompile(`[^a-z0-9 ]`)
	// Matches runs of whitespace.
	whitespaceRunRe = regexp.MustCompile(`\s+`)
)

// Slugify derives the URL slug for an essay title or tag name.
//
// Rules, applied in order:
//  1. Lowercase
//  2. Remove every character outside [a-z0-9 ]
//  3. Replace each run of whitespace with a single dash
//  4. Truncate to 50 characters
//
// Examples:
//
//	"Hello World"       → "hello-world"
//	"Self-Improvement"  → "selfimprovement"
//	"What's  Next?"     → "whats-next"
//
// Slugs are not unique by construction; callers check for collisions.
func Slugify(input string) string {
	s := strings.ToLower(input)
	s = slugDisallowedRe.ReplaceAllString(s, "")
	s = whitespaceRunRe.ReplaceAllString(s, "-")

	// Only ASCII survives step 2, so byte truncation is safe.
	if len(s) > MaxSlugLength {
		s = s[:MaxSlugLength]
	}
	return s
}
