package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugDashRuns     = regexp.MustCompile(`-+`)
	slugFormat       = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// GenerateSlug derives a URL-safe slug from a display name.
// "Science Fiction" -> "science-fiction"
func GenerateSlug(input string) string {
	lower := strings.ToLower(input)
	hyphenated := strings.ReplaceAll(lower, " ", "-")
	cleaned := slugInvalidChars.ReplaceAllString(hyphenated, "")
	normalized := slugDashRuns.ReplaceAllString(cleaned, "-")
	return strings.Trim(normalized, "-")
}

// ValidSlug reports whether a caller-supplied slug is acceptable.
func ValidSlug(s string) bool {
	return s != "" && len(s) <= 50 && slugFormat.MatchString(s)
}
