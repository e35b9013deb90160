package utils

import (
	"regexp"
	"strings"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug derives a URL slug from a product title: lower-cased, runs of
// non-alphanumerics collapsed to single hyphens.
func GenerateSlug(title string) string {
	slug := strings.ToLower(title)
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
