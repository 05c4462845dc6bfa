package util

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	nonSlugChars   = regexp.MustCompile(`[^a-z0-9]+`)
	repeatedDashes = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a name into a URL-safe slug: lowercase, alphanumerics
// with single dashes, no leading or trailing dashes.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = repeatedDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// SlugWithSuffix appends a short random hex suffix to a slug, used to
// resolve collisions against existing slugs.
func SlugWithSuffix(slug string) string {
	return slug + "-" + randomHex(4)
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the platform is broken; fall back
		// to a fixed suffix rather than panic in a request path.
		return "0000"
	}
	return hex.EncodeToString(b)[:n]
}
