package store

import (
	"regexp"
	"strings"
)

// maxSlugLen bounds title slugs so tag names stay within git ref-name
// limits once the numeric prefix and author are added.
const maxSlugLen = 24

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify normalizes a free-text title into a filesystem- and ref-safe slug:
// lowercased, runs of characters outside [a-z0-9] collapsed to single
// underscores, truncated to maxSlugLen, leading and trailing underscores
// stripped. Slugify is idempotent.
func Slugify(title string) string {
	s := nonSlugRe.ReplaceAllString(strings.ToLower(title), "_")
	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
	}
	return strings.Trim(s, "_")
}
