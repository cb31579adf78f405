package models

import "strings"

// Slugify turns a display name into a URL-safe slug: lowercase, runs of
// non-alphanumerics collapsed to single hyphens, no leading or trailing
// hyphen. Derived slugs are recomputed on every name write.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
