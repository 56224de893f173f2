// internal/tenant/slug.go
//
// Slug derivation for new tenants.
//
// • MakeSlug(name) converts a business name into a URL-safe slug
//   restricted to ASCII a-z, 0-9 and “-”.
//
// Rules
// -----
// 1. Lower-case everything.
// 2. Convert any run of non-[a-z0-9] characters to one “-”.  That strips
//    spaces, punctuation, emoji, and non-ASCII.
// 3. Collapse consecutive “-” to a single “-”.
// 4. Trim leading / trailing “-”.
// 5. If the result is empty, return "tenant".
//
// Notes
// -----
// • No Unicode transliteration; Slovenian diacritics (č, š, ž) collapse to
//   a dash run like any other non-ASCII rune, so admins should prefer
//   ASCII names or edit the generated slug.
// • Slugs are capped at 100 bytes; callers may truncate earlier.
package tenant

import "strings"

// MakeSlug converts a display name → lower-kebab ASCII.
func MakeSlug(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastWasDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasDash = false
		default:
			// any non-ASCII or punctuation becomes a single dash
			if !lastWasDash {
				b.WriteRune('-')
				lastWasDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "tenant"
	}
	if len(slug) > 100 {
		slug = slug[:100]
		slug = strings.TrimRightFunc(slug, func(r rune) bool { return r == '-' })
	}
	return slug
}
