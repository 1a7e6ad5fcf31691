package sanitizer

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// StrictPolicy strips every tag and keeps text content.
	strictPolicy = bluemonday.StrictPolicy()
)

// StripHTML removes all markup from s and decodes the entities bluemonday leaves behind.
func StripHTML(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(s))
}

// RemoveControlChars drops non-printable runes such as NUL or bidi overrides, keeping
// ordinary whitespace.
func RemoveControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		if unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)
}

// SingleLine collapses any run of whitespace, newlines included, into one space and trims.
func SingleLine(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// DisplayName makes a free-form name safe to store and show: markup removed, NFC
// normalized, control characters dropped, whitespace collapsed.
func DisplayName(s string) string {
	s = RemoveControlChars(s)
	s = StripHTML(s)
	s = norm.NFC.String(s)
	return SingleLine(s)
}

// URL trims whitespace and rejects anything containing control characters or spaces by
// returning "".
func URL(s string) string {
	s = strings.TrimSpace(s)
	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return ""
		}
	}
	return s
}
