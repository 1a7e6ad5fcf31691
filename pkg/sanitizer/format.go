package sanitizer

import "strings"

// NormalizeEmail trims surrounding whitespace and lower-cases the address. The result is
// the identity key for accounts, so nothing else about the address is rewritten.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ExtractEmailDomain returns the lower-cased domain part, or "" for malformed input.
func ExtractEmailDomain(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[at+1:]))
}
