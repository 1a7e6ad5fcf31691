package validator

import (
	"fmt"
	"net/mail"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"
)

func MinNum[T Numeric](field string, value, min T) Rule {
	return newRule(field, "min", fmt.Sprintf("must be at least %v", min), func() bool {
		return value >= min
	})
}

func MaxNum[T Numeric](field string, value, max T) Rule {
	return newRule(field, "max", fmt.Sprintf("must be at most %v", max), func() bool {
		return value <= max
	})
}

// NumBetween is inclusive on both ends.
func NumBetween[T Numeric](field string, value, min, max T) Rule {
	return newRule(field, "between", fmt.Sprintf("must be between %v and %v", min, max), func() bool {
		return value >= min && value <= max
	})
}

// RequiredString fails on empty or whitespace-only values.
func RequiredString(field, value string) Rule {
	return newRule(field, "required", "field is required", func() bool {
		return strings.TrimSpace(value) != ""
	})
}

// MaxLenString counts runes, not bytes.
func MaxLenString(field, value string, max int) Rule {
	return newRule(field, "max_length", fmt.Sprintf("must be at most %d characters long", max), func() bool {
		return utf8.RuneCountInString(value) <= max
	})
}

func InListString(field, value string, allowed []string) Rule {
	return newRule(field, "in_list", "must be one of: "+strings.Join(allowed, ", "), func() bool {
		return slices.Contains(allowed, value)
	})
}

// ValidEmail accepts a bare address whose domain has at least two non-empty
// labels. Display-name forms such as "Bob <bob@example.com>" are rejected.
func ValidEmail(field, value string) Rule {
	return newRule(field, "email", "must be a valid email address", func() bool {
		addr, err := mail.ParseAddress(value)
		if err != nil || addr.Address != strings.TrimSpace(value) {
			return false
		}
		at := strings.LastIndexByte(addr.Address, '@')
		if at <= 0 {
			return false
		}
		domain := addr.Address[at+1:]
		if !strings.Contains(domain, ".") {
			return false
		}
		return !slices.Contains(strings.Split(domain, "."), "")
	})
}

// ValidURLWithScheme requires an absolute URL with a host and one of schemes.
func ValidURLWithScheme(field, value string, schemes []string) Rule {
	msg := fmt.Sprintf("must be a valid URL (%s)", strings.Join(schemes, ", "))
	return newRule(field, "url", msg, func() bool {
		u, err := url.ParseRequestURI(value)
		return err == nil && u.Host != "" && slices.Contains(schemes, strings.ToLower(u.Scheme))
	})
}

func ValidHTTPURL(field, value string) Rule {
	return ValidURLWithScheme(field, value, []string{"http", "https"})
}
