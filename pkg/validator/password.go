package validator

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PasswordStrengthConfig describes accepted passwords. The character classes
// are upper case, lower case, digits and everything else.
type PasswordStrengthConfig struct {
	MinLength        int
	MaxLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireDigits    bool
	RequireSpecial   bool
	MinCharClasses   int
}

func DefaultPasswordStrength() PasswordStrengthConfig {
	return PasswordStrengthConfig{MinLength: 8, MaxLength: 128, MinCharClasses: 2}
}

type charClasses struct {
	upper, lower, digit, special bool
}

func classify(s string) charClasses {
	var c charClasses
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsLower(r):
			c.lower = true
		case unicode.IsDigit(r):
			c.digit = true
		default:
			c.special = true
		}
	}
	return c
}

func (c charClasses) count() int {
	n := 0
	for _, has := range [...]bool{c.upper, c.lower, c.digit, c.special} {
		if has {
			n++
		}
	}
	return n
}

func (cfg PasswordStrengthConfig) accepts(password string) bool {
	n := utf8.RuneCountInString(password)
	if n < cfg.MinLength || (cfg.MaxLength > 0 && n > cfg.MaxLength) {
		return false
	}
	c := classify(password)
	switch {
	case cfg.RequireUppercase && !c.upper,
		cfg.RequireLowercase && !c.lower,
		cfg.RequireDigits && !c.digit,
		cfg.RequireSpecial && !c.special:
		return false
	}
	return c.count() >= cfg.MinCharClasses
}

func StrongPassword(field, value string, cfg PasswordStrengthConfig) Rule {
	msg := fmt.Sprintf("password must be %d-%d characters and mix at least %d character types",
		cfg.MinLength, cfg.MaxLength, cfg.MinCharClasses)
	return newRule(field, "password_strength", msg, func() bool {
		return cfg.accepts(value)
	})
}

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "admin123": {},
	"welcome1": {}, "letmein1": {}, "abc12345": {}, "11111111": {}, "00000000": {},
	"passw0rd": {}, "sunshine1": {}, "football1": {}, "monkey123": {}, "dragon123": {},
}

// NotCommonPassword rejects the most guessed passwords, ignoring case.
func NotCommonPassword(field, value string) Rule {
	return newRule(field, "password_common", "password is too common", func() bool {
		_, common := commonPasswords[strings.ToLower(value)]
		return !common
	})
}
