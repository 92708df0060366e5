package auth

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	upperRe  = regexp.MustCompile(`[A-Z]`)
	lowerRe  = regexp.MustCompile(`[a-z]`)
	numberRe = regexp.MustCompile(`[0-9]`)
	symbolRe = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{}|;':",./<>?~]`)
)

// PasswordPolicy is the client-side password rule set.
type PasswordPolicy struct {
	MinLength     int
	MaxLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireNumber bool
	RequireSymbol bool
}

// DefaultPasswordPolicy returns the stock policy.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:     8,
		MaxLength:     128,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
		RequireSymbol: true,
	}
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail returns a user facing message, or "" when valid.
func ValidateEmail(email string) string {
	e := NormalizeEmail(email)
	if e == "" {
		return "Email is required"
	}
	if !emailRe.MatchString(e) {
		return "Invalid email format"
	}
	return ""
}

// Validate returns a user facing message, or "" when pw satisfies p.
func (p PasswordPolicy) Validate(pw string) string {
	if pw == "" {
		return "Password is required"
	}
	n := utf8.RuneCountInString(pw)
	if n < p.MinLength {
		return fmt.Sprintf("Password must be at least %d characters", p.MinLength)
	}
	if p.MaxLength > 0 && n > p.MaxLength {
		return fmt.Sprintf("Password must be at most %d characters", p.MaxLength)
	}
	if p.RequireUpper && !upperRe.MatchString(pw) {
		return "Password must contain an uppercase letter"
	}
	if p.RequireLower && !lowerRe.MatchString(pw) {
		return "Password must contain a lowercase letter"
	}
	if p.RequireNumber && !numberRe.MatchString(pw) {
		return "Password must contain a number"
	}
	if p.RequireSymbol && !symbolRe.MatchString(pw) {
		return "Password must contain a symbol"
	}
	return ""
}
