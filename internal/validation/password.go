// Package validation contains input validation helpers for user-supplied
// credentials and identifiers.
package validation

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

const (
	minPasswordLength = 12
	maxPasswordLength = 128
	maxEmailLength    = 254
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{1,30}[a-zA-Z0-9]$`)

// ValidatePassword enforces the password policy: length bounds plus at
// least one upper-case letter, one lower-case letter, one digit, and one
// special character. Lengths are counted in runes so multibyte characters
// are not penalized.
func ValidatePassword(password string) error {
	runes := []rune(password)
	if len(runes) < minPasswordLength {
		return errors.New("password must be at least 12 characters long")
	}
	if len(runes) > maxPasswordLength {
		return errors.New("password must be at most 128 characters long")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	if !hasUpper {
		return errors.New("password must contain an upper-case letter")
	}
	if !hasLower {
		return errors.New("password must contain a lower-case letter")
	}
	if !hasDigit {
		return errors.New("password must contain a digit")
	}
	if !hasSpecial {
		return errors.New("password must contain a special character")
	}
	return nil
}

// ValidateUsername enforces the username policy: 3 to 32 characters,
// letters, digits, underscores, and dashes, starting and ending with a
// letter or digit.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return errors.New("username must be 3-32 characters of letters, digits, underscores, or dashes, starting and ending with a letter or digit")
	}
	return nil
}

// ValidateEmail enforces a syntactically valid address of at most 254
// characters. mail.ParseAddress accepts display names and some forms we do
// not want from a signup form, so a few extra checks tighten it up.
func ValidateEmail(email string) error {
	if len(email) > maxEmailLength {
		return errors.New("email must be at most 254 characters long")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("email address is not valid")
	}
	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	if !strings.Contains(domain, ".") || strings.HasSuffix(domain, ".") {
		return errors.New("email address is not valid")
	}
	return nil
}
