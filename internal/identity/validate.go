package identity

import (
	"regexp"
	"strings"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

const passwordSpecials = "!@#$%^&*()"

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPassword enforces the seeding-time policy: at least six characters
// with a digit, an upper-case letter, a lower-case letter and one of
// !@#$%^&*().
func IsValidPassword(password string) bool {
	if len(password) < 6 {
		return false
	}

	var hasDigit, hasUpper, hasLower, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
		if strings.ContainsRune(passwordSpecials, r) {
			hasSpecial = true
		}
	}

	return hasDigit && hasUpper && hasLower && hasSpecial
}
