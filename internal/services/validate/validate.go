// Package validate holds the syntactic input checks run before any I/O.
// They are advisory: the store's uniqueness constraints remain the final
// authority on username/email collisions.
package validate

import (
	"regexp"
	"unicode/utf8"
)

// MinPasswordLength is the only password policy: a lower length bound
const MinPasswordLength = 6

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
	emailRe    = regexp.MustCompile(`^[\w.+-]+@[\w-]+(\.[\w-]+)*\.[a-zA-Z]{2,}$`)
)

// Username reports whether s is 3-20 characters of letters, digits, or
// underscores
func Username(s string) bool {
	return usernameRe.MatchString(s)
}

// Email reports whether s has the shape local@domain.tld with an alphabetic
// top-level segment of at least two characters
func Email(s string) bool {
	return emailRe.MatchString(s)
}

// Password reports whether s meets the password policy
func Password(s string) bool {
	return utf8.RuneCountInString(s) >= MinPasswordLength
}

// Match reports whether a password and its confirmation are identical
func Match(a, b string) bool {
	return a == b
}
