// Package validate holds the pure input validation rules for registration,
// posts, and profile updates. Checks are small predicates; handlers apply
// them in order and stop at the first failure.
package validate

import (
	"regexp"
	"strings"
)

// Field length limits. Content limits count characters excluding newlines,
// so a multi-line text is measured by its visible characters.
const (
	MaxUsernameLen = 20
	MaxTitleLen    = 100
	MaxAboutLen    = 500
	MaxContentLen  = 5000
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_ ]+$`)
	emailRe    = regexp.MustCompile(`^[A-Za-z0-9]+[._]?[A-Za-z0-9]+@\w+\.\w+$`)
)

// AllPresent reports whether every field is non-empty.
func AllPresent(fields ...string) bool {
	for _, f := range fields {
		if f == "" {
			return false
		}
	}
	return true
}

// Username reports whether a username uses only letters, digits,
// underscores, and spaces, within the length limit.
func Username(s string) bool {
	if s == "" || len([]rune(s)) > MaxUsernameLen {
		return false
	}
	return usernameRe.MatchString(s)
}

// Email reports whether an email address matches the accepted pattern.
func Email(s string) bool {
	return emailRe.MatchString(s)
}

// VisibleLen counts characters excluding newlines.
func VisibleLen(s string) int {
	return len([]rune(s)) - strings.Count(s, "\n")
}

// WithinLimit reports whether the text's visible length is at most limit.
func WithinLimit(s string, limit int) bool {
	return VisibleLen(s) <= limit
}
