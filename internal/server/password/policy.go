// Package password holds the password rules and the bcrypt hasher used by
// the auth workflows.
package password

import (
	"unicode/utf8"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// MinLength is the minimum number of characters a password must have.
const MinLength = 8

// Policy decides whether a plaintext password is acceptable.
//
// A password is valid when it has at least MinLength characters, at least
// one ASCII letter and at least one ASCII digit. There is no upper bound and
// no special-character rule.
type Policy struct{}

// IsValid reports whether password satisfies the policy.
func (Policy) IsValid(password string) bool {
	if utf8.RuneCountInString(password) < MinLength {
		return false
	}

	var hasLetter, hasDigit bool
	for i := 0; i < len(password); i++ {
		c := password[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			hasLetter = true
		case c >= '0' && c <= '9':
			hasDigit = true
		}
		if hasLetter && hasDigit {
			return true
		}
	}
	return false
}

// Validate returns common.ErrInvalidPassword when password is not valid.
func (p Policy) Validate(password string) error {
	if !p.IsValid(password) {
		return common.ErrInvalidPassword
	}
	return nil
}
