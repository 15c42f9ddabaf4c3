// Package validation provides input validation utilities.
package validation

import (
	"fmt"
	"regexp"
	"time"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Username length bounds for public profile usernames.
const (
	MinUsernameLen = 5
	MaxUsernameLen = 30
)

// GeneratedUsernameLen is the length of auto-generated usernames assigned at
// account creation.
const GeneratedUsernameLen = 16

// UsernameAlphabet is the character set used for generated usernames.
const UsernameAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_"

// ValidateProfileUsername checks length bounds and the allowed character set.
// The character-set error is deliberately distinct from the uniqueness error
// the profile service produces.
func ValidateProfileUsername(username string) error {
	if len(username) < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	}
	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, and underscores")
	}
	return nil
}

// ValidateBirthDate rejects today and any future date. A nil birth date is
// valid; the field is optional.
func ValidateBirthDate(birth *time.Time, today time.Time) error {
	if birth == nil {
		return nil
	}
	b := time.Date(birth.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if !b.Before(t) {
		return fmt.Errorf("birth date must be in the past")
	}
	return nil
}
