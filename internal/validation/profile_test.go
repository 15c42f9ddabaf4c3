package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateProfileUsername(t *testing.T) {
	t.Parallel()

	valid := []string{
		"user_1",
		"ABCDE",
		"a1b2c",
		strings.Repeat("x", 30),
		"________",
	}
	for _, u := range valid {
		assert.NoError(t, ValidateProfileUsername(u), u)
	}

	invalid := []string{
		"",
		"ab1",                     // too short
		strings.Repeat("x", 31),   // too long
		"user name",               // space
		"user-name",               // hyphen not allowed
		"ユーザーネーム",           // non-ASCII
		"user@name",               // symbol
	}
	for _, u := range invalid {
		assert.Error(t, ValidateProfileUsername(u), u)
	}
}

func TestValidateBirthDate(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.June, 15, 9, 30, 0, 0, time.UTC)

	t.Run("nil is valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ValidateBirthDate(nil, today))
	})

	t.Run("past date accepted", func(t *testing.T) {
		t.Parallel()
		b := time.Date(2024, time.June, 14, 0, 0, 0, 0, time.UTC)
		assert.NoError(t, ValidateBirthDate(&b, today))
	})

	t.Run("today rejected", func(t *testing.T) {
		t.Parallel()
		b := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
		assert.Error(t, ValidateBirthDate(&b, today))
	})

	t.Run("future rejected", func(t *testing.T) {
		t.Parallel()
		b := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
		assert.Error(t, ValidateBirthDate(&b, today))
	})
}
