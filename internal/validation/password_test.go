package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Str0ngPassw0rd", false},
		{"too short", "Sh0rt", true},
		{"too long", strings.Repeat("Aa1", 50), true},
		{"no uppercase", "alllowercase123", true},
		{"no lowercase", "ALLUPPERCASE123", true},
		{"no digit", "NoDigitsHereAtAll", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("reader@example.com"))
	assert.NoError(t, ValidateEmail("first.last+tag@sub.example.co.jp"))

	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
	assert.Error(t, ValidateEmail("@example.com"))
	assert.Error(t, ValidateEmail("user@"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@example.com"))
}
