package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"taro.yamada@example.co.jp", false},
		{"a+b@example.com", false},
		{"no-at-sign.example.com", true},
		{"user@nodot", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("short"))
	assert.NoError(t, ValidatePassword("long enough"))
	assert.NoError(t, ValidatePassword("パスワード八文字"))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "大阪出張", SanitizeString("  大阪\x00出張\n "))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-05-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.Local), d)

	d, err = ParseDate("  ")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("2024/05/10")
	assert.Error(t, err)
}
