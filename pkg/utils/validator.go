package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidatePassword enforces the minimum password length
func ValidatePassword(password string) error {
	if len([]rune(password)) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

// SanitizeString removes control characters and surrounding whitespace
func SanitizeString(s string) string {
	return strings.TrimSpace(controlChars.ReplaceAllString(s, ""))
}

// ParseDate parses a YYYY-MM-DD date. An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}
