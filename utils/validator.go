// utils/validator.go - Input validation
package utils

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > 72 {
		return false, "Password must be at most 72 characters"
	}
	if strings.TrimSpace(password) == "" {
		return false, "Password cannot be blank"
	}
	return true, ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove null bytes before trimming so padding around them goes too
	input = strings.ReplaceAll(input, "\x00", "")

	return strings.TrimSpace(input)
}

// NormalizeEmail trims and lowercases an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(SanitizeInput(email))
}
