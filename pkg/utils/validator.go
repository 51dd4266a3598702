package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxIdentifierLength bounds the report identifier accepted from clients
const MaxIdentifierLength = 128

// MaxPageSize bounds list endpoints
const MaxPageSize = 200

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)

// ValidateIdentifier validates a report identifier (group id, month label)
func ValidateIdentifier(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("identifier is required")
	}
	if !utf8.ValidString(id) {
		return fmt.Errorf("identifier is not valid UTF-8")
	}
	if utf8.RuneCountInString(id) > MaxIdentifierLength {
		return fmt.Errorf("identifier exceeds %d characters", MaxIdentifierLength)
	}
	return nil
}

// ValidatePage validates list pagination parameters
func ValidatePage(limit, offset int) error {
	if limit <= 0 || limit > MaxPageSize {
		return fmt.Errorf("limit must be between 1 and %d: %d", MaxPageSize, limit)
	}
	if offset < 0 {
		return fmt.Errorf("offset must not be negative: %d", offset)
	}
	return nil
}

// SanitizeString removes control characters
func SanitizeString(s string) string {
	return controlChars.ReplaceAllString(s, "")
}
