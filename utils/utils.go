// Package utils provides utility functions for the application.
package utils

import (
	"strings"

	"github.com/google/uuid"
)

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

// ParseUUID parses a UUID string after trimming whitespace
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// NormalizeSpaces collapses all whitespace runs to a single space and trims the result.
// Used for duplicate detection on free-text fields like contractor names.
func NormalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeMobile strips spaces and dashes from a mobile number for comparison
func NormalizeMobile(s string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	return replacer.Replace(strings.TrimSpace(s))
}
