package utils

import "strings"

// MaskSecret masks a credential for safe logging, keeping an optional
// "Bearer " scheme and the first two characters.
// Example: "Bearer s3cr3t" -> "Bearer s3***"
func MaskSecret(value string) string {
	if value == "" {
		return ""
	}
	scheme := ""
	if len(value) > 7 && strings.EqualFold(value[:7], "bearer ") {
		scheme, value = value[:7], value[7:]
	}
	if len(value) <= 4 {
		return scheme + "***"
	}
	return scheme + value[:2] + "***"
}
