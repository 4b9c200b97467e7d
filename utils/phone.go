package utils

import (
	"strings"
	"unicode"
)

// stripNonDigits returns only the digit characters of s
func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidPhoneNumber reports whether phoneNumber can be used as an SMS
// destination. A number is valid if its digit-only form has at least 10
// digits; empty input is invalid.
func IsValidPhoneNumber(phoneNumber string) bool {
	if phoneNumber == "" {
		return false
	}
	return len(stripNonDigits(phoneNumber)) >= 10
}

// NormalizePhoneNumber canonicalizes phoneNumber into E.164-like form:
// all non-digit characters are stripped, a leading 0 (national notation)
// is replaced by countryCode, and a + is prepended. Returns "" for empty
// input.
func NormalizePhoneNumber(phoneNumber, countryCode string) string {
	if phoneNumber == "" {
		return ""
	}

	cleaned := stripNonDigits(phoneNumber)

	// National notation: replace the leading 0 with the country code
	if strings.HasPrefix(cleaned, "0") {
		cleaned = countryCode + cleaned[1:]
	}

	return "+" + cleaned
}
