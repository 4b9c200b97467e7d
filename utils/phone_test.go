package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidPhoneNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"French mobile in national notation", "0612345678", true},
		{"E.164 number", "+33612345678", true},
		{"Number with separators", "06 12 34 56 78", true},
		{"Number with dashes and dots", "06-12.34-56.78", true},
		{"Too short", "123", false},
		{"Nine digits", "061234567", false},
		{"Empty", "", false},
		{"Letters only", "not a number", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidPhoneNumber(tt.input))
		})
	}
}

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		countryCode string
		expected    string
	}{
		{"National notation gets country code", "0612345678", "33", "+33612345678"},
		{"Already international is unchanged", "+33612345678", "33", "+33612345678"},
		{"Separators are stripped", "06 12 34 56 78", "33", "+33612345678"},
		{"Other country code", "0477123456", "32", "+32477123456"},
		{"Empty input", "", "33", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePhoneNumber(tt.input, tt.countryCode))
		})
	}
}
