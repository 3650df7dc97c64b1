package utils

import (
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"LowercaseSimple", "Taxes", "taxes"},
		{"SpacesToHyphens", "My Documents", "my-documents"},
		{"RemoveSpecialChars", "My@Label#123!", "mylabel123"},
		{"RemoveConsecutiveHyphens", "my--label", "my-label"},
		{"TrimHyphens", "-my-label-", "my-label"},
		{"EmptyStaysEmpty", "", ""},
		{"OnlySpecialChars", "@#$%", ""},
		{"PreserveUnderscores", "my_label", "my_label"},
		{"PreserveNumbers", "label123", "label123"},
		{"TrimWhitespace", "  mylabel  ", "mylabel"},
		{"ComplexName", "  Tax Returns 2025! #1  ", "tax-returns-2025-1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := SanitizeLabel(tc.input)
			if result != tc.expected {
				t.Errorf("SanitizeLabel(%q) = %q, expected %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestIsValidLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"SimpleWord", "taxes", true},
		{"WithHyphens", "tax-returns", true},
		{"WithUnderscores", "tax_returns", true},
		{"WithNumbers", "backup2025", true},
		{"Empty", "", false},
		{"LeadingHyphen", "-taxes", false},
		{"Spaces", "my label", false},
		{"SpecialChars", "taxes!", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := IsValidLabel(tc.input)
			if result != tc.expected {
				t.Errorf("IsValidLabel(%q) = %v, expected %v", tc.input, result, tc.expected)
			}
		})
	}
}

func TestGetUsername(t *testing.T) {
	username, err := GetUsername()
	if err != nil {
		t.Fatalf("GetUsername failed: %v", err)
	}
	if username == "" {
		t.Fatal("Expected non-empty username")
	}
}

func TestGetHostname(t *testing.T) {
	hostname, err := GetHostname()
	if err != nil {
		t.Fatalf("GetHostname failed: %v", err)
	}
	if hostname == "" {
		t.Fatal("Expected non-empty hostname")
	}
}
