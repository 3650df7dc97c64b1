package utils

import (
	"regexp"
	"strings"

	"github.com/pentimento/pentimento/internal/ui"
)

// FormatPaths formats a slice of paths into a readable string.
func FormatPaths(paths []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, path := range paths {
		b.WriteString("    - ")
		b.WriteString(ui.Path.Sprint(path))
		b.WriteString("\n")
	}
	return b.String()
}

// IsValidLabel checks if a container label is valid (alphanumeric, hyphens, underscores).
func IsValidLabel(label string) bool {
	if label == "" {
		return false
	}
	validPattern := regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)
	return validPattern.MatchString(label)
}
