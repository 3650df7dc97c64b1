package utils

import (
	"os"
	"os/user"
	"regexp"
	"strings"
)

// GetUsername returns the current username.
func GetUsername() (string, error) {
	user, err := user.Current()
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

// GetHostname returns the system hostname.
func GetHostname() (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", err
	}
	return hostname, nil
}

// SanitizeLabel sanitizes a container label by removing special characters and converting spaces to hyphens.
func SanitizeLabel(label string) string {
	// Trim whitespace.
	label = strings.TrimSpace(label)

	// Convert to lowercase.
	label = strings.ToLower(label)

	// Replace spaces with hyphens.
	label = strings.ReplaceAll(label, " ", "-")

	// Remove any characters that are not alphanumeric, hyphens, or underscores.
	re := regexp.MustCompile(`[^a-z0-9\-_]`)
	label = re.ReplaceAllString(label, "")

	// Remove consecutive hyphens.
	re = regexp.MustCompile(`-+`)
	label = re.ReplaceAllString(label, "-")

	// Trim leading and trailing hyphens.
	label = strings.Trim(label, "-")

	return label
}
