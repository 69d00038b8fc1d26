// Package secrets reads sensitive config values from the environment or
// from mounted secret files (the Docker `_FILE` convention).
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// GetSecret retrieves a secret value. A KEY_FILE env var pointing at a file
// takes precedence over the KEY env var itself.
func GetSecret(envKey string, defaultValue string) (string, error) {
	if filePath := os.Getenv(envKey + "_FILE"); filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("read secret file %s: %w", filePath, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if value := os.Getenv(envKey); value != "" {
		return value, nil
	}

	return defaultValue, nil
}

// MustGetSecret retrieves a secret and panics if it is missing or unreadable
func MustGetSecret(envKey string) string {
	value, err := GetSecret(envKey, "")
	if err != nil {
		panic(fmt.Sprintf("failed to load secret %s: %v", envKey, err))
	}
	if value == "" {
		panic(fmt.Sprintf("secret %s is required but not set", envKey))
	}
	return value
}

// GetOptionalSecret retrieves a secret with a default value, never fails
func GetOptionalSecret(envKey string, defaultValue string) string {
	value, err := GetSecret(envKey, defaultValue)
	if err != nil {
		return defaultValue
	}
	return value
}
