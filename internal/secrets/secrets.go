package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Get resolves a secret value. A KEY_FILE variant pointing at a file path
// (Docker secrets convention) takes precedence over the KEY env var itself.
func Get(envKey string, defaultValue string) (string, error) {
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

// GetOptional resolves a secret with a default value and never fails.
func GetOptional(envKey string, defaultValue string) string {
	value, err := Get(envKey, defaultValue)
	if err != nil {
		return defaultValue
	}
	return value
}
