// Package environment provides utilities for managing environment variables
// and configuration loading with support for namespacing and defaults.
package environment

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from the given .env files, or ./.env when none are
// given. A missing file is not an error; services run without one in
// containers.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

// GetEnvOrDefault retrieves an environment variable value, returning a fallback
// value if the variable is not set.
func GetEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvKeyPrefix joins prefix and key with an underscore. An empty prefix
// returns the key unchanged.
//
//	GetEnvKeyPrefix("MARKETPLACE", "PORT") // "MARKETPLACE_PORT"
func GetEnvKeyPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", prefix, key)
}

// GetPrefixEnvOrDefault looks up prefix_key, falling back when it is unset.
func GetPrefixEnvOrDefault(prefix, key, fallback string) string {
	return GetEnvOrDefault(GetEnvKeyPrefix(prefix, key), fallback)
}

// GetPrefixEnv returns the value of prefix_key or an empty string.
func GetPrefixEnv(prefix, key string) string {
	return os.Getenv(GetEnvKeyPrefix(prefix, key))
}
