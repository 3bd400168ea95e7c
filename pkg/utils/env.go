package utils

import "os"

// Getenv returns the value of the environment variable named by key,
// falling back to the given default when the variable is unset or empty.
func Getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
