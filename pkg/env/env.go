package env

import "os"

// Get reads an environment variable, returning fallback when the variable is
// unset or empty. Bootstrap-time lookups only; runtime configuration goes
// through pkg/config.
func Get(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
