// Package env reads environment variables during process startup, for
// settings such as the logger's output format that must resolve before the
// full config is loaded.
package env

import "os"

// Get returns the named environment variable, or fallback when it is unset
// or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
