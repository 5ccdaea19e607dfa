package db

import "strings"

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation. Both the Postgres and SQLite drivers are covered
// since either store may be active.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
