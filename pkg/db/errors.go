package db

import (
	"errors"
	"strings"
)

// ErrVersionConflict signals that an optimistic-concurrency write matched no
// rows because the record changed underneath the transaction. Callers retry
// the whole transaction rather than merging partial writes.
var ErrVersionConflict = errors.New("db: version conflict")

// ErrStatusConflict signals that a compare-and-swap on a status column
// matched no rows because the status already moved to another state.
var ErrStatusConflict = errors.New("db: status conflict")

// IsUniqueViolation reports whether the provided error references a Postgres
// unique violation constraint. When constraintName is provided, the helper
// looks for the constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value")
}
