package core

import "fmt"

// ValidationError reports a single offending field at construction time.
// Entities are valid by construction: no partially built value ever leaves
// this package, so downstream components never re-validate.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
