package mapper

import "fmt"

// EntityError reports an entity that was skipped because a required field
// was missing or unusable. ID is empty when the identifying field itself is
// the one missing.
type EntityError struct {
	Entity string
	ID     string
	Field  string
	Err    error
}

func (e *EntityError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("mapper: %s skipped: %s: %v", e.Entity, e.Field, e.Err)
	}
	return fmt.Sprintf("mapper: %s %s skipped: %s: %v", e.Entity, e.ID, e.Field, e.Err)
}

func (e *EntityError) Unwrap() error { return e.Err }

// FieldError reports a single observation dropped because its source field
// had the wrong shape. The rest of the entity is still mapped.
type FieldError struct {
	Entity string
	ID     string
	Field  string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("mapper: %s %s: field %s dropped: %v", e.Entity, e.ID, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
