package collection

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is matched by errors.Is against the *OutOfBoundsError panic
// value raised by positional list access.
var ErrOutOfBounds = errors.New("index out of bounds")

// OutOfBoundsError is the panic value for an index outside the valid range.
// The collection is left unchanged.
type OutOfBoundsError struct {
	Index  int
	Length int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("collection: index %d out of bounds for length %d", e.Index, e.Length)
}

func (e *OutOfBoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// ErrAccessViolation is matched by errors.Is against the *AccessViolationError
// panic value raised by invalid record field access.
var ErrAccessViolation = errors.New("access violation")

// AccessViolationError is the panic value for writing a read-only or
// non-property field, or accessing a field the schema does not define. The
// stored value is left unchanged.
type AccessViolationError struct {
	Field  string
	Reason string
}

func (e *AccessViolationError) Error() string {
	return fmt.Sprintf("collection: access violation on field %q: %s", e.Field, e.Reason)
}

func (e *AccessViolationError) Unwrap() error {
	return ErrAccessViolation
}

// SchemaError reports a malformed record schema or invalid construction
// input. It is returned, not panicked, because schema contents are typically
// data-dependent.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("collection: invalid schema: %s", e.Reason)
	}
	return fmt.Sprintf("collection: invalid schema field %q: %s", e.Field, e.Reason)
}
