package stores

import (
	"errors"
	"fmt"
)

// ErrorClass classifies store failures. A missing record on update or remove
// is not an error and has no class.
type ErrorClass string

const (
	// ErrorClassIO indicates a filesystem or database failure unrelated to
	// record absence.
	ErrorClassIO ErrorClass = "io"

	// ErrorClassConstraint indicates a rejected write, such as a duplicate id
	// on SQLiteStore.Create.
	ErrorClassConstraint ErrorClass = "constraint"

	// ErrorClassStartup indicates the backend could not be initialized.
	// The process must not serve requests after one.
	ErrorClassStartup ErrorClass = "startup"

	// ErrorClassValidation indicates the input was rejected before storage
	// was touched.
	ErrorClassValidation ErrorClass = "validation"
)

var errNilTodo = errors.New("todo is nil")

// StoreError is a classified store failure.
type StoreError struct {
	Class ErrorClass
	Op    string
	ID    string
	Err   error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("[%s] %s %s: %v", e.Class, e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Class, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is matches another StoreError of the same class.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Class == t.Class
}

func newIOError(op, id string, err error) *StoreError {
	return &StoreError{Class: ErrorClassIO, Op: op, ID: id, Err: err}
}

func newConstraintError(op, id string, err error) *StoreError {
	return &StoreError{Class: ErrorClassConstraint, Op: op, ID: id, Err: err}
}

func newStartupError(op string, err error) *StoreError {
	return &StoreError{Class: ErrorClassStartup, Op: op, Err: err}
}

func newValidationError(op, id string, err error) *StoreError {
	return &StoreError{Class: ErrorClassValidation, Op: op, ID: id, Err: err}
}

// ClassOf returns the class of err, or "" if err is not a StoreError.
func ClassOf(err error) ErrorClass {
	var e *StoreError
	if errors.As(err, &e) {
		return e.Class
	}
	return ""
}

// IsIO returns true if the error is an I/O failure.
func IsIO(err error) bool {
	return ClassOf(err) == ErrorClassIO
}

// IsConstraint returns true if the error is a constraint violation.
func IsConstraint(err error) bool {
	return ClassOf(err) == ErrorClassConstraint
}

// IsStartup returns true if the error is a startup failure.
func IsStartup(err error) bool {
	return ClassOf(err) == ErrorClassStartup
}

// IsValidation returns true if the error is a validation failure.
func IsValidation(err error) bool {
	return ClassOf(err) == ErrorClassValidation
}
