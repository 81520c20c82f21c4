package model

import (
	"errors"
	"fmt"
	"strings"
)

// Core errors. Callers match them with errors.Is.
var (
	ErrNotFound        = errors.New("listing not found")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient permissions")
	ErrStorage         = errors.New("storage failure")
)

// Error kinds reported to clients.
const (
	KindValidation    = "validation"
	KindAuthorization = "authorization"
	KindNotFound      = "not_found"
	KindStorage       = "storage"
)

// FieldError is a single violated field constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid listing: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// StorageError wraps err so that it matches ErrStorage while keeping the cause.
func StorageError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStorage, err))
}

// ErrorKind classifies err into one of the stable error kinds. Unknown errors
// are storage failures.
func ErrorKind(err error) string {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return KindValidation
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrForbidden):
		return KindAuthorization
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindStorage
	}
}
