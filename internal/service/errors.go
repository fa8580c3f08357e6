package service

import "errors"

// ErrInvalidCredentials maps to 401 at the controller layer.
var ErrInvalidCredentials = errors.New("Invalid credentials")

// NotFoundError maps to 404.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ForbiddenError maps to 403.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// ConflictError maps to 409.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ValidationError maps to 400 with a single human-readable message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// FieldValidationError maps to 400 with a field-keyed error map, so the form
// can highlight the exact offending input.
type FieldValidationError struct {
	Fields map[string]string
}

func (e *FieldValidationError) Error() string {
	for _, msg := range e.Fields {
		return msg
	}
	return "validation failed"
}
