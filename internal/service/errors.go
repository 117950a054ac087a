package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCredentials covers both unknown username and wrong
	// password so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrForbidden means the caller is authenticated but lacks the
	// membership or role the operation requires.
	ErrForbidden     = errors.New("forbidden")
	ErrUsernameTaken = errors.New("Username already taken")
	ErrEmailTaken    = errors.New("Email already taken")
)

// FieldError names a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates per-field failures for a 400 response.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
