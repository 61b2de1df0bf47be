package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by the service layer. Controllers map these onto
// HTTP statuses and response codes.
var (
	// ErrNotFound means the addressed entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means the operation cannot apply to the current state.
	ErrConflict = errors.New("conflict")
)

// ValidationError carries per-field messages for a rejected input. The whole
// input is rejected; no partial writes happen.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msgs := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(msgs, "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// fieldErrors accumulates validation messages before deciding pass/fail.
type fieldErrors map[string][]string

func (f fieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}
