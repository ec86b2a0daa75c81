package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds. Concrete errors below match one of these through errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrReference  = errors.New("unknown reference")
	ErrNotFound   = errors.New("not found")
	ErrPermission = errors.New("permission denied")
)

// ValidationError carries per-field messages.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns a ValidationError with a single message on field.
func NewValidationError(field, msg string) *ValidationError {
	e := &ValidationError{}
	e.Add(field, msg)
	return e
}

// Add appends msg to the messages of field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Empty reports whether no message was recorded.
func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ReferenceError reports foreign identifiers that do not exist.
type ReferenceError struct {
	Field string
	IDs   []int64
}

func (e *ReferenceError) Error() string {
	if len(e.IDs) == 0 {
		return fmt.Sprintf("%s: referenced object does not exist", e.Field)
	}
	return fmt.Sprintf("%s: unknown id(s) %v", e.Field, e.IDs)
}

func (e *ReferenceError) Is(target error) bool { return target == ErrReference }

// NotFoundError reports a missing row.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PermissionError is returned when a write is attempted without the staff role.
type PermissionError struct {
	Action string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s requires a staff account", e.Action)
}

func (e *PermissionError) Is(target error) bool { return target == ErrPermission }
