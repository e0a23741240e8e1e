package models

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound            = errors.New("requested resource not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrReference           = errors.New("referenced resource does not exist")
	ErrMissingOwner        = errors.New("post owner cannot be resolved")
	ErrUnauthorized        = errors.New("unauthorized access")
	ErrValidation          = errors.New("validation failed")
)

// ValidationError lists every rejected request field with a reason.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty error ready to collect field problems.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records a problem for field. The first reason per field wins.
func (e *ValidationError) Add(field, reason string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = reason
	}
}

// Empty reports whether no field has been rejected.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// OrNil returns e when it holds at least one problem, otherwise nil.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConstraintError reports which unique field a write collided on.
type ConstraintError struct {
	Field string
}

func (e *ConstraintError) Error() string {
	return e.Field + " already exists"
}

func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraintViolation
}
