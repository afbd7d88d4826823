// Package services holds the business operations behind the HTTP handlers.
package services

import (
	"errors"
	"fmt"

	"github.com/diewo77/go-gestion/validation"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("not_found")
	ErrForbidden = errors.New("forbidden")
	ErrInvalid   = errors.New("invalid")
)

// Actor is the employee performing an operation.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) ptr() *uint {
	if a.ID == 0 {
		return nil
	}
	id := a.ID
	return &id
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}

// notFound maps gorm's missing-record error to ErrNotFound.
func notFound(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// ValidationError carries field violations. It matches ErrInvalid.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string { return "validation failed" }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }

func check(v validation.Violations) error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Violations: v}
}
