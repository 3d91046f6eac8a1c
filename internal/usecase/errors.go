package usecase

import (
	"errors"
	"fmt"

	"restaurant-api/internal/data/entity"
	"restaurant-api/pkg/utils"

	"github.com/google/uuid"
)

// Error categories. Services wrap one of these with a human readable reason;
// the HTTP layer only looks at the category.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError carries field level causes.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func invalidField(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func parseID(value, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, invalidField(field, "Must be a valid UUID")
	}
	return id, nil
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

// transitionFailed turns a rejected state change into a conflict, passing
// anything else through.
func transitionFailed(err error) error {
	if errors.Is(err, entity.ErrIllegalTransition) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
