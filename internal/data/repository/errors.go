package repository

import (
	"errors"
	"fmt"

	"restaurant-api/pkg/database"
)

var (
	// ErrReservationOverlap is returned when a write would give a table two
	// overlapping live reservations.
	ErrReservationOverlap = errors.New("reservation overlaps an existing reservation")
	ErrDuplicate          = errors.New("record already exists")
	ErrInUse              = errors.New("record is still referenced")
	// ErrStaleState means a compare-and-set update found the row in a
	// different state than expected.
	ErrStaleState = errors.New("record was modified concurrently")
)

// translate maps constraint violations onto repository errors and wraps the rest.
func translate(err error, format string, args ...any) error {
	switch {
	case database.IsPgError(err, database.CodeExclusionViolation):
		return ErrReservationOverlap
	case database.IsPgError(err, database.CodeUniqueViolation):
		return fmt.Errorf("%w: %s", ErrDuplicate, fmt.Sprintf(format, args...))
	case database.IsPgError(err, database.CodeForeignKeyViolation):
		return fmt.Errorf("%w: %s", ErrInUse, fmt.Sprintf(format, args...))
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

type rowScanner interface {
	Scan(dest ...any) error
}

var (
	// ErrLockNotAcquired is returned when another instance holds a job lock.
	ErrLockNotAcquired = errors.New("lock held by another worker")
	// ErrDishUnavailable is returned when an order references a dish that is
	// missing or not available at commit time.
	ErrDishUnavailable = errors.New("dish is not available")
)
