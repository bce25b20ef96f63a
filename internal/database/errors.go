package database

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrConflict indicates a storage-layer unique constraint was violated
	ErrConflict = errors.New("record already exists")

	// ErrSeatTaken indicates a ticket insert hit the (flight, row, seat)
	// uniqueness constraint
	ErrSeatTaken = errors.New("seat is already taken on this flight")

	// ErrFlightNotFound indicates a ticket referenced a nonexistent flight
	ErrFlightNotFound = errors.New("flight not found")

	// ErrEmptyOrder indicates an order submission carried no tickets
	ErrEmptyOrder = errors.New("order must contain at least one ticket")
)

// unique_violation per the PostgreSQL error code table
const pqUniqueViolation = "23505"

// foreign_key_violation per the PostgreSQL error code table
const pqForeignKeyViolation = "23503"

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation. Seat-conflict detection at commit time keys on this.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}

// isForeignKeyViolation reports whether err is a PostgreSQL foreign key
// violation (a referenced record does not exist).
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqForeignKeyViolation
	}
	return false
}

// conflictError wraps ErrConflict with context about the duplicate
func conflictError(what string) error {
	return fmt.Errorf("%s: %w", what, ErrConflict)
}
