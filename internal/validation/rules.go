// Package validation holds the pure domain rules shared by the catalog
// create paths and the order transaction. Each rule returns a FieldError
// naming the offending field so handlers can surface field-level detail.
package validation

import (
	"fmt"
	"time"
)

// FieldError is a domain-rule violation tied to a specific input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateDestination fails when a route's destination equals its source.
func ValidateDestination(sourceID, destinationID int64) error {
	if sourceID == destinationID {
		return &FieldError{
			Field:   "destination",
			Message: "destination cannot be the same as source",
		}
	}
	return nil
}

// ValidateArrival requires strict ordering: arrival after departure.
func ValidateArrival(departure, arrival time.Time) error {
	if arrival.Equal(departure) {
		return &FieldError{
			Field:   "arrival_time",
			Message: "arrival time cannot be the same as departure time",
		}
	}

	if arrival.Before(departure) {
		return &FieldError{
			Field:   "arrival_time",
			Message: "the time and date of arrival cannot be earlier than departure",
		}
	}

	return nil
}

// ValidateSeatAndRow checks a requested seat against the airplane geometry
// of the ticket's flight. Bounds are inclusive on both ends and are
// resolved from the airplane at validation time, not cached.
func ValidateSeatAndRow(seat, row, seatsInRow, rows int) error {
	if seat < 1 || seat > seatsInRow {
		return &FieldError{
			Field:   "seat",
			Message: fmt.Sprintf("seat must be in range [1, %d]", seatsInRow),
		}
	}

	if row < 1 || row > rows {
		return &FieldError{
			Field:   "row",
			Message: fmt.Sprintf("row must be in range [1, %d]", rows),
		}
	}

	return nil
}

// ValidateAirplaneGeometry requires strictly positive seat geometry.
func ValidateAirplaneGeometry(rows, seatsInRows int) error {
	if rows < 1 {
		return &FieldError{
			Field:   "rows",
			Message: "rows must be greater than zero",
		}
	}

	if seatsInRows < 1 {
		return &FieldError{
			Field:   "seats_in_rows",
			Message: "seats_in_rows must be greater than zero",
		}
	}

	return nil
}
