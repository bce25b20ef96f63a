package models

import (
	"time"

	"github.com/google/uuid"
)

// Order groups the tickets a user purchased in one submission.
// It is created transactionally with its tickets and never mutated after.
type Order struct {
	ID        int64     `json:"id" db:"id"`
	UserID    uuid.UUID `json:"-" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Ticket occupies one physical seat on one flight.
// The (flight, row, seat) triple is unique at the storage layer; a
// conflicting insert aborts the whole order transaction.
type Ticket struct {
	ID       int64 `json:"id" db:"id"`
	Row      int   `json:"row" db:"row"`
	Seat     int   `json:"seat" db:"seat"`
	FlightID int64 `json:"flight" db:"flight_id"`
	OrderID  int64 `json:"-" db:"order_id"`
}

// TicketRequest is one requested seat inside an order submission.
type TicketRequest struct {
	Row      int   `json:"row" binding:"required"`
	Seat     int   `json:"seat" binding:"required"`
	FlightID int64 `json:"flight" binding:"required"`
}

// TicketSummary is the list representation of an issued ticket:
// seat position plus the route endpoints of its flight.
type TicketSummary struct {
	ID          int64  `json:"id" db:"id"`
	Row         int    `json:"row" db:"row"`
	Seat        int    `json:"seat" db:"seat"`
	Source      string `json:"source" db:"source"`
	Destination string `json:"destination" db:"destination"`
}

// TicketDetail nests the full flight representation.
type TicketDetail struct {
	ID     int64        `json:"id"`
	Row    int          `json:"row"`
	Seat   int          `json:"seat"`
	Flight FlightDetail `json:"flight"`
}

// OrderWithTickets is an order with its tickets in creation order.
type OrderWithTickets struct {
	Order   Order
	Tickets []Ticket
}
