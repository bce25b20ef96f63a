package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/skyport-systems/airport-reservation/internal/models"
	"github.com/skyport-systems/airport-reservation/internal/validation"
)

// OrderRepository handles the order/ticket transaction and order reads
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{
		db: db,
	}
}

// OrderListRow is the list representation of an order with its tickets
// summarized as seat position plus route endpoints
type OrderListRow struct {
	ID        int64                  `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	Tickets   []models.TicketSummary `json:"tickets"`
}

// CreateOrder creates exactly one order and one ticket per request, or
// nothing at all. Each ticket is validated against the airplane geometry
// of its flight resolved inside the transaction, then inserted; the
// (flight, row, seat) uniqueness constraint aborts the whole transaction
// on a seat conflict. The order's creation timestamp is assigned by the
// database at insert and is immutable thereafter.
func (r *OrderRepository) CreateOrder(userID uuid.UUID, requests []models.TicketRequest) (*models.OrderWithTickets, error) {
	if len(requests) == 0 {
		return nil, ErrEmptyOrder
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	order := models.Order{UserID: userID}
	err = tx.QueryRow(
		`INSERT INTO orders (user_id) VALUES ($1) RETURNING id, created_at`,
		userID,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	tickets := make([]models.Ticket, 0, len(requests))
	for _, req := range requests {
		var rows, seatsInRows int
		err := tx.QueryRow(`
			SELECT a.rows, a.seats_in_rows
			FROM flights f
			JOIN airplanes a ON a.id = f.airplane_id
			WHERE f.id = $1
		`, req.FlightID).Scan(&rows, &seatsInRows)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, fmt.Errorf("flight %d: %w", req.FlightID, ErrFlightNotFound)
			}
			return nil, fmt.Errorf("failed to resolve flight %d: %w", req.FlightID, err)
		}

		if err := validation.ValidateSeatAndRow(req.Seat, req.Row, seatsInRows, rows); err != nil {
			return nil, err
		}

		ticket := models.Ticket{
			Row:      req.Row,
			Seat:     req.Seat,
			FlightID: req.FlightID,
			OrderID:  order.ID,
		}
		err = tx.QueryRow(
			`INSERT INTO tickets (row, seat, flight_id, order_id) VALUES ($1, $2, $3, $4) RETURNING id`,
			req.Row, req.Seat, req.FlightID, order.ID,
		).Scan(&ticket.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, fmt.Errorf("row %d seat %d on flight %d: %w",
					req.Row, req.Seat, req.FlightID, ErrSeatTaken)
			}
			return nil, fmt.Errorf("failed to create ticket: %w", err)
		}

		tickets = append(tickets, ticket)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	return &models.OrderWithTickets{Order: order, Tickets: tickets}, nil
}

// ListByUser retrieves the user's own orders, newest first, each with
// its ticket summaries
func (r *OrderRepository) ListByUser(userID uuid.UUID, limit, offset int) ([]OrderListRow, int, error) {
	var total int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	type orderRow struct {
		ID        int64     `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	pageRows := []orderRow{}
	err = r.db.Select(&pageRows, `
		SELECT id, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := []OrderListRow{}
	for _, row := range pageRows {
		tickets, err := r.ticketSummaries(row.ID)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, OrderListRow{
			ID:        row.ID,
			CreatedAt: row.CreatedAt,
			Tickets:   tickets,
		})
	}

	return orders, total, nil
}

// GetByIDForUser retrieves one of the user's own orders with its raw
// tickets. Another user's order surfaces as ErrNotFound, not as a
// permission error, so existence is not leaked.
func (r *OrderRepository) GetByIDForUser(orderID int64, userID uuid.UUID) (*models.OrderWithTickets, error) {
	var order models.Order
	err := r.db.Get(&order, `
		SELECT id, user_id, created_at
		FROM orders
		WHERE id = $1 AND user_id = $2
	`, orderID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	tickets := []models.Ticket{}
	err = r.db.Select(&tickets, `
		SELECT id, row, seat, flight_id, order_id
		FROM tickets
		WHERE order_id = $1
		ORDER BY seat
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order tickets: %w", err)
	}

	return &models.OrderWithTickets{Order: order, Tickets: tickets}, nil
}

func (r *OrderRepository) ticketSummaries(orderID int64) ([]models.TicketSummary, error) {
	tickets := []models.TicketSummary{}

	query := `
		SELECT t.id AS id, t.row AS row, t.seat AS seat,
		       s.name AS source, d.name AS destination
		FROM tickets t
		JOIN flights f ON f.id = t.flight_id
		JOIN routes r ON r.id = f.route_id
		JOIN airports s ON s.id = r.source_id
		JOIN airports d ON d.id = r.destination_id
		WHERE t.order_id = $1
		ORDER BY t.seat
	`

	if err := r.db.Select(&tickets, query, orderID); err != nil {
		return nil, fmt.Errorf("failed to get ticket summaries: %w", err)
	}

	return tickets, nil
}
