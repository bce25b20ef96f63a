package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/skyport-systems/airport-reservation/internal/models"
)

// FlightRepository handles flight database operations
type FlightRepository struct {
	db *sqlx.DB
}

// NewFlightRepository creates a new flight repository
func NewFlightRepository(db *sqlx.DB) *FlightRepository {
	return &FlightRepository{
		db: db,
	}
}

// FlightFilter holds the recognized list query parameters.
// From and To match substrings of the source/destination airport city;
// the time filters match the exact parsed instant.
type FlightFilter struct {
	From          string
	To            string
	DepartureTime *time.Time
	ArrivalTime   *time.Time
}

// FlightListRow is the list representation: route flattened to airport
// names, airplane and crew flattened to display names, plus the derived
// seat availability
type FlightListRow struct {
	ID               int64        `json:"id"`
	Route            RouteListRow `json:"route"`
	Airplane         string       `json:"airplane"`
	DepartureTime    time.Time    `json:"departure_time"`
	ArrivalTime      time.Time    `json:"arrival_time"`
	Crew             []string     `json:"crew"`
	AvailableTickets int          `json:"available_tickets"`
}

// Create inserts a flight and its crew assignments in one transaction.
// Arrival ordering is checked by the caller; nonexistent route, airplane
// or crew ids surface as ErrNotFound via foreign keys.
func (r *FlightRepository) Create(routeID, airplaneID int64, departureTime, arrivalTime time.Time, crewIDs []int64) (*models.Flight, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	flight := &models.Flight{
		RouteID:       routeID,
		AirplaneID:    airplaneID,
		DepartureTime: departureTime,
		ArrivalTime:   arrivalTime,
		CrewIDs:       crewIDs,
	}

	query := `
		INSERT INTO flights (route_id, airplane_id, departure_time, arrival_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err = tx.QueryRow(query, routeID, airplaneID, departureTime, arrivalTime).Scan(&flight.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("route or airplane does not exist: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to create flight: %w", err)
	}

	for _, crewID := range crewIDs {
		_, err := tx.Exec(
			`INSERT INTO flight_crew (flight_id, crew_id) VALUES ($1, $2)`,
			flight.ID, crewID,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return nil, fmt.Errorf("crew member %d does not exist: %w", crewID, ErrNotFound)
			}
			return nil, fmt.Errorf("failed to assign crew member %d: %w", crewID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit flight: %w", err)
	}

	return flight, nil
}

// List retrieves flights matching the filter with pagination. Only
// flights departing strictly after now are returned; each row carries
// the available ticket count computed from the airplane geometry minus
// issued tickets.
func (r *FlightRepository) List(filter FlightFilter, now time.Time, limit, offset int) ([]FlightListRow, int, error) {
	where := ""
	args := []interface{}{now}

	if filter.From != "" {
		args = append(args, "%"+filter.From+"%")
		where += fmt.Sprintf(" AND s.closest_big_city ILIKE $%d", len(args))
	}

	if filter.To != "" {
		args = append(args, "%"+filter.To+"%")
		where += fmt.Sprintf(" AND d.closest_big_city ILIKE $%d", len(args))
	}

	if filter.DepartureTime != nil {
		args = append(args, *filter.DepartureTime)
		where += fmt.Sprintf(" AND f.departure_time = $%d", len(args))
	}

	if filter.ArrivalTime != nil {
		args = append(args, *filter.ArrivalTime)
		where += fmt.Sprintf(" AND f.arrival_time = $%d", len(args))
	}

	fromClause := `
		FROM flights f
		JOIN routes r ON r.id = f.route_id
		JOIN airports s ON s.id = r.source_id
		JOIN airports d ON d.id = r.destination_id
		JOIN airplanes a ON a.id = f.airplane_id
		WHERE f.departure_time > $1` + where

	var total int
	countQuery := "SELECT COUNT(*) " + fromClause
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count flights: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT f.id, r.id, s.name, d.name, r.distance,
		       a.name, f.departure_time, f.arrival_time,
		       a.rows * a.seats_in_rows - (
		           SELECT COUNT(*) FROM tickets t WHERE t.flight_id = f.id
		       ) AS available_tickets
		%s
		ORDER BY f.departure_time
		LIMIT $%d OFFSET $%d
	`, fromClause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list flights: %w", err)
	}
	defer rows.Close()

	flights := []FlightListRow{}
	for rows.Next() {
		var row FlightListRow
		if err := rows.Scan(
			&row.ID,
			&row.Route.ID,
			&row.Route.Source,
			&row.Route.Destination,
			&row.Route.Distance,
			&row.Airplane,
			&row.DepartureTime,
			&row.ArrivalTime,
			&row.AvailableTickets,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan flight row: %w", err)
		}
		flights = append(flights, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate flights: %w", err)
	}

	for i := range flights {
		crew, err := r.crewNames(flights[i].ID)
		if err != nil {
			return nil, 0, err
		}
		flights[i].Crew = crew
	}

	return flights, total, nil
}

// GetUpcomingDetail retrieves a flight that has not yet departed, with
// all relations resolved. Departed flights surface as ErrNotFound, as
// on the list path.
func (r *FlightRepository) GetUpcomingDetail(id int64, now time.Time) (*models.FlightDetail, error) {
	return r.getDetail(id, &now)
}

// GetDetail retrieves a flight with all relations resolved, regardless
// of departure time. Order history needs departed flights too.
func (r *FlightRepository) GetDetail(id int64) (*models.FlightDetail, error) {
	return r.getDetail(id, nil)
}

func (r *FlightRepository) getDetail(id int64, notDepartedSince *time.Time) (*models.FlightDetail, error) {
	query := `
		SELECT f.id, f.departure_time, f.arrival_time,
		       r.id, r.distance,
		       s.id, s.name, s.closest_big_city,
		       d.id, d.name, d.closest_big_city,
		       a.id, a.name, a.rows, a.seats_in_rows,
		       t.id, t.name,
		       a.rows * a.seats_in_rows - (
		           SELECT COUNT(*) FROM tickets tk WHERE tk.flight_id = f.id
		       ) AS available_tickets
		FROM flights f
		JOIN routes r ON r.id = f.route_id
		JOIN airports s ON s.id = r.source_id
		JOIN airports d ON d.id = r.destination_id
		JOIN airplanes a ON a.id = f.airplane_id
		JOIN airplane_types t ON t.id = a.airplane_type_id
		WHERE f.id = $1
	`
	args := []interface{}{id}

	if notDepartedSince != nil {
		query += " AND f.departure_time > $2"
		args = append(args, *notDepartedSince)
	}

	var detail models.FlightDetail
	err := r.db.QueryRow(query, args...).Scan(
		&detail.ID,
		&detail.DepartureTime,
		&detail.ArrivalTime,
		&detail.Route.ID,
		&detail.Route.Distance,
		&detail.Route.Source.ID,
		&detail.Route.Source.Name,
		&detail.Route.Source.ClosestBigCity,
		&detail.Route.Destination.ID,
		&detail.Route.Destination.Name,
		&detail.Route.Destination.ClosestBigCity,
		&detail.Airplane.ID,
		&detail.Airplane.Name,
		&detail.Airplane.Rows,
		&detail.Airplane.SeatsInRows,
		&detail.Airplane.AirplaneType.ID,
		&detail.Airplane.AirplaneType.Name,
		&detail.AvailableTickets,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get flight detail: %w", err)
	}

	detail.Airplane.NumOfSeats = detail.Airplane.Rows * detail.Airplane.SeatsInRows

	crew := []models.Crew{}
	crewQuery := `
		SELECT c.id, c.first_name, c.last_name
		FROM crews c
		JOIN flight_crew fc ON fc.crew_id = c.id
		WHERE fc.flight_id = $1
		ORDER BY c.id
	`
	if err := r.db.Select(&crew, crewQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get flight crew: %w", err)
	}
	detail.Crew = crew

	return &detail, nil
}

// AvailableTickets computes the remaining seats for a flight: airplane
// capacity minus issued tickets. Computed per request, never cached; the
// uniqueness constraint at commit time is the actual guarantee.
func (r *FlightRepository) AvailableTickets(flightID int64) (int, error) {
	query := `
		SELECT a.rows * a.seats_in_rows - (
		    SELECT COUNT(*) FROM tickets t WHERE t.flight_id = f.id
		)
		FROM flights f
		JOIN airplanes a ON a.id = f.airplane_id
		WHERE f.id = $1
	`

	var available int
	err := r.db.QueryRow(query, flightID).Scan(&available)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrFlightNotFound
		}
		return 0, fmt.Errorf("failed to compute available tickets: %w", err)
	}

	return available, nil
}

func (r *FlightRepository) crewNames(flightID int64) ([]string, error) {
	names := []string{}

	query := `
		SELECT c.first_name || ' ' || c.last_name
		FROM crews c
		JOIN flight_crew fc ON fc.crew_id = c.id
		WHERE fc.flight_id = $1
		ORDER BY c.id
	`

	if err := r.db.Select(&names, query, flightID); err != nil {
		return nil, fmt.Errorf("failed to get crew names: %w", err)
	}

	return names, nil
}
