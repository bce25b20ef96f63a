package database

import (
	"database/sql"
	"fmt"

	"github.com/skyport-systems/airport-reservation/internal/models"
)

// AirplaneRepository handles airplane database operations
type AirplaneRepository struct {
	db DB
}

// NewAirplaneRepository creates a new airplane repository
func NewAirplaneRepository(db DB) *AirplaneRepository {
	return &AirplaneRepository{
		db: db,
	}
}

// AirplaneFilter holds the recognized list query parameters
type AirplaneFilter struct {
	Name         string
	AirplaneType string
}

// AirplaneListRow is the list representation: type flattened to its name
type AirplaneListRow struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Rows         int    `json:"rows" db:"rows"`
	SeatsInRows  int    `json:"seats_in_rows" db:"seats_in_rows"`
	AirplaneType string `json:"airplane_type" db:"airplane_type"`
	NumOfSeats   int    `json:"num_of_seats" db:"num_of_seats"`
}

// Create inserts a new airplane. Geometry bounds are checked by the
// caller; a nonexistent type id surfaces as ErrNotFound via the
// foreign key.
func (r *AirplaneRepository) Create(name string, rows, seatsInRows int, airplaneTypeID int64) (*models.Airplane, error) {
	airplane := &models.Airplane{
		Name:           name,
		Rows:           rows,
		SeatsInRows:    seatsInRows,
		AirplaneTypeID: airplaneTypeID,
	}

	query := `
		INSERT INTO airplanes (name, rows, seats_in_rows, airplane_type_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(query, name, rows, seatsInRows, airplaneTypeID).Scan(&airplane.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("airplane type does not exist: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to create airplane: %w", err)
	}

	return airplane, nil
}

// GetDetail retrieves an airplane with its type resolved
func (r *AirplaneRepository) GetDetail(id int64) (*models.AirplaneDetail, error) {
	query := `
		SELECT a.id, a.name, a.rows, a.seats_in_rows,
		       t.id, t.name
		FROM airplanes a
		JOIN airplane_types t ON t.id = a.airplane_type_id
		WHERE a.id = $1
	`

	var detail models.AirplaneDetail
	err := r.db.QueryRow(query, id).Scan(
		&detail.ID,
		&detail.Name,
		&detail.Rows,
		&detail.SeatsInRows,
		&detail.AirplaneType.ID,
		&detail.AirplaneType.Name,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get airplane detail: %w", err)
	}

	detail.NumOfSeats = detail.Rows * detail.SeatsInRows

	return &detail, nil
}

// List retrieves airplanes matching the filter with pagination
func (r *AirplaneRepository) List(filter AirplaneFilter, limit, offset int) ([]AirplaneListRow, int, error) {
	where := ""
	args := []interface{}{}

	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		where += fmt.Sprintf(" AND a.name ILIKE $%d", len(args))
	}

	if filter.AirplaneType != "" {
		args = append(args, "%"+filter.AirplaneType+"%")
		where += fmt.Sprintf(" AND t.name ILIKE $%d", len(args))
	}

	fromClause := `
		FROM airplanes a
		JOIN airplane_types t ON t.id = a.airplane_type_id
		WHERE 1=1` + where

	var total int
	countQuery := "SELECT COUNT(*) " + fromClause
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count airplanes: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT a.id AS id, a.name AS name, a.rows AS rows,
		       a.seats_in_rows AS seats_in_rows, t.name AS airplane_type,
		       a.rows * a.seats_in_rows AS num_of_seats
		%s
		ORDER BY a.id
		LIMIT $%d OFFSET $%d
	`, fromClause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	airplanes := []AirplaneListRow{}
	if err := r.db.Select(&airplanes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list airplanes: %w", err)
	}

	return airplanes, total, nil
}
