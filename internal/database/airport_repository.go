package database

import (
	"database/sql"
	"fmt"

	"github.com/skyport-systems/airport-reservation/internal/models"
)

// AirportRepository handles airport database operations
type AirportRepository struct {
	db DB
}

// NewAirportRepository creates a new airport repository
func NewAirportRepository(db DB) *AirportRepository {
	return &AirportRepository{
		db: db,
	}
}

// AirportFilter holds the recognized list query parameters.
// Zero-valued fields are ignored; set fields compose with AND.
type AirportFilter struct {
	Name string
}

// Create inserts a new airport. A duplicate (name, closest_big_city)
// pair surfaces as ErrConflict.
func (r *AirportRepository) Create(name, closestBigCity string) (*models.Airport, error) {
	airport := &models.Airport{
		Name:           name,
		ClosestBigCity: closestBigCity,
	}

	query := `
		INSERT INTO airports (name, closest_big_city)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.db.QueryRow(query, name, closestBigCity).Scan(&airport.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, conflictError("airport with this name and city")
		}
		return nil, fmt.Errorf("failed to create airport: %w", err)
	}

	return airport, nil
}

// GetByID retrieves an airport by ID
func (r *AirportRepository) GetByID(id int64) (*models.Airport, error) {
	var airport models.Airport

	query := `
		SELECT id, name, closest_big_city
		FROM airports
		WHERE id = $1
	`

	err := r.db.Get(&airport, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get airport by ID: %w", err)
	}

	return &airport, nil
}

// List retrieves airports matching the filter with pagination.
// Returns the page of airports and the total match count.
func (r *AirportRepository) List(filter AirportFilter, limit, offset int) ([]models.Airport, int, error) {
	where := ""
	args := []interface{}{}

	if filter.Name != "" {
		where = "WHERE name ILIKE $1"
		args = append(args, "%"+filter.Name+"%")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM airports %s", where)
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count airports: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, closest_big_city
		FROM airports
		%s
		ORDER BY id
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	airports := []models.Airport{}
	if err := r.db.Select(&airports, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list airports: %w", err)
	}

	return airports, total, nil
}
