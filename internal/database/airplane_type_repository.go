package database

import (
	"database/sql"
	"fmt"

	"github.com/skyport-systems/airport-reservation/internal/models"
)

// AirplaneTypeRepository handles airplane type database operations
type AirplaneTypeRepository struct {
	db DB
}

// NewAirplaneTypeRepository creates a new airplane type repository
func NewAirplaneTypeRepository(db DB) *AirplaneTypeRepository {
	return &AirplaneTypeRepository{
		db: db,
	}
}

// AirplaneTypeFilter holds the recognized list query parameters
type AirplaneTypeFilter struct {
	Name string
}

// Create inserts a new airplane type
func (r *AirplaneTypeRepository) Create(name string) (*models.AirplaneType, error) {
	airplaneType := &models.AirplaneType{
		Name: name,
	}

	query := `
		INSERT INTO airplane_types (name)
		VALUES ($1)
		RETURNING id
	`

	err := r.db.QueryRow(query, name).Scan(&airplaneType.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create airplane type: %w", err)
	}

	return airplaneType, nil
}

// GetByID retrieves an airplane type by ID
func (r *AirplaneTypeRepository) GetByID(id int64) (*models.AirplaneType, error) {
	var airplaneType models.AirplaneType

	query := `
		SELECT id, name
		FROM airplane_types
		WHERE id = $1
	`

	err := r.db.Get(&airplaneType, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get airplane type by ID: %w", err)
	}

	return &airplaneType, nil
}

// List retrieves airplane types matching the filter with pagination
func (r *AirplaneTypeRepository) List(filter AirplaneTypeFilter, limit, offset int) ([]models.AirplaneType, int, error) {
	where := ""
	args := []interface{}{}

	if filter.Name != "" {
		where = "WHERE name ILIKE $1"
		args = append(args, "%"+filter.Name+"%")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM airplane_types %s", where)
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count airplane types: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name
		FROM airplane_types
		%s
		ORDER BY id
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	airplaneTypes := []models.AirplaneType{}
	if err := r.db.Select(&airplaneTypes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list airplane types: %w", err)
	}

	return airplaneTypes, total, nil
}
