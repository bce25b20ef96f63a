package database

import (
	"database/sql"
	"fmt"

	"github.com/skyport-systems/airport-reservation/internal/models"
)

// CrewRepository handles crew database operations
type CrewRepository struct {
	db DB
}

// NewCrewRepository creates a new crew repository
func NewCrewRepository(db DB) *CrewRepository {
	return &CrewRepository{
		db: db,
	}
}

// CrewFilter holds the recognized list query parameters
type CrewFilter struct {
	FullName string
}

// Create inserts a new crew member
func (r *CrewRepository) Create(firstName, lastName string) (*models.Crew, error) {
	crew := &models.Crew{
		FirstName: firstName,
		LastName:  lastName,
	}

	query := `
		INSERT INTO crews (first_name, last_name)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.db.QueryRow(query, firstName, lastName).Scan(&crew.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create crew member: %w", err)
	}

	return crew, nil
}

// GetByID retrieves a crew member by ID
func (r *CrewRepository) GetByID(id int64) (*models.Crew, error) {
	var crew models.Crew

	query := `
		SELECT id, first_name, last_name
		FROM crews
		WHERE id = $1
	`

	err := r.db.Get(&crew, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get crew member by ID: %w", err)
	}

	return &crew, nil
}

// List retrieves crew members matching the filter with pagination.
// The full_name filter matches a substring of "first_name last_name".
func (r *CrewRepository) List(filter CrewFilter, limit, offset int) ([]models.Crew, int, error) {
	where := ""
	args := []interface{}{}

	if filter.FullName != "" {
		where = "WHERE first_name || ' ' || last_name ILIKE $1"
		args = append(args, "%"+filter.FullName+"%")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM crews %s", where)
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count crew members: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, first_name, last_name
		FROM crews
		%s
		ORDER BY id
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	crews := []models.Crew{}
	if err := r.db.Select(&crews, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list crew members: %w", err)
	}

	return crews, total, nil
}
