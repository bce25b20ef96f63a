package database

import (
	"database/sql"
	"fmt"

	"github.com/skyport-systems/airport-reservation/internal/models"
)

// RouteRepository handles route database operations
type RouteRepository struct {
	db DB
}

// NewRouteRepository creates a new route repository
func NewRouteRepository(db DB) *RouteRepository {
	return &RouteRepository{
		db: db,
	}
}

// RouteFilter holds the recognized list query parameters.
// From and To match substrings of the source/destination airport names.
type RouteFilter struct {
	From string
	To   string
}

// RouteListRow is the list representation: airports flattened to names
type RouteListRow struct {
	ID          int64  `json:"id" db:"id"`
	Source      string `json:"source" db:"source"`
	Destination string `json:"destination" db:"destination"`
	Distance    int    `json:"distance" db:"distance"`
}

// Create inserts a new route. The source != destination rule is checked
// by the caller before this point; a nonexistent airport id surfaces as
// ErrNotFound via the foreign key.
func (r *RouteRepository) Create(sourceID, destinationID int64, distance int) (*models.Route, error) {
	route := &models.Route{
		SourceID:      sourceID,
		DestinationID: destinationID,
		Distance:      distance,
	}

	query := `
		INSERT INTO routes (source_id, destination_id, distance)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(query, sourceID, destinationID, distance).Scan(&route.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("airport does not exist: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to create route: %w", err)
	}

	return route, nil
}

// GetDetail retrieves a route with both airports resolved
func (r *RouteRepository) GetDetail(id int64) (*models.RouteDetail, error) {
	query := `
		SELECT r.id, r.distance,
		       s.id, s.name, s.closest_big_city,
		       d.id, d.name, d.closest_big_city
		FROM routes r
		JOIN airports s ON s.id = r.source_id
		JOIN airports d ON d.id = r.destination_id
		WHERE r.id = $1
	`

	var detail models.RouteDetail
	err := r.db.QueryRow(query, id).Scan(
		&detail.ID,
		&detail.Distance,
		&detail.Source.ID,
		&detail.Source.Name,
		&detail.Source.ClosestBigCity,
		&detail.Destination.ID,
		&detail.Destination.Name,
		&detail.Destination.ClosestBigCity,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get route detail: %w", err)
	}

	return &detail, nil
}

// List retrieves routes matching the filter with pagination,
// airports flattened to their names
func (r *RouteRepository) List(filter RouteFilter, limit, offset int) ([]RouteListRow, int, error) {
	where := ""
	args := []interface{}{}

	if filter.From != "" {
		args = append(args, "%"+filter.From+"%")
		where += fmt.Sprintf(" AND s.name ILIKE $%d", len(args))
	}

	if filter.To != "" {
		args = append(args, "%"+filter.To+"%")
		where += fmt.Sprintf(" AND d.name ILIKE $%d", len(args))
	}

	fromClause := `
		FROM routes r
		JOIN airports s ON s.id = r.source_id
		JOIN airports d ON d.id = r.destination_id
		WHERE 1=1` + where

	var total int
	countQuery := "SELECT COUNT(*) " + fromClause
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count routes: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT r.id AS id, s.name AS source, d.name AS destination, r.distance AS distance
		%s
		ORDER BY r.id
		LIMIT $%d OFFSET $%d
	`, fromClause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	routes := []RouteListRow{}
	if err := r.db.Select(&routes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list routes: %w", err)
	}

	return routes, total, nil
}
