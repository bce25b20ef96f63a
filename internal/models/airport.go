package models

// Airport represents an airport in the catalog.
// The (name, closest_big_city) pair is unique at the storage layer.
type Airport struct {
	ID             int64  `json:"id" db:"id"`
	Name           string `json:"name" db:"name"`
	ClosestBigCity string `json:"closest_big_city" db:"closest_big_city"`
}
