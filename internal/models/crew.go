package models

// Crew represents a crew member assignable to flights.
type Crew struct {
	ID        int64  `json:"id" db:"id"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
}

// FullName returns the display name used by crew filtering and flight listings.
func (c *Crew) FullName() string {
	return c.FirstName + " " + c.LastName
}
