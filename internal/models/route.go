package models

// Route connects a source airport to a destination airport.
// Source and destination must differ; the rule is enforced by the
// validation package on every create path.
type Route struct {
	ID            int64 `json:"id" db:"id"`
	SourceID      int64 `json:"source" db:"source_id"`
	DestinationID int64 `json:"destination" db:"destination_id"`
	Distance      int   `json:"distance" db:"distance"`
}

// RouteDetail is a route with its airports resolved.
type RouteDetail struct {
	ID          int64   `json:"id"`
	Source      Airport `json:"source"`
	Destination Airport `json:"destination"`
	Distance    int     `json:"distance"`
}
