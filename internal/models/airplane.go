package models

// AirplaneType is a label grouping airplanes by model family.
type AirplaneType struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Airplane represents a physical airplane and its seat geometry.
type Airplane struct {
	ID             int64  `json:"id" db:"id"`
	Name           string `json:"name" db:"name"`
	Rows           int    `json:"rows" db:"rows"`
	SeatsInRows    int    `json:"seats_in_rows" db:"seats_in_rows"`
	AirplaneTypeID int64  `json:"airplane_type" db:"airplane_type_id"`
}

// NumOfSeats is the total capacity derived from the seat geometry.
func (a *Airplane) NumOfSeats() int {
	return a.Rows * a.SeatsInRows
}

// AirplaneDetail is an airplane with its type resolved.
type AirplaneDetail struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Rows         int          `json:"rows"`
	SeatsInRows  int          `json:"seats_in_rows"`
	AirplaneType AirplaneType `json:"airplane_type"`
	NumOfSeats   int          `json:"num_of_seats"`
}
