package models

import "time"

// Flight schedules an airplane on a route with an assigned crew.
// Arrival must be strictly after departure.
type Flight struct {
	ID            int64     `json:"id" db:"id"`
	RouteID       int64     `json:"route" db:"route_id"`
	AirplaneID    int64     `json:"airplane" db:"airplane_id"`
	DepartureTime time.Time `json:"departure_time" db:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time" db:"arrival_time"`
	CrewIDs       []int64   `json:"crew" db:"-"`
}

// FlightDetail carries a flight with every relation resolved plus the
// derived seat availability. AvailableTickets is computed per request
// from the airplane geometry and issued tickets; it is never cached.
type FlightDetail struct {
	ID               int64          `json:"id"`
	Route            RouteDetail    `json:"route"`
	Airplane         AirplaneDetail `json:"airplane"`
	DepartureTime    time.Time      `json:"departure_time"`
	ArrivalTime      time.Time      `json:"arrival_time"`
	Crew             []Crew         `json:"crew"`
	AvailableTickets int            `json:"available_tickets"`
}
