package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skyport-systems/airport-reservation/internal/config"
	"github.com/skyport-systems/airport-reservation/internal/database"
	"github.com/skyport-systems/airport-reservation/internal/validation"
)

// timeFilterLayout is the only accepted format for the exact
// departure_time and arrival_time query filters
const timeFilterLayout = "2006-01-02T15:04:05Z"

// FlightHandler handles flight operations
type FlightHandler struct {
	flightRepo *database.FlightRepository
	pagination config.PaginationConfig
	now        func() time.Time
}

// NewFlightHandler creates a new flight handler
func NewFlightHandler(flightRepo *database.FlightRepository, pagination config.PaginationConfig) *FlightHandler {
	return &FlightHandler{
		flightRepo: flightRepo,
		pagination: pagination,
		now:        time.Now,
	}
}

// CreateFlightRequest represents the request to create a flight
type CreateFlightRequest struct {
	Route         int64     `json:"route" binding:"required"`
	Airplane      int64     `json:"airplane" binding:"required"`
	DepartureTime time.Time `json:"departure_time" binding:"required"`
	ArrivalTime   time.Time `json:"arrival_time" binding:"required"`
	Crews         []int64   `json:"crews"`
}

// CreateFlight handles POST /api/v1/flights
func (h *FlightHandler) CreateFlight(c *gin.Context) {
	var req CreateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c)
		return
	}

	if err := validation.ValidateArrival(req.DepartureTime, req.ArrivalTime); err != nil {
		respondRuleError(c, err)
		return
	}

	flight, err := h.flightRepo.Create(req.Route, req.Airplane, req.DepartureTime, req.ArrivalTime, req.Crews)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, flight)
}

// ListFlights handles GET /api/v1/flights. Only flights that have not
// departed yet are listed. The from and to filters match against route
// endpoint cities; departure_time and arrival_time are exact matches
// in the 2006-01-02T15:04:05Z format.
func (h *FlightHandler) ListFlights(c *gin.Context) {
	params, ok := parsePagination(c, h.pagination)
	if !ok {
		return
	}

	filter := database.FlightFilter{
		From: c.Query("from"),
		To:   c.Query("to"),
	}

	if raw := c.Query("departure_time"); raw != "" {
		t, err := time.Parse(timeFilterLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "departure_time must be in the format " + timeFilterLayout,
			})
			return
		}
		filter.DepartureTime = &t
	}

	if raw := c.Query("arrival_time"); raw != "" {
		t, err := time.Parse(timeFilterLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "arrival_time must be in the format " + timeFilterLayout,
			})
			return
		}
		filter.ArrivalTime = &t
	}

	flights, count, err := h.flightRepo.List(filter, h.now(), params.Limit(), params.Offset())
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	respondPage(c, params, count, flights)
}

// GetFlight handles GET /api/v1/flights/:id with the route, airplane
// and crew expanded. Departed flights are not visible here, matching
// the listing.
func (h *FlightHandler) GetFlight(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	flight, err := h.flightRepo.GetUpcomingDetail(id, h.now())
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, flight)
}
