package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skyport-systems/airport-reservation/internal/config"
	"github.com/skyport-systems/airport-reservation/internal/database"
)

// AirportHandler handles airport catalog operations
type AirportHandler struct {
	airportRepo *database.AirportRepository
	pagination  config.PaginationConfig
}

// NewAirportHandler creates a new airport handler
func NewAirportHandler(airportRepo *database.AirportRepository, pagination config.PaginationConfig) *AirportHandler {
	return &AirportHandler{
		airportRepo: airportRepo,
		pagination:  pagination,
	}
}

// CreateAirportRequest represents the request to create an airport
type CreateAirportRequest struct {
	Name           string `json:"name" binding:"required"`
	ClosestBigCity string `json:"closest_big_city" binding:"required"`
}

// CreateAirport handles POST /api/v1/airports
func (h *AirportHandler) CreateAirport(c *gin.Context) {
	var req CreateAirportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c)
		return
	}

	airport, err := h.airportRepo.Create(req.Name, req.ClosestBigCity)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, airport)
}

// ListAirports handles GET /api/v1/airports
func (h *AirportHandler) ListAirports(c *gin.Context) {
	params, ok := parsePagination(c, h.pagination)
	if !ok {
		return
	}

	filter := database.AirportFilter{
		Name: c.Query("name"),
	}

	airports, count, err := h.airportRepo.List(filter, params.Limit(), params.Offset())
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	respondPage(c, params, count, airports)
}

// GetAirport handles GET /api/v1/airports/:id
func (h *AirportHandler) GetAirport(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	airport, err := h.airportRepo.GetByID(id)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, airport)
}
