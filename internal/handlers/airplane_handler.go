package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skyport-systems/airport-reservation/internal/config"
	"github.com/skyport-systems/airport-reservation/internal/database"
	"github.com/skyport-systems/airport-reservation/internal/validation"
)

// AirplaneHandler handles airplane catalog operations
type AirplaneHandler struct {
	airplaneRepo *database.AirplaneRepository
	pagination   config.PaginationConfig
}

// NewAirplaneHandler creates a new airplane handler
func NewAirplaneHandler(airplaneRepo *database.AirplaneRepository, pagination config.PaginationConfig) *AirplaneHandler {
	return &AirplaneHandler{
		airplaneRepo: airplaneRepo,
		pagination:   pagination,
	}
}

// CreateAirplaneRequest represents the request to create an airplane
type CreateAirplaneRequest struct {
	Name         string `json:"name" binding:"required"`
	Rows         int    `json:"rows" binding:"required"`
	SeatsInRows  int    `json:"seats_in_rows" binding:"required"`
	AirplaneType int64  `json:"airplane_type" binding:"required"`
}

// CreateAirplane handles POST /api/v1/airplanes
func (h *AirplaneHandler) CreateAirplane(c *gin.Context) {
	var req CreateAirplaneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c)
		return
	}

	if err := validation.ValidateAirplaneGeometry(req.Rows, req.SeatsInRows); err != nil {
		respondRuleError(c, err)
		return
	}

	airplane, err := h.airplaneRepo.Create(req.Name, req.Rows, req.SeatsInRows, req.AirplaneType)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, airplane)
}

// ListAirplanes handles GET /api/v1/airplanes
func (h *AirplaneHandler) ListAirplanes(c *gin.Context) {
	params, ok := parsePagination(c, h.pagination)
	if !ok {
		return
	}

	filter := database.AirplaneFilter{
		Name:         c.Query("name"),
		AirplaneType: c.Query("airplane_type"),
	}

	airplanes, count, err := h.airplaneRepo.List(filter, params.Limit(), params.Offset())
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	respondPage(c, params, count, airplanes)
}

// GetAirplane handles GET /api/v1/airplanes/:id and returns the
// airplane with its type expanded
func (h *AirplaneHandler) GetAirplane(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	airplane, err := h.airplaneRepo.GetDetail(id)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, airplane)
}
