package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skyport-systems/airport-reservation/internal/config"
	"github.com/skyport-systems/airport-reservation/internal/database"
)

// AirplaneTypeHandler handles airplane type catalog operations
type AirplaneTypeHandler struct {
	typeRepo   *database.AirplaneTypeRepository
	pagination config.PaginationConfig
}

// NewAirplaneTypeHandler creates a new airplane type handler
func NewAirplaneTypeHandler(typeRepo *database.AirplaneTypeRepository, pagination config.PaginationConfig) *AirplaneTypeHandler {
	return &AirplaneTypeHandler{
		typeRepo:   typeRepo,
		pagination: pagination,
	}
}

// CreateAirplaneTypeRequest represents the request to create an airplane type
type CreateAirplaneTypeRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateAirplaneType handles POST /api/v1/airplane-types
func (h *AirplaneTypeHandler) CreateAirplaneType(c *gin.Context) {
	var req CreateAirplaneTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c)
		return
	}

	airplaneType, err := h.typeRepo.Create(req.Name)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, airplaneType)
}

// ListAirplaneTypes handles GET /api/v1/airplane-types
func (h *AirplaneTypeHandler) ListAirplaneTypes(c *gin.Context) {
	params, ok := parsePagination(c, h.pagination)
	if !ok {
		return
	}

	filter := database.AirplaneTypeFilter{
		Name: c.Query("name"),
	}

	types, count, err := h.typeRepo.List(filter, params.Limit(), params.Offset())
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	respondPage(c, params, count, types)
}

// GetAirplaneType handles GET /api/v1/airplane-types/:id
func (h *AirplaneTypeHandler) GetAirplaneType(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	airplaneType, err := h.typeRepo.GetByID(id)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, airplaneType)
}
