package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skyport-systems/airport-reservation/internal/config"
	"github.com/skyport-systems/airport-reservation/internal/database"
)

// CrewHandler handles crew catalog operations
type CrewHandler struct {
	crewRepo   *database.CrewRepository
	pagination config.PaginationConfig
}

// NewCrewHandler creates a new crew handler
func NewCrewHandler(crewRepo *database.CrewRepository, pagination config.PaginationConfig) *CrewHandler {
	return &CrewHandler{
		crewRepo:   crewRepo,
		pagination: pagination,
	}
}

// CreateCrewRequest represents the request to create a crew member
type CreateCrewRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// CreateCrew handles POST /api/v1/crews
func (h *CrewHandler) CreateCrew(c *gin.Context) {
	var req CreateCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c)
		return
	}

	crew, err := h.crewRepo.Create(req.FirstName, req.LastName)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, crew)
}

// ListCrews handles GET /api/v1/crews. The full_name filter matches
// against the concatenated first and last name.
func (h *CrewHandler) ListCrews(c *gin.Context) {
	params, ok := parsePagination(c, h.pagination)
	if !ok {
		return
	}

	filter := database.CrewFilter{
		FullName: c.Query("full_name"),
	}

	crews, count, err := h.crewRepo.List(filter, params.Limit(), params.Offset())
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	respondPage(c, params, count, crews)
}

// GetCrew handles GET /api/v1/crews/:id
func (h *CrewHandler) GetCrew(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	crew, err := h.crewRepo.GetByID(id)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, crew)
}
