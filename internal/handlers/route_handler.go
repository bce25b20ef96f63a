package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skyport-systems/airport-reservation/internal/config"
	"github.com/skyport-systems/airport-reservation/internal/database"
	"github.com/skyport-systems/airport-reservation/internal/validation"
)

// RouteHandler handles route catalog operations
type RouteHandler struct {
	routeRepo  *database.RouteRepository
	pagination config.PaginationConfig
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routeRepo *database.RouteRepository, pagination config.PaginationConfig) *RouteHandler {
	return &RouteHandler{
		routeRepo:  routeRepo,
		pagination: pagination,
	}
}

// CreateRouteRequest represents the request to create a route
type CreateRouteRequest struct {
	Source      int64 `json:"source" binding:"required"`
	Destination int64 `json:"destination" binding:"required"`
	Distance    int   `json:"distance" binding:"required,min=1"`
}

// CreateRoute handles POST /api/v1/routes
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	var req CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c)
		return
	}

	if err := validation.ValidateDestination(req.Source, req.Destination); err != nil {
		respondRuleError(c, err)
		return
	}

	route, err := h.routeRepo.Create(req.Source, req.Destination, req.Distance)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, route)
}

// ListRoutes handles GET /api/v1/routes. The from and to filters
// match against airport names.
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	params, ok := parsePagination(c, h.pagination)
	if !ok {
		return
	}

	filter := database.RouteFilter{
		From: c.Query("from"),
		To:   c.Query("to"),
	}

	routes, count, err := h.routeRepo.List(filter, params.Limit(), params.Offset())
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	respondPage(c, params, count, routes)
}

// GetRoute handles GET /api/v1/routes/:id and returns the route with
// its airports expanded
func (h *RouteHandler) GetRoute(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	route, err := h.routeRepo.GetDetail(id)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, route)
}
