package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skyport-systems/airport-reservation/internal/config"
	"github.com/skyport-systems/airport-reservation/internal/database"
	"github.com/skyport-systems/airport-reservation/internal/middleware"
	"github.com/skyport-systems/airport-reservation/internal/models"
)

// OrderHandler handles ticket order operations
type OrderHandler struct {
	orderRepo  *database.OrderRepository
	flightRepo *database.FlightRepository
	pagination config.PaginationConfig
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderRepo *database.OrderRepository, flightRepo *database.FlightRepository, pagination config.PaginationConfig) *OrderHandler {
	return &OrderHandler{
		orderRepo:  orderRepo,
		flightRepo: flightRepo,
		pagination: pagination,
	}
}

// CreateOrderRequest represents the request to purchase tickets
type CreateOrderRequest struct {
	Tickets []models.TicketRequest `json:"tickets" binding:"required"`
}

// OrderResponse is the representation returned after creating an order
type OrderResponse struct {
	ID        int64           `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Tickets   []models.Ticket `json:"tickets"`
}

// OrderDetailResponse nests the full flight representation per ticket
type OrderDetailResponse struct {
	ID        int64                 `json:"id"`
	CreatedAt time.Time             `json:"created_at"`
	Tickets   []models.TicketDetail `json:"tickets"`
}

// CreateOrder handles POST /api/v1/orders. All tickets are created
// with the order in one transaction; any invalid or already-taken seat
// rejects the whole submission.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c)
		return
	}

	result, err := h.orderRepo.CreateOrder(userCtx.UserID, req.Tickets)
	if err != nil {
		respondRuleOrRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, OrderResponse{
		ID:        result.Order.ID,
		CreatedAt: result.Order.CreatedAt,
		Tickets:   result.Tickets,
	})
}

// ListOrders handles GET /api/v1/orders and returns the caller's own
// orders, newest first
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	params, ok := parsePagination(c, h.pagination)
	if !ok {
		return
	}

	orders, count, err := h.orderRepo.ListByUser(userCtx.UserID, params.Limit(), params.Offset())
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	respondPage(c, params, count, orders)
}

// GetOrder handles GET /api/v1/orders/:id. Each ticket carries the
// full flight representation, including flights that have already
// departed. Another user's order is a 404.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	result, err := h.orderRepo.GetByIDForUser(id, userCtx.UserID)
	if err != nil {
		respondRepositoryError(c, err)
		return
	}

	tickets := make([]models.TicketDetail, 0, len(result.Tickets))
	for _, ticket := range result.Tickets {
		flight, err := h.flightRepo.GetDetail(ticket.FlightID)
		if err != nil {
			respondRepositoryError(c, err)
			return
		}
		tickets = append(tickets, models.TicketDetail{
			ID:     ticket.ID,
			Row:    ticket.Row,
			Seat:   ticket.Seat,
			Flight: *flight,
		})
	}

	c.JSON(http.StatusOK, OrderDetailResponse{
		ID:        result.Order.ID,
		CreatedAt: result.Order.CreatedAt,
		Tickets:   tickets,
	})
}
