package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/skyport-systems/airport-reservation/internal/database"
	"github.com/skyport-systems/airport-reservation/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOrderRouter(db *sqlx.DB, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewOrderHandler(
		database.NewOrderRepository(db),
		database.NewFlightRepository(db),
		testPaginationConfig(),
	)

	router := gin.New()
	// Simulate AuthMiddleware having run
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserContextKey, middleware.UserContext{
			UserID:     userID,
			Email:      "traveler@example.com",
			IsVerified: true,
		})
	})
	router.POST("/orders", handler.CreateOrder)
	router.GET("/orders", handler.ListOrders)
	router.GET("/orders/:id", handler.GetOrder)
	return router
}

func TestCreateOrderEndpoint(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupOrderRouter(db, userID)
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))
		mock.ExpectQuery(`SELECT a.rows, a.seats_in_rows`).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"rows", "seats_in_rows"}).AddRow(20, 6))
		mock.ExpectQuery(`INSERT INTO tickets`).
			WithArgs(4, 3, int64(2), int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
		mock.ExpectCommit()

		payload, _ := json.Marshal(gin.H{
			"tickets": []gin.H{{"row": 4, "seat": 3, "flight": 2}},
		})

		req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var body OrderResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, int64(7), body.ID)
		require.Len(t, body.Tickets, 1)
		assert.Equal(t, int64(11), body.Tickets[0].ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Seat conflict rejects the whole submission", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupOrderRouter(db, userID)
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(8), now))
		mock.ExpectQuery(`SELECT a.rows, a.seats_in_rows`).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"rows", "seats_in_rows"}).AddRow(20, 6))
		mock.ExpectQuery(`INSERT INTO tickets`).
			WithArgs(4, 3, int64(2), int64(8)).
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		payload, _ := json.Marshal(gin.H{
			"tickets": []gin.H{{"row": 4, "seat": 3, "flight": 2}},
		})

		req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "seat is already taken")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Seat out of range reports the field", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupOrderRouter(db, userID)
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(9), now))
		mock.ExpectQuery(`SELECT a.rows, a.seats_in_rows`).
			WithArgs(int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"rows", "seats_in_rows"}).AddRow(20, 6))
		mock.ExpectRollback()

		payload, _ := json.Marshal(gin.H{
			"tickets": []gin.H{{"row": 4, "seat": 9, "flight": 2}},
		})

		req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body FieldErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "seat must be in range [1, 6]", body.Fields["seat"])

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing tickets array fails binding", func(t *testing.T) {
		db, _ := setupTestDB(t)
		router := setupOrderRouter(db, userID)

		req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetOrderEndpoint(t *testing.T) {
	userID := uuid.New()

	t.Run("Someone else's order is a 404", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupOrderRouter(db, userID)

		mock.ExpectQuery(`SELECT id, user_id, created_at`).
			WithArgs(int64(7), userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at"}))

		req := httptest.NewRequest(http.MethodGet, "/orders/7", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
