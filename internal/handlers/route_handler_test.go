package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/skyport-systems/airport-reservation/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouteRouter(db *sqlx.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewRouteHandler(database.NewRouteRepository(db), testPaginationConfig())

	router := gin.New()
	router.GET("/routes", handler.ListRoutes)
	router.POST("/routes", handler.CreateRoute)
	return router
}

func TestListRoutes(t *testing.T) {
	routeColumns := []string{"id", "source", "destination", "distance"}

	t.Run("From and to narrow by airport name", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupRouteRouter(db)

		mock.ExpectQuery(`(?s)SELECT COUNT\(\*\).+s\.name ILIKE \$1.+d\.name ILIKE \$2`).
			WithArgs("%Heathrow%", "%Schiphol%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`(?s)SELECT r\.id AS id, s\.name AS source.+s\.name ILIKE \$1.+d\.name ILIKE \$2`).
			WithArgs("%Heathrow%", "%Schiphol%", 10, 0).
			WillReturnRows(sqlmock.NewRows(routeColumns).
				AddRow(int64(4), "Heathrow", "Schiphol", 370))

		req := httptest.NewRequest(http.MethodGet, "/routes?from=Heathrow&to=Schiphol", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Count   int                     `json:"count"`
			Results []database.RouteListRow `json:"results"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Count)
		require.Len(t, body.Results, 1)
		assert.Equal(t, "Heathrow", body.Results[0].Source)
		assert.Equal(t, "Schiphol", body.Results[0].Destination)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No filters lists everything", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupRouteRouter(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\)`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery(`SELECT r\.id AS id, s\.name AS source`).
			WithArgs(10, 0).
			WillReturnRows(sqlmock.NewRows(routeColumns).
				AddRow(int64(4), "Heathrow", "Schiphol", 370).
				AddRow(int64(5), "Schiphol", "Heathrow", 370))

		req := httptest.NewRequest(http.MethodGet, "/routes", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 2, body.Count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("From filter with no matches", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupRouteRouter(db)

		mock.ExpectQuery(`(?s)SELECT COUNT\(\*\).+s\.name ILIKE \$1`).
			WithArgs("%Gatwick%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`(?s)SELECT r\.id AS id, s\.name AS source.+s\.name ILIKE \$1`).
			WithArgs("%Gatwick%", 10, 0).
			WillReturnRows(sqlmock.NewRows(routeColumns))

		req := httptest.NewRequest(http.MethodGet, "/routes?from=Gatwick", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"count":0`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateRouteEndpoint(t *testing.T) {
	t.Run("Destination equal to source is rejected", func(t *testing.T) {
		db, _ := setupTestDB(t)
		router := setupRouteRouter(db)

		payload, _ := json.Marshal(gin.H{"source": 3, "destination": 3, "distance": 100})
		req := httptest.NewRequest(http.MethodPost, "/routes", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body FieldErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "destination cannot be the same as source", body.Fields["destination"])
	})

	t.Run("Success", func(t *testing.T) {
		db, mock := setupTestDB(t)
		router := setupRouteRouter(db)

		mock.ExpectQuery(`INSERT INTO routes`).
			WithArgs(int64(3), int64(7), 370).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))

		payload, _ := json.Marshal(gin.H{"source": 3, "destination": 7, "distance": 370})
		req := httptest.NewRequest(http.MethodPost, "/routes", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":4`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
