package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/skyport-systems/airport-reservation/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPaginationConfig() config.PaginationConfig {
	return config.PaginationConfig{PageSize: 10, MaxPageSize: 100}
}

func paginationContext(t *testing.T, query string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/list?"+query, nil)
	return c, w
}

func TestParsePagination(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		c, _ := paginationContext(t, "")

		params, ok := parsePagination(c, testPaginationConfig())
		require.True(t, ok)
		assert.Equal(t, 1, params.Page)
		assert.Equal(t, 10, params.PageSize)
		assert.Equal(t, 10, params.Limit())
		assert.Equal(t, 0, params.Offset())
	})

	t.Run("Explicit page and size", func(t *testing.T) {
		c, _ := paginationContext(t, "page=3&page_size=25")

		params, ok := parsePagination(c, testPaginationConfig())
		require.True(t, ok)
		assert.Equal(t, 25, params.Limit())
		assert.Equal(t, 50, params.Offset())
	})

	t.Run("Page size is clamped to the maximum", func(t *testing.T) {
		c, _ := paginationContext(t, "page_size=5000")

		params, ok := parsePagination(c, testPaginationConfig())
		require.True(t, ok)
		assert.Equal(t, 100, params.PageSize)
	})

	tests := []struct {
		name  string
		query string
	}{
		{"Non-numeric page", "page=abc"},
		{"Zero page", "page=0"},
		{"Negative page", "page=-2"},
		{"Non-numeric page size", "page_size=ten"},
		{"Zero page size", "page_size=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := paginationContext(t, tt.query)

			_, ok := parsePagination(c, testPaginationConfig())
			assert.False(t, ok)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, "validation_error", response.Error)
		})
	}
}

func TestRespondPage(t *testing.T) {
	t.Run("Envelope carries count and results", func(t *testing.T) {
		c, w := paginationContext(t, "")

		respondPage(c, pageParams{Page: 1, PageSize: 10}, 2, []string{"a", "b"})

		assert.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Count   int      `json:"count"`
			Results []string `json:"results"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 2, body.Count)
		assert.Equal(t, []string{"a", "b"}, body.Results)
	})

	t.Run("Page past the end is a client error", func(t *testing.T) {
		c, w := paginationContext(t, "")

		respondPage(c, pageParams{Page: 4, PageSize: 10}, 12, []string{})

		assert.Equal(t, http.StatusNotFound, w.Code)

		var response ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "invalid_page", response.Error)
	})

	t.Run("First page of an empty set is fine", func(t *testing.T) {
		c, w := paginationContext(t, "")

		respondPage(c, pageParams{Page: 1, PageSize: 10}, 0, []string{})

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
