package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skyport-systems/airport-reservation/internal/config"
)

// pageParams holds the resolved pagination window for a list request
type pageParams struct {
	Page     int
	PageSize int
}

func (p pageParams) Limit() int {
	return p.PageSize
}

func (p pageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// parsePagination reads page and page_size query parameters, applying
// the configured defaults and clamping page_size to the configured
// maximum. Non-numeric and non-positive values are client errors; the
// response is written and ok is false.
func parsePagination(c *gin.Context, cfg config.PaginationConfig) (pageParams, bool) {
	params := pageParams{Page: 1, PageSize: cfg.PageSize}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "page must be a positive integer",
			})
			return pageParams{}, false
		}
		params.Page = page
	}

	if raw := c.Query("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "page_size must be a positive integer",
			})
			return pageParams{}, false
		}
		if size > cfg.MaxPageSize {
			size = cfg.MaxPageSize
		}
		params.PageSize = size
	}

	return params, true
}

// respondPage writes the standard list envelope. A page past the end
// of a non-empty result set is a client error rather than an empty
// list.
func respondPage(c *gin.Context, params pageParams, count int, results interface{}) {
	if count > 0 && params.Offset() >= count {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "invalid_page",
			Message: "That page contains no results",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   count,
		"results": results,
	})
}
