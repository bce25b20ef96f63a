package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/skyport-systems/airport-reservation/internal/database"
	"github.com/skyport-systems/airport-reservation/internal/validation"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// FieldErrorResponse carries a validation failure tied to one field,
// keyed the way serializers report field errors
type FieldErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// respondRepositoryError maps repository sentinel errors onto HTTP
// responses. Uniqueness and order validation failures are client
// errors, missing rows are 404, anything else is a 500 that gets
// logged but not leaked.
func respondRepositoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "The requested resource does not exist",
		})
	case errors.Is(err, database.ErrSeatTaken),
		errors.Is(err, database.ErrFlightNotFound),
		errors.Is(err, database.ErrEmptyOrder),
		errors.Is(err, database.ErrConflict):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	default:
		logrus.WithError(err).Error("repository operation failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Something went wrong",
		})
	}
}

// respondFieldError writes a single-field validation failure
func respondFieldError(c *gin.Context, fieldErr *validation.FieldError) {
	c.JSON(http.StatusBadRequest, FieldErrorResponse{
		Error:  "validation_error",
		Fields: map[string]string{fieldErr.Field: fieldErr.Message},
	})
}

// respondRuleError writes a rule failure, with field detail when the
// rule reports one
func respondRuleError(c *gin.Context, err error) {
	var fieldErr *validation.FieldError
	if errors.As(err, &fieldErr) {
		respondFieldError(c, fieldErr)
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}

// respondRuleOrRepositoryError handles errors from operations that mix
// rule checks with storage, such as the order transaction
func respondRuleOrRepositoryError(c *gin.Context, err error) {
	var fieldErr *validation.FieldError
	if errors.As(err, &fieldErr) {
		respondFieldError(c, fieldErr)
		return
	}
	respondRepositoryError(c, err)
}

// respondBindingError writes the standard response for a request body
// that failed JSON binding
func respondBindingError(c *gin.Context) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: "Invalid request body",
	})
}

// parseIDParam reads the :id path parameter. On a non-numeric value
// the response is written and ok is false.
func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "id must be an integer",
		})
		return 0, false
	}
	return id, true
}
