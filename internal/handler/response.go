package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"parcel/internal/repository"
	"parcel/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		// Do not leak store or processor internals to callers.
		c.JSON(code, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidParcelType),
		errors.Is(err, service.ErrInvalidParcelID),
		errors.Is(err, service.ErrInvalidRiderID),
		errors.Is(err, service.ErrInvalidRiderEmail),
		errors.Is(err, service.ErrInvalidDistrict),
		errors.Is(err, service.ErrInvalidDecision),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidTransactionID),
		errors.Is(err, service.ErrInvalidTrackingStatus),
		errors.Is(err, service.ErrInvalidSearchFragment):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrAssignmentInProgress):
		return http.StatusConflict

	// Service unavailable
	case errors.Is(err, service.ErrGatewayUnavailable):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
