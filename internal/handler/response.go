package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/repository"
	"carpool/internal/service"
)

// userIDHeader carries the caller's opaque user ID. Authentication is an
// upstream concern; this service only checks ownership.
const userIDHeader = "X-User-ID"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// callerID extracts the caller's user ID, failing the request when absent.
func callerID(c *gin.Context) (string, bool) {
	id := c.GetHeader(userIDHeader)
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing " + userIDHeader + " header"})
		return "", false
	}
	return id, true
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrNoPath):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidRequestID),
		errors.Is(err, service.ErrInvalidOfferID),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidNodeID),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrSameNodes),
		errors.Is(err, service.ErrNodeNotOnRoute),
		errors.Is(err, service.ErrInvalidFareRange):
		return http.StatusBadRequest

	// Infeasible detour: nothing to offer on this request
	case errors.Is(err, service.ErrInfeasibleDetour):
		return http.StatusUnprocessableEntity

	// Conflicts; retryable by the caller after re-reading state
	case errors.Is(err, service.ErrStaleOffer),
		errors.Is(err, service.ErrOfferNotPending),
		errors.Is(err, service.ErrRequestNotPending),
		errors.Is(err, service.ErrTripBusy),
		errors.Is(err, service.ErrRequestBusy),
		errors.Is(err, service.ErrTripNotActive),
		errors.Is(err, service.ErrTripNotScheduled),
		errors.Is(err, service.ErrTripAlreadyCompleted),
		errors.Is(err, service.ErrTripTerminal):
		return http.StatusConflict

	// Ownership failures
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden

	// Settlement-time balance failures
	case errors.Is(err, service.ErrInsufficientFunds):
		return http.StatusPaymentRequired

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
