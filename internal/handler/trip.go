package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService     *service.TripService
	matchingService *service.MatchingService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService, matchingService *service.MatchingService) *TripHandler {
	return &TripHandler{tripService: tripService, matchingService: matchingService}
}

// CreateTripRequest is the HTTP request body for trip creation.
type CreateTripRequest struct {
	StartNodeID   string `json:"start_node_id"`
	EndNodeID     string `json:"end_node_id"`
	MaxPassengers int    `json:"max_passengers"`
}

// UpdatePositionRequest is the HTTP request body for position updates.
type UpdatePositionRequest struct {
	NodeID string `json:"node_id"`
}

// TripResponse is the HTTP response for trip operations.
type TripResponse struct {
	ID            string   `json:"id"`
	DriverID      string   `json:"driver_id"`
	StartNodeID   string   `json:"start_node_id"`
	EndNodeID     string   `json:"end_node_id"`
	Route         []string `json:"route"`
	CurrentNodeID string   `json:"current_node_id,omitempty"`
	PassedNodeIDs []string `json:"passed_node_ids"`
	MaxPassengers int      `json:"max_passengers"`
	Status        string   `json:"status"`
}

// MatchCandidateResponse is one matchable request in a matching response.
type MatchCandidateResponse struct {
	RequestID     string `json:"request_id"`
	PassengerID   string `json:"passenger_id"`
	PickupNodeID  string `json:"pickup_node_id"`
	DropoffNodeID string `json:"dropoff_node_id"`
	Detour        int    `json:"detour"`
	ProposedFare  string `json:"proposed_fare"`
}

func toTripResponse(trip *domain.Trip) TripResponse {
	return TripResponse{
		ID:            trip.ID,
		DriverID:      trip.DriverID,
		StartNodeID:   trip.StartNodeID,
		EndNodeID:     trip.EndNodeID,
		Route:         trip.Route,
		CurrentNodeID: trip.CurrentNodeID,
		PassedNodeIDs: trip.PassedNodeIDs,
		MaxPassengers: trip.MaxPassengers,
		Status:        string(trip.Status),
	}
}

// CreateTrip handles POST /v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	driverID, ok := callerID(c)
	if !ok {
		return
	}

	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), service.CreateTripRequest{
		DriverID:      driverID,
		StartNodeID:   req.StartNodeID,
		EndNodeID:     req.EndNodeID,
		MaxPassengers: req.MaxPassengers,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTripResponse(trip))
}

// GetAll handles GET /v1/trips (the caller's trips)
func (h *TripHandler) GetAll(c *gin.Context) {
	driverID, ok := callerID(c)
	if !ok {
		return
	}

	trips, err := h.tripService.GetDriverTrips(c.Request.Context(), driverID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		response = append(response, toTripResponse(trip))
	}

	c.JSON(http.StatusOK, response)
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTripResponse(trip))
}

// StartTrip handles POST /v1/trips/:id/start
func (h *TripHandler) StartTrip(c *gin.Context) {
	driverID, ok := callerID(c)
	if !ok {
		return
	}

	trip, err := h.tripService.StartTrip(c.Request.Context(), c.Param("id"), driverID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTripResponse(trip))
}

// UpdatePosition handles POST /v1/trips/:id/position
func (h *TripHandler) UpdatePosition(c *gin.Context) {
	driverID, ok := callerID(c)
	if !ok {
		return
	}

	var req UpdatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.UpdatePosition(c.Request.Context(), c.Param("id"), req.NodeID, driverID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTripResponse(trip))
}

// GetMatches handles GET /v1/trips/:id/matches
func (h *TripHandler) GetMatches(c *gin.Context) {
	driverID, ok := callerID(c)
	if !ok {
		return
	}

	candidates, err := h.matchingService.MatchRequests(c.Request.Context(), c.Param("id"), driverID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]MatchCandidateResponse, 0, len(candidates))
	for _, cand := range candidates {
		response = append(response, MatchCandidateResponse{
			RequestID:     cand.Request.ID,
			PassengerID:   cand.Request.PassengerID,
			PickupNodeID:  cand.Request.PickupNodeID,
			DropoffNodeID: cand.Request.DropoffNodeID,
			Detour:        cand.Detour,
			ProposedFare:  cand.ProposedFare.StringFixed(2),
		})
	}

	c.JSON(http.StatusOK, response)
}

// CompleteTrip handles POST /v1/trips/:id/complete
func (h *TripHandler) CompleteTrip(c *gin.Context) {
	driverID, ok := callerID(c)
	if !ok {
		return
	}

	trip, err := h.tripService.CompleteTrip(c.Request.Context(), c.Param("id"), driverID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTripResponse(trip))
}

// CancelTrip handles POST /v1/trips/:id/cancel
func (h *TripHandler) CancelTrip(c *gin.Context) {
	driverID, ok := callerID(c)
	if !ok {
		return
	}

	trip, err := h.tripService.CancelTrip(c.Request.Context(), c.Param("id"), driverID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTripResponse(trip))
}
