package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// RequestHandler handles HTTP requests for ride requests.
type RequestHandler struct {
	requestService *service.RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requestService *service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// CreateRideRequest is the HTTP request body for ride request creation.
type CreateRideRequest struct {
	PickupNodeID  string `json:"pickup_node_id"`
	DropoffNodeID string `json:"dropoff_node_id"`
}

// RideRequestResponse is the HTTP response for ride request data.
type RideRequestResponse struct {
	ID            string `json:"id"`
	PassengerID   string `json:"passenger_id"`
	PickupNodeID  string `json:"pickup_node_id"`
	DropoffNodeID string `json:"dropoff_node_id"`
	Status        string `json:"status"`
}

func toRequestResponse(req *domain.RideRequest) RideRequestResponse {
	return RideRequestResponse{
		ID:            req.ID,
		PassengerID:   req.PassengerID,
		PickupNodeID:  req.PickupNodeID,
		DropoffNodeID: req.DropoffNodeID,
		Status:        string(req.Status),
	}
}

// CreateRequest handles POST /v1/requests
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	passengerID, ok := callerID(c)
	if !ok {
		return
	}

	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	created, err := h.requestService.CreateRequest(c.Request.Context(), passengerID, req.PickupNodeID, req.DropoffNodeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toRequestResponse(created))
}

// GetAll handles GET /v1/requests (the caller's requests)
func (h *RequestHandler) GetAll(c *gin.Context) {
	passengerID, ok := callerID(c)
	if !ok {
		return
	}

	requests, err := h.requestService.GetPassengerRequests(c.Request.Context(), passengerID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RideRequestResponse, 0, len(requests))
	for _, req := range requests {
		response = append(response, toRequestResponse(req))
	}

	c.JSON(http.StatusOK, response)
}

// CancelRequest handles POST /v1/requests/:id/cancel
func (h *RequestHandler) CancelRequest(c *gin.Context) {
	passengerID, ok := callerID(c)
	if !ok {
		return
	}

	req, err := h.requestService.CancelRequest(c.Request.Context(), c.Param("id"), passengerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRequestResponse(req))
}

// ListOffers handles GET /v1/requests/:id/offers
func (h *RequestHandler) ListOffers(c *gin.Context) {
	passengerID, ok := callerID(c)
	if !ok {
		return
	}

	offers, err := h.requestService.ListOffers(c.Request.Context(), c.Param("id"), passengerID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]OfferResponse, 0, len(offers))
	for _, offer := range offers {
		response = append(response, toOfferResponse(offer))
	}

	c.JSON(http.StatusOK, response)
}
