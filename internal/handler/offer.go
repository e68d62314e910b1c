package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// OfferHandler handles HTTP requests for offers.
type OfferHandler struct {
	offerService *service.OfferService
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(offerService *service.OfferService) *OfferHandler {
	return &OfferHandler{offerService: offerService}
}

// CreateOfferRequest is the HTTP request body for offer creation.
type CreateOfferRequest struct {
	TripID    string `json:"trip_id"`
	RequestID string `json:"request_id"`
}

// OfferResponse is the HTTP response for offer data.
type OfferResponse struct {
	ID        string `json:"id"`
	TripID    string `json:"trip_id"`
	RequestID string `json:"request_id"`
	Fare      string `json:"fare"`
	Detour    int    `json:"detour"`
	Status    string `json:"status"`
}

func toOfferResponse(offer *domain.Offer) OfferResponse {
	return OfferResponse{
		ID:        offer.ID,
		TripID:    offer.TripID,
		RequestID: offer.RequestID,
		Fare:      offer.Fare.StringFixed(2),
		Detour:    offer.Detour,
		Status:    string(offer.Status),
	}
}

// CreateOffer handles POST /v1/offers
func (h *OfferHandler) CreateOffer(c *gin.Context) {
	driverID, ok := callerID(c)
	if !ok {
		return
	}

	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	offer, err := h.offerService.CreateOffer(c.Request.Context(), req.TripID, req.RequestID, driverID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOfferResponse(offer))
}

// AcceptOffer handles POST /v1/offers/:id/accept
func (h *OfferHandler) AcceptOffer(c *gin.Context) {
	passengerID, ok := callerID(c)
	if !ok {
		return
	}

	offer, err := h.offerService.AcceptOffer(c.Request.Context(), c.Param("id"), passengerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOfferResponse(offer))
}

// RejectOffer handles POST /v1/offers/:id/reject
func (h *OfferHandler) RejectOffer(c *gin.Context) {
	passengerID, ok := callerID(c)
	if !ok {
		return
	}

	offer, err := h.offerService.RejectOffer(c.Request.Context(), c.Param("id"), passengerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOfferResponse(offer))
}
