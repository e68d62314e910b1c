package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// RequestService owns the ride request lifecycle on the passenger side.
type RequestService struct {
	requestRepo repository.RequestRepository
	offerRepo   repository.OfferRepository
	graph       repository.GraphRepository
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requestRepo repository.RequestRepository,
	offerRepo repository.OfferRepository,
	graph repository.GraphRepository,
) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		offerRepo:   offerRepo,
		graph:       graph,
	}
}

// CreateRequest registers a pending pickup/dropoff ask for a passenger.
func (s *RequestService) CreateRequest(ctx context.Context, passengerID, pickupNodeID, dropoffNodeID string) (*domain.RideRequest, error) {
	if passengerID == "" {
		return nil, ErrInvalidUserID
	}
	if pickupNodeID == "" || dropoffNodeID == "" {
		return nil, ErrInvalidNodeID
	}
	if pickupNodeID == dropoffNodeID {
		return nil, ErrSameNodes
	}

	for _, nodeID := range []string{pickupNodeID, dropoffNodeID} {
		exists, err := s.graph.NodeExists(ctx, nodeID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, repository.ErrNotFound
		}
	}

	req := &domain.RideRequest{
		ID:            uuid.New().String(),
		PassengerID:   passengerID,
		PickupNodeID:  pickupNodeID,
		DropoffNodeID: dropoffNodeID,
		Status:        domain.RequestStatusPending,
		CreatedAt:     time.Now(),
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	return req, nil
}

// GetPassengerRequests retrieves all requests made by a passenger.
func (s *RequestService) GetPassengerRequests(ctx context.Context, passengerID string) ([]*domain.RideRequest, error) {
	if passengerID == "" {
		return nil, ErrInvalidUserID
	}
	return s.requestRepo.GetByPassengerID(ctx, passengerID)
}

// CancelRequest cancels a pending request. Passenger only; accepted
// requests are bound to a trip and can no longer be withdrawn here.
func (s *RequestService) CancelRequest(ctx context.Context, requestID, passengerID string) (*domain.RideRequest, error) {
	req, err := s.ownedRequest(ctx, requestID, passengerID)
	if err != nil {
		return nil, err
	}

	if req.Status != domain.RequestStatusPending {
		return nil, ErrRequestNotPending
	}

	if err := s.requestRepo.UpdateStatus(ctx, req.ID, domain.RequestStatusCancelled); err != nil {
		return nil, err
	}

	req.Status = domain.RequestStatusCancelled
	return req, nil
}

// ListOffers retrieves the offers made against a passenger's request.
func (s *RequestService) ListOffers(ctx context.Context, requestID, passengerID string) ([]*domain.Offer, error) {
	req, err := s.ownedRequest(ctx, requestID, passengerID)
	if err != nil {
		return nil, err
	}

	return s.offerRepo.GetByRequestID(ctx, req.ID)
}

func (s *RequestService) ownedRequest(ctx context.Context, requestID, passengerID string) (*domain.RideRequest, error) {
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}
	if passengerID == "" {
		return nil, ErrInvalidUserID
	}

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.PassengerID != passengerID {
		return nil, ErrUnauthorized
	}

	return req, nil
}
