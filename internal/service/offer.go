package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"carpool/internal/config"
	"carpool/internal/domain"
	"carpool/internal/redis"
	"carpool/internal/repository"
)

const (
	tripLockTTL    = 10 * time.Second
	requestLockTTL = 10 * time.Second
)

// OfferService owns the offer lifecycle: creation against a trip's
// current route, single-winner acceptance with route splice, rejection.
type OfferService struct {
	uow         repository.UnitOfWork
	lockStore   redis.LockStoreInterface
	tripRepo    repository.TripRepository
	requestRepo repository.RequestRepository
	offerRepo   repository.OfferRepository
	planner     *DetourPlanner
	fares       FareCalculator
	fareCfg     config.FareConfig
}

// NewOfferService creates a new OfferService.
func NewOfferService(
	uow repository.UnitOfWork,
	lockStore redis.LockStoreInterface,
	tripRepo repository.TripRepository,
	requestRepo repository.RequestRepository,
	offerRepo repository.OfferRepository,
	planner *DetourPlanner,
	fareCfg config.FareConfig,
) *OfferService {
	return &OfferService{
		uow:         uow,
		lockStore:   lockStore,
		tripRepo:    tripRepo,
		requestRepo: requestRepo,
		offerRepo:   offerRepo,
		planner:     planner,
		fareCfg:     fareCfg,
	}
}

// CreateOffer lets a driver propose to serve a pending request. Detour
// and fare are always recomputed server-side from the trip's current
// remaining route; client-supplied numbers are never trusted. An
// infeasible detour or a degenerate fare range leaves no offer behind.
func (s *OfferService) CreateOffer(ctx context.Context, tripID, requestID, driverID string) (*domain.Offer, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.DriverID != driverID {
		return nil, ErrUnauthorized
	}
	if trip.Status != domain.TripStatusActive {
		return nil, ErrTripNotActive
	}

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.RequestStatusPending {
		return nil, ErrRequestNotPending
	}

	_, detour, fare, err := s.computeInsertion(ctx, trip, req)
	if err != nil {
		return nil, err
	}

	offer := &domain.Offer{
		ID:        uuid.New().String(),
		TripID:    trip.ID,
		RequestID: req.ID,
		Fare:      fare,
		Detour:    detour,
		Status:    domain.OfferStatusPending,
		CreatedAt: time.Now(),
	}

	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, err
	}

	return offer, nil
}

// AcceptOffer lets the request's passenger accept a pending offer. Under
// the request and trip locks it atomically re-verifies both statuses,
// recomputes the insertion against the trip's current remaining route,
// and commits offer, request and route mutation together. A recomputed
// detour or fare that differs from offer-creation time fails with
// ErrStaleOffer; nothing commits. Exactly one of two racing acceptances
// on the same request can win.
func (s *OfferService) AcceptOffer(ctx context.Context, offerID, passengerID string) (*domain.Offer, error) {
	if offerID == "" {
		return nil, ErrInvalidOfferID
	}

	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	req, err := s.requestRepo.GetByID(ctx, offer.RequestID)
	if err != nil {
		return nil, err
	}
	if req.PassengerID != passengerID {
		return nil, ErrUnauthorized
	}

	locked, err := s.lockStore.AcquireRequestLock(ctx, req.ID, requestLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrRequestBusy
	}
	defer func() { _ = s.lockStore.ReleaseRequestLock(ctx, req.ID) }()

	locked, err = s.lockStore.AcquireTripLock(ctx, offer.TripID, tripLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrTripBusy
	}
	defer func() { _ = s.lockStore.ReleaseTripLock(ctx, offer.TripID) }()

	err = s.uow.WithinTx(ctx, func(r repository.Repositories) error {
		// Re-read everything under the locks; the pre-lock reads only
		// established ownership.
		offer, err = r.Offers.GetByID(ctx, offerID)
		if err != nil {
			return err
		}
		if offer.Status != domain.OfferStatusPending {
			return ErrOfferNotPending
		}

		req, err = r.Requests.GetByID(ctx, offer.RequestID)
		if err != nil {
			return err
		}
		if req.Status != domain.RequestStatusPending {
			return ErrRequestNotPending
		}

		trip, err := r.Trips.GetByID(ctx, offer.TripID)
		if err != nil {
			return err
		}
		if trip.Status != domain.TripStatusActive {
			return ErrTripNotActive
		}

		newRemaining, detour, fare, err := s.computeInsertion(ctx, trip, req)
		if err != nil {
			return err
		}
		if detour != offer.Detour || !fare.Equal(offer.Fare) {
			return ErrStaleOffer
		}

		// Splice the new remaining route in after the already-passed
		// prefix; traversed hops are never rewritten.
		prefix := domain.Route{}
		if idx := trip.Route.IndexOf(trip.CurrentNodeID); idx > 0 {
			prefix = trip.Route[:idx].Clone()
		}
		trip.Route = append(prefix, newRemaining...)

		if err := r.Trips.Update(ctx, trip); err != nil {
			return err
		}
		if err := r.Requests.UpdateStatus(ctx, req.ID, domain.RequestStatusAccepted); err != nil {
			return err
		}
		if err := r.Offers.UpdateStatus(ctx, offer.ID, domain.OfferStatusAccepted); err != nil {
			return err
		}

		offer.Status = domain.OfferStatusAccepted
		return nil
	})
	if err != nil {
		return nil, err
	}

	return offer, nil
}

// RejectOffer lets the request's passenger decline a pending offer.
func (s *OfferService) RejectOffer(ctx context.Context, offerID, passengerID string) (*domain.Offer, error) {
	if offerID == "" {
		return nil, ErrInvalidOfferID
	}

	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	req, err := s.requestRepo.GetByID(ctx, offer.RequestID)
	if err != nil {
		return nil, err
	}
	if req.PassengerID != passengerID {
		return nil, ErrUnauthorized
	}
	if offer.Status != domain.OfferStatusPending {
		return nil, ErrOfferNotPending
	}

	if err := s.offerRepo.UpdateStatus(ctx, offer.ID, domain.OfferStatusRejected); err != nil {
		return nil, err
	}

	offer.Status = domain.OfferStatusRejected
	return offer, nil
}

// computeInsertion plans the request's insertion into the trip's current
// remaining route and prices it, with the occupancy snapshot derived
// from the trip's accepted offers.
func (s *OfferService) computeInsertion(ctx context.Context, trip *domain.Trip, req *domain.RideRequest) (domain.Route, int, decimal.Decimal, error) {
	remaining, _ := trip.RemainingRoute()

	newRemaining, detour, err := s.planner.PlanDetour(ctx, remaining, req.PickupNodeID, req.DropoffNodeID)
	if err != nil {
		return nil, 0, decimal.Zero, err
	}

	accepted, err := s.acceptedRequests(ctx, trip.ID)
	if err != nil {
		return nil, 0, decimal.Zero, err
	}

	fare := s.fares.ProposedFare(
		hopOccupancies(newRemaining, accepted),
		newRemaining,
		req.PickupNodeID,
		req.DropoffNodeID,
		s.fareCfg.UnitPrice,
		s.fareCfg.BaseFee,
	)
	if fare.IsZero() {
		return nil, 0, decimal.Zero, ErrInvalidFareRange
	}

	return newRemaining, detour, fare, nil
}

func (s *OfferService) acceptedRequests(ctx context.Context, tripID string) ([]*domain.RideRequest, error) {
	offers, err := s.offerRepo.GetByTripID(ctx, tripID, domain.OfferStatusAccepted)
	if err != nil {
		return nil, err
	}

	requests := make([]*domain.RideRequest, 0, len(offers))
	for _, offer := range offers {
		req, err := s.requestRepo.GetByID(ctx, offer.RequestID)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, nil
}
