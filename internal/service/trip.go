package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/redis"
	"carpool/internal/repository"
)

// TripService owns the trip lifecycle, from route planning at creation
// through position advancement to settlement at completion.
type TripService struct {
	uow         repository.UnitOfWork
	lockStore   redis.LockStoreInterface
	tripRepo    repository.TripRepository
	requestRepo repository.RequestRepository
	offerRepo   repository.OfferRepository
	walletRepo  repository.WalletRepository
	graph       repository.GraphRepository
	finder      *PathFinder
}

// NewTripService creates a new TripService.
func NewTripService(
	uow repository.UnitOfWork,
	lockStore redis.LockStoreInterface,
	tripRepo repository.TripRepository,
	requestRepo repository.RequestRepository,
	offerRepo repository.OfferRepository,
	walletRepo repository.WalletRepository,
	graph repository.GraphRepository,
	finder *PathFinder,
) *TripService {
	return &TripService{
		uow:         uow,
		lockStore:   lockStore,
		tripRepo:    tripRepo,
		requestRepo: requestRepo,
		offerRepo:   offerRepo,
		walletRepo:  walletRepo,
		graph:       graph,
		finder:      finder,
	}
}

// CreateTripRequest contains the parameters for creating a trip.
type CreateTripRequest struct {
	DriverID      string
	StartNodeID   string
	EndNodeID     string
	MaxPassengers int
}

// CreateTrip plans the initial route as the shortest path between start
// and end and creates the trip in SCHEDULED state, positioned at start.
func (s *TripService) CreateTrip(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	if req.DriverID == "" {
		return nil, ErrInvalidUserID
	}
	if req.StartNodeID == "" || req.EndNodeID == "" {
		return nil, ErrInvalidNodeID
	}
	if req.StartNodeID == req.EndNodeID {
		return nil, ErrSameNodes
	}

	for _, nodeID := range []string{req.StartNodeID, req.EndNodeID} {
		exists, err := s.graph.NodeExists(ctx, nodeID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, repository.ErrNotFound
		}
	}

	route, err := s.finder.ShortestPath(ctx, req.StartNodeID, req.EndNodeID)
	if err != nil {
		return nil, err
	}

	trip := &domain.Trip{
		ID:            uuid.New().String(),
		DriverID:      req.DriverID,
		StartNodeID:   req.StartNodeID,
		EndNodeID:     req.EndNodeID,
		Route:         route,
		CurrentNodeID: req.StartNodeID,
		PassedNodeIDs: []string{req.StartNodeID},
		MaxPassengers: req.MaxPassengers,
		Status:        domain.TripStatusScheduled,
		CreatedAt:     time.Now(),
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// GetTrip retrieves a trip by ID.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	return s.tripRepo.GetByID(ctx, tripID)
}

// GetDriverTrips retrieves all trips owned by a driver.
func (s *TripService) GetDriverTrips(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}
	return s.tripRepo.GetByDriverID(ctx, driverID)
}

// StartTrip moves a scheduled trip to ACTIVE. Driver only.
func (s *TripService) StartTrip(ctx context.Context, tripID, driverID string) (*domain.Trip, error) {
	if _, err := s.ownedTrip(ctx, tripID, driverID); err != nil {
		return nil, err
	}

	return s.updateLocked(ctx, tripID, func(trip *domain.Trip) error {
		if trip.Status != domain.TripStatusScheduled {
			return ErrTripNotScheduled
		}
		trip.Status = domain.TripStatusActive
		return nil
	})
}

// UpdatePosition advances the trip's current position to a node on its
// route and records it as passed. Driver only; terminal trips are
// frozen.
func (s *TripService) UpdatePosition(ctx context.Context, tripID, nodeID, driverID string) (*domain.Trip, error) {
	if nodeID == "" {
		return nil, ErrInvalidNodeID
	}

	if _, err := s.ownedTrip(ctx, tripID, driverID); err != nil {
		return nil, err
	}

	return s.updateLocked(ctx, tripID, func(trip *domain.Trip) error {
		if trip.Status.Terminal() {
			return ErrTripTerminal
		}
		if !trip.Route.Contains(nodeID) {
			return ErrNodeNotOnRoute
		}

		trip.CurrentNodeID = nodeID
		if !trip.HasPassed(nodeID) {
			trip.PassedNodeIDs = append(trip.PassedNodeIDs, nodeID)
		}
		return nil
	})
}

// CancelTrip cancels a trip that has not completed. Driver only.
func (s *TripService) CancelTrip(ctx context.Context, tripID, driverID string) (*domain.Trip, error) {
	if _, err := s.ownedTrip(ctx, tripID, driverID); err != nil {
		return nil, err
	}

	return s.updateLocked(ctx, tripID, func(trip *domain.Trip) error {
		if trip.Status == domain.TripStatusCompleted {
			return ErrTripAlreadyCompleted
		}
		if trip.Status == domain.TripStatusCancelled {
			return ErrTripTerminal
		}
		trip.Status = domain.TripStatusCancelled
		return nil
	})
}

// updateLocked runs a trip mutation under the per-trip lock, re-reading
// the row once the lock is held. Trip rows are written whole, so every
// writer must serialize against offer acceptance to avoid clobbering a
// concurrently spliced route.
func (s *TripService) updateLocked(ctx context.Context, tripID string, mutate func(*domain.Trip) error) (*domain.Trip, error) {
	locked, err := s.lockStore.AcquireTripLock(ctx, tripID, tripLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrTripBusy
	}
	defer func() { _ = s.lockStore.ReleaseTripLock(ctx, tripID) }()

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := mutate(trip); err != nil {
		return nil, err
	}
	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// CompleteTrip settles every accepted offer on the trip and marks it
// COMPLETED, in one all-or-nothing transaction: each passenger wallet is
// debited the offer fare and the driver wallet credited the same amount,
// with a paired ledger entry for each side tagged with the trip. Any
// passenger balance short of their fare aborts the whole completion;
// the trip stays ACTIVE, no ledger entries are written, and the caller
// may retry after the passenger tops up.
func (s *TripService) CompleteTrip(ctx context.Context, tripID, driverID string) (*domain.Trip, error) {
	trip, err := s.ownedTrip(ctx, tripID, driverID)
	if err != nil {
		return nil, err
	}

	if trip.Status == domain.TripStatusCompleted {
		return nil, ErrTripAlreadyCompleted
	}
	if trip.Status == domain.TripStatusCancelled {
		return nil, ErrTripTerminal
	}

	locked, err := s.lockStore.AcquireTripLock(ctx, trip.ID, tripLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrTripBusy
	}
	defer func() { _ = s.lockStore.ReleaseTripLock(ctx, trip.ID) }()

	err = s.uow.WithinTx(ctx, func(r repository.Repositories) error {
		trip, err = r.Trips.GetByID(ctx, tripID)
		if err != nil {
			return err
		}
		if trip.Status == domain.TripStatusCompleted {
			return ErrTripAlreadyCompleted
		}
		if trip.Status == domain.TripStatusCancelled {
			return ErrTripTerminal
		}

		offers, err := r.Offers.GetByTripID(ctx, trip.ID, domain.OfferStatusAccepted)
		if err != nil {
			return err
		}

		driverWallet, err := r.Wallets.GetByUserID(ctx, trip.DriverID)
		if err != nil {
			return err
		}

		now := time.Now()
		for _, offer := range offers {
			req, err := r.Requests.GetByID(ctx, offer.RequestID)
			if err != nil {
				return err
			}

			passengerWallet, err := r.Wallets.GetByUserID(ctx, req.PassengerID)
			if err != nil {
				return err
			}
			if passengerWallet.Balance.LessThan(offer.Fare) {
				return ErrInsufficientFunds
			}

			passengerWallet.Balance = passengerWallet.Balance.Sub(offer.Fare)
			if err := r.Wallets.UpdateBalance(ctx, passengerWallet.ID, passengerWallet.Balance); err != nil {
				return err
			}
			driverWallet.Balance = driverWallet.Balance.Add(offer.Fare)

			debit := &domain.Transaction{
				ID:        uuid.New().String(),
				WalletID:  passengerWallet.ID,
				Amount:    offer.Fare.Neg(),
				Type:      domain.TransactionFarePayment,
				TripID:    trip.ID,
				CreatedAt: now,
			}
			credit := &domain.Transaction{
				ID:        uuid.New().String(),
				WalletID:  driverWallet.ID,
				Amount:    offer.Fare,
				Type:      domain.TransactionEarning,
				TripID:    trip.ID,
				CreatedAt: now,
			}
			if err := r.Wallets.CreateTransaction(ctx, debit); err != nil {
				return err
			}
			if err := r.Wallets.CreateTransaction(ctx, credit); err != nil {
				return err
			}

			if err := r.Requests.UpdateStatus(ctx, req.ID, domain.RequestStatusCompleted); err != nil {
				return err
			}
		}

		if err := r.Wallets.UpdateBalance(ctx, driverWallet.ID, driverWallet.Balance); err != nil {
			return err
		}

		trip.Status = domain.TripStatusCompleted
		return r.Trips.Update(ctx, trip)
	})
	if err != nil {
		return nil, err
	}

	return trip, nil
}

// ownedTrip loads a trip and verifies the caller drives it.
func (s *TripService) ownedTrip(ctx context.Context, tripID, driverID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	if driverID == "" {
		return nil, ErrInvalidUserID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.DriverID != driverID {
		return nil, ErrUnauthorized
	}

	return trip, nil
}
