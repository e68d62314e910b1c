package service

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"

	"carpool/internal/config"
	"carpool/internal/domain"
	"carpool/internal/repository"
)

// MatchingService finds pending ride requests a driver's active trip can
// absorb.
type MatchingService struct {
	tripRepo    repository.TripRepository
	requestRepo repository.RequestRepository
	offerRepo   repository.OfferRepository
	finder      *PathFinder
	planner     *DetourPlanner
	fares       FareCalculator
	fareCfg     config.FareConfig
	matchCfg    config.MatchingConfig
}

// NewMatchingService creates a new MatchingService.
func NewMatchingService(
	tripRepo repository.TripRepository,
	requestRepo repository.RequestRepository,
	offerRepo repository.OfferRepository,
	finder *PathFinder,
	planner *DetourPlanner,
	fareCfg config.FareConfig,
	matchCfg config.MatchingConfig,
) *MatchingService {
	return &MatchingService{
		tripRepo:    tripRepo,
		requestRepo: requestRepo,
		offerRepo:   offerRepo,
		finder:      finder,
		planner:     planner,
		fareCfg:     fareCfg,
		matchCfg:    matchCfg,
	}
}

// MatchCandidate is one pending request the trip could serve, with the
// detour it would cost and the fare it would earn.
type MatchCandidate struct {
	Request      *domain.RideRequest
	Detour       int
	ProposedFare decimal.Decimal
}

// MatchRequests evaluates every pending request against the trip's
// remaining route. Candidates are returned in request-creation order; no
// ranking is applied here, callers sort by detour or fare as they see
// fit. A request that fails any stage (radius, detour, pricing) is
// skipped without aborting the batch.
func (s *MatchingService) MatchRequests(ctx context.Context, tripID, driverID string) ([]MatchCandidate, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
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

	remaining, ok := trip.RemainingRoute()
	if !ok {
		log.Printf("trip %s: current position %q not on route, matching against full route", trip.ID, trip.CurrentNodeID)
	}

	accepted, err := s.acceptedRequests(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	pending, err := s.requestRepo.GetPending(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []MatchCandidate
	for _, req := range pending {
		pickupNear, err := s.finder.WithinRadius(ctx, remaining, req.PickupNodeID, s.matchCfg.RadiusHops)
		if err != nil {
			return nil, err
		}
		if !pickupNear {
			continue
		}

		dropoffNear, err := s.finder.WithinRadius(ctx, remaining, req.DropoffNodeID, s.matchCfg.RadiusHops)
		if err != nil {
			return nil, err
		}
		if !dropoffNear {
			continue
		}

		newRoute, detour, err := s.planner.PlanDetour(ctx, remaining, req.PickupNodeID, req.DropoffNodeID)
		if err != nil {
			if errors.Is(err, ErrInfeasibleDetour) {
				continue
			}
			return nil, err
		}

		fare := s.fares.ProposedFare(
			hopOccupancies(newRoute, accepted),
			newRoute,
			req.PickupNodeID,
			req.DropoffNodeID,
			s.fareCfg.UnitPrice,
			s.fareCfg.BaseFee,
		)
		if fare.IsZero() {
			continue
		}

		candidates = append(candidates, MatchCandidate{
			Request:      req,
			Detour:       detour,
			ProposedFare: fare,
		})
	}

	return candidates, nil
}

// acceptedRequests loads the requests behind the trip's accepted offers;
// occupancy snapshots are built from them.
func (s *MatchingService) acceptedRequests(ctx context.Context, tripID string) ([]*domain.RideRequest, error) {
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
