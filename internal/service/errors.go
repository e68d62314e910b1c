package service

import "errors"

var (
	// ErrNoPath is returned when no directed path exists between two nodes.
	ErrNoPath = errors.New("no path between nodes")

	// ErrInfeasibleDetour is returned when no valid pickup/dropoff insertion exists.
	ErrInfeasibleDetour = errors.New("no feasible detour")

	// ErrInvalidFareRange is returned when pickup/dropoff do not form a forward range on the route.
	ErrInvalidFareRange = errors.New("pickup and dropoff do not form a forward range on the route")

	// ErrInsufficientFunds is returned when a passenger wallet cannot cover a fare at settlement.
	ErrInsufficientFunds = errors.New("insufficient wallet balance")

	// ErrUnauthorized is returned when the caller does not own the entity.
	ErrUnauthorized = errors.New("caller does not own this resource")

	// ErrStaleOffer is returned when the detour or fare recomputed at acceptance
	// no longer matches what the offer was created with.
	ErrStaleOffer = errors.New("offer is stale: trip route changed since creation")

	// ErrOfferNotPending is returned when acting on an offer that already resolved.
	ErrOfferNotPending = errors.New("offer is not pending")

	// ErrRequestNotPending is returned when a request was already accepted, completed or cancelled.
	ErrRequestNotPending = errors.New("request is not pending")

	// ErrTripBusy is returned when another operation holds the trip lock. Retryable.
	ErrTripBusy = errors.New("trip is being modified concurrently")

	// ErrRequestBusy is returned when another operation holds the request lock. Retryable.
	ErrRequestBusy = errors.New("request is being modified concurrently")

	// ErrTripNotActive is returned when matching or offers are attempted on a trip that is not active.
	ErrTripNotActive = errors.New("trip is not active")

	// ErrTripNotScheduled is returned when starting a trip that already started or ended.
	ErrTripNotScheduled = errors.New("trip is not in scheduled state")

	// ErrTripAlreadyCompleted is returned when completing a completed trip.
	ErrTripAlreadyCompleted = errors.New("trip already completed")

	// ErrTripTerminal is returned when mutating a completed or cancelled trip.
	ErrTripTerminal = errors.New("trip route state is frozen")

	// ErrNodeNotOnRoute is returned when advancing position to a node outside the route.
	ErrNodeNotOnRoute = errors.New("node is not on the trip route")

	// ErrInvalidAmount is returned for non-positive top-up amounts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidTripID is returned when trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidRequestID is returned when request ID is empty.
	ErrInvalidRequestID = errors.New("invalid request id")

	// ErrInvalidOfferID is returned when offer ID is empty.
	ErrInvalidOfferID = errors.New("invalid offer id")

	// ErrInvalidUserID is returned when user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidNodeID is returned when a node ID is empty.
	ErrInvalidNodeID = errors.New("invalid node id")

	// ErrSameNodes is returned when pickup and dropoff (or start and end) coincide.
	ErrSameNodes = errors.New("nodes must differ")
)
