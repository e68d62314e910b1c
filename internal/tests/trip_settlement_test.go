package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"carpool/internal/domain"
	"carpool/internal/service"
)

// addAcceptedRide wires an accepted request/offer pair onto a trip.
func (f *fixture) addAcceptedRide(tripID, requestID, passengerID, pickup, dropoff, fare string) {
	f.requests.AddRequest(&domain.RideRequest{
		ID:            requestID,
		PassengerID:   passengerID,
		PickupNodeID:  pickup,
		DropoffNodeID: dropoff,
		Status:        domain.RequestStatusAccepted,
	})
	f.offers.AddOffer(&domain.Offer{
		ID:        "offer-" + requestID,
		TripID:    tripID,
		RequestID: requestID,
		Fare:      decimal.RequireFromString(fare),
		Detour:    0,
		Status:    domain.OfferStatusAccepted,
	})
}

func TestCompleteTripSettlesFares(t *testing.T) {
	f := newFixture()
	f.addActiveTrip("trip-1", "driver-1", domain.Route{"A", "B", "C", "D"})
	f.addAcceptedRide("trip-1", "req-1", "passenger-1", "A", "C", "15.00")
	f.addAcceptedRide("trip-1", "req-2", "passenger-2", "B", "D", "25.00")
	f.addWallet("w-driver", "driver-1", "0.00")
	f.addWallet("w-p1", "passenger-1", "50.00")
	f.addWallet("w-p2", "passenger-2", "50.00")

	trip, err := f.tripService().CompleteTrip(context.Background(), "trip-1", "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.Status != domain.TripStatusCompleted {
		t.Errorf("expected COMPLETED trip, got %s", trip.Status)
	}

	if got := f.wallets.Balance("w-p1").StringFixed(2); got != "35.00" {
		t.Errorf("passenger-1 balance: expected 35.00, got %s", got)
	}
	if got := f.wallets.Balance("w-p2").StringFixed(2); got != "25.00" {
		t.Errorf("passenger-2 balance: expected 25.00, got %s", got)
	}
	if got := f.wallets.Balance("w-driver").StringFixed(2); got != "40.00" {
		t.Errorf("driver balance: expected 40.00, got %s", got)
	}

	// One debit/credit pair per passenger, all tagged with the trip and
	// summing to zero.
	if f.wallets.TransactionCount() != 4 {
		t.Fatalf("expected 4 ledger entries, got %d", f.wallets.TransactionCount())
	}
	sum := decimal.Zero
	for _, walletID := range []string{"w-driver", "w-p1", "w-p2"} {
		txs, _ := f.wallets.GetTransactions(context.Background(), walletID)
		for _, tx := range txs {
			if tx.TripID != "trip-1" {
				t.Errorf("ledger entry not tagged with trip: %+v", tx)
			}
			sum = sum.Add(tx.Amount)
		}
	}
	if !sum.IsZero() {
		t.Errorf("ledger entries do not sum to zero: %s", sum)
	}

	for _, reqID := range []string{"req-1", "req-2"} {
		req, _ := f.requests.GetByID(context.Background(), reqID)
		if req.Status != domain.RequestStatusCompleted {
			t.Errorf("%s: expected COMPLETED, got %s", reqID, req.Status)
		}
	}
}

func TestCompleteTripInsufficientFundsAbortsAll(t *testing.T) {
	f := newFixture()
	f.addActiveTrip("trip-1", "driver-1", domain.Route{"A", "B", "C", "D"})
	// The underfunded passenger settles first; the funded one must not be
	// debited either.
	f.addAcceptedRide("trip-1", "req-1", "passenger-1", "A", "C", "15.00")
	f.addAcceptedRide("trip-1", "req-2", "passenger-2", "B", "D", "25.00")
	f.addWallet("w-driver", "driver-1", "0.00")
	f.addWallet("w-p1", "passenger-1", "14.99")
	f.addWallet("w-p2", "passenger-2", "50.00")

	_, err := f.tripService().CompleteTrip(context.Background(), "trip-1", "driver-1")
	if !errors.Is(err, service.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	trip, _ := f.trips.GetByID(context.Background(), "trip-1")
	if trip.Status != domain.TripStatusActive {
		t.Errorf("expected trip still ACTIVE, got %s", trip.Status)
	}
	if f.wallets.TransactionCount() != 0 {
		t.Errorf("expected no ledger entries, got %d", f.wallets.TransactionCount())
	}
	if got := f.wallets.Balance("w-p2").StringFixed(2); got != "50.00" {
		t.Errorf("funded passenger debited despite abort: %s", got)
	}
	if got := f.wallets.Balance("w-driver").StringFixed(2); got != "0.00" {
		t.Errorf("driver credited despite abort: %s", got)
	}

	// After a top-up the same completion succeeds.
	f.addWallet("w-p1", "passenger-1", "15.00")
	trip, err = f.tripService().CompleteTrip(context.Background(), "trip-1", "driver-1")
	if err != nil {
		t.Fatalf("retry after top-up: %v", err)
	}
	if trip.Status != domain.TripStatusCompleted {
		t.Errorf("expected COMPLETED after retry, got %s", trip.Status)
	}
	if got := f.wallets.Balance("w-p1").StringFixed(2); got != "0.00" {
		t.Errorf("passenger-1 balance after retry: expected 0.00, got %s", got)
	}
}

func TestCompleteTripRollsBackPartialSettlement(t *testing.T) {
	f := newFixture()
	f.addActiveTrip("trip-1", "driver-1", domain.Route{"A", "B", "C", "D"})
	// The funded passenger settles first, so the transaction has already
	// debited a wallet and written ledger entries when the underfunded
	// one aborts it. Everything must roll back.
	f.addAcceptedRide("trip-1", "req-1", "passenger-1", "A", "C", "15.00")
	f.addAcceptedRide("trip-1", "req-2", "passenger-2", "B", "D", "25.00")
	f.addWallet("w-driver", "driver-1", "0.00")
	f.addWallet("w-p1", "passenger-1", "50.00")
	f.addWallet("w-p2", "passenger-2", "24.99")

	_, err := f.tripService().CompleteTrip(context.Background(), "trip-1", "driver-1")
	if !errors.Is(err, service.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	trip, _ := f.trips.GetByID(context.Background(), "trip-1")
	if trip.Status != domain.TripStatusActive {
		t.Errorf("expected trip still ACTIVE, got %s", trip.Status)
	}
	if got := f.wallets.Balance("w-p1").StringFixed(2); got != "50.00" {
		t.Errorf("settled-then-aborted passenger not refunded: %s", got)
	}
	if got := f.wallets.Balance("w-driver").StringFixed(2); got != "0.00" {
		t.Errorf("driver kept credit despite abort: %s", got)
	}
	if f.wallets.TransactionCount() != 0 {
		t.Errorf("expected no ledger entries after abort, got %d", f.wallets.TransactionCount())
	}
	req, _ := f.requests.GetByID(context.Background(), "req-1")
	if req.Status != domain.RequestStatusAccepted {
		t.Errorf("expected req-1 back to ACCEPTED, got %s", req.Status)
	}
}

func TestCancelSlippingInBeforeCompletionIsNotSettledOver(t *testing.T) {
	f := newFixture()
	trip := f.addActiveTrip("trip-1", "driver-1", domain.Route{"A", "B", "C", "D"})
	f.addAcceptedRide("trip-1", "req-1", "passenger-1", "A", "C", "15.00")
	f.addWallet("w-driver", "driver-1", "0.00")
	f.addWallet("w-p1", "passenger-1", "50.00")

	// Cancel the trip between CompleteTrip's ownership read and its
	// re-read inside the transaction.
	reads := 0
	f.trips.GetHook = func(id string) {
		reads++
		if reads == 2 {
			trip.Status = domain.TripStatusCancelled
			f.trips.AddTrip(trip)
		}
	}

	_, err := f.tripService().CompleteTrip(context.Background(), "trip-1", "driver-1")
	if !errors.Is(err, service.ErrTripTerminal) {
		t.Fatalf("expected ErrTripTerminal, got %v", err)
	}

	f.trips.GetHook = nil
	got, _ := f.trips.GetByID(context.Background(), "trip-1")
	if got.Status == domain.TripStatusCompleted {
		t.Errorf("cancelled trip was settled over: %s", got.Status)
	}
	if f.wallets.TransactionCount() != 0 {
		t.Errorf("expected no ledger entries, got %d", f.wallets.TransactionCount())
	}
	if got := f.wallets.Balance("w-p1").StringFixed(2); got != "50.00" {
		t.Errorf("passenger debited on a cancelled trip: %s", got)
	}
}

func TestCompleteTripWithoutPassengers(t *testing.T) {
	f := newFixture()
	f.addActiveTrip("trip-1", "driver-1", domain.Route{"A", "B", "C", "D"})
	f.addWallet("w-driver", "driver-1", "0.00")

	trip, err := f.tripService().CompleteTrip(context.Background(), "trip-1", "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.Status != domain.TripStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", trip.Status)
	}
	if f.wallets.TransactionCount() != 0 {
		t.Errorf("expected no ledger entries, got %d", f.wallets.TransactionCount())
	}
}

func TestCompleteTripIsNotRepeatable(t *testing.T) {
	f := newFixture()
	f.addActiveTrip("trip-1", "driver-1", domain.Route{"A", "B", "C", "D"})
	f.addAcceptedRide("trip-1", "req-1", "passenger-1", "A", "C", "15.00")
	f.addWallet("w-driver", "driver-1", "0.00")
	f.addWallet("w-p1", "passenger-1", "50.00")

	svc := f.tripService()
	if _, err := svc.CompleteTrip(context.Background(), "trip-1", "driver-1"); err != nil {
		t.Fatalf("first completion: %v", err)
	}
	if _, err := svc.CompleteTrip(context.Background(), "trip-1", "driver-1"); !errors.Is(err, service.ErrTripAlreadyCompleted) {
		t.Fatalf("expected ErrTripAlreadyCompleted, got %v", err)
	}

	// No double charge.
	if f.wallets.TransactionCount() != 2 {
		t.Errorf("expected 2 ledger entries, got %d", f.wallets.TransactionCount())
	}
	if got := f.wallets.Balance("w-p1").StringFixed(2); got != "35.00" {
		t.Errorf("passenger balance: expected 35.00, got %s", got)
	}
}

func TestCompleteTripAuthorization(t *testing.T) {
	f := newFixture()
	f.addActiveTrip("trip-1", "driver-1", domain.Route{"A", "B", "C", "D"})

	_, err := f.tripService().CompleteTrip(context.Background(), "trip-1", "driver-2")
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCancelledTripCannotComplete(t *testing.T) {
	f := newFixture()
	trip := f.addActiveTrip("trip-1", "driver-1", domain.Route{"A", "B", "C", "D"})
	trip.Status = domain.TripStatusCancelled
	f.trips.AddTrip(trip)

	_, err := f.tripService().CompleteTrip(context.Background(), "trip-1", "driver-1")
	if !errors.Is(err, service.ErrTripTerminal) {
		t.Errorf("expected ErrTripTerminal, got %v", err)
	}
}
