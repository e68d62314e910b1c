package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"carpool/internal/domain"
	"carpool/internal/repository"
	"carpool/internal/service"
)

func TestCreateTripPlansShortestRoute(t *testing.T) {
	f := newFixture()

	trip, err := f.tripService().CreateTrip(context.Background(), service.CreateTripRequest{
		DriverID:      "driver-1",
		StartNodeID:   "A",
		EndNodeID:     "D",
		MaxPassengers: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trip.Status != domain.TripStatusScheduled {
		t.Errorf("expected SCHEDULED, got %s", trip.Status)
	}
	want := domain.Route{"A", "B", "C", "D"}
	for i := range want {
		if trip.Route[i] != want[i] {
			t.Fatalf("expected route %v, got %v", want, trip.Route)
		}
	}
	if trip.CurrentNodeID != "A" {
		t.Errorf("expected start position A, got %s", trip.CurrentNodeID)
	}
	if len(trip.PassedNodeIDs) != 1 || trip.PassedNodeIDs[0] != "A" {
		t.Errorf("expected passed set [A], got %v", trip.PassedNodeIDs)
	}
}

func TestCreateTripValidation(t *testing.T) {
	f := newFixture()
	svc := f.tripService()

	tests := []struct {
		name    string
		start   string
		end     string
		wantErr error
	}{
		{name: "same nodes", start: "A", end: "A", wantErr: service.ErrSameNodes},
		{name: "unknown start", start: "Z", end: "A", wantErr: repository.ErrNotFound},
		{name: "unknown end", start: "A", end: "Z", wantErr: repository.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateTrip(context.Background(), service.CreateTripRequest{
				DriverID:    "driver-1",
				StartNodeID: tc.start,
				EndNodeID:   tc.end,
			})
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateTripUnreachableEnd(t *testing.T) {
	f := newFixture()
	f.graph.AddEdge("X", "Y") // Y reachable only from X

	_, err := f.tripService().CreateTrip(context.Background(), service.CreateTripRequest{
		DriverID:    "driver-1",
		StartNodeID: "A",
		EndNodeID:   "Y",
	})
	if !errors.Is(err, service.ErrNoPath) {
		t.Errorf("expected ErrNoPath, got %v", err)
	}
}

func TestStartTrip(t *testing.T) {
	f := newFixture()
	svc := f.tripService()

	trip, err := svc.CreateTrip(context.Background(), service.CreateTripRequest{
		DriverID:    "driver-1",
		StartNodeID: "A",
		EndNodeID:   "D",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.StartTrip(context.Background(), trip.ID, "driver-2"); !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	started, err := svc.StartTrip(context.Background(), trip.ID, "driver-1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != domain.TripStatusActive {
		t.Errorf("expected ACTIVE, got %s", started.Status)
	}

	if _, err := svc.StartTrip(context.Background(), trip.ID, "driver-1"); !errors.Is(err, service.ErrTripNotScheduled) {
		t.Errorf("expected ErrTripNotScheduled on restart, got %v", err)
	}
}

func TestUpdatePosition(t *testing.T) {
	f := newFixture()
	f.addActiveTrip("trip-1", "driver-1", domain.Route{"A", "B", "C", "D"})
	svc := f.tripService()

	trip, err := svc.UpdatePosition(context.Background(), "trip-1", "B", "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.CurrentNodeID != "B" {
		t.Errorf("expected position B, got %s", trip.CurrentNodeID)
	}
	if !trip.HasPassed("B") {
		t.Errorf("expected B in passed set, got %v", trip.PassedNodeIDs)
	}

	// Advancing to the same node again does not duplicate the passed
	// entry.
	trip, err = svc.UpdatePosition(context.Background(), "trip-1", "B", "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count := 0
	for _, id := range trip.PassedNodeIDs {
		if id == "B" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected B recorded once, got %d", count)
	}

	if _, err := svc.UpdatePosition(context.Background(), "trip-1", "E", "driver-1"); !errors.Is(err, service.ErrNodeNotOnRoute) {
		t.Errorf("expected ErrNodeNotOnRoute, got %v", err)
	}
}

func TestUpdatePositionFrozenWhenTerminal(t *testing.T) {
	f := newFixture()
	trip := f.addActiveTrip("trip-1", "driver-1", domain.Route{"A", "B", "C", "D"})
	trip.Status = domain.TripStatusCancelled
	f.trips.AddTrip(trip)

	_, err := f.tripService().UpdatePosition(context.Background(), "trip-1", "B", "driver-1")
	if !errors.Is(err, service.ErrTripTerminal) {
		t.Errorf("expected ErrTripTerminal, got %v", err)
	}
}

// Trip rows are written whole, so every writer must hold the per-trip
// lock; otherwise a position update racing an offer acceptance could
// write back a pre-splice route.
func TestTripWritesRequireTripLock(t *testing.T) {
	f := newFixture()
	trip := f.addActiveTrip("trip-1", "driver-1", domain.Route{"A", "B", "C", "D"})
	trip.Status = domain.TripStatusScheduled
	f.trips.AddTrip(trip)
	svc := f.tripService()

	locked, err := f.locks.AcquireTripLock(context.Background(), "trip-1", time.Minute)
	if err != nil || !locked {
		t.Fatalf("acquire lock: locked=%v err=%v", locked, err)
	}

	if _, err := svc.StartTrip(context.Background(), "trip-1", "driver-1"); !errors.Is(err, service.ErrTripBusy) {
		t.Errorf("StartTrip: expected ErrTripBusy while lock held, got %v", err)
	}
	if _, err := svc.UpdatePosition(context.Background(), "trip-1", "B", "driver-1"); !errors.Is(err, service.ErrTripBusy) {
		t.Errorf("UpdatePosition: expected ErrTripBusy while lock held, got %v", err)
	}
	if _, err := svc.CancelTrip(context.Background(), "trip-1", "driver-1"); !errors.Is(err, service.ErrTripBusy) {
		t.Errorf("CancelTrip: expected ErrTripBusy while lock held, got %v", err)
	}

	got, _ := f.trips.GetByID(context.Background(), "trip-1")
	if got.Status != domain.TripStatusScheduled || got.CurrentNodeID != "A" {
		t.Errorf("trip mutated despite held lock: status=%s position=%s", got.Status, got.CurrentNodeID)
	}

	if err := f.locks.ReleaseTripLock(context.Background(), "trip-1"); err != nil {
		t.Fatalf("release lock: %v", err)
	}
	started, err := svc.StartTrip(context.Background(), "trip-1", "driver-1")
	if err != nil {
		t.Fatalf("start after release: %v", err)
	}
	if started.Status != domain.TripStatusActive {
		t.Errorf("expected ACTIVE after release, got %s", started.Status)
	}
}

func TestCancelTrip(t *testing.T) {
	f := newFixture()
	f.addActiveTrip("trip-1", "driver-1", domain.Route{"A", "B", "C", "D"})
	svc := f.tripService()

	trip, err := svc.CancelTrip(context.Background(), "trip-1", "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.Status != domain.TripStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", trip.Status)
	}

	if _, err := svc.CancelTrip(context.Background(), "trip-1", "driver-1"); !errors.Is(err, service.ErrTripTerminal) {
		t.Errorf("expected ErrTripTerminal on double cancel, got %v", err)
	}
}
