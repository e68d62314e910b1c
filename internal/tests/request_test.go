package tests

import (
	"context"
	"errors"
	"testing"

	"carpool/internal/domain"
	"carpool/internal/repository"
	"carpool/internal/service"
)

func (f *fixture) requestService() *service.RequestService {
	return service.NewRequestService(f.requests, f.offers, f.graph)
}

func TestCreateRequest(t *testing.T) {
	f := newFixture()
	svc := f.requestService()

	req, err := svc.CreateRequest(context.Background(), "passenger-1", "B", "D")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Status != domain.RequestStatusPending {
		t.Errorf("expected PENDING, got %s", req.Status)
	}

	pending, _ := f.requests.GetPending(context.Background())
	if len(pending) != 1 {
		t.Errorf("expected request in pending pool, got %d", len(pending))
	}
}

func TestCreateRequestValidation(t *testing.T) {
	f := newFixture()
	svc := f.requestService()

	tests := []struct {
		name    string
		pickup  string
		dropoff string
		wantErr error
	}{
		{name: "same nodes", pickup: "B", dropoff: "B", wantErr: service.ErrSameNodes},
		{name: "unknown pickup", pickup: "Z", dropoff: "B", wantErr: repository.ErrNotFound},
		{name: "unknown dropoff", pickup: "B", dropoff: "Z", wantErr: repository.ErrNotFound},
		{name: "empty pickup", pickup: "", dropoff: "B", wantErr: service.ErrInvalidNodeID},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateRequest(context.Background(), "passenger-1", tc.pickup, tc.dropoff)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCancelRequest(t *testing.T) {
	f := newFixture()
	f.addPendingRequest("req-1", "passenger-1", "B", "D")
	svc := f.requestService()

	if _, err := svc.CancelRequest(context.Background(), "req-1", "passenger-2"); !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	req, err := svc.CancelRequest(context.Background(), "req-1", "passenger-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Status != domain.RequestStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", req.Status)
	}

	// Cancelled requests leave the pending pool and cannot be cancelled
	// again.
	pending, _ := f.requests.GetPending(context.Background())
	if len(pending) != 0 {
		t.Errorf("expected empty pending pool, got %d", len(pending))
	}
	if _, err := svc.CancelRequest(context.Background(), "req-1", "passenger-1"); !errors.Is(err, service.ErrRequestNotPending) {
		t.Errorf("expected ErrRequestNotPending, got %v", err)
	}
}

func TestAcceptedRequestCannotBeCancelled(t *testing.T) {
	f := newFixture()
	f.addActiveTrip("trip-1", "driver-1", domain.Route{"A", "B", "C", "D"})
	f.addPendingRequest("req-1", "passenger-1", "B", "D")

	offerSvc := f.offerService()
	offer, err := offerSvc.CreateOffer(context.Background(), "trip-1", "req-1", "driver-1")
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}
	if _, err := offerSvc.AcceptOffer(context.Background(), offer.ID, "passenger-1"); err != nil {
		t.Fatalf("accept offer: %v", err)
	}

	if _, err := f.requestService().CancelRequest(context.Background(), "req-1", "passenger-1"); !errors.Is(err, service.ErrRequestNotPending) {
		t.Errorf("expected ErrRequestNotPending, got %v", err)
	}
}
