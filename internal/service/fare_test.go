package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"carpool/internal/domain"
)

var (
	testUnitPrice = decimal.RequireFromString("10.00")
	testBaseFee   = decimal.RequireFromString("5.00")
)

func TestPassengerFare(t *testing.T) {
	var calc FareCalculator

	tests := []struct {
		name        string
		occupancies []int
		want        string
	}{
		{name: "no hops charges base fee only", occupancies: nil, want: "5.00"},
		{name: "solo hop", occupancies: []int{1}, want: "15.00"},
		{name: "shared hop halves the unit", occupancies: []int{2}, want: "10.00"},
		{name: "mixed occupancy", occupancies: []int{1, 2, 4}, want: "22.50"},
		{name: "zero occupancy counts as solo", occupancies: []int{0, 0}, want: "25.00"},
		{name: "thirds round half away from zero", occupancies: []int{3}, want: "8.33"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := calc.PassengerFare(tc.occupancies, testUnitPrice, testBaseFee)
			if got.StringFixed(2) != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got.StringFixed(2))
			}
		})
	}
}

func TestPassengerFareMoreRidersNeverCostsMore(t *testing.T) {
	var calc FareCalculator

	prev := decimal.Zero
	for n := 6; n >= 1; n-- {
		fare := calc.PassengerFare([]int{n, n, n}, testUnitPrice, testBaseFee)
		if !prev.IsZero() && fare.LessThan(prev) {
			t.Fatalf("fare decreased as occupancy fell: %s after %s", fare, prev)
		}
		prev = fare
	}
}

func TestProposedFare(t *testing.T) {
	var calc FareCalculator
	route := domain.Route{"A", "B", "C", "D"}

	tests := []struct {
		name      string
		occupancy []int
		pickup    string
		dropoff   string
		want      string
	}{
		// Empty trip: the candidate is the sole rider on both hops.
		{name: "sole rider", occupancy: []int{0, 0, 0}, pickup: "B", dropoff: "D", want: "25.00"},
		// One co-rider already on the B-C hop splits that hop in two.
		{name: "shares with existing rider", occupancy: []int{0, 1, 0}, pickup: "B", dropoff: "D", want: "20.00"},
		// Occupancy snapshot shorter than the route defaults to zero.
		{name: "short snapshot", occupancy: []int{0}, pickup: "B", dropoff: "D", want: "25.00"},
		{name: "pickup not on route", occupancy: nil, pickup: "X", dropoff: "D", want: "0"},
		{name: "dropoff not on route", occupancy: nil, pickup: "A", dropoff: "X", want: "0"},
		{name: "pickup after dropoff", occupancy: nil, pickup: "C", dropoff: "A", want: "0"},
		{name: "pickup equals dropoff", occupancy: nil, pickup: "B", dropoff: "B", want: "0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := calc.ProposedFare(tc.occupancy, route, tc.pickup, tc.dropoff, testUnitPrice, testBaseFee)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestHopOccupancies(t *testing.T) {
	route := domain.Route{"A", "B", "C", "D"}
	now := time.Now()

	accepted := []*domain.RideRequest{
		{ID: "r1", PickupNodeID: "A", DropoffNodeID: "C", Status: domain.RequestStatusAccepted, CreatedAt: now},
		{ID: "r2", PickupNodeID: "B", DropoffNodeID: "D", Status: domain.RequestStatusAccepted, CreatedAt: now},
		// Backwards range contributes nothing.
		{ID: "r3", PickupNodeID: "D", DropoffNodeID: "A", Status: domain.RequestStatusAccepted, CreatedAt: now},
		// Endpoint off the route contributes nothing.
		{ID: "r4", PickupNodeID: "X", DropoffNodeID: "C", Status: domain.RequestStatusAccepted, CreatedAt: now},
	}

	got := hopOccupancies(route, accepted)
	want := []int{1, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("expected %d hops, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("hop %d: expected occupancy %d, got %d", i, want[i], got[i])
		}
	}
}
