package service

import (
	"github.com/shopspring/decimal"

	"carpool/internal/domain"
)

var one = decimal.NewFromInt(1)

// FareCalculator splits hop costs between co-riders. All arithmetic is
// decimal; currency never touches binary floats.
type FareCalculator struct{}

// PassengerFare prices the hops a passenger traverses. Each hop
// contributes 1/n of the unit price, where n is the hop's occupancy; a
// hop with no reported co-riders counts as occupancy 1, so the passenger
// pays the full unit for it. The base fee is added once and the result
// rounded to two decimal places, half away from zero.
func (FareCalculator) PassengerFare(hopOccupancies []int, unitPrice, baseFee decimal.Decimal) decimal.Decimal {
	share := decimal.Zero
	for _, n := range hopOccupancies {
		if n > 0 {
			share = share.Add(one.Div(decimal.NewFromInt(int64(n))))
		} else {
			share = share.Add(one)
		}
	}
	return share.Mul(unitPrice).Add(baseFee).Round(2)
}

// ProposedFare prices a prospective passenger on a route, assuming they
// add one rider to every hop between their pickup and dropoff. The
// occupancy slice is the caller's snapshot of current co-riders per hop;
// hops it does not cover default to zero. A zero fare means the range is
// degenerate (endpoint missing from the route, or pickup at or after
// dropoff) and callers must not offer on it.
//
// The +1 assumption is per-candidate: several offers priced before any
// is accepted will each assume they are the only newcomer. Acceptance-
// time recomputation is what catches the resulting staleness.
func (c FareCalculator) ProposedFare(currentOccupancy []int, route domain.Route, pickup, dropoff string, unitPrice, baseFee decimal.Decimal) decimal.Decimal {
	pickupIdx := route.IndexOf(pickup)
	dropoffIdx := route.IndexOf(dropoff)
	if pickupIdx < 0 || dropoffIdx < 0 || pickupIdx >= dropoffIdx {
		return decimal.Zero
	}

	occupancies := make([]int, 0, dropoffIdx-pickupIdx)
	for i := pickupIdx; i < dropoffIdx; i++ {
		current := 0
		if i < len(currentOccupancy) {
			current = currentOccupancy[i]
		}
		occupancies = append(occupancies, current+1)
	}

	return c.PassengerFare(occupancies, unitPrice, baseFee)
}

// hopOccupancies derives the per-hop co-rider counts of a route from the
// accepted requests riding it. Requests whose endpoints are not a
// forward range on this route contribute nothing.
func hopOccupancies(route domain.Route, accepted []*domain.RideRequest) []int {
	occ := make([]int, route.Hops())
	for _, req := range accepted {
		pickupIdx := route.IndexOf(req.PickupNodeID)
		dropoffIdx := route.IndexOf(req.DropoffNodeID)
		if pickupIdx < 0 || dropoffIdx < 0 || pickupIdx >= dropoffIdx {
			continue
		}
		for h := pickupIdx; h < dropoffIdx; h++ {
			occ[h]++
		}
	}
	return occ
}
