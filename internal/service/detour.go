package service

import (
	"context"
	"errors"
	"log"

	"carpool/internal/domain"
)

// DetourPlanner searches for the cheapest way to insert a pickup/dropoff
// pair into a trip's remaining route.
type DetourPlanner struct {
	finder *PathFinder
}

// NewDetourPlanner creates a new DetourPlanner.
func NewDetourPlanner(finder *PathFinder) *DetourPlanner {
	return &DetourPlanner{finder: finder}
}

// PlanDetour tries every insertion-point pair (i, j) with i <= j on the
// remaining route: leave the route at node i, drive to pickup, then to
// dropoff, and rejoin at node j. Candidates that would revisit any node
// are rejected. Among the valid candidates the one with the fewest total
// hops wins; ties go to the first candidate found (smallest i, then j).
//
// Returns the new route and the extra hop count versus the remaining
// route. Route lengths here are small, so the O(n^2) shortest-path
// search is deliberate; it keeps the selection exhaustive and the
// tie-break reproducible.
func (p *DetourPlanner) PlanDetour(ctx context.Context, remaining domain.Route, pickup, dropoff string) (domain.Route, int, error) {
	n := len(remaining)
	if n == 0 {
		return nil, 0, ErrInfeasibleDetour
	}

	pickupToDropoff, err := p.finder.ShortestPath(ctx, pickup, dropoff)
	if err != nil {
		if errors.Is(err, ErrNoPath) {
			return nil, 0, ErrInfeasibleDetour
		}
		return nil, 0, err
	}

	var best domain.Route

	for i := 0; i < n; i++ {
		toPickup, err := p.finder.ShortestPath(ctx, remaining[i], pickup)
		if err != nil {
			if errors.Is(err, ErrNoPath) {
				continue
			}
			return nil, 0, err
		}

		for j := i; j < n; j++ {
			fromDropoff, err := p.finder.ShortestPath(ctx, dropoff, remaining[j])
			if err != nil {
				if errors.Is(err, ErrNoPath) {
					continue
				}
				return nil, 0, err
			}

			candidate := splice(remaining[:i+1], toPickup[1:], pickupToDropoff[1:], fromDropoff[1:], remaining[j+1:])
			if candidate.HasRepeats() {
				continue
			}
			if best == nil || candidate.Hops() < best.Hops() {
				best = candidate
			}
		}
	}

	if best == nil {
		return nil, 0, ErrInfeasibleDetour
	}

	extra := best.Hops() - remaining.Hops()
	if extra < 0 {
		// Legitimate when the graph offers a shortcut through the
		// pickup/dropoff pair, but worth surfacing.
		log.Printf("detour shortened route by %d hops (pickup=%s dropoff=%s)", -extra, pickup, dropoff)
	}

	return best, extra, nil
}

// splice concatenates route segments, collapsing duplicates at the seam
// boundaries (e.g. when the pickup coincides with the divergence node).
func splice(segments ...domain.Route) domain.Route {
	var out domain.Route
	for _, seg := range segments {
		for _, id := range seg {
			if len(out) > 0 && out[len(out)-1] == id {
				continue
			}
			out = append(out, id)
		}
	}
	return out
}
