package domain

// Route is an ordered sequence of node IDs. A valid route never revisits
// a node; a route of n nodes has n-1 hops.
type Route []string

// Hops returns the number of edge traversals in the route.
func (r Route) Hops() int {
	if len(r) == 0 {
		return 0
	}
	return len(r) - 1
}

// IndexOf returns the position of nodeID in the route, or -1.
func (r Route) IndexOf(nodeID string) int {
	for i, id := range r {
		if id == nodeID {
			return i
		}
	}
	return -1
}

// Contains reports whether nodeID appears in the route.
func (r Route) Contains(nodeID string) bool {
	return r.IndexOf(nodeID) >= 0
}

// HasRepeats reports whether any node appears more than once.
func (r Route) HasRepeats() bool {
	seen := make(map[string]struct{}, len(r))
	for _, id := range r {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

// SuffixFrom returns the remaining route starting at nodeID. The second
// return value is false when nodeID is not on the route.
func (r Route) SuffixFrom(nodeID string) (Route, bool) {
	idx := r.IndexOf(nodeID)
	if idx < 0 {
		return nil, false
	}
	return r[idx:], true
}

// Clone returns an independent copy of the route.
func (r Route) Clone() Route {
	if r == nil {
		return nil
	}
	out := make(Route, len(r))
	copy(out, r)
	return out
}
