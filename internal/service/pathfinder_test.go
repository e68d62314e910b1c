package service

import (
	"context"
	"errors"
	"testing"

	"carpool/internal/domain"
)

// stubGraph is an in-memory GraphRepository. Edge order is the order the
// edges were added, matching the insertion-order contract of the real
// store.
type stubGraph struct {
	edges map[string][]domain.Edge
	nodes map[string]struct{}
	next  int64
}

func newStubGraph() *stubGraph {
	return &stubGraph{
		edges: make(map[string][]domain.Edge),
		nodes: make(map[string]struct{}),
	}
}

func (g *stubGraph) addEdge(from, to string) {
	g.next++
	g.nodes[from] = struct{}{}
	g.nodes[to] = struct{}{}
	g.edges[from] = append(g.edges[from], domain.Edge{ID: g.next, From: from, To: to})
}

func (g *stubGraph) addBoth(a, b string) {
	g.addEdge(a, b)
	g.addEdge(b, a)
}

func (g *stubGraph) EdgesFrom(_ context.Context, nodeID string) ([]domain.Edge, error) {
	return g.edges[nodeID], nil
}

func (g *stubGraph) NodeExists(_ context.Context, nodeID string) (bool, error) {
	_, ok := g.nodes[nodeID]
	return ok, nil
}

func (g *stubGraph) GetNode(_ context.Context, nodeID string) (*domain.Node, error) {
	if _, ok := g.nodes[nodeID]; !ok {
		return nil, errors.New("node not found")
	}
	return &domain.Node{ID: nodeID, Name: nodeID}, nil
}

func (g *stubGraph) ListNodes(_ context.Context) ([]*domain.Node, error) {
	nodes := make([]*domain.Node, 0, len(g.nodes))
	for id := range g.nodes {
		nodes = append(nodes, &domain.Node{ID: id, Name: id})
	}
	return nodes, nil
}

// lineGraph builds A-B-C-D-E with edges in both directions.
func lineGraph() *stubGraph {
	g := newStubGraph()
	g.addBoth("A", "B")
	g.addBoth("B", "C")
	g.addBoth("C", "D")
	g.addBoth("D", "E")
	return g
}

func routesEqual(a, b domain.Route) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestShortestPathSelf(t *testing.T) {
	f := NewPathFinder(lineGraph())

	path, err := f.ShortestPath(context.Background(), "B", "B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !routesEqual(path, domain.Route{"B"}) {
		t.Errorf("expected [B], got %v", path)
	}
}

func TestShortestPathLine(t *testing.T) {
	f := NewPathFinder(lineGraph())

	path, err := f.ShortestPath(context.Background(), "A", "D")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !routesEqual(path, domain.Route{"A", "B", "C", "D"}) {
		t.Errorf("expected [A B C D], got %v", path)
	}
}

func TestShortestPathUnreachable(t *testing.T) {
	g := lineGraph()
	g.addEdge("X", "Y") // disconnected component
	f := NewPathFinder(g)

	_, err := f.ShortestPath(context.Background(), "A", "Y")
	if !errors.Is(err, ErrNoPath) {
		t.Errorf("expected ErrNoPath, got %v", err)
	}
}

func TestShortestPathDirected(t *testing.T) {
	g := newStubGraph()
	g.addEdge("A", "B")
	g.addEdge("B", "C")
	f := NewPathFinder(g)

	if _, err := f.ShortestPath(context.Background(), "A", "C"); err != nil {
		t.Fatalf("forward path should exist: %v", err)
	}
	if _, err := f.ShortestPath(context.Background(), "C", "A"); !errors.Is(err, ErrNoPath) {
		t.Errorf("reverse path should not exist, got %v", err)
	}
}

func TestShortestPathTieBreakByEdgeOrder(t *testing.T) {
	// Two equal-length paths A-B-D and A-C-D; the A->B edge was added
	// first so the B path must win.
	g := newStubGraph()
	g.addEdge("A", "B")
	g.addEdge("A", "C")
	g.addEdge("B", "D")
	g.addEdge("C", "D")
	f := NewPathFinder(g)

	path, err := f.ShortestPath(context.Background(), "A", "D")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !routesEqual(path, domain.Route{"A", "B", "D"}) {
		t.Errorf("expected tie to go to first edge order [A B D], got %v", path)
	}
}

func TestShortestDistance(t *testing.T) {
	f := NewPathFinder(lineGraph())

	tests := []struct {
		name    string
		start   string
		end     string
		max     int
		want    int
		wantErr error
	}{
		{name: "self", start: "C", end: "C", want: 0},
		{name: "adjacent", start: "A", end: "B", want: 1},
		{name: "far", start: "A", end: "E", want: 4},
		{name: "unbounded", start: "A", end: "E", max: 0, want: 4},
		{name: "within cutoff", start: "A", end: "C", max: 2, want: 2},
		{name: "beyond cutoff", start: "A", end: "E", max: 2, wantErr: ErrNoPath},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.ShortestDistance(context.Background(), tc.start, tc.end, tc.max)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %d hops, got %d", tc.want, got)
			}
		})
	}
}

func TestWithinRadius(t *testing.T) {
	f := NewPathFinder(lineGraph())

	tests := []struct {
		name    string
		sources domain.Route
		target  string
		radius  int
		want    bool
	}{
		{name: "target on route radius zero", sources: domain.Route{"A", "B", "C"}, target: "B", radius: 0, want: true},
		{name: "one hop off", sources: domain.Route{"A", "B"}, target: "C", radius: 1, want: true},
		{name: "too far", sources: domain.Route{"A"}, target: "D", radius: 2, want: false},
		{name: "nearest source bounds", sources: domain.Route{"A", "D"}, target: "E", radius: 1, want: true},
		{name: "empty sources", sources: nil, target: "A", radius: 3, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.WithinRadius(context.Background(), tc.sources, tc.target, tc.radius)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestShortestPathCancelledContext(t *testing.T) {
	f := NewPathFinder(lineGraph())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.ShortestPath(ctx, "A", "E"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
