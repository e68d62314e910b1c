package service

import (
	"context"

	"carpool/internal/domain"
	"carpool/internal/repository"
)

// PathFinder answers unweighted shortest-path queries over the directed
// road graph. Paths are discovered breadth-first, so among equal-length
// paths the first one found in the graph store's edge order wins.
type PathFinder struct {
	graph repository.GraphRepository
}

// NewPathFinder creates a new PathFinder.
func NewPathFinder(graph repository.GraphRepository) *PathFinder {
	return &PathFinder{graph: graph}
}

// ShortestPath returns the shortest directed path from start to end,
// including both endpoints. A path from a node to itself is the single
// node. Returns ErrNoPath when end is unreachable.
func (f *PathFinder) ShortestPath(ctx context.Context, start, end string) (domain.Route, error) {
	if start == end {
		return domain.Route{start}, nil
	}

	queue := []domain.Route{{start}}
	visited := map[string]struct{}{start: {}}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := queue[0]
		queue = queue[1:]

		edges, err := f.graph.EdgesFrom(ctx, path[len(path)-1])
		if err != nil {
			return nil, err
		}

		for _, edge := range edges {
			if edge.To == end {
				return append(path.Clone(), edge.To), nil
			}
			if _, seen := visited[edge.To]; !seen {
				visited[edge.To] = struct{}{}
				queue = append(queue, append(path.Clone(), edge.To))
			}
		}
	}

	return nil, ErrNoPath
}

// ShortestDistance returns the hop count of the shortest path from start
// to end. A positive maxDistance bounds the search depth; targets beyond
// it report ErrNoPath without exploring further.
func (f *PathFinder) ShortestDistance(ctx context.Context, start, end string, maxDistance int) (int, error) {
	if start == end {
		return 0, nil
	}

	type frontier struct {
		node string
		dist int
	}

	queue := []frontier{{node: start}}
	visited := map[string]struct{}{start: {}}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		cur := queue[0]
		queue = queue[1:]

		if maxDistance > 0 && cur.dist >= maxDistance {
			continue
		}

		edges, err := f.graph.EdgesFrom(ctx, cur.node)
		if err != nil {
			return 0, err
		}

		for _, edge := range edges {
			if edge.To == end {
				return cur.dist + 1, nil
			}
			if _, seen := visited[edge.To]; !seen {
				visited[edge.To] = struct{}{}
				queue = append(queue, frontier{node: edge.To, dist: cur.dist + 1})
			}
		}
	}

	return 0, ErrNoPath
}

// WithinRadius reports whether target lies within radius hops of any of
// the source nodes. All sources seed one shared frontier at distance
// zero, so the bound is the distance from the nearest source.
func (f *PathFinder) WithinRadius(ctx context.Context, sources domain.Route, target string, radius int) (bool, error) {
	type frontier struct {
		node string
		dist int
	}

	queue := make([]frontier, 0, len(sources))
	visited := make(map[string]struct{}, len(sources))
	for _, id := range sources {
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}
		queue = append(queue, frontier{node: id})
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		cur := queue[0]
		queue = queue[1:]

		if cur.node == target {
			return true, nil
		}
		if cur.dist >= radius {
			continue
		}

		edges, err := f.graph.EdgesFrom(ctx, cur.node)
		if err != nil {
			return false, err
		}

		for _, edge := range edges {
			if _, seen := visited[edge.To]; !seen {
				visited[edge.To] = struct{}{}
				queue = append(queue, frontier{node: edge.To, dist: cur.dist + 1})
			}
		}
	}

	return false, nil
}
