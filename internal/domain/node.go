package domain

// Node is a point on the road graph.
type Node struct {
	ID   string
	Name string
}

// Edge is a directed road segment between two nodes.
// Edges are immutable once created and unique per (From, To) pair.
type Edge struct {
	ID   int64
	From string
	To   string
}
