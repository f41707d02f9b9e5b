package graph

import (
	"github.com/emirpasic/gods/sets/treeset"

	"github.com/ysiraichi/enfield/pkg/errors"
)

// Type selects whether edges are directed.
type Type int

const (
	// Undirected graphs store every edge in both directions. Succ, Pred and
	// Adj return the same neighbour set.
	Undirected Type = iota
	// Directed graphs store an edge u -> v only in Succ(u) and Pred(v).
	Directed
)

// String returns the name used by the JSON hardware format.
func (t Type) String() string {
	if t == Directed {
		return "Directed"
	}
	return "Undirected"
}

// ParseType is the inverse of [Type.String].
func ParseType(s string) (Type, error) {
	switch s {
	case "Directed":
		return Directed, nil
	case "Undirected":
		return Undirected, nil
	}
	return Undirected, errors.New(errors.ErrCodeInvalidFormat, "unknown graph type %q", s)
}

// Edge is an ordered pair of vertex identifiers.
type Edge struct {
	U, V int
}

// Graph is a simple graph over dense integer vertices 0..Size()-1.
//
// Neighbour sets are kept ordered, so every query that returns vertices
// returns them in increasing order. Iteration order never depends on
// insertion order, which keeps routing decisions reproducible.
//
// The zero value is not usable - use [New]. Graph is not safe for concurrent
// mutation; concurrent reads are fine once construction is complete.
type Graph struct {
	ty    Type
	succ  []*treeset.Set
	pred  []*treeset.Set
	edges int
}

// New creates a graph with n isolated vertices.
func New(n int, ty Type) *Graph {
	g := &Graph{ty: ty}
	for i := 0; i < n; i++ {
		g.PutVertex()
	}
	return g
}

// Type returns the graph's edge type.
func (g *Graph) Type() Type { return g.ty }

// IsDirected reports whether edges are directed.
func (g *Graph) IsDirected() bool { return g.ty == Directed }

// Size returns the number of vertices.
func (g *Graph) Size() int { return len(g.succ) }

// EdgeCount returns the number of distinct edges. An undirected edge counts
// once.
func (g *Graph) EdgeCount() int { return g.edges }

// PutVertex appends a new isolated vertex and returns its identifier.
func (g *Graph) PutVertex() int {
	g.succ = append(g.succ, treeset.NewWithIntComparator())
	g.pred = append(g.pred, treeset.NewWithIntComparator())
	return len(g.succ) - 1
}

// PutEdge inserts the edge u -> v (and v -> u when undirected). Inserting an
// existing edge is a no-op. Self-loops and out-of-range endpoints are
// rejected with INVALID_VERTEX.
func (g *Graph) PutEdge(u, v int) error {
	if err := g.checkEdge(u, v); err != nil {
		return err
	}
	g.putEdge(u, v)
	return nil
}

// putEdge reports whether the edge was new.
func (g *Graph) putEdge(u, v int) bool {
	if g.succ[u].Contains(v) {
		return false
	}
	g.succ[u].Add(v)
	g.pred[v].Add(u)
	if g.ty == Undirected {
		g.succ[v].Add(u)
		g.pred[u].Add(v)
	}
	g.edges++
	return true
}

func (g *Graph) checkEdge(u, v int) error {
	if err := g.CheckVertex(u); err != nil {
		return err
	}
	if err := g.CheckVertex(v); err != nil {
		return err
	}
	if u == v {
		return errors.New(errors.ErrCodeInvalidVertex, "self-loop on vertex %d", u)
	}
	return nil
}

// CheckVertex returns INVALID_VERTEX unless 0 <= v < Size().
func (g *Graph) CheckVertex(v int) error {
	if v < 0 || v >= len(g.succ) {
		return errors.New(errors.ErrCodeInvalidVertex, "vertex %d out of range [0, %d)", v, len(g.succ))
	}
	return nil
}

// HasEdge reports whether u -> v is an edge. Out-of-range vertices yield false.
func (g *Graph) HasEdge(u, v int) bool {
	if g.CheckVertex(u) != nil || g.CheckVertex(v) != nil {
		return false
	}
	return g.succ[u].Contains(v)
}

// Succ returns the successors of v in increasing order.
func (g *Graph) Succ(v int) []int { return values(g.succ[v]) }

// Pred returns the predecessors of v in increasing order.
func (g *Graph) Pred(v int) []int { return values(g.pred[v]) }

// Adj returns the union of successors and predecessors of v in increasing
// order.
func (g *Graph) Adj(v int) []int {
	if g.ty == Undirected {
		return values(g.succ[v])
	}
	all := treeset.NewWithIntComparator(g.succ[v].Values()...)
	all.Add(g.pred[v].Values()...)
	return values(all)
}

// OutDegree returns the number of successors of v.
func (g *Graph) OutDegree(v int) int { return g.succ[v].Size() }

// InDegree returns the number of predecessors of v.
func (g *Graph) InDegree(v int) int { return g.pred[v].Size() }

// Edges returns all edges sorted by (U, V). Undirected edges are reported
// once with U < V.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for u := range g.succ {
		for _, v := range values(g.succ[u]) {
			if g.ty == Undirected && v < u {
				continue
			}
			out = append(out, Edge{U: u, V: v})
		}
	}
	return out
}

func values(s *treeset.Set) []int {
	out := make([]int, 0, s.Size())
	for _, v := range s.Values() {
		out = append(out, v.(int))
	}
	return out
}
