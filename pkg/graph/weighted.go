package graph

import "github.com/ysiraichi/enfield/pkg/errors"

// DefaultWeight is the weight given to edges inserted without one.
const DefaultWeight = 1.0

// WeightedGraph is a [Graph] whose edges carry a float64 weight.
//
// Weights live in a side table keyed by the ordered vertex pair. Undirected
// edges store the weight under both orientations so lookups never need to
// normalise the pair.
type WeightedGraph struct {
	*Graph
	weights map[Edge]float64
}

// NewWeighted creates a weighted graph with n isolated vertices.
func NewWeighted(n int, ty Type) *WeightedGraph {
	return &WeightedGraph{Graph: New(n, ty), weights: make(map[Edge]float64)}
}

// PutEdge inserts u -> v with [DefaultWeight]. An existing edge keeps its
// weight.
func (g *WeightedGraph) PutEdge(u, v int) error {
	if err := g.checkEdge(u, v); err != nil {
		return err
	}
	if g.putEdge(u, v) {
		g.setWeight(u, v, DefaultWeight)
	}
	return nil
}

// PutWeightedEdge inserts u -> v with weight w. Re-inserting an edge
// overwrites its weight.
func (g *WeightedGraph) PutWeightedEdge(u, v int, w float64) error {
	if err := g.checkEdge(u, v); err != nil {
		return err
	}
	g.putEdge(u, v)
	g.setWeight(u, v, w)
	return nil
}

// SetWeight changes the weight of an existing edge. It returns NOT_FOUND when
// u -> v is not an edge.
func (g *WeightedGraph) SetWeight(u, v int, w float64) error {
	if !g.HasEdge(u, v) {
		return errors.New(errors.ErrCodeNotFound, "no edge %d -> %d", u, v)
	}
	g.setWeight(u, v, w)
	return nil
}

// Weight returns the weight of u -> v.
func (g *WeightedGraph) Weight(u, v int) (float64, bool) {
	w, ok := g.weights[Edge{U: u, V: v}]
	return w, ok
}

func (g *WeightedGraph) setWeight(u, v int, w float64) {
	g.weights[Edge{U: u, V: v}] = w
	if g.ty == Undirected {
		g.weights[Edge{U: v, V: u}] = w
	}
}
