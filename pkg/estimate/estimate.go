// Package estimate scores how expensive it is to move logical qubits around
// a device.
//
// An [Estimator] precomputes a distance table over an [graph.Arch] once, in
// [Estimator.Preprocess], and answers every later query from that table.
// The table is never written after Preprocess returns, so one Estimator can
// serve concurrent readers.
//
// Two variants are provided:
//
//   - [HopCount]: unweighted shortest paths. Bringing two qubits at hop
//     distance d next to each other costs d-1 swaps.
//   - [GeoDistance]: weighted shortest paths over the coupling weights, for
//     devices whose couplings differ in cost or fidelity.
package estimate

import (
	"context"
	stderrors "errors"
	"math"

	"github.com/ysiraichi/enfield/pkg/errors"
	"github.com/ysiraichi/enfield/pkg/graph"
	"github.com/ysiraichi/enfield/pkg/placement"
)

// Names accepted by [New].
const (
	NameHopCount    = "hop"
	NameGeoDistance = "geo"
)

// Estimator is the swap-cost capability shared by the router, the live-qubit
// processors and the token-swap finders.
//
// Every query method panics when called before Preprocess.
type Estimator interface {
	// Name identifies the variant ("hop" or "geo").
	Name() string
	// Preprocess builds the distance table for arch.
	Preprocess(ctx context.Context, arch *graph.Arch) error
	// Distance is the cost of moving a token from vertex u to vertex v.
	// Unreachable pairs cost +Inf.
	Distance(u, v int) float64
	// Estimate is the cost of making logical qubits a and b adjacent under
	// p. It is zero when they already are.
	Estimate(p *placement.Placement, a, b int) float64
	// MappingCost sums, over every logical qubit assigned in both from and
	// to, the distance between its two vertices.
	MappingCost(from, to *placement.Placement) float64
}

// New returns the estimator registered under name. Unknown names fail with
// NOT_FOUND.
func New(name string) (Estimator, error) {
	switch name {
	case NameHopCount:
		return NewHopCount(), nil
	case NameGeoDistance:
		return NewGeoDistance(), nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "unknown estimator %q (want %q or %q)", name, NameHopCount, NameGeoDistance)
}

// table holds the state common to both variants.
type table struct {
	arch *graph.Arch
	dist [][]float64
}

func (t *table) build(ctx context.Context, arch *graph.Arch, row func(src int) []float64) error {
	dist, err := graph.AllPairs(ctx, arch.Size(), row)
	switch {
	case stderrors.Is(err, context.Canceled):
		return err
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "distance table for %d qubits", arch.Size())
	case err != nil:
		return errors.Wrap(errors.ErrCodeInternal, err, "distance table for %d qubits", arch.Size())
	}
	t.arch = arch
	t.dist = dist
	return nil
}

func (t *table) mustBeReady() {
	if t.dist == nil {
		panic("estimate: query before Preprocess")
	}
}

func (t *table) Distance(u, v int) float64 {
	t.mustBeReady()
	return t.dist[u][v]
}

// Estimate returns the cheapest way of moving a's token onto a neighbour of
// b's vertex.
func (t *table) Estimate(p *placement.Placement, a, b int) float64 {
	t.mustBeReady()
	u, v := p.Phys(a), p.Phys(b)
	if u == placement.Unassigned || v == placement.Unassigned {
		return math.Inf(1)
	}
	if t.arch.AreAdjacent(u, v) {
		return 0
	}
	best := math.Inf(1)
	for _, w := range t.arch.Adj(v) {
		best = min(best, t.dist[u][w])
	}
	return best
}

func (t *table) MappingCost(from, to *placement.Placement) float64 {
	t.mustBeReady()
	cost := 0.0
	for l := 0; l < from.Qubits() && l < to.Qubits(); l++ {
		u, v := from.Phys(l), to.Phys(l)
		if u == placement.Unassigned || v == placement.Unassigned {
			continue
		}
		cost += t.dist[u][v]
	}
	return cost
}

// HopCount measures distance in couplings traversed.
type HopCount struct{ table }

// NewHopCount returns an unprepared HopCount estimator.
func NewHopCount() *HopCount { return &HopCount{} }

// Name returns "hop".
func (*HopCount) Name() string { return NameHopCount }

// Preprocess runs a breadth-first search from every vertex.
func (h *HopCount) Preprocess(ctx context.Context, arch *graph.Arch) error {
	return h.build(ctx, arch, func(src int) []float64 {
		hops := graph.BFS(arch, src)
		row := make([]float64, len(hops))
		for v, d := range hops {
			if d == graph.Unreachable {
				row[v] = math.Inf(1)
			} else {
				row[v] = float64(d)
			}
		}
		return row
	})
}

// GeoDistance measures distance as the total weight of the cheapest path.
// On an unweighted device it agrees with [HopCount].
type GeoDistance struct{ table }

// NewGeoDistance returns an unprepared GeoDistance estimator.
func NewGeoDistance() *GeoDistance { return &GeoDistance{} }

// Name returns "geo".
func (*GeoDistance) Name() string { return NameGeoDistance }

// Preprocess runs Dijkstra from every vertex.
func (g *GeoDistance) Preprocess(ctx context.Context, arch *graph.Arch) error {
	return g.build(ctx, arch, func(src int) []float64 {
		return graph.Dijkstra(arch, src)
	})
}
