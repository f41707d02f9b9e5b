// Package live tracks which logical qubits still have pending interactions
// and decides which dependency the router handles next.
//
// A qubit is live while at least one dependency naming it is unsatisfied.
// Dependencies on a qubit must be satisfied in program order, so only the
// front layer (dependencies whose earlier same-qubit dependencies are all
// satisfied) may be routed next. [Sequential] always picks the earliest
// front dependency; [GeoNearest] picks the one whose qubits are currently
// closest, so cheap work is done first.
package live

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/ysiraichi/enfield/pkg/circuit"
	"github.com/ysiraichi/enfield/pkg/errors"
	"github.com/ysiraichi/enfield/pkg/estimate"
	"github.com/ysiraichi/enfield/pkg/placement"
)

// Names accepted by [New].
const (
	NameProgram    = "program"
	NameGeoNearest = "geo-nearest"
)

// Processor is the live-qubit capability.
type Processor interface {
	// Init resets the processor for deps over qubits logical qubits.
	Init(deps []circuit.Dependency, qubits int) error
	// Process returns the set of live logical qubits. The caller owns the
	// returned bitmap.
	Process() *roaring.Bitmap
	// Next returns the index of the dependency to route next under the
	// current placement, or false when none is pending. When eligible is
	// not nil, front dependencies it rejects are passed over unless no
	// other is left, in which case the earliest front dependency is
	// returned.
	Next(p *placement.Placement, eligible func(dep int) bool) (int, bool)
	// Front returns the dependencies that may be routed next, in
	// increasing order.
	Front() []int
	// Satisfy marks dependency i as done. i must be in the front layer.
	Satisfy(i int) error
	// Pending returns the number of unsatisfied dependencies.
	Pending() int
}

// New returns the processor registered under name. est is only used by
// geo-nearest and must be prepared before Next is called.
func New(name string, est estimate.Estimator) (Processor, error) {
	switch name {
	case NameProgram:
		return NewSequential(), nil
	case NameGeoNearest:
		if est == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s ordering needs an estimator", NameGeoNearest)
		}
		return NewGeoNearest(est), nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "unknown dependency order %q (want %q or %q)", name, NameProgram, NameGeoNearest)
}

// tracker is the bookkeeping shared by both processors.
type tracker struct {
	deps    []circuit.Dependency
	queues  [][]int // per qubit, pending dependency indices in program order
	live    *roaring.Bitmap
	front   *roaring.Bitmap
	pending int
}

func (t *tracker) Init(deps []circuit.Dependency, qubits int) error {
	t.deps = deps
	t.queues = make([][]int, qubits)
	t.live = roaring.New()
	t.front = roaring.New()
	t.pending = len(deps)
	for i, d := range deps {
		if d.Index != i {
			return errors.New(errors.ErrCodeInvalidInput, "dependency at position %d has index %d", i, d.Index)
		}
		for _, q := range []int{d.A, d.B} {
			if q < 0 || q >= qubits {
				return errors.New(errors.ErrCodeInvalidVertex, "dependency #%d names logical qubit %d, circuit has %d", i, q, qubits)
			}
			t.queues[q] = append(t.queues[q], i)
			t.live.Add(uint32(q))
		}
	}
	for i := range deps {
		t.refresh(i)
	}
	return nil
}

// refresh adds i to the front layer when it heads both of its queues.
func (t *tracker) refresh(i int) {
	d := t.deps[i]
	if head(t.queues[d.A]) == i && head(t.queues[d.B]) == i {
		t.front.Add(uint32(i))
	}
}

func head(q []int) int {
	if len(q) == 0 {
		return -1
	}
	return q[0]
}

func (t *tracker) Process() *roaring.Bitmap { return t.live.Clone() }

func (t *tracker) Pending() int { return t.pending }

// Front returns the dependency indices that may be routed next, in
// increasing order.
func (t *tracker) Front() []int {
	out := make([]int, 0, t.front.GetCardinality())
	it := t.front.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

func (t *tracker) Satisfy(i int) error {
	if i < 0 || i >= len(t.deps) || !t.front.Contains(uint32(i)) {
		return errors.New(errors.ErrCodeInvalidInput, "dependency #%d is not ready", i)
	}
	t.front.Remove(uint32(i))
	t.pending--
	d := t.deps[i]
	for _, q := range []int{d.A, d.B} {
		t.queues[q] = t.queues[q][1:]
		if len(t.queues[q]) == 0 {
			t.live.Remove(uint32(q))
			continue
		}
		t.refresh(t.queues[q][0])
	}
	return nil
}

// Sequential routes dependencies in program order.
type Sequential struct{ tracker }

// NewSequential returns an uninitialised Sequential processor.
func NewSequential() *Sequential { return &Sequential{} }

// Next returns the earliest pending dependency. The earliest pending
// dependency never waits on another, so eligible is not consulted.
func (s *Sequential) Next(*placement.Placement, func(int) bool) (int, bool) {
	if s.front.IsEmpty() {
		return 0, false
	}
	return int(s.front.Minimum()), true
}

// GeoNearest routes the front dependency whose qubits are cheapest to bring
// together, the earliest one among equals.
type GeoNearest struct {
	tracker
	est estimate.Estimator
}

// NewGeoNearest returns an uninitialised GeoNearest processor.
func NewGeoNearest(est estimate.Estimator) *GeoNearest { return &GeoNearest{est: est} }

// Next ranks the eligible front dependencies by estimated cost under p.
func (g *GeoNearest) Next(p *placement.Placement, eligible func(int) bool) (int, bool) {
	if g.front.IsEmpty() {
		return 0, false
	}
	best, found := 0, false
	bestCost := 0.0
	it := g.front.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		if eligible != nil && !eligible(i) {
			continue
		}
		cost := g.est.Estimate(p, g.deps[i].A, g.deps[i].B)
		if !found || cost < bestCost {
			best, bestCost, found = i, cost, true
		}
	}
	if !found {
		return int(g.front.Minimum()), true
	}
	return best, true
}
