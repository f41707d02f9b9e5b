package route

import (
	"math"

	"github.com/ysiraichi/enfield/pkg/circuit"
	"github.com/ysiraichi/enfield/pkg/errors"
	"github.com/ysiraichi/enfield/pkg/graph"
	"github.com/ysiraichi/enfield/pkg/live"
	"github.com/ysiraichi/enfield/pkg/placement"
	"github.com/ysiraichi/enfield/pkg/stats"
	"github.com/ysiraichi/enfield/pkg/swap"
)

// run holds the mutable state of one Route call.
type run struct {
	r     *Router
	m     *circuit.Module
	arch  *graph.Arch
	deps  []circuit.Dependency
	isDep []bool // gate index -> is a dependency's gate

	initial *placement.Placement
	cur     *placement.Placement

	onQubit [][]int // per logical qubit, gate indices in program order
	head    []int   // per logical qubit, position of the next gate to emit
	emitted int

	out     []circuit.Gate
	swaps   []swap.Swap
	cost    float64
	maxDist float64
}

func newRun(r *Router, m *circuit.Module, arch *graph.Arch, deps []circuit.Dependency, start *placement.Placement) *run {
	rn := &run{
		r:       r,
		m:       m,
		arch:    arch,
		deps:    deps,
		isDep:   make([]bool, len(m.Gates)),
		initial: start,
		cur:     start.Clone(),
		onQubit: make([][]int, m.Qubits()),
		head:    make([]int, m.Qubits()),
	}
	for _, d := range deps {
		rn.isDep[d.Gate] = true
	}
	for i, g := range m.Gates {
		for _, q := range g.Qubits {
			rn.onQubit[q] = append(rn.onQubit[q], i)
		}
	}
	return rn
}

// ready reports whether every earlier gate on the qubits of gate g has been
// emitted.
func (rn *run) ready(g int) bool {
	for _, q := range rn.m.Gates[g].Qubits {
		if h := rn.head[q]; h >= len(rn.onQubit[q]) || rn.onQubit[q][h] != g {
			return false
		}
	}
	return true
}

func (rn *run) loop() error {
	// Gates on no qubit at all have no ordering constraint.
	for i, g := range rn.m.Gates {
		if len(g.Qubits) == 0 {
			rn.emit(i)
		}
	}
	rn.flush(allQubits(rn.m.Qubits()))

	proc := rn.r.cfg.Processor
	eligible := func(i int) bool { return rn.ready(rn.deps[i].Gate) }
	for {
		rn.r.transition(Selecting)
		i, ok := proc.Next(rn.cur, eligible)
		if !ok {
			break
		}
		dep := rn.deps[i]
		if !rn.ready(dep.Gate) {
			return errors.New(errors.ErrCodeInternal, "dependency #%d (gate #%d) selected before its predecessors", i, dep.Gate)
		}

		rn.r.transition(Routing)
		swaps, err := rn.routeDependency(dep)
		if err != nil {
			return err
		}

		rn.r.transition(Emitting)
		for _, s := range swaps {
			rn.cur.Swap(s.U, s.V)
			rn.out = append(rn.out, circuit.Gate{Name: circuit.GateSwap, Qubits: []int{s.U, s.V}})
		}
		rn.swaps = append(rn.swaps, swaps...)
		if u, v := rn.cur.Phys(dep.A), rn.cur.Phys(dep.B); !rn.arch.AreAdjacent(u, v) {
			return errors.New(errors.ErrCodeInternal,
				"dependency #%d (q%d, q%d) still on non-adjacent vertices %d and %d", i, dep.A, dep.B, u, v)
		}
		rn.emit(dep.Gate)
		if err := proc.Satisfy(i); err != nil {
			return err
		}
		if len(swaps) > 0 {
			rn.r.cfg.Logger.Debug("routed dependency", "index", i, "a", dep.A, "b", dep.B, "swaps", len(swaps))
		}
		rn.flush([]int{dep.A, dep.B})
		rn.r.transition(Idle)
	}

	if rn.emitted != len(rn.m.Gates) {
		return errors.New(errors.ErrCodeInternal, "%d of %d gates left unemitted", len(rn.m.Gates)-rn.emitted, len(rn.m.Gates))
	}
	return nil
}

// routeDependency returns the swaps that make dep executable, possibly none.
func (rn *run) routeDependency(dep circuit.Dependency) ([]swap.Swap, error) {
	est := rn.r.cfg.Estimator
	u, v := rn.cur.Phys(dep.A), rn.cur.Phys(dep.B)
	dist := est.Distance(u, v)
	if math.IsInf(dist, 1) {
		return nil, errors.New(errors.ErrCodeDisconnected,
			"dependency #%d (q%d, q%d): vertices %d and %d are in different components", dep.Index, dep.A, dep.B, u, v)
	}
	rn.maxDist = max(rn.maxDist, dist)
	rn.cost += est.Estimate(rn.cur, dep.A, dep.B)
	if rn.arch.AreAdjacent(u, v) {
		return nil, nil
	}

	target, cost := rn.r.adjacencyTarget(rn.arch, rn.cur, dep.A, dep.B)
	if target == nil || math.IsInf(cost, 1) {
		return nil, errors.New(errors.ErrCodeDisconnected,
			"dependency #%d (q%d, q%d): no coupling reachable by both qubits", dep.Index, dep.A, dep.B)
	}
	if rn.r.cfg.PinIdle {
		if err := live.Complete(rn.arch, rn.cur, target); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "dependency #%d (q%d, q%d)", dep.Index, dep.A, dep.B)
		}
	}
	swaps, err := rn.r.cfg.Finder.Find(rn.cur, target)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "dependency #%d (q%d, q%d)", dep.Index, dep.A, dep.B)
	}
	return swaps, nil
}

// emit appends gate g with physical operands and advances the per-qubit
// cursors past it.
func (rn *run) emit(g int) {
	gate := rn.m.Gates[g].Clone()
	for k, q := range gate.Qubits {
		gate.Qubits[k] = rn.cur.Phys(q)
		rn.head[q]++
	}
	rn.out = append(rn.out, gate)
	rn.emitted++
}

// flush emits every ready gate that is not a dependency, starting from the
// given qubits and following the qubits of each emitted gate.
func (rn *run) flush(qubits []int) {
	work := append([]int(nil), qubits...)
	for len(work) > 0 {
		q := work[0]
		work = work[1:]
		h := rn.head[q]
		if h >= len(rn.onQubit[q]) {
			continue
		}
		g := rn.onQubit[q][h]
		if rn.isDep[g] || !rn.ready(g) {
			continue
		}
		rn.emit(g)
		work = append(work, rn.m.Gates[g].Qubits...)
	}
}

func allQubits(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func (rn *run) result() (*Result, error) {
	out := &circuit.Module{
		Version:  rn.m.Version,
		Includes: append([]string(nil), rn.m.Includes...),
		QRegs:    physicalRegs(rn.arch),
		CRegs:    append([]circuit.Register(nil), rn.m.CRegs...),
		Gates:    rn.out,
	}

	pool := stats.New()
	for _, s := range []struct{ name, desc string }{
		{StatSwaps, "Number of swaps inserted"},
		{StatGates, "Number of gates in the routed circuit"},
		{StatDepth, "Depth of the routed circuit"},
		{StatDependencies, "Number of two-qubit dependencies"},
		{StatEstimatedCost, "Sum of estimated routing costs"},
		{StatMaxDepDistance, "Largest distance between dependency qubits"},
	} {
		if err := pool.Add(s.name, s.desc); err != nil {
			return nil, err
		}
	}
	_ = pool.Set(StatSwaps, float64(len(rn.swaps)))
	_ = pool.Set(StatGates, float64(len(out.Gates)))
	_ = pool.Set(StatDepth, float64(circuit.Depth(out)))
	_ = pool.Set(StatDependencies, float64(len(rn.deps)))
	_ = pool.Set(StatEstimatedCost, rn.cost)
	_ = pool.Set(StatMaxDepDistance, rn.maxDist)

	if err := rn.cur.Validate(); err != nil {
		return nil, err
	}
	return &Result{
		Module:  out,
		Initial: rn.initial,
		Final:   rn.cur,
		Swaps:   rn.swaps,
		Stats:   pool,
	}, nil
}

// physicalRegs names the output register after the device's own registers
// when they cover it exactly, and "q" otherwise.
func physicalRegs(arch *graph.Arch) []circuit.Register {
	var regs []circuit.Register
	total := 0
	for _, r := range arch.Regs() {
		if r.First != total {
			break
		}
		regs = append(regs, circuit.Register{Name: r.Name, Size: r.Size})
		total += r.Size
	}
	if total != arch.Size() {
		return []circuit.Register{{Name: "q", Size: arch.Size()}}
	}
	return regs
}
