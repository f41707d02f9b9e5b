// Package route maps a logical circuit onto a device.
//
// The [Router] walks the circuit's two-qubit dependencies, picks the next
// one with a live-qubit processor, and when its qubits are not adjacent asks
// a token-swap finder for swaps that make them so. Swaps are emitted as
// "swap" gates on physical qubits, followed by the dependency's own gate.
// Single-qubit gates, measurements and barriers are emitted as soon as every
// earlier gate on their qubits has been emitted.
//
// A run either routes every dependency or fails; no partial result is ever
// returned.
package route

import (
	"context"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/ysiraichi/enfield/pkg/circuit"
	"github.com/ysiraichi/enfield/pkg/errors"
	"github.com/ysiraichi/enfield/pkg/estimate"
	"github.com/ysiraichi/enfield/pkg/graph"
	"github.com/ysiraichi/enfield/pkg/live"
	"github.com/ysiraichi/enfield/pkg/placement"
	"github.com/ysiraichi/enfield/pkg/stats"
	"github.com/ysiraichi/enfield/pkg/swap"
)

// State is the router's position in its main loop.
type State int

const (
	// Idle: between dependencies.
	Idle State = iota
	// Selecting: asking the live-qubit processor for the next dependency.
	Selecting
	// Routing: searching for swaps that make the dependency executable.
	Routing
	// Emitting: writing swaps and the dependency's gate to the output.
	Emitting
	// Done: every dependency is satisfied.
	Done
)

var stateNames = [...]string{"idle", "selecting", "routing", "emitting", "done"}

// String returns the lowercase state name.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Stat names recorded in [Result.Stats].
const (
	StatSwaps          = "swaps"
	StatGates          = "gates"
	StatDepth          = "depth"
	StatDependencies   = "dependencies"
	StatEstimatedCost  = "estimated_cost"
	StatMaxDepDistance = "max_dependency_distance"
)

// Config selects the router's collaborators. Nil fields get defaults: the
// approximate finder, the hop-count estimator, program order and a discard
// logger.
type Config struct {
	Finder    swap.Finder
	Estimator estimate.Estimator
	Processor live.Processor
	Logger    *log.Logger

	// PinIdle keeps qubits that take no part in the dependency being routed
	// on their vertices where possible.
	PinIdle bool
}

// Router is the routing orchestrator. It is not safe for concurrent use;
// give each goroutine its own Router.
type Router struct {
	cfg      Config
	state    State
	prepared *graph.Arch
}

// New returns a Router for cfg.
func New(cfg Config) *Router {
	if cfg.Estimator == nil {
		cfg.Estimator = estimate.NewHopCount()
	}
	if cfg.Finder == nil {
		cfg.Finder = swap.NewApprox()
	}
	if cfg.Processor == nil {
		cfg.Processor = live.NewSequential()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Router{cfg: cfg}
}

// State returns the current state. It is Done after a successful Route and
// Idle after a failed one.
func (r *Router) State() State { return r.state }

// Preprocess prepares the estimator and the finder for arch. Route calls it
// when given a device it has not seen; calling it first allows a deadline.
func (r *Router) Preprocess(ctx context.Context, arch *graph.Arch) error {
	if r.prepared == arch {
		return nil
	}
	if err := r.cfg.Estimator.Preprocess(ctx, arch); err != nil {
		return errors.Wrap(errors.GetCode(err), err, "preprocess %s estimator", r.cfg.Estimator.Name())
	}
	if err := r.cfg.Finder.Preprocess(ctx, arch); err != nil {
		return errors.Wrap(errors.GetCode(err), err, "preprocess %s swap finder", r.cfg.Finder.Name())
	}
	r.prepared = arch
	return nil
}

// Result is a routed circuit.
type Result struct {
	// Module is the routed circuit over the device's physical qubits,
	// including the inserted swap gates.
	Module *circuit.Module
	// Initial and Final are the placements before the first and after the
	// last gate.
	Initial, Final *placement.Placement
	// Swaps lists the inserted swaps in emission order.
	Swaps []swap.Swap
	Stats *stats.Pool
}

// Route maps m onto arch starting from initial. A nil initial selects the
// identity placement; logical qubits initial leaves unassigned are put on
// the lowest free vertices. Neither m nor initial is modified.
func (r *Router) Route(m *circuit.Module, arch *graph.Arch, initial *placement.Placement) (*Result, error) {
	r.state = Idle
	res, err := r.route(m, arch, initial)
	if err != nil {
		r.state = Idle
		return nil, err
	}
	r.transition(Done)
	return res, nil
}

func (r *Router) route(m *circuit.Module, arch *graph.Arch, initial *placement.Placement) (*Result, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	deps, err := circuit.Dependencies(m)
	if err != nil {
		return nil, err
	}
	start, err := startPlacement(m, arch, initial)
	if err != nil {
		return nil, err
	}
	if err := r.Preprocess(context.Background(), arch); err != nil {
		return nil, err
	}
	if err := r.cfg.Processor.Init(deps, m.Qubits()); err != nil {
		return nil, err
	}

	run := newRun(r, m, arch, deps, start)
	if err := run.loop(); err != nil {
		return nil, err
	}
	return run.result()
}

func (r *Router) transition(to State) {
	if r.state != to {
		r.cfg.Logger.Debug("router", "from", r.state, "to", to)
	}
	r.state = to
}

func startPlacement(m *circuit.Module, arch *graph.Arch, initial *placement.Placement) (*placement.Placement, error) {
	q, n := m.Qubits(), arch.Size()
	if q > n {
		return nil, errors.New(errors.ErrCodeInvalidInput, "circuit uses %d qubits, device has %d", q, n)
	}
	if initial == nil {
		return placement.Identity(q, n)
	}
	if initial.Qubits() != q || initial.Vertices() != n {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"initial placement covers %d qubits on %d vertices, want %d on %d", initial.Qubits(), initial.Vertices(), q, n)
	}
	p := initial.Clone()
	if err := live.Fill(p); err != nil {
		return nil, err
	}
	return p, nil
}

// adjacencyTarget picks the coupling (x, y) that brings a to x and b to y at
// the lowest estimator mapping cost, trying edges in increasing order and a
// on the lower vertex first. Every other qubit is left unassigned.
func (r *Router) adjacencyTarget(arch *graph.Arch, cur *placement.Placement, a, b int) (*placement.Placement, float64) {
	var best *placement.Placement
	bestCost := math.Inf(1)
	for _, e := range arch.Edges() {
		for _, xy := range [2][2]int{{e.U, e.V}, {e.V, e.U}} {
			cand := placement.New(cur.Qubits(), cur.Vertices())
			_ = cand.Assign(a, xy[0])
			_ = cand.Assign(b, xy[1])
			if cost := r.cfg.Estimator.MappingCost(cur, cand); cost < bestCost {
				best, bestCost = cand, cost
			}
		}
	}
	return best, bestCost
}
