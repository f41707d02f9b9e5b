// Package swap solves token swapping on a device graph.
//
// A token-swap instance is a source [placement.Placement] and a target
// placement over the same device. A [Finder] returns an ordered sequence of
// [Swap] operations, each on a coupling of the device, that turns the source
// into the target. Target entries left [placement.Unassigned] are "don't
// care": that logical qubit may end anywhere, which is how the router asks
// for two qubits to become adjacent without pinning the rest.
//
// Two finders are provided:
//
//   - [Approx]: a deterministic greedy heuristic for any device size.
//   - [Exact]: minimal sequences from a precomputed table over every
//     arrangement, for devices up to [DefaultMaxVertices] qubits.
//
// Both return DISCONNECTED when some qubit's target lies in another
// connected component of the device.
package swap

import (
	"context"
	"fmt"

	"github.com/ysiraichi/enfield/pkg/errors"
	"github.com/ysiraichi/enfield/pkg/graph"
	"github.com/ysiraichi/enfield/pkg/placement"
)

// Names accepted by [New].
const (
	NameApprox = "approx"
	NameExact  = "exact"
)

// Swap exchanges the contents of two adjacent physical qubits.
type Swap struct {
	U, V int
}

// String returns "swap(u, v)".
func (s Swap) String() string { return fmt.Sprintf("swap(%d, %d)", s.U, s.V) }

// Finder is the token-swap capability.
type Finder interface {
	// Name identifies the variant ("approx" or "exact").
	Name() string
	// Preprocess prepares the finder for arch. It must be called once
	// before Find.
	Preprocess(ctx context.Context, arch *graph.Arch) error
	// Find returns swaps that turn from into a placement satisfying to.
	// from and to are not modified.
	Find(from, to *placement.Placement) ([]Swap, error)
}

// New returns the finder registered under name. maxVertices bounds the exact
// finder; zero selects [DefaultMaxVertices]. Unknown names fail with
// NOT_FOUND.
func New(name string, maxVertices int) (Finder, error) {
	switch name {
	case NameApprox:
		return NewApprox(), nil
	case NameExact:
		return NewExact(maxVertices), nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "unknown swap finder %q (want %q or %q)", name, NameApprox, NameExact)
}

// Apply performs swaps on p in order.
func Apply(p *placement.Placement, swaps []Swap) {
	for _, s := range swaps {
		p.Swap(s.U, s.V)
	}
}

// Verify checks that every swap acts on a coupling of arch and that applying
// swaps to from satisfies to.
func Verify(arch *graph.Arch, from, to *placement.Placement, swaps []Swap) error {
	p := from.Clone()
	for i, s := range swaps {
		if !arch.AreAdjacent(s.U, s.V) {
			return errors.New(errors.ErrCodeInvalidVertex, "swap #%d %s is not on a coupling", i, s)
		}
		p.Swap(s.U, s.V)
	}
	if !p.Satisfies(to) {
		return errors.New(errors.ErrCodeInternal, "swaps reach %s, want %s", p, to)
	}
	return p.Validate()
}

// instance holds a validated token-swap problem.
type instance struct {
	from, to *placement.Placement
}

// target returns the vertex the token on v must reach, or Unassigned for a
// free token (an empty vertex or a don't-care qubit).
func (in instance) target(cur *placement.Placement, v int) int {
	l := cur.Logical(v)
	if l == placement.Unassigned {
		return placement.Unassigned
	}
	return in.to.Phys(l)
}

func newInstance(arch *graph.Arch, comp []int, from, to *placement.Placement) (instance, error) {
	if arch == nil {
		panic("swap: Find before Preprocess")
	}
	n := arch.Size()
	if from.Vertices() != n || to.Vertices() != n {
		return instance{}, errors.New(errors.ErrCodeInvalidInput,
			"placements cover %d and %d vertices, device has %d", from.Vertices(), to.Vertices(), n)
	}
	if from.Qubits() != to.Qubits() {
		return instance{}, errors.New(errors.ErrCodeInvalidInput,
			"source has %d logical qubits, target has %d", from.Qubits(), to.Qubits())
	}
	for l := 0; l < to.Qubits(); l++ {
		u, v := from.Phys(l), to.Phys(l)
		if v == placement.Unassigned {
			continue
		}
		if u == placement.Unassigned {
			return instance{}, errors.New(errors.ErrCodeInvalidInput, "logical qubit %d has a target but no source vertex", l)
		}
		if comp[u] != comp[v] {
			return instance{}, errors.New(errors.ErrCodeDisconnected,
				"logical qubit %d cannot move from vertex %d to vertex %d", l, u, v)
		}
	}
	return instance{from: from, to: to}, nil
}
