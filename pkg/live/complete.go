package live

import (
	"github.com/ysiraichi/enfield/pkg/errors"
	"github.com/ysiraichi/enfield/pkg/graph"
	"github.com/ysiraichi/enfield/pkg/placement"
)

// Complete assigns, in to, every logical qubit that is placed in from but
// left unassigned in to. A qubit keeps its current vertex when to leaves that
// vertex free; otherwise it takes the free vertex of to nearest to its
// current one (fewest hops, lowest vertex among equals). Qubits are handled
// in increasing order.
//
// The router uses Complete to keep qubits that take no part in a dependency
// where they are, instead of leaving them to the swap finder.
func Complete(arch *graph.Arch, from, to *placement.Placement) error {
	for l := 0; l < to.Qubits(); l++ {
		v := from.Phys(l)
		if to.Phys(l) != placement.Unassigned || v == placement.Unassigned {
			continue
		}
		if to.Logical(v) != placement.Unassigned {
			v = nearestFree(arch, to, v)
		}
		if v == graph.Unreachable {
			return errors.New(errors.ErrCodeDisconnected, "no free vertex reachable for logical qubit %d", l)
		}
		if err := to.Assign(l, v); err != nil {
			return err
		}
	}
	return nil
}

func nearestFree(arch *graph.Arch, p *placement.Placement, src int) int {
	dist := graph.BFS(arch, src)
	best := graph.Unreachable
	for v, d := range dist {
		if d == graph.Unreachable || p.Logical(v) != placement.Unassigned {
			continue
		}
		if best == graph.Unreachable || d < dist[best] {
			best = v
		}
	}
	return best
}

// Fill assigns every unplaced logical qubit of p to the lowest free vertex.
// It fails with INVALID_INPUT when p has more qubits than vertices.
func Fill(p *placement.Placement) error {
	next := 0
	for l := 0; l < p.Qubits(); l++ {
		if p.Phys(l) != placement.Unassigned {
			continue
		}
		for next < p.Vertices() && p.Logical(next) != placement.Unassigned {
			next++
		}
		if next == p.Vertices() {
			return errors.New(errors.ErrCodeInvalidInput, "%d logical qubits do not fit on %d physical qubits", p.Qubits(), p.Vertices())
		}
		if err := p.Assign(l, next); err != nil {
			return err
		}
	}
	return nil
}
