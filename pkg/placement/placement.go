// Package placement maps logical qubits onto physical qubits.
//
// A [Placement] is a partial bijection: every assigned logical qubit sits on
// exactly one physical vertex, and every vertex holds at most one logical
// qubit. The two directions are stored side by side and kept consistent by
// every mutating method.
package placement

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ysiraichi/enfield/pkg/errors"
)

// Unassigned marks a logical qubit with no vertex or a vertex with no
// logical qubit. In a swap target it means "don't care".
const Unassigned = -1

// Placement is the current logical-to-physical assignment.
//
// The zero value is an empty placement of zero qubits.
type Placement struct {
	log2phys []int
	phys2log []int
}

// New returns a placement of q logical qubits on n vertices with nothing
// assigned.
func New(q, n int) *Placement {
	p := &Placement{log2phys: make([]int, q), phys2log: make([]int, n)}
	for i := range p.log2phys {
		p.log2phys[i] = Unassigned
	}
	for i := range p.phys2log {
		p.phys2log[i] = Unassigned
	}
	return p
}

// Identity places logical qubit i on vertex i. It fails with INVALID_INPUT
// when there are more logical qubits than vertices.
func Identity(q, n int) (*Placement, error) {
	if q > n {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%d logical qubits do not fit on %d physical qubits", q, n)
	}
	p := New(q, n)
	for i := 0; i < q; i++ {
		p.log2phys[i] = i
		p.phys2log[i] = i
	}
	return p, nil
}

// FromSlice builds a placement from a logical-to-physical table. Entries may
// be [Unassigned]. Out-of-range vertices fail with INVALID_VERTEX, two
// logical qubits on one vertex with INVALID_INPUT.
func FromSlice(log2phys []int, n int) (*Placement, error) {
	p := New(len(log2phys), n)
	for l, v := range log2phys {
		if v == Unassigned {
			continue
		}
		if v < 0 || v >= n {
			return nil, errors.New(errors.ErrCodeInvalidVertex, "logical qubit %d mapped to vertex %d, out of range [0, %d)", l, v, n)
		}
		if other := p.phys2log[v]; other != Unassigned {
			return nil, errors.New(errors.ErrCodeInvalidInput, "logical qubits %d and %d both mapped to vertex %d", other, l, v)
		}
		p.log2phys[l] = v
		p.phys2log[v] = l
	}
	return p, nil
}

// Qubits returns the number of logical qubits.
func (p *Placement) Qubits() int { return len(p.log2phys) }

// Vertices returns the number of physical vertices.
func (p *Placement) Vertices() int { return len(p.phys2log) }

// Phys returns the vertex holding logical qubit l, or [Unassigned].
func (p *Placement) Phys(l int) int { return p.log2phys[l] }

// Logical returns the logical qubit on vertex v, or [Unassigned].
func (p *Placement) Logical(v int) int { return p.phys2log[v] }

// IsComplete reports whether every logical qubit is assigned.
func (p *Placement) IsComplete() bool {
	return !slices.Contains(p.log2phys, Unassigned)
}

// Assign places logical qubit l on the free vertex v, moving l off its
// previous vertex. It fails with INVALID_VERTEX for out-of-range arguments
// and INVALID_INPUT when v already holds another qubit.
func (p *Placement) Assign(l, v int) error {
	if l < 0 || l >= len(p.log2phys) {
		return errors.New(errors.ErrCodeInvalidVertex, "logical qubit %d out of range [0, %d)", l, len(p.log2phys))
	}
	if v < 0 || v >= len(p.phys2log) {
		return errors.New(errors.ErrCodeInvalidVertex, "vertex %d out of range [0, %d)", v, len(p.phys2log))
	}
	if other := p.phys2log[v]; other != Unassigned && other != l {
		return errors.New(errors.ErrCodeInvalidInput, "vertex %d already holds logical qubit %d", v, other)
	}
	if old := p.log2phys[l]; old != Unassigned {
		p.phys2log[old] = Unassigned
	}
	p.log2phys[l] = v
	p.phys2log[v] = l
	return nil
}

// Swap exchanges whatever the vertices u and v hold. Either may be empty.
func (p *Placement) Swap(u, v int) {
	a, b := p.phys2log[u], p.phys2log[v]
	p.phys2log[u], p.phys2log[v] = b, a
	if a != Unassigned {
		p.log2phys[a] = v
	}
	if b != Unassigned {
		p.log2phys[b] = u
	}
}

// Clone returns an independent copy.
func (p *Placement) Clone() *Placement {
	return &Placement{
		log2phys: slices.Clone(p.log2phys),
		phys2log: slices.Clone(p.phys2log),
	}
}

// Equal reports whether p and o assign every logical qubit identically.
func (p *Placement) Equal(o *Placement) bool {
	return slices.Equal(p.log2phys, o.log2phys) && slices.Equal(p.phys2log, o.phys2log)
}

// Satisfies reports whether p matches target on every logical qubit target
// assigns. Unassigned target entries are ignored.
func (p *Placement) Satisfies(target *Placement) bool {
	if len(target.log2phys) != len(p.log2phys) {
		return false
	}
	for l, v := range target.log2phys {
		if v != Unassigned && p.log2phys[l] != v {
			return false
		}
	}
	return true
}

// Slice returns a copy of the logical-to-physical table.
func (p *Placement) Slice() []int { return slices.Clone(p.log2phys) }

// Validate checks that both tables agree. It returns INTERNAL_ERROR on the
// first inconsistency found.
func (p *Placement) Validate() error {
	for l, v := range p.log2phys {
		if v == Unassigned {
			continue
		}
		if v < 0 || v >= len(p.phys2log) || p.phys2log[v] != l {
			return errors.New(errors.ErrCodeInternal, "logical qubit %d claims vertex %d which does not point back", l, v)
		}
	}
	for v, l := range p.phys2log {
		if l == Unassigned {
			continue
		}
		if l < 0 || l >= len(p.log2phys) || p.log2phys[l] != v {
			return errors.New(errors.ErrCodeInternal, "vertex %d claims logical qubit %d which does not point back", v, l)
		}
	}
	return nil
}

// String renders the mapping as "[q0->v0 q1->v1 ...]", with "_" for
// unassigned qubits.
func (p *Placement) String() string {
	parts := make([]string, len(p.log2phys))
	for l, v := range p.log2phys {
		if v == Unassigned {
			parts[l] = fmt.Sprintf("q%d->_", l)
		} else {
			parts[l] = fmt.Sprintf("q%d->%d", l, v)
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}
