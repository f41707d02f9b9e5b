package graph

import (
	"fmt"
	"math"

	"github.com/ysiraichi/enfield/pkg/errors"
)

// Reg is a named physical register: Size consecutive vertices starting at
// First, named Name[0] .. Name[Size-1].
type Reg struct {
	Name  string
	Size  int
	First int
}

// ArchBuilder accumulates the description of a quantum device. Call
// [ArchBuilder.Build] to obtain the immutable [Arch].
//
// Couplings are recorded as given (hardware files list them directed, in the
// direction a CNOT is natively supported). The built Arch additionally
// exposes the symmetric adjacency used for routing, since a SWAP can be
// placed on a coupling in either direction.
type ArchBuilder struct {
	g     *WeightedGraph
	names []string
	ids   map[string]int
	regs  []Reg
}

// NewArchBuilder returns an empty builder.
func NewArchBuilder() *ArchBuilder {
	return &ArchBuilder{
		g:   NewWeighted(0, Directed),
		ids: make(map[string]int),
	}
}

// Size returns the number of vertices declared so far.
func (b *ArchBuilder) Size() int { return b.g.Size() }

// PutVertex declares a physical qubit. A non-empty name is bound to the new
// vertex; declaring a name that already exists returns the existing vertex.
func (b *ArchBuilder) PutVertex(name string) int {
	if name != "" {
		if id, ok := b.ids[name]; ok {
			return id
		}
	}
	id := b.g.PutVertex()
	b.names = append(b.names, name)
	if name != "" {
		b.ids[name] = id
	}
	return id
}

// PutReg declares a register of size physical qubits and returns the vertex
// of its first element. Element i is bound to the name "name[i]".
func (b *ArchBuilder) PutReg(name string, size int) (int, error) {
	if err := errors.ValidateRegisterName(name); err != nil {
		return 0, err
	}
	if size <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "register %q must have positive size, got %d", name, size)
	}
	for _, r := range b.regs {
		if r.Name == name {
			return 0, errors.New(errors.ErrCodeInvalidInput, "register %q declared twice", name)
		}
	}
	first := b.g.Size()
	for i := 0; i < size; i++ {
		b.PutVertex(fmt.Sprintf("%s[%d]", name, i))
	}
	b.regs = append(b.regs, Reg{Name: name, Size: size, First: first})
	return first, nil
}

// VertexID resolves a bound name. Unknown names yield NOT_FOUND.
func (b *ArchBuilder) VertexID(name string) (int, error) {
	if id, ok := b.ids[name]; ok {
		return id, nil
	}
	return 0, errors.New(errors.ErrCodeNotFound, "unknown physical qubit %q", name)
}

// PutEdge records a coupling u -> v with the default weight.
func (b *ArchBuilder) PutEdge(u, v int) error { return b.g.PutEdge(u, v) }

// PutWeightedEdge records a coupling u -> v with weight w. A repeated
// coupling takes the last weight.
func (b *ArchBuilder) PutWeightedEdge(u, v int, w float64) error {
	if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "coupling %d -> %d has invalid weight %v", u, v, w)
	}
	return b.g.PutWeightedEdge(u, v, w)
}

// Build freezes the description. The builder must not be used afterwards.
func (b *ArchBuilder) Build() *Arch {
	n := b.g.Size()
	a := &Arch{
		couplings: b.g,
		adj:       make([][]int, n),
		weights:   make(map[Edge]float64, 2*b.g.EdgeCount()),
		names:     b.names,
		ids:       b.ids,
		regs:      b.regs,
	}
	for v := 0; v < n; v++ {
		a.adj[v] = b.g.Adj(v)
	}
	for _, e := range b.g.Edges() {
		w, _ := b.g.Weight(e.U, e.V)
		for _, k := range []Edge{{e.U, e.V}, {e.V, e.U}} {
			if old, ok := a.weights[k]; !ok || w < old {
				a.weights[k] = w
			}
		}
	}
	return a
}

// Arch is the immutable connectivity graph of a quantum device. Vertices are
// physical qubits; two qubits are adjacent when a two-qubit gate may act on
// them directly. Arch is safe for concurrent use.
type Arch struct {
	couplings *WeightedGraph
	adj       [][]int
	weights   map[Edge]float64
	names     []string
	ids       map[string]int
	regs      []Reg
}

// Size returns the number of physical qubits.
func (a *Arch) Size() int { return len(a.adj) }

// CheckVertex returns INVALID_VERTEX unless 0 <= v < Size().
func (a *Arch) CheckVertex(v int) error { return a.couplings.CheckVertex(v) }

// Adj returns the vertices coupled to v in either direction, in increasing
// order. The returned slice must not be modified.
func (a *Arch) Adj(v int) []int { return a.adj[v] }

// AreAdjacent reports whether u and v share a coupling in either direction.
func (a *Arch) AreAdjacent(u, v int) bool {
	_, ok := a.weights[Edge{U: u, V: v}]
	return ok
}

// HasCoupling reports whether the directed coupling u -> v was declared.
func (a *Arch) HasCoupling(u, v int) bool { return a.couplings.HasEdge(u, v) }

// Weight returns the cost of using the coupling between u and v. When both
// directions are declared the cheaper one wins.
func (a *Arch) Weight(u, v int) (float64, bool) {
	w, ok := a.weights[Edge{U: u, V: v}]
	return w, ok
}

// Edges returns every adjacent pair once, with U < V, sorted.
func (a *Arch) Edges() []Edge {
	var out []Edge
	for u, vs := range a.adj {
		for _, v := range vs {
			if u < v {
				out = append(out, Edge{U: u, V: v})
			}
		}
	}
	return out
}

// Couplings returns the declared directed couplings sorted by (U, V).
func (a *Arch) Couplings() []Edge { return a.couplings.Edges() }

// CouplingWeight returns the declared weight of the directed coupling u -> v.
func (a *Arch) CouplingWeight(u, v int) (float64, bool) { return a.couplings.Weight(u, v) }

// VertexID resolves a physical qubit name. Unknown names yield NOT_FOUND.
func (a *Arch) VertexID(name string) (int, error) {
	if id, ok := a.ids[name]; ok {
		return id, nil
	}
	return 0, errors.New(errors.ErrCodeNotFound, "unknown physical qubit %q", name)
}

// VertexName returns the name bound to v, or "q[v]" for anonymous vertices.
func (a *Arch) VertexName(v int) string {
	if v >= 0 && v < len(a.names) && a.names[v] != "" {
		return a.names[v]
	}
	return fmt.Sprintf("q[%d]", v)
}

// Regs returns the declared registers in declaration order.
func (a *Arch) Regs() []Reg { return append([]Reg(nil), a.regs...) }

// IsWeighted reports whether any coupling has a weight other than
// [DefaultWeight].
func (a *Arch) IsWeighted() bool {
	for _, w := range a.weights {
		if w != DefaultWeight {
			return true
		}
	}
	return false
}
