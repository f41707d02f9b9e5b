package circuit

import "github.com/ysiraichi/enfield/pkg/errors"

// Dependency is a required interaction between logical qubits A and B,
// raised by the gate at position Gate in program order. Index numbers the
// dependencies themselves from zero.
type Dependency struct {
	Index int
	Gate  int
	A, B  int
}

// Dependencies extracts the two-qubit interactions of m in program order.
// Barriers are ignored. A non-barrier gate on more than two qubits fails
// with UNSUPPORTED, since it cannot be executed on a coupling.
func Dependencies(m *Module) ([]Dependency, error) {
	var deps []Dependency
	for i, g := range m.Gates {
		if g.IsBarrier() {
			continue
		}
		if len(g.Qubits) > 2 {
			return nil, errors.New(errors.ErrCodeUnsupported,
				"gate #%d %s acts on %d qubits; decompose it into one- and two-qubit gates", i, g.Name, len(g.Qubits))
		}
		if !g.IsTwoQubit() {
			continue
		}
		deps = append(deps, Dependency{Index: len(deps), Gate: i, A: g.Qubits[0], B: g.Qubits[1]})
	}
	return deps, nil
}

// Depth returns the number of layers of m when every gate is placed one
// layer after the latest gate sharing a qubit with it. Barriers occupy no
// layer but align their qubits.
func Depth(m *Module) int {
	level := make([]int, m.Qubits())
	depth := 0
	for _, g := range m.Gates {
		top := 0
		for _, q := range g.Qubits {
			top = max(top, level[q])
		}
		if !g.IsBarrier() {
			top++
		}
		for _, q := range g.Qubits {
			level[q] = top
		}
		depth = max(depth, top)
	}
	return depth
}
