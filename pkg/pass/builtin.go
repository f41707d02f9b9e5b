package pass

import "github.com/ysiraichi/enfield/pkg/circuit"

// DependencyPass extracts the two-qubit dependencies in program order.
var DependencyPass Pass[[]circuit.Dependency] = Func[[]circuit.Dependency]{
	Name: "dependencies",
	Fn:   circuit.Dependencies,
}

// LayersPass groups dependencies into layers of pairwise disjoint qubits. A
// dependency goes one layer after the latest earlier dependency sharing a
// qubit with it, so every layer could run in parallel.
var LayersPass Pass[[][]circuit.Dependency] = Func[[][]circuit.Dependency]{
	Name: "layers",
	Fn:   layers,
}

// GateCountPass counts gates by name.
var GateCountPass Pass[map[string]int] = Func[map[string]int]{
	Name: "gate-count",
	Fn: func(m *circuit.Module) (map[string]int, error) {
		counts := make(map[string]int)
		for _, g := range m.Gates {
			counts[g.Name]++
		}
		return counts, nil
	},
}

func layers(m *circuit.Module) ([][]circuit.Dependency, error) {
	deps, err := circuit.Dependencies(m)
	if err != nil {
		return nil, err
	}
	level := make([]int, m.Qubits())
	var out [][]circuit.Dependency
	for _, d := range deps {
		l := max(level[d.A], level[d.B])
		if l == len(out) {
			out = append(out, nil)
		}
		out[l] = append(out[l], d)
		level[d.A], level[d.B] = l+1, l+1
	}
	return out, nil
}
