package circuit

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteQASM writes m as OpenQASM 2 text.
func WriteQASM(w io.Writer, m *Module) error {
	bw := bufio.NewWriter(w)
	version := m.Version
	if version == "" {
		version = "2.0"
	}
	fmt.Fprintf(bw, "OPENQASM %s;\n", version)
	for _, inc := range m.Includes {
		fmt.Fprintf(bw, "include %q;\n", inc)
	}
	for _, o := range m.Opaques {
		head := o.Name
		if len(o.Params) > 0 {
			head += "(" + strings.Join(o.Params, ", ") + ")"
		}
		fmt.Fprintf(bw, "opaque %s %s;\n", head, strings.Join(o.Args, ", "))
	}
	for _, r := range m.QRegs {
		fmt.Fprintf(bw, "qreg %s[%d];\n", r.Name, r.Size)
	}
	for _, r := range m.CRegs {
		fmt.Fprintf(bw, "creg %s[%d];\n", r.Name, r.Size)
	}
	for _, g := range m.Gates {
		writeGate(bw, m, g)
	}
	return bw.Flush()
}

func writeGate(w io.Writer, m *Module, g Gate) {
	if g.Cond != nil {
		fmt.Fprintf(w, "if(%s==%d) ", g.Cond.Reg, g.Cond.Value)
	}
	if g.Name == GateMeasure && len(g.Qubits) == 1 && len(g.Clbits) == 1 {
		fmt.Fprintf(w, "measure %s -> %s;\n", m.QubitName(g.Qubits[0]), m.ClbitName(g.Clbits[0]))
		return
	}
	name := g.Name
	if len(g.Params) > 0 {
		name += "(" + strings.Join(g.Params, ", ") + ")"
	}
	args := make([]string, len(g.Qubits))
	for i, q := range g.Qubits {
		args[i] = m.QubitName(q)
	}
	fmt.Fprintf(w, "%s %s;\n", name, strings.Join(args, ", "))
}
