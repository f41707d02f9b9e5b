// Package circuit holds the in-memory form of a quantum program.
//
// A [Module] is a flat list of gates over globally indexed qubits and
// classical bits. Registers only matter for naming: qubit i belongs to the
// register whose range covers i. The parser in package qasm produces
// modules; the router consumes one and produces another over the device's
// physical register.
package circuit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/ysiraichi/enfield/pkg/errors"
)

// Well-known gate names.
const (
	GateSwap    = "swap"
	GateCX      = "cx"
	GateBarrier = "barrier"
	GateMeasure = "measure"
	GateReset   = "reset"
)

// Register is a named, contiguous range of qubits or classical bits.
type Register struct {
	Name string
	Size int
}

// Condition guards a gate: it runs only when classical register Reg holds
// Value.
type Condition struct {
	Reg   string
	Value int
}

// Gate is one operation. Params keeps parameter expressions verbatim. Cond
// is nil for unconditional gates.
type Gate struct {
	Name   string
	Params []string
	Qubits []int
	Clbits []int
	Cond   *Condition
}

// IsBarrier reports whether g is a barrier.
func (g Gate) IsBarrier() bool { return g.Name == GateBarrier }

// IsTwoQubit reports whether g acts on exactly two distinct qubits and is
// not a barrier.
func (g Gate) IsTwoQubit() bool {
	return !g.IsBarrier() && len(g.Qubits) == 2 && g.Qubits[0] != g.Qubits[1]
}

// Clone returns a deep copy.
func (g Gate) Clone() Gate {
	out := Gate{
		Name:   g.Name,
		Params: slices.Clone(g.Params),
		Qubits: slices.Clone(g.Qubits),
		Clbits: slices.Clone(g.Clbits),
	}
	if g.Cond != nil {
		c := *g.Cond
		out.Cond = &c
	}
	return out
}

// Opaque declares a gate whose body lives outside the program. Calls to it
// are kept as they are.
type Opaque struct {
	Name   string
	Params []string
	Args   []string
}

// Module is a parsed or routed program.
type Module struct {
	Version  string
	Includes []string
	Opaques  []Opaque
	QRegs    []Register
	CRegs    []Register
	Gates    []Gate
}

// Qubits returns the total number of qubits over all quantum registers.
func (m *Module) Qubits() int { return total(m.QRegs) }

// Clbits returns the total number of classical bits.
func (m *Module) Clbits() int { return total(m.CRegs) }

// QubitName returns "reg[i]" for global qubit index q.
func (m *Module) QubitName(q int) string { return name(m.QRegs, q) }

// ClbitName returns "reg[i]" for global classical bit index c.
func (m *Module) ClbitName(c int) string { return name(m.CRegs, c) }

// Clone returns a deep copy.
func (m *Module) Clone() *Module {
	out := &Module{
		Version:  m.Version,
		Includes: slices.Clone(m.Includes),
		Opaques:  slices.Clone(m.Opaques),
		QRegs:    slices.Clone(m.QRegs),
		CRegs:    slices.Clone(m.CRegs),
		Gates:    make([]Gate, len(m.Gates)),
	}
	for i, g := range m.Gates {
		out.Gates[i] = g.Clone()
	}
	return out
}

// Fingerprint returns a hex SHA-256 digest of the module's QASM text. Two
// modules with the same fingerprint route identically.
func (m *Module) Fingerprint() string {
	var b strings.Builder
	_ = WriteQASM(&b, m)
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Validate checks that every operand indexes a declared qubit or bit.
func (m *Module) Validate() error {
	nq, nc := m.Qubits(), m.Clbits()
	for i, g := range m.Gates {
		for _, q := range g.Qubits {
			if q < 0 || q >= nq {
				return errors.New(errors.ErrCodeInvalidVertex, "gate #%d %s: qubit %d out of range [0, %d)", i, g.Name, q, nq)
			}
		}
		for _, c := range g.Clbits {
			if c < 0 || c >= nc {
				return errors.New(errors.ErrCodeInvalidInput, "gate #%d %s: classical bit %d out of range [0, %d)", i, g.Name, c, nc)
			}
		}
	}
	return nil
}

// ExpandSwaps returns a copy of m with every swap gate replaced by three
// cx gates, for targets without a native swap.
func ExpandSwaps(m *Module) *Module {
	out := m.Clone()
	out.Gates = out.Gates[:0]
	for _, g := range m.Gates {
		if g.Name != GateSwap || len(g.Qubits) != 2 {
			out.Gates = append(out.Gates, g.Clone())
			continue
		}
		a, b := g.Qubits[0], g.Qubits[1]
		for _, pair := range [][]int{{a, b}, {b, a}, {a, b}} {
			cx := Gate{Name: GateCX, Qubits: pair, Cond: g.Cond}
			out.Gates = append(out.Gates, cx.Clone())
		}
	}
	return out
}

func total(regs []Register) int {
	n := 0
	for _, r := range regs {
		n += r.Size
	}
	return n
}

func name(regs []Register, i int) string {
	off := i
	for _, r := range regs {
		if off < r.Size {
			return fmt.Sprintf("%s[%d]", r.Name, off)
		}
		off -= r.Size
	}
	return fmt.Sprintf("?[%d]", i)
}
