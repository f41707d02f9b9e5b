// Package qasm parses the OpenQASM 2 subset the router understands.
//
// Supported statements: the OPENQASM header, include, qreg, creg, gate and
// opaque declarations, gate applications with optional parameters, measure,
// reset, barrier and if. Applying a gate to whole registers broadcasts it
// element-wise. Gates declared in the program are inlined at every call, so
// the resulting module only calls library (included) and opaque gates. An
// if condition is copied onto every gate its operation expands to.
package qasm

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ysiraichi/enfield/pkg/circuit"
	"github.com/ysiraichi/enfield/pkg/errors"
)

// Parse reads a program from r. filename is only used in error positions.
func Parse(filename string, r io.Reader) (*circuit.Module, error) {
	prog, err := parser.Parse(filename, r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", displayName(filename))
	}
	m, err := lower(prog)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", displayName(filename))
	}
	return m, nil
}

// ParseString parses src.
func ParseString(src string) (*circuit.Module, error) {
	prog, err := parser.ParseString("", src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse circuit")
	}
	return lower(prog)
}

// ParseFile opens and parses path.
func ParseFile(path string) (*circuit.Module, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open circuit")
	}
	defer f.Close()
	return Parse(path, f)
}

func displayName(filename string) string {
	if filename == "" {
		return "circuit"
	}
	return filename
}

// regTable resolves register references to global indices.
type regTable struct {
	regs   []circuit.Register
	offset map[string]int
	size   map[string]int
}

func newRegTable() *regTable {
	return &regTable{offset: make(map[string]int), size: make(map[string]int)}
}

func (t *regTable) declare(pos lexer.Position, name string, size int) error {
	if err := errors.ValidateRegisterName(name); err != nil {
		return atPos(pos, err)
	}
	if size <= 0 {
		return atPos(pos, errors.New(errors.ErrCodeInvalidInput, "register %s must have positive size", name))
	}
	if _, ok := t.size[name]; ok {
		return atPos(pos, errors.New(errors.ErrCodeInvalidInput, "register %s declared twice", name))
	}
	next := 0
	for _, r := range t.regs {
		next += r.Size
	}
	t.offset[name] = next
	t.size[name] = size
	t.regs = append(t.regs, circuit.Register{Name: name, Size: size})
	return nil
}

// resolve returns the global indices an argument denotes: one for an
// indexed reference, the whole register otherwise.
func (t *regTable) resolve(pos lexer.Position, a *argument, kind string) ([]int, error) {
	size, ok := t.size[a.Reg]
	if !ok {
		return nil, atPos(pos, errors.New(errors.ErrCodeNotFound, "unknown %s register %s", kind, a.Reg))
	}
	off := t.offset[a.Reg]
	if a.Index != nil {
		if *a.Index >= size {
			return nil, atPos(pos, errors.New(errors.ErrCodeInvalidInput, "%s[%d] out of range (size %d)", a.Reg, *a.Index, size))
		}
		return []int{off + *a.Index}, nil
	}
	out := make([]int, size)
	for i := range out {
		out[i] = off + i
	}
	return out, nil
}

func atPos(pos lexer.Position, err error) error {
	return errors.Wrap(errors.GetCode(err), err, "line %d", pos.Line)
}

// gateDecl is a gate declared in the program. Opaque gates have no body
// and are never expanded.
type gateDecl struct {
	sig    *signature
	body   []*bodyOp
	opaque bool
	order  int
}

// lowerer turns the parse tree into a flat module, expanding register
// broadcasts and inlining declared gates down to calls of undeclared
// (library) or opaque gates.
type lowerer struct {
	m            *circuit.Module
	qregs, cregs *regTable
	gates        map[string]*gateDecl
}

func lower(prog *program) (*circuit.Module, error) {
	l := &lowerer{
		m:     &circuit.Module{Version: prog.Version},
		qregs: newRegTable(),
		cregs: newRegTable(),
		gates: make(map[string]*gateDecl),
	}
	for _, st := range prog.Statements {
		if err := l.statement(st); err != nil {
			return nil, err
		}
	}
	l.m.QRegs = l.qregs.regs
	l.m.CRegs = l.cregs.regs
	return l.m, nil
}

func (l *lowerer) statement(st *statement) error {
	switch {
	case st.Include != nil:
		l.m.Includes = append(l.m.Includes, *st.Include)
	case st.QReg != nil:
		if _, clash := l.cregs.size[st.QReg.Name]; clash {
			return atPos(st.Pos, errors.New(errors.ErrCodeInvalidInput, "register %s declared twice", st.QReg.Name))
		}
		return l.qregs.declare(st.Pos, st.QReg.Name, st.QReg.Size)
	case st.CReg != nil:
		if _, clash := l.qregs.size[st.CReg.Name]; clash {
			return atPos(st.Pos, errors.New(errors.ErrCodeInvalidInput, "register %s declared twice", st.CReg.Name))
		}
		return l.cregs.declare(st.Pos, st.CReg.Name, st.CReg.Size)
	case st.GateDef != nil:
		return l.declareGate(st.Pos, st.GateDef.Sig, st.GateDef.Body, false)
	case st.Opaque != nil:
		if err := l.declareGate(st.Pos, st.Opaque, nil, true); err != nil {
			return err
		}
		l.m.Opaques = append(l.m.Opaques, circuit.Opaque{
			Name:   st.Opaque.Name,
			Params: slices.Clone(st.Opaque.Params),
			Args:   slices.Clone(st.Opaque.Args),
		})
	case st.Barrier != nil:
		return l.barrier(st.Pos, st.Barrier)
	case st.If != nil:
		if _, ok := l.cregs.size[st.If.Reg]; !ok {
			return atPos(st.Pos, errors.New(errors.ErrCodeNotFound, "unknown classical register %s", st.If.Reg))
		}
		return l.op(st.Pos, st.If.Op, &circuit.Condition{Reg: st.If.Reg, Value: st.If.Value})
	case st.Op != nil:
		return l.op(st.Pos, st.Op, nil)
	}
	return nil
}

func (l *lowerer) op(pos lexer.Position, op *quantumOp, cond *circuit.Condition) error {
	switch {
	case op.Measure != nil:
		return l.measure(pos, op.Measure, cond)
	case op.Reset != nil:
		return l.call(pos, circuit.GateReset, nil, []*argument{op.Reset}, cond)
	case cond != nil && op.Gate.Name == circuit.GateBarrier:
		return atPos(pos, errors.New(errors.ErrCodeInvalidInput, "barrier cannot be conditional"))
	default:
		params := make([]string, len(op.Gate.Params))
		for i, p := range op.Gate.Params {
			params[i] = p.String()
		}
		return l.call(pos, op.Gate.Name, params, op.Gate.Args.Args, cond)
	}
}

// declareGate records a gate or opaque declaration after checking that its
// body only refers to its own formal qubits.
func (l *lowerer) declareGate(pos lexer.Position, sig *signature, body []*bodyOp, opaque bool) error {
	if _, dup := l.gates[sig.Name]; dup {
		return atPos(pos, errors.New(errors.ErrCodeInvalidInput, "gate %s declared twice", sig.Name))
	}
	if hasDuplicateName(sig.Params) || hasDuplicateName(sig.Args) {
		return atPos(pos, errors.New(errors.ErrCodeInvalidInput, "gate %s repeats a formal argument", sig.Name))
	}
	for _, op := range body {
		args := op.Barrier
		if op.Gate != nil {
			args = op.Gate.Args
			if op.Gate.Name == sig.Name {
				return atPos(op.Pos, errors.New(errors.ErrCodeInvalidInput, "gate %s calls itself", sig.Name))
			}
		}
		for _, a := range args.Args {
			if a.Index != nil || !slices.Contains(sig.Args, a.Reg) {
				return atPos(op.Pos, errors.New(errors.ErrCodeInvalidInput, "gate %s: %s is not a formal qubit", sig.Name, a.Reg))
			}
		}
	}
	l.gates[sig.Name] = &gateDecl{sig: sig, body: body, opaque: opaque, order: len(l.gates)}
	return nil
}

// call expands a gate application. Whole-register arguments must all have
// the same size n; the gate is then applied n times, indexed arguments
// repeating in every copy.
func (l *lowerer) call(pos lexer.Position, name string, params []string, args []*argument, cond *circuit.Condition) error {
	operands := make([][]int, len(args))
	width := -1
	for i, a := range args {
		qs, err := l.qregs.resolve(pos, a, "quantum")
		if err != nil {
			return err
		}
		operands[i] = qs
		if a.Index == nil {
			if width >= 0 && len(qs) != width {
				return atPos(pos, errors.New(errors.ErrCodeInvalidInput, "%s: register arguments differ in size", name))
			}
			width = len(qs)
		}
	}
	if width < 0 {
		width = 1
	}

	for k := 0; k < width; k++ {
		qubits := make([]int, len(args))
		for i, qs := range operands {
			if args[i].Index == nil {
				qubits[i] = qs[k]
			} else {
				qubits[i] = qs[0]
			}
		}
		if err := l.emit(pos, name, params, qubits, cond, -1); err != nil {
			return err
		}
	}
	return nil
}

// emit appends one application of name on concrete qubits, inlining it when
// it is a declared gate. caller is the declaration order of the gate whose
// body holds this call, or -1 at top level; a body may only use gates
// declared before it.
func (l *lowerer) emit(pos lexer.Position, name string, params []string, qubits []int, cond *circuit.Condition, caller int) error {
	g := circuit.Gate{Name: name, Params: slices.Clone(params), Qubits: qubits, Cond: cond}
	if hasDuplicate(qubits) {
		return atPos(pos, errors.New(errors.ErrCodeInvalidInput, "%s uses the same qubit twice", describe(l.qregs, g)))
	}

	decl, ok := l.gates[name]
	if !ok {
		l.m.Gates = append(l.m.Gates, g.Clone())
		return nil
	}
	if caller >= 0 && decl.order >= caller {
		return atPos(pos, errors.New(errors.ErrCodeInvalidInput, "gate %s used before its declaration", name))
	}
	if len(params) != len(decl.sig.Params) || len(qubits) != len(decl.sig.Args) {
		return atPos(pos, errors.New(errors.ErrCodeInvalidInput, "%s takes %d parameters and %d qubits, got %d and %d",
			name, len(decl.sig.Params), len(decl.sig.Args), len(params), len(qubits)))
	}
	if decl.opaque {
		l.m.Gates = append(l.m.Gates, g.Clone())
		return nil
	}

	bindQ := make(map[string]int, len(qubits))
	for i, a := range decl.sig.Args {
		bindQ[a] = qubits[i]
	}
	bindP := make(map[string]string, len(params))
	for i, p := range decl.sig.Params {
		bindP[p] = params[i]
	}
	for _, op := range decl.body {
		if op.Barrier != nil {
			qs := make([]int, len(op.Barrier.Args))
			for i, a := range op.Barrier.Args {
				qs[i] = bindQ[a.Reg]
			}
			l.m.Gates = append(l.m.Gates, circuit.Gate{Name: circuit.GateBarrier, Qubits: dedup(qs)})
			continue
		}
		ps := make([]string, len(op.Gate.Params))
		for i, p := range op.Gate.Params {
			ps[i] = p.render(bindP)
		}
		qs := make([]int, len(op.Gate.Args.Args))
		for i, a := range op.Gate.Args.Args {
			qs[i] = bindQ[a.Reg]
		}
		if err := l.emit(pos, op.Gate.Name, ps, qs, cond, decl.order); err != nil {
			return err
		}
	}
	return nil
}

func (l *lowerer) measure(pos lexer.Position, ms *measure, cond *circuit.Condition) error {
	qs, err := l.qregs.resolve(pos, ms.Qubit, "quantum")
	if err != nil {
		return err
	}
	cs, err := l.cregs.resolve(pos, ms.Clbit, "classical")
	if err != nil {
		return err
	}
	if len(qs) != len(cs) {
		return atPos(pos, errors.New(errors.ErrCodeInvalidInput, "measure: %d qubits into %d bits", len(qs), len(cs)))
	}
	for i := range qs {
		g := circuit.Gate{Name: circuit.GateMeasure, Qubits: []int{qs[i]}, Clbits: []int{cs[i]}, Cond: cond}
		l.m.Gates = append(l.m.Gates, g.Clone())
	}
	return nil
}

func (l *lowerer) barrier(pos lexer.Position, args *argList) error {
	var qubits []int
	for _, a := range args.Args {
		qs, err := l.qregs.resolve(pos, a, "quantum")
		if err != nil {
			return err
		}
		qubits = append(qubits, qs...)
	}
	l.m.Gates = append(l.m.Gates, circuit.Gate{Name: circuit.GateBarrier, Qubits: dedup(qubits)})
	return nil
}

// dedup drops repeated qubits, keeping first occurrences in order.
func dedup(qs []int) []int {
	var out []int
	for _, q := range qs {
		if !slices.Contains(out, q) {
			out = append(out, q)
		}
	}
	return out
}

func hasDuplicateName(names []string) bool {
	for i := range names {
		if slices.Contains(names[i+1:], names[i]) {
			return true
		}
	}
	return false
}

func hasDuplicate(qs []int) bool {
	for i := range qs {
		if slices.Contains(qs[i+1:], qs[i]) {
			return true
		}
	}
	return false
}

func describe(qregs *regTable, g circuit.Gate) string {
	tmp := &circuit.Module{QRegs: qregs.regs}
	names := make([]string, len(g.Qubits))
	for i, q := range g.Qubits {
		names[i] = tmp.QubitName(q)
	}
	return fmt.Sprintf("%s %v", g.Name, names)
}
