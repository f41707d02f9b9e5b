// Package arch provides the built-in device topologies.
//
// Named devices reproduce historical IBM Q couplings; generated topologies
// (linear, ring, grid, complete) cover synthetic benchmarks. All devices use
// a single register "q", so physical qubit i is named "q[i]".
//
// Vertices are added in increasing order and edges in a fixed order for
// every constructor, so two builds of the same topology are identical.
package arch

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ysiraichi/enfield/pkg/errors"
	"github.com/ysiraichi/enfield/pkg/graph"
)

// RegName is the register every built-in device declares.
const RegName = "q"

// coupling is a directed hardware coupling (control -> target).
type coupling struct{ u, v int }

var devices = map[string]struct {
	qubits    int
	couplings []coupling
}{
	"ibmqx2": {5, []coupling{
		{0, 1}, {0, 2}, {1, 2}, {3, 2}, {3, 4}, {4, 2},
	}},
	"ibmqx3": {16, []coupling{
		{0, 1}, {1, 2}, {2, 3}, {3, 14}, {4, 3}, {4, 5}, {6, 7}, {6, 11}, {7, 10},
		{8, 7}, {9, 8}, {9, 10}, {11, 10}, {12, 5}, {12, 11}, {12, 13}, {13, 4},
		{13, 14}, {15, 0}, {15, 14},
	}},
	"ibmqx5": {16, []coupling{
		{1, 0}, {1, 2}, {2, 3}, {3, 4}, {3, 14}, {5, 4}, {6, 5}, {6, 7}, {6, 11},
		{7, 10}, {8, 7}, {9, 8}, {9, 10}, {11, 10}, {12, 5}, {12, 11}, {12, 13},
		{13, 4}, {13, 14}, {15, 0}, {15, 2}, {15, 14},
	}},
}

// Names returns the named devices and generator prefixes accepted by
// [Lookup], sorted.
func Names() []string {
	names := make([]string, 0, len(devices)+4)
	for name := range devices {
		names = append(names, name)
	}
	names = append(names, "complete:N", "grid:RxC", "linear:N", "ring:N")
	slices.Sort(names)
	return names
}

// Lookup resolves a device by name. Besides the named devices it accepts
// "linear:N", "ring:N", "grid:RxC" and "complete:N". Unknown names fail with
// NOT_FOUND, malformed sizes with INVALID_INPUT.
func Lookup(name string) (*graph.Arch, error) {
	if d, ok := devices[name]; ok {
		return fromCouplings(d.qubits, d.couplings)
	}

	kind, arg, ok := strings.Cut(name, ":")
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown architecture %q", name)
	}
	switch kind {
	case "linear", "ring", "complete":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "architecture %q", name)
		}
		switch kind {
		case "linear":
			return Linear(n)
		case "ring":
			return Ring(n)
		default:
			return Complete(n)
		}
	case "grid":
		rs, cs, ok := strings.Cut(arg, "x")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "architecture %q: want grid:RxC", name)
		}
		rows, err := strconv.Atoi(rs)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "architecture %q", name)
		}
		cols, err := strconv.Atoi(cs)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "architecture %q", name)
		}
		return Grid(rows, cols)
	}
	return nil, errors.New(errors.ErrCodeNotFound, "unknown architecture %q", name)
}

// Linear returns the path 0 - 1 - ... - (n-1).
func Linear(n int) (*graph.Arch, error) {
	if n < 1 {
		return nil, sizeError("linear", n, 1)
	}
	var cs []coupling
	for i := 0; i+1 < n; i++ {
		cs = append(cs, coupling{i, i + 1})
	}
	return fromCouplings(n, cs)
}

// Ring returns the cycle 0 - 1 - ... - (n-1) - 0.
func Ring(n int) (*graph.Arch, error) {
	if n < 3 {
		return nil, sizeError("ring", n, 3)
	}
	var cs []coupling
	for i := 0; i < n; i++ {
		cs = append(cs, coupling{i, (i + 1) % n})
	}
	return fromCouplings(n, cs)
}

// Grid returns a rows x cols orthogonal lattice. Qubit r*cols+c couples to
// its right and bottom neighbours.
func Grid(rows, cols int) (*graph.Arch, error) {
	if rows < 1 || cols < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "grid: rows=%d, cols=%d (each must be >= 1)", rows, cols)
	}
	var cs []coupling
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			u := r*cols + c
			if c+1 < cols {
				cs = append(cs, coupling{u, u + 1})
			}
			if r+1 < rows {
				cs = append(cs, coupling{u, u + cols})
			}
		}
	}
	return fromCouplings(rows*cols, cs)
}

// Complete returns the all-to-all device on n qubits.
func Complete(n int) (*graph.Arch, error) {
	if n < 1 {
		return nil, sizeError("complete", n, 1)
	}
	var cs []coupling
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			cs = append(cs, coupling{u, v})
		}
	}
	return fromCouplings(n, cs)
}

func sizeError(kind string, n, least int) error {
	return errors.New(errors.ErrCodeInvalidInput, "%s: n=%d (must be >= %d)", kind, n, least)
}

func fromCouplings(n int, cs []coupling) (*graph.Arch, error) {
	b := graph.NewArchBuilder()
	if _, err := b.PutReg(RegName, n); err != nil {
		return nil, err
	}
	for _, c := range cs {
		if err := b.PutEdge(c.u, c.v); err != nil {
			return nil, fmt.Errorf("coupling %d -> %d: %w", c.u, c.v, err)
		}
	}
	return b.Build(), nil
}
