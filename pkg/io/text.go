package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ysiraichi/enfield/pkg/errors"
	"github.com/ysiraichi/enfield/pkg/graph"
)

// MaxVertices bounds the size of a device description. Sizes come from
// untrusted files and are allocated up front.
const MaxVertices = 1 << 12

func checkSize(line, n int) error {
	if n > MaxVertices {
		return errors.New(errors.ErrCodeInvalidInput, "line %d: device would have %d qubits, at most %d are supported", line, n, MaxVertices)
	}
	return nil
}

type textEdge struct {
	line     int
	src, dst string
	weight   *float64
}

// ReadText parses the text device format.
func ReadText(r io.Reader) (*graph.Arch, error) {
	b := graph.NewArchBuilder()
	declared := false
	var edges []textEdge

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "qreg":
			if len(fields) != 3 {
				return nil, formatError(line, "want \"qreg NAME SIZE\"")
			}
			size, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, formatError(line, "register size %q is not a number", fields[2])
			}
			if err := checkSize(line, b.Size()+size); err != nil {
				return nil, err
			}
			if _, err := b.PutReg(fields[1], size); err != nil {
				return nil, errors.Wrap(errors.GetCode(err), err, "line %d", line)
			}
			declared = true
		case "qubits":
			if len(fields) != 2 {
				return nil, formatError(line, "want \"qubits N\"")
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n <= 0 {
				return nil, formatError(line, "qubit count %q is not a positive number", fields[1])
			}
			if err := checkSize(line, b.Size()+n); err != nil {
				return nil, err
			}
			for i := 0; i < n; i++ {
				b.PutVertex("")
			}
			declared = true
		default:
			if len(fields) != 2 && len(fields) != 3 {
				return nil, formatError(line, "want \"SOURCE TARGET [WEIGHT]\"")
			}
			e := textEdge{line: line, src: fields[0], dst: fields[1]}
			if len(fields) == 3 {
				w, err := strconv.ParseFloat(fields[2], 64)
				if err != nil {
					return nil, formatError(line, "weight %q is not a number", fields[2])
				}
				e.weight = &w
			}
			edges = append(edges, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read device description")
	}

	if !declared {
		n := 0
		for _, e := range edges {
			for _, s := range []string{e.src, e.dst} {
				v, err := strconv.Atoi(s)
				if err != nil {
					return nil, errors.New(errors.ErrCodeNotFound, "line %d: %q used without any qreg declaration", e.line, s)
				}
				if v >= 0 {
					if err := checkSize(e.line, v+1); err != nil {
						return nil, err
					}
				}
				n = max(n, v+1)
			}
		}
		for i := 0; i < n; i++ {
			b.PutVertex("")
		}
	}

	for _, e := range edges {
		u, err := resolve(b, e.line, e.src)
		if err != nil {
			return nil, err
		}
		v, err := resolve(b, e.line, e.dst)
		if err != nil {
			return nil, err
		}
		if e.weight != nil {
			err = b.PutWeightedEdge(u, v, *e.weight)
		} else {
			err = b.PutEdge(u, v)
		}
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "line %d", e.line)
		}
	}
	return b.Build(), nil
}

func resolve(b *graph.ArchBuilder, line int, s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	v, err := b.VertexID(s)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeNotFound, err, "line %d", line)
	}
	return v, nil
}

func formatError(line int, format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidFormat, "line %d: %s", line, fmt.Sprintf(format, args...))
}

// WriteText writes a in the text format. Vertices outside every register
// are declared with "qubits" lines and referenced by number; names bound to
// such vertices are not preserved.
func WriteText(w io.Writer, a *graph.Arch) error {
	bw := bufio.NewWriter(w)

	regAt := make(map[int]graph.Reg)
	for _, r := range a.Regs() {
		regAt[r.First] = r
	}
	inReg := make([]bool, a.Size())
	for v := 0; v < a.Size(); {
		if r, ok := regAt[v]; ok {
			fmt.Fprintf(bw, "qreg %s %d\n", r.Name, r.Size)
			for i := 0; i < r.Size; i++ {
				inReg[v+i] = true
			}
			v += r.Size
			continue
		}
		run := 0
		for v+run < a.Size() {
			if _, ok := regAt[v+run]; ok {
				break
			}
			run++
		}
		fmt.Fprintf(bw, "qubits %d\n", run)
		v += run
	}

	ref := func(v int) string {
		if inReg[v] {
			return a.VertexName(v)
		}
		return strconv.Itoa(v)
	}

	weighted := a.IsWeighted()
	for _, e := range a.Couplings() {
		if weighted {
			wt, _ := a.CouplingWeight(e.U, e.V)
			fmt.Fprintf(bw, "%s %s %s\n", ref(e.U), ref(e.V), strconv.FormatFloat(wt, 'g', -1, 64))
			continue
		}
		fmt.Fprintf(bw, "%s %s\n", ref(e.U), ref(e.V))
	}
	return bw.Flush()
}
