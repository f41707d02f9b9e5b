package swap

import (
	"context"
	"math"

	"github.com/ysiraichi/enfield/pkg/errors"
	"github.com/ysiraichi/enfield/pkg/graph"
	"github.com/ysiraichi/enfield/pkg/graph/perm"
	"github.com/ysiraichi/enfield/pkg/placement"
)

// DefaultMaxVertices bounds the device size the exact finder accepts. The
// table holds one entry per arrangement, N! in total.
const DefaultMaxVertices = 8

// Exact returns minimum-length swap sequences.
//
// Preprocess runs a breadth-first search over every arrangement of N
// distinct tokens on the device, starting from the identity, and records for
// each arrangement the swap that led to it. Any instance then relabels its
// tokens by target vertex and walks the table back to the identity. Tokens
// without a target are tried in every completion; the shortest wins, the
// first in enumeration order among equals.
type Exact struct {
	// MaxVertices is the largest device Preprocess accepts.
	MaxVertices int

	arch   *graph.Arch
	comp   []int
	edges  []graph.Edge
	dist   []int16
	parent []int32
	via    []int16
}

// NewExact returns an unprepared Exact finder. maxVertices <= 0 selects
// [DefaultMaxVertices].
func NewExact(maxVertices int) *Exact {
	if maxVertices <= 0 {
		maxVertices = DefaultMaxVertices
	}
	return &Exact{MaxVertices: maxVertices}
}

// Name returns "exact".
func (*Exact) Name() string { return NameExact }

// Preprocess builds the arrangement table. Devices above MaxVertices fail
// with INTRACTABLE.
func (e *Exact) Preprocess(ctx context.Context, arch *graph.Arch) error {
	n := arch.Size()
	if n > e.MaxVertices {
		return errors.New(errors.ErrCodeIntractable,
			"exact swap finder supports at most %d qubits, device has %d", e.MaxVertices, n)
	}
	edges := arch.Edges()
	if len(edges) > math.MaxInt16 {
		return errors.New(errors.ErrCodeIntractable, "device has %d couplings", len(edges))
	}

	states := perm.Factorial(n)
	dist := make([]int16, states)
	parent := make([]int32, states)
	via := make([]int16, states)
	for i := range dist {
		dist[i] = -1
	}

	start := perm.Rank(perm.Seq(n))
	dist[start] = 0
	queue := []int{start}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		r := queue[0]
		queue = queue[1:]
		cur := perm.Unrank(r, n)
		for i, edge := range edges {
			cur[edge.U], cur[edge.V] = cur[edge.V], cur[edge.U]
			next := perm.Rank(cur)
			cur[edge.U], cur[edge.V] = cur[edge.V], cur[edge.U]
			if dist[next] >= 0 {
				continue
			}
			dist[next] = dist[r] + 1
			parent[next] = int32(r)
			via[next] = int16(i)
			queue = append(queue, next)
		}
	}

	e.arch = arch
	e.comp = graph.Components(arch)
	e.edges = edges
	e.dist = dist
	e.parent = parent
	e.via = via
	return nil
}

// Find implements [Finder].
func (e *Exact) Find(from, to *placement.Placement) ([]Swap, error) {
	in, err := newInstance(e.arch, e.comp, from, to)
	if err != nil {
		return nil, err
	}

	n := e.arch.Size()
	sigma := make([]int, n)
	claimed := make([]bool, n)
	var freeSrc, freeDst []int
	for v := 0; v < n; v++ {
		sigma[v] = in.target(from, v)
		if sigma[v] == placement.Unassigned {
			freeSrc = append(freeSrc, v)
		} else {
			claimed[sigma[v]] = true
		}
	}
	for v := 0; v < n; v++ {
		if !claimed[v] {
			freeDst = append(freeDst, v)
		}
	}

	best := -1
	for _, completion := range perm.Generate(len(freeSrc), 0) {
		if err := fill(sigma, freeSrc, freeDst, completion); err != nil {
			return nil, err
		}
		r := perm.Rank(sigma)
		if e.dist[r] < 0 {
			continue
		}
		if best < 0 || e.dist[r] < e.dist[best] {
			best = r
		}
	}
	if best < 0 {
		return nil, errors.New(errors.ErrCodeDisconnected, "no swap sequence reaches %s from %s", to, from)
	}

	out := make([]Swap, 0, e.dist[best])
	for r := best; e.dist[r] > 0; r = int(e.parent[r]) {
		edge := e.edges[e.via[r]]
		out = append(out, Swap{U: edge.U, V: edge.V})
	}
	return out, nil
}

// fill routes the free tokens (sources without a target) to the unclaimed
// vertices in the order completion gives, then checks that sigma is an
// arrangement of all N tokens. Rank is undefined on anything else.
func fill(sigma, freeSrc, freeDst, completion []int) error {
	if len(freeSrc) != len(freeDst) {
		return errors.New(errors.ErrCodeInternal, "%d free tokens for %d free vertices", len(freeSrc), len(freeDst))
	}
	for i, v := range freeSrc {
		sigma[v] = freeDst[completion[i]]
	}
	if !perm.IsPermutation(sigma) {
		return errors.New(errors.ErrCodeInternal, "token targets %v are not an arrangement", sigma)
	}
	return nil
}
