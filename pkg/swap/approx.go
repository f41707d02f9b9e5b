package swap

import (
	"context"

	"github.com/ysiraichi/enfield/pkg/graph"
	"github.com/ysiraichi/enfield/pkg/placement"
)

// Approx is the greedy token-swap finder.
//
// Find works in two phases. The greedy phase repeatedly applies the coupling
// swap with the largest positive gain, where gain is the drop in total hop
// displacement of the tokens that have a target. Ties go to the lowest
// (min(u, v), max(u, v)) pair. A swap that would move a token already
// sitting on its target is never considered. Each greedy swap lowers the
// displacement by at least one, so this phase ends after at most the
// initial displacement swaps.
//
// When no positive-gain swap is left and some token is still misplaced, a
// leaf-routing phase finishes the job on a fixed breadth-first spanning
// forest: the lowest-numbered leaf of the unsettled subtree receives its
// token along the tree path and is removed. Every settled vertex costs at
// most one tree path, so at most N-1 swaps.
type Approx struct {
	arch  *graph.Arch
	dist  [][]int
	comp  []int
	edges []graph.Edge
	tree  *graph.Graph
}

// NewApprox returns an unprepared Approx finder.
func NewApprox() *Approx { return &Approx{} }

// Name returns "approx".
func (*Approx) Name() string { return NameApprox }

// Preprocess computes hop distances, components and the spanning forest.
func (a *Approx) Preprocess(ctx context.Context, arch *graph.Arch) error {
	dist, err := graph.AllPairs(ctx, arch.Size(), func(src int) []int {
		return graph.BFS(arch, src)
	})
	if err != nil {
		return err
	}
	a.arch = arch
	a.dist = dist
	a.comp = graph.Components(arch)
	a.edges = arch.Edges()
	a.tree = spanningForest(arch)
	return nil
}

// Find implements [Finder].
func (a *Approx) Find(from, to *placement.Placement) ([]Swap, error) {
	in, err := newInstance(a.arch, a.comp, from, to)
	if err != nil {
		return nil, err
	}

	cur := from.Clone()
	var out []Swap
	for {
		var best graph.Edge
		bestGain := 0
		for _, e := range a.edges {
			if g := a.gain(in, cur, e.U, e.V); g > bestGain {
				best, bestGain = e, g
			}
		}
		if bestGain == 0 {
			break
		}
		cur.Swap(best.U, best.V)
		out = append(out, Swap{U: best.U, V: best.V})
	}

	if !cur.Satisfies(to) {
		out = a.settleLeaves(in, cur, out)
	}
	return out, nil
}

// gain returns the displacement saved by swapping u and v, or zero when the
// swap would disturb a token that is already in place.
func (a *Approx) gain(in instance, cur *placement.Placement, u, v int) int {
	tu, tv := in.target(cur, u), in.target(cur, v)
	if tu == u || tv == v {
		return 0
	}
	delta := 0
	if tu != placement.Unassigned {
		delta += a.dist[u][tu] - a.dist[v][tu]
	}
	if tv != placement.Unassigned {
		delta += a.dist[v][tv] - a.dist[u][tv]
	}
	return delta
}

func (a *Approx) settleLeaves(in instance, cur *placement.Placement, out []Swap) []Swap {
	sub := &subtree{tree: a.tree, alive: make([]bool, a.tree.Size())}
	for v := range sub.alive {
		sub.alive[v] = true
	}

	for leaf := sub.nextLeaf(); leaf != graph.Unreachable; leaf = sub.nextLeaf() {
		src := leaf
		if l := in.to.Logical(leaf); l != placement.Unassigned {
			src = cur.Phys(l)
		} else if in.target(cur, leaf) != placement.Unassigned {
			src = nearestFree(in, cur, sub, leaf)
		}
		path := graph.ShortestPath(sub, src, leaf)
		for i := 0; i+1 < len(path); i++ {
			cur.Swap(path[i], path[i+1])
			out = append(out, Swap{U: path[i], V: path[i+1]})
		}
		sub.alive[leaf] = false
	}
	return out
}

// nearestFree returns the closest unsettled vertex holding a free token,
// lowest vertex first among equals. Component token counts guarantee one
// exists.
func nearestFree(in instance, cur *placement.Placement, sub *subtree, from int) int {
	dist := graph.BFS(sub, from)
	best := graph.Unreachable
	for v, d := range dist {
		if d == graph.Unreachable || !sub.alive[v] || in.target(cur, v) != placement.Unassigned {
			continue
		}
		if best == graph.Unreachable || d < dist[best] {
			best = v
		}
	}
	return best
}

// spanningForest returns a breadth-first spanning forest of arch, rooted at
// the lowest vertex of each component.
func spanningForest(arch *graph.Arch) *graph.Graph {
	tree := graph.New(arch.Size(), graph.Undirected)
	seen := make([]bool, arch.Size())
	for root := range seen {
		if seen[root] {
			continue
		}
		seen[root] = true
		queue := []int{root}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, v := range arch.Adj(u) {
				if !seen[v] {
					seen[v] = true
					_ = tree.PutEdge(u, v)
					queue = append(queue, v)
				}
			}
		}
	}
	return tree
}

// subtree is the part of a spanning forest not yet settled. Removing leaves
// keeps every component of it connected.
type subtree struct {
	tree  *graph.Graph
	alive []bool
}

func (s *subtree) Size() int { return s.tree.Size() }

func (s *subtree) Adj(v int) []int {
	var out []int
	for _, w := range s.tree.Adj(v) {
		if s.alive[w] {
			out = append(out, w)
		}
	}
	return out
}

// nextLeaf returns the lowest alive vertex with at most one alive neighbour.
func (s *subtree) nextLeaf() int {
	for v, ok := range s.alive {
		if ok && len(s.Adj(v)) <= 1 {
			return v
		}
	}
	return graph.Unreachable
}
