package graph

import (
	"context"
	"math"
	"runtime"

	"github.com/emirpasic/gods/trees/binaryheap"
	"golang.org/x/sync/errgroup"
)

// Adjacency is the read-only view the traversal algorithms need. [Graph],
// [WeightedGraph] and [Arch] all satisfy it.
type Adjacency interface {
	Size() int
	Adj(v int) []int
}

// Weighted is an [Adjacency] whose edges carry weights.
type Weighted interface {
	Adjacency
	Weight(u, v int) (float64, bool)
}

// Unreachable marks a vertex with no path from the source in [BFS] results.
const Unreachable = -1

// BFS returns the hop distance from src to every vertex, following Adj (so
// directed edges are traversed in both directions). Unreachable vertices get
// [Unreachable].
func BFS(g Adjacency, src int) []int {
	dist := make([]int, g.Size())
	for i := range dist {
		dist[i] = Unreachable
	}
	dist[src] = 0
	queue := []int{src}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range g.Adj(u) {
			if dist[v] == Unreachable {
				dist[v] = dist[u] + 1
				queue = append(queue, v)
			}
		}
	}
	return dist
}

// ShortestPath returns a minimum-hop path src .. dst inclusive, or nil when
// dst is unreachable. Among equal-length paths the one whose predecessor
// chain visits the lowest vertices is chosen.
func ShortestPath(g Adjacency, src, dst int) []int {
	parent := make([]int, g.Size())
	for i := range parent {
		parent[i] = Unreachable
	}
	parent[src] = src
	queue := []int{src}
	for len(queue) > 0 && parent[dst] == Unreachable {
		u := queue[0]
		queue = queue[1:]
		for _, v := range g.Adj(u) {
			if parent[v] == Unreachable {
				parent[v] = u
				queue = append(queue, v)
			}
		}
	}
	if parent[dst] == Unreachable {
		return nil
	}
	var path []int
	for v := dst; v != src; v = parent[v] {
		path = append(path, v)
	}
	path = append(path, src)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type item struct {
	v    int
	dist float64
}

func byDist(a, b any) int {
	x, y := a.(item), b.(item)
	switch {
	case x.dist < y.dist:
		return -1
	case x.dist > y.dist:
		return 1
	}
	return x.v - y.v
}

// Dijkstra returns the weighted shortest-path distance from src to every
// vertex. An edge weight is looked up as Weight(u, v), falling back to
// Weight(v, u). Unreachable vertices get +Inf.
func Dijkstra(g Weighted, src int) []float64 {
	dist := make([]float64, g.Size())
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	done := make([]bool, g.Size())
	dist[src] = 0

	heap := binaryheap.NewWith(byDist)
	heap.Push(item{v: src})
	for !heap.Empty() {
		top, _ := heap.Pop()
		u := top.(item).v
		if done[u] {
			continue
		}
		done[u] = true
		for _, v := range g.Adj(u) {
			w, ok := g.Weight(u, v)
			if !ok {
				w, _ = g.Weight(v, u)
			}
			if d := dist[u] + w; d < dist[v] {
				dist[v] = d
				heap.Push(item{v: v, dist: d})
			}
		}
	}
	return dist
}

// Components labels every vertex with the lowest vertex of its connected
// component (edge direction ignored).
func Components(g Adjacency) []int {
	label := make([]int, g.Size())
	for i := range label {
		label[i] = Unreachable
	}
	for s := range label {
		if label[s] != Unreachable {
			continue
		}
		label[s] = s
		stack := []int{s}
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, v := range g.Adj(u) {
				if label[v] == Unreachable {
					label[v] = s
					stack = append(stack, v)
				}
			}
		}
	}
	return label
}

// IsConnected reports whether g has at most one component.
func IsConnected(g Adjacency) bool {
	for _, l := range Components(g) {
		if l != 0 {
			return false
		}
	}
	return true
}

// AllPairs computes row(src) for every vertex in parallel and returns the
// table indexed by source. Work is bounded by GOMAXPROCS; cancellation of
// ctx stops scheduling further rows and is returned as the error.
func AllPairs[T any](ctx context.Context, n int, row func(src int) []T) ([][]T, error) {
	table := make([][]T, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for src := 0; src < n; src++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			table[src] = row(src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return table, nil
}
