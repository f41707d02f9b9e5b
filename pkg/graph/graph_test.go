package graph

import (
	"math"
	"slices"
	"testing"

	"github.com/ysiraichi/enfield/pkg/errors"
)

func TestPutEdge(t *testing.T) {
	tests := []struct {
		name     string
		ty       Type
		u, v     int
		wantCode errors.Code
	}{
		{"valid undirected", Undirected, 0, 1, ""},
		{"valid directed", Directed, 2, 0, ""},
		{"negative vertex", Undirected, -1, 1, errors.ErrCodeInvalidVertex},
		{"vertex out of range", Directed, 0, 3, errors.ErrCodeInvalidVertex},
		{"self loop", Undirected, 1, 1, errors.ErrCodeInvalidVertex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(3, tt.ty)
			err := g.PutEdge(tt.u, tt.v)
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Fatalf("PutEdge(%d, %d) code = %q, want %q", tt.u, tt.v, got, tt.wantCode)
			}
			if tt.wantCode == "" && !g.HasEdge(tt.u, tt.v) {
				t.Errorf("HasEdge(%d, %d) = false after PutEdge", tt.u, tt.v)
			}
		})
	}
}

func TestUndirectedSymmetry(t *testing.T) {
	g := New(4, Undirected)
	_ = g.PutEdge(2, 0)
	_ = g.PutEdge(2, 3)
	_ = g.PutEdge(0, 2)

	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	if !g.HasEdge(0, 2) || !g.HasEdge(2, 0) {
		t.Error("undirected edge not visible in both directions")
	}
	if got := g.Adj(2); !slices.Equal(got, []int{0, 3}) {
		t.Errorf("Adj(2) = %v, want [0 3]", got)
	}
	if got := g.Succ(2); !slices.Equal(got, g.Pred(2)) {
		t.Errorf("Succ(2) = %v differs from Pred(2) = %v", got, g.Pred(2))
	}
	want := []Edge{{0, 2}, {2, 3}}
	if got := g.Edges(); !slices.Equal(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}

func TestDirectedAdjacency(t *testing.T) {
	g := New(3, Directed)
	_ = g.PutEdge(1, 0)
	_ = g.PutEdge(1, 2)

	if g.HasEdge(0, 1) {
		t.Error("HasEdge(0, 1) = true for directed edge 1 -> 0")
	}
	if got := g.Succ(1); !slices.Equal(got, []int{0, 2}) {
		t.Errorf("Succ(1) = %v", got)
	}
	if got := g.Pred(0); !slices.Equal(got, []int{1}) {
		t.Errorf("Pred(0) = %v", got)
	}
	if got := g.Adj(0); !slices.Equal(got, []int{1}) {
		t.Errorf("Adj(0) = %v, want [1]", got)
	}
	if g.OutDegree(1) != 2 || g.InDegree(1) != 0 {
		t.Errorf("degrees of 1 = (%d out, %d in)", g.OutDegree(1), g.InDegree(1))
	}
}

func TestPutVertex(t *testing.T) {
	g := New(0, Undirected)
	for i := 0; i < 3; i++ {
		if id := g.PutVertex(); id != i {
			t.Fatalf("PutVertex() = %d, want %d", id, i)
		}
	}
	if g.Size() != 3 {
		t.Errorf("Size() = %d", g.Size())
	}
}

func TestWeightedLastWriteWins(t *testing.T) {
	g := NewWeighted(3, Undirected)
	_ = g.PutWeightedEdge(0, 1, 2.5)
	_ = g.PutWeightedEdge(1, 0, 4)
	_ = g.PutEdge(0, 1)

	w, ok := g.Weight(0, 1)
	if !ok || w != 4 {
		t.Errorf("Weight(0, 1) = %v, %v; want 4", w, ok)
	}
	if w2, _ := g.Weight(1, 0); w2 != w {
		t.Errorf("Weight(1, 0) = %v, want %v", w2, w)
	}

	_ = g.PutEdge(1, 2)
	if w, _ := g.Weight(1, 2); w != DefaultWeight {
		t.Errorf("default weight = %v", w)
	}
	if err := g.SetWeight(0, 2, 1); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("SetWeight on missing edge: %v", err)
	}
}

func TestBFSAndComponents(t *testing.T) {
	g := New(6, Undirected)
	_ = g.PutEdge(0, 1)
	_ = g.PutEdge(1, 2)
	_ = g.PutEdge(3, 4)

	if got := BFS(g, 0); !slices.Equal(got, []int{0, 1, 2, -1, -1, -1}) {
		t.Errorf("BFS(0) = %v", got)
	}
	if got := Components(g); !slices.Equal(got, []int{0, 0, 0, 3, 3, 5}) {
		t.Errorf("Components() = %v", got)
	}
	if IsConnected(g) {
		t.Error("IsConnected() = true for three components")
	}
	if got := ShortestPath(g, 2, 0); !slices.Equal(got, []int{2, 1, 0}) {
		t.Errorf("ShortestPath(2, 0) = %v", got)
	}
	if got := ShortestPath(g, 0, 4); got != nil {
		t.Errorf("ShortestPath across components = %v, want nil", got)
	}
}

func TestDijkstra(t *testing.T) {
	g := NewWeighted(4, Undirected)
	_ = g.PutWeightedEdge(0, 1, 1)
	_ = g.PutWeightedEdge(1, 2, 1)
	_ = g.PutWeightedEdge(0, 2, 5)

	got := Dijkstra(g, 0)
	want := []float64{0, 1, 2, math.Inf(1)}
	if !slices.Equal(got, want) {
		t.Errorf("Dijkstra(0) = %v, want %v", got, want)
	}
}
