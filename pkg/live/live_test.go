package live

import (
	"context"
	"slices"
	"testing"

	"github.com/ysiraichi/enfield/pkg/arch"
	"github.com/ysiraichi/enfield/pkg/circuit"
	"github.com/ysiraichi/enfield/pkg/errors"
	"github.com/ysiraichi/enfield/pkg/estimate"
	"github.com/ysiraichi/enfield/pkg/placement"
)

func deps(pairs ...[2]int) []circuit.Dependency {
	out := make([]circuit.Dependency, len(pairs))
	for i, p := range pairs {
		out[i] = circuit.Dependency{Index: i, Gate: i, A: p[0], B: p[1]}
	}
	return out
}

func liveSet(p Processor) []int {
	var out []int
	for _, q := range p.Process().ToArray() {
		out = append(out, int(q))
	}
	return out
}

func TestSequentialOrderAndLiveness(t *testing.T) {
	s := NewSequential()
	if err := s.Init(deps([2]int{0, 1}, [2]int{1, 2}, [2]int{0, 3}), 5); err != nil {
		t.Fatal(err)
	}
	if got := liveSet(s); !slices.Equal(got, []int{0, 1, 2, 3}) {
		t.Errorf("initial live set = %v", got)
	}

	var order []int
	for {
		i, ok := s.Next(nil, nil)
		if !ok {
			break
		}
		order = append(order, i)
		if err := s.Satisfy(i); err != nil {
			t.Fatal(err)
		}
		// Liveness only shrinks.
		for _, q := range liveSet(s) {
			if q == 4 {
				t.Fatal("idle qubit became live")
			}
		}
	}
	if !slices.Equal(order, []int{0, 1, 2}) {
		t.Errorf("order = %v", order)
	}
	if s.Pending() != 0 || len(liveSet(s)) != 0 {
		t.Errorf("after all satisfied: pending %d, live %v", s.Pending(), liveSet(s))
	}
}

func TestSatisfyOutOfOrder(t *testing.T) {
	s := NewSequential()
	_ = s.Init(deps([2]int{0, 1}, [2]int{1, 2}), 3)
	if err := s.Satisfy(1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Satisfy(1) before 0: %v", err)
	}
	if got := s.Front(); !slices.Equal(got, []int{0}) {
		t.Errorf("Front() = %v", got)
	}
}

func TestInitRejectsBadQubit(t *testing.T) {
	if err := NewSequential().Init(deps([2]int{0, 7}), 3); !errors.Is(err, errors.ErrCodeInvalidVertex) {
		t.Errorf("Init() = %v", err)
	}
}

func TestGeoNearestPicksClosestFrontDependency(t *testing.T) {
	a, _ := arch.Linear(6)
	est := estimate.NewHopCount()
	if err := est.Preprocess(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	// q0@0 q1@5 are far apart; q2@2 q3@3 are adjacent; q4@4 pairs with q1.
	p, _ := placement.FromSlice([]int{0, 5, 2, 3, 4}, 6)

	g := NewGeoNearest(est)
	if err := g.Init(deps([2]int{0, 1}, [2]int{2, 3}, [2]int{1, 4}), 5); err != nil {
		t.Fatal(err)
	}

	// Dependency 2 shares q1 with dependency 0, so it is not in the front.
	if got := g.Front(); !slices.Equal(got, []int{0, 1}) {
		t.Fatalf("Front() = %v", got)
	}
	if i, ok := g.Next(p, nil); !ok || i != 1 {
		t.Errorf("Next() = %d, %v; want 1", i, ok)
	}
	if i, _ := g.Next(p, func(dep int) bool { return dep != 1 }); i != 0 {
		t.Errorf("Next() skipping 1 = %d, want 0", i)
	}
	if i, _ := g.Next(p, func(int) bool { return false }); i != 0 {
		t.Errorf("Next() with nothing eligible = %d, want earliest front 0", i)
	}
	_ = g.Satisfy(1)
	if i, _ := g.Next(p, nil); i != 0 {
		t.Errorf("Next() = %d, want 0", i)
	}
}

func TestNew(t *testing.T) {
	if _, err := New(NameGeoNearest, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("geo-nearest without estimator: %v", err)
	}
	if _, err := New("random", nil); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown order: %v", err)
	}
	if p, err := New(NameProgram, nil); err != nil || p == nil {
		t.Errorf("New(program) = %v, %v", p, err)
	}
}

func TestComplete(t *testing.T) {
	a, _ := arch.Linear(5)
	from, _ := placement.FromSlice([]int{0, 1, 2, placement.Unassigned}, 5)
	to, _ := placement.FromSlice([]int{1, placement.Unassigned, placement.Unassigned, placement.Unassigned}, 5)

	if err := Complete(a, from, to); err != nil {
		t.Fatal(err)
	}
	// q1's vertex is taken by q0, so it moves to the nearest free vertex (0);
	// q2 keeps vertex 2; q3 has no source and stays unassigned.
	want := []int{1, 0, 2, placement.Unassigned}
	if got := to.Slice(); !slices.Equal(got, want) {
		t.Errorf("Complete() = %v, want %v", got, want)
	}
}

func TestFill(t *testing.T) {
	p, _ := placement.FromSlice([]int{placement.Unassigned, 0, placement.Unassigned}, 4)
	if err := Fill(p); err != nil {
		t.Fatal(err)
	}
	if got := p.Slice(); !slices.Equal(got, []int{1, 0, 2}) {
		t.Errorf("Fill() = %v", got)
	}
}
