package perm

import (
	"slices"
	"testing"
)

func TestSeq(t *testing.T) {
	if got := Seq(4); !slices.Equal(got, []int{0, 1, 2, 3}) {
		t.Errorf("Seq(4) = %v", got)
	}
	if got := Seq(-2); len(got) != 0 {
		t.Errorf("Seq(-2) = %v", got)
	}
}

func TestGenerateCount(t *testing.T) {
	tests := []struct {
		n, limit, want int
	}{
		{0, 0, 1},
		{1, 0, 1},
		{3, 0, 6},
		{5, 0, 120},
		{6, 10, 10},
	}
	for _, tt := range tests {
		perms := Generate(tt.n, tt.limit)
		if len(perms) != tt.want {
			t.Errorf("Generate(%d, %d) returned %d permutations, want %d", tt.n, tt.limit, len(perms), tt.want)
		}
		seen := make(map[int]bool)
		for _, p := range perms {
			if !IsPermutation(p) {
				t.Fatalf("Generate(%d) produced non-permutation %v", tt.n, p)
			}
			if seen[Rank(p)] {
				t.Fatalf("Generate(%d) produced %v twice", tt.n, p)
			}
			seen[Rank(p)] = true
		}
	}
}

func TestRankUnrank(t *testing.T) {
	for n := 0; n <= 6; n++ {
		for r := 0; r < Factorial(n); r++ {
			p := Unrank(r, n)
			if !IsPermutation(p) {
				t.Fatalf("Unrank(%d, %d) = %v is not a permutation", r, n, p)
			}
			if got := Rank(p); got != r {
				t.Fatalf("Rank(Unrank(%d, %d)) = %d", r, n, got)
			}
		}
	}
	if Rank([]int{0, 1, 2, 3}) != 0 {
		t.Error("identity rank != 0")
	}
	if Rank([]int{3, 2, 1, 0}) != 23 {
		t.Error("reverse rank != 23")
	}
}

func TestIsPermutation(t *testing.T) {
	tests := []struct {
		p    []int
		want bool
	}{
		{[]int{}, true},
		{[]int{1, 0}, true},
		{[]int{1, 1}, false},
		{[]int{0, 2}, false},
		{[]int{-1, 0}, false},
	}
	for _, tt := range tests {
		if got := IsPermutation(tt.p); got != tt.want {
			t.Errorf("IsPermutation(%v) = %v", tt.p, got)
		}
	}
}
