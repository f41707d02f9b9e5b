// Package perm enumerates and indexes permutations of [0, n).
//
// The exact token-swap finder stores one table entry per arrangement of
// tokens on a device, so it needs a dense index for every permutation:
// [Rank] and [Unrank] map between permutations and [0, n!) using the
// Lehmer code. [Generate] enumerates permutations when a search has to try
// every completion of a partial assignment.
package perm

import "slices"

// Seq returns a slice containing the sequence [0, 1, 2, ..., n-1].
// This is useful for initializing permutation arrays or creating index sequences.
//
// For n <= 0, Seq returns an empty slice.
func Seq(n int) []int {
	result := make([]int, max(n, 0))
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n! (n factorial), the product 1 × 2 × ... × n.
// For n <= 1, Factorial returns 1.
//
// Factorials grow extremely fast: 13! = 6,227,020,800 exceeds 32-bit int.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}

// Generate returns permutations of [0, 1, ..., n-1] using Heap's algorithm.
//
// If limit > 0, Generate returns at most limit permutations.
// If limit <= 0, Generate returns all n! permutations.
//
// Each returned slice is a separate allocation. The first permutation is
// always the identity, and the order is fixed for a given n, so callers that
// pick the first best candidate get reproducible answers.
//
// For n >= 13, the number of permutations exceeds billions. Always use a limit
// when n is large.
func Generate(n, limit int) [][]int {
	if n <= 0 {
		return [][]int{{}}
	}
	if n == 1 {
		return [][]int{{0}}
	}

	perm := Seq(n)
	state := make([]int, n)

	capacity := limit
	if capacity <= 0 || n <= 12 {
		capacity = Factorial(min(n, 12))
	}
	result := make([][]int, 0, capacity)
	result = append(result, slices.Clone(perm))

	for i := 0; i < n && (limit <= 0 || len(result) < limit); {
		if state[i] < i {
			if i&1 == 0 {
				perm[0], perm[i] = perm[i], perm[0]
			} else {
				perm[state[i]], perm[i] = perm[i], perm[state[i]]
			}
			result = append(result, slices.Clone(perm))
			state[i]++
			i = 0
		} else {
			state[i] = 0
			i++
		}
	}
	return result
}

// IsPermutation reports whether p contains every value of [0, len(p))
// exactly once.
func IsPermutation(p []int) bool {
	seen := make([]bool, len(p))
	for _, v := range p {
		if v < 0 || v >= len(p) || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// Rank returns the lexicographic index of p among all permutations of
// [0, len(p)). The identity has rank 0. p must be a permutation.
func Rank(p []int) int {
	n := len(p)
	rank := 0
	for i := 0; i < n; i++ {
		smaller := 0
		for j := i + 1; j < n; j++ {
			if p[j] < p[i] {
				smaller++
			}
		}
		rank = rank*(n-i) + smaller
	}
	return rank
}

// Unrank is the inverse of [Rank]: it returns the permutation of [0, n) with
// lexicographic index r. r must lie in [0, n!).
func Unrank(r, n int) []int {
	digits := make([]int, n)
	for i := n - 1; i >= 0; i-- {
		base := n - i
		digits[i] = r % base
		r /= base
	}
	pool := Seq(n)
	out := make([]int, n)
	for i, d := range digits {
		out[i] = pool[d]
		pool = slices.Delete(pool, d, d+1)
	}
	return out
}
