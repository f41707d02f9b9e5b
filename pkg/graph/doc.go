// Package graph provides the graph types the qubit router works on.
//
// # Overview
//
// Three layers build on each other:
//
//   - [Graph]: a simple directed or undirected graph over dense integer
//     vertices 0..n-1 with ordered neighbour sets.
//   - [WeightedGraph]: a Graph whose edges carry a float64 weight.
//   - [Arch]: the immutable connectivity graph of a quantum device, with
//     named physical qubits and registers. Arch is produced by an
//     [ArchBuilder] and never changes afterwards.
//
// # Basic Usage
//
//	b := graph.NewArchBuilder()
//	first, _ := b.PutReg("q", 4)
//	b.PutEdge(first, first+1)
//	b.PutEdge(first+1, first+2)
//	b.PutEdge(first+2, first+3)
//	arch := b.Build()
//
//	arch.AreAdjacent(1, 0) // true: couplings are usable in both directions
//	id, _ := arch.VertexID("q[2]")
//
// # Algorithms
//
// [BFS], [Dijkstra], [ShortestPath] and [Components] work on any
// [Adjacency]. [AllPairs] runs a per-source computation over every vertex in
// parallel; distance estimators use it to build their tables once per
// device.
//
// # Determinism
//
// Every query returns vertices in increasing order, and the algorithms break
// ties by vertex identifier. Two runs over the same input produce the same
// answer.
//
// # Errors
//
// Out-of-range vertices and self-loops fail with INVALID_VERTEX, unknown
// names with NOT_FOUND (see package errors).
package graph
