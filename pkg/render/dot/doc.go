// Package dot draws a device and a qubit placement with Graphviz.
//
// [ToDOT] produces an undirected Graphviz graph: one node per physical qubit,
// labelled with its name and the logical qubit placed on it, and one edge
// per coupled pair. Arrowheads show the declared coupling direction (both
// ends when the device declares both), and occupied qubits are filled.
// [RenderSVG] lays the graph out with the neato engine bundled in go-graphviz,
// so no Graphviz installation is required.
//
//	src := dot.ToDOT(arch, result.Final, dot.Options{
//	    Logical:   m.QubitName,
//	    Highlight: []graph.Edge{{U: 1, V: 2}},
//	})
//	svg, err := dot.RenderSVG(ctx, src)
package dot
