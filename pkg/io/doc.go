// Package io reads and writes quantum device descriptions.
//
// # Text Format
//
// The text format is a line-oriented edge list:
//
//	# IBM QX2
//	qreg q 5
//	q[0] q[1]
//	q[0] q[2]
//	q[1] q[2]
//	q[3] q[2]
//	3 4 0.5
//
// Blank lines and anything after '#' are ignored. The directives are:
//
//   - qreg NAME SIZE: declares SIZE physical qubits named NAME[0] .. NAME[SIZE-1]
//   - qubits N: declares N anonymous physical qubits
//
// Every other line is a coupling "SOURCE TARGET [WEIGHT]". Endpoints are
// either vertex numbers or declared names. Couplings are directed (the
// direction a CNOT is natively supported) but routing may use them both ways.
// A file with no declaration gets max vertex + 1 anonymous qubits.
//
// # JSON Format
//
//	{
//	  "vertices": 3,
//	  "type": "Directed",
//	  "registers": [{"name": "q", "size": 3}],
//	  "adj": [[{"v": 1}], [{"v": 2, "w": 2.5}], []]
//	}
//
// "adj" lists the couplings leaving each vertex; "w" defaults to 1. "names"
// may name vertices that no register covers.
//
// # Import
//
// [ImportArch] picks the format from the file extension (".json" is JSON,
// anything else is text). [ReadText] and [ReadJSON] read from any
// io.Reader; [WriteText] and [WriteJSON] write a device back out so that
// reading it again yields the same couplings, weights and names.
//
// Malformed input fails with INVALID_FORMAT and the offending line, unknown
// names with NOT_FOUND and out-of-range vertices with INVALID_VERTEX.
package io
