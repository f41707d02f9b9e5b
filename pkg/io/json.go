package io

import (
	"encoding/json"
	"io"

	"github.com/ysiraichi/enfield/pkg/errors"
	"github.com/ysiraichi/enfield/pkg/graph"
)

type archDoc struct {
	Vertices  int        `json:"vertices"`
	Type      string     `json:"type,omitempty"`
	Registers []regDoc   `json:"registers,omitempty"`
	Names     []string   `json:"names,omitempty"`
	Adj       [][]adjDoc `json:"adj"`
}

type regDoc struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type adjDoc struct {
	V int      `json:"v"`
	W *float64 `json:"w,omitempty"`
}

// ReadJSON decodes the JSON device format. An "Undirected" document declares
// each listed coupling as given; the adjacency used for routing is the same
// either way.
func ReadJSON(r io.Reader) (*graph.Arch, error) {
	var doc archDoc
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode device description")
	}
	if doc.Type != "" {
		if _, err := graph.ParseType(doc.Type); err != nil {
			return nil, err
		}
	}
	if doc.Vertices < 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "negative vertex count %d", doc.Vertices)
	}
	if doc.Vertices > MaxVertices {
		return nil, errors.New(errors.ErrCodeInvalidInput, "device has %d vertices, at most %d are supported", doc.Vertices, MaxVertices)
	}
	if len(doc.Adj) > doc.Vertices {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "adjacency lists %d vertices, only %d declared", len(doc.Adj), doc.Vertices)
	}
	if len(doc.Names) > doc.Vertices {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%d names for %d vertices", len(doc.Names), doc.Vertices)
	}

	b := graph.NewArchBuilder()
	for _, reg := range doc.Registers {
		if reg.Size > doc.Vertices-b.Size() {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "register %s overflows the %d declared vertices", reg.Name, doc.Vertices)
		}
		if _, err := b.PutReg(reg.Name, reg.Size); err != nil {
			return nil, err
		}
	}
	if b.Size() > doc.Vertices {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "registers cover %d vertices, only %d declared", b.Size(), doc.Vertices)
	}
	for v := b.Size(); v < doc.Vertices; v++ {
		name := ""
		if v < len(doc.Names) {
			name = doc.Names[v]
		}
		if id := b.PutVertex(name); id != v {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "vertex %d reuses the name %q", v, name)
		}
	}

	for u, list := range doc.Adj {
		for _, e := range list {
			var err error
			if e.W != nil {
				err = b.PutWeightedEdge(u, e.V, *e.W)
			} else {
				err = b.PutEdge(u, e.V)
			}
			if err != nil {
				return nil, errors.Wrap(errors.GetCode(err), err, "adj[%d]", u)
			}
		}
	}
	return b.Build(), nil
}

// WriteJSON encodes a in the JSON device format. Weights are written only
// when some coupling carries a non-default weight.
func WriteJSON(w io.Writer, a *graph.Arch) error {
	doc := archDoc{
		Vertices: a.Size(),
		Type:     graph.Directed.String(),
		Adj:      make([][]adjDoc, a.Size()),
	}
	covered := 0
	for _, r := range a.Regs() {
		doc.Registers = append(doc.Registers, regDoc{Name: r.Name, Size: r.Size})
		covered = max(covered, r.First+r.Size)
	}
	if covered < a.Size() {
		doc.Names = make([]string, a.Size())
		for v := covered; v < a.Size(); v++ {
			doc.Names[v] = a.VertexName(v)
		}
	}

	weighted := a.IsWeighted()
	for v := range doc.Adj {
		doc.Adj[v] = []adjDoc{}
	}
	for _, e := range a.Couplings() {
		entry := adjDoc{V: e.V}
		if weighted {
			wt, _ := a.CouplingWeight(e.U, e.V)
			entry.W = &wt
		}
		doc.Adj[e.U] = append(doc.Adj[e.U], entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode device description")
	}
	return nil
}
