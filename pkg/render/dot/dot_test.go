package dot

import (
	"context"
	"strings"
	"testing"

	"github.com/ysiraichi/enfield/pkg/arch"
	"github.com/ysiraichi/enfield/pkg/graph"
	"github.com/ysiraichi/enfield/pkg/placement"
)

func TestToDOT(t *testing.T) {
	a, err := arch.Lookup("ibmqx2")
	if err != nil {
		t.Fatal(err)
	}
	p, _ := placement.FromSlice([]int{2, 0}, a.Size())

	dot := ToDOT(a, p, Options{
		Title:     "ibmqx2",
		Highlight: []graph.Edge{{U: 2, V: 1}},
	})

	for _, want := range []string{
		"graph G {",
		`label="ibmqx2"`,
		`v2 [label="q[2]\nl0", fillcolor=lightblue]`,
		`v0 [label="q[0]\nl1", fillcolor=lightblue]`,
		`v4 [label="q[4]", fillcolor=white]`,
		"v0 -- v1 [dir=forward]",
		"v2 -- v3 [dir=back]",
		"v1 -- v2 [dir=forward, color=red, penwidth=2]",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q in\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "->") {
		t.Error("ToDOT() emitted a directed edge")
	}
}

func TestToDOTWeightsAndNames(t *testing.T) {
	b := graph.NewArchBuilder()
	if _, err := b.PutReg("q", 2); err != nil {
		t.Fatal(err)
	}
	_ = b.PutWeightedEdge(0, 1, 2.5)
	_ = b.PutWeightedEdge(1, 0, 4)
	a := b.Build()

	p, _ := placement.Identity(1, 2)
	dot := ToDOT(a, p, Options{Logical: func(l int) string { return "anc" }})

	if !strings.Contains(dot, `v0 -- v1 [dir=both, label="2.5"]`) {
		t.Errorf("weighted edge missing:\n%s", dot)
	}
	if !strings.Contains(dot, `q[0]\nanc`) {
		t.Errorf("logical name missing:\n%s", dot)
	}
}

func TestToDOTWithoutPlacement(t *testing.T) {
	a, _ := arch.Lookup("linear:3")
	dot := ToDOT(a, nil, Options{})
	if strings.Contains(dot, "lightblue") {
		t.Error("empty placement drew occupied qubits")
	}
}

func TestRenderSVG(t *testing.T) {
	a, _ := arch.Lookup("ring:4")
	svg, err := RenderSVG(context.Background(), ToDOT(a, nil, Options{}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0`) {
		t.Errorf("RenderSVG() root element not normalized: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116">`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("no viewBox: %s", got)
	}
}
