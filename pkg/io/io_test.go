package io

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ysiraichi/enfield/pkg/arch"
	"github.com/ysiraichi/enfield/pkg/errors"
	"github.com/ysiraichi/enfield/pkg/graph"
)

const qx2 = `# IBM QX2
qreg q 5

q[0] q[1]
q[0] q[2]   # trailing comment
q[1] q[2]
q[3] q[2]
q[3] q[4]
4 2 0.5
`

func TestReadText(t *testing.T) {
	a, err := ReadText(strings.NewReader(qx2))
	if err != nil {
		t.Fatal(err)
	}
	if a.Size() != 5 {
		t.Fatalf("Size() = %d", a.Size())
	}
	if got := len(a.Couplings()); got != 6 {
		t.Errorf("len(Couplings()) = %d, want 6", got)
	}
	if !a.HasCoupling(3, 2) || a.HasCoupling(2, 3) {
		t.Error("coupling direction not preserved")
	}
	if w, _ := a.CouplingWeight(4, 2); w != 0.5 {
		t.Errorf("CouplingWeight(4, 2) = %v", w)
	}
	if got := a.VertexName(4); got != "q[4]" {
		t.Errorf("VertexName(4) = %q", got)
	}
}

func TestReadTextInfersSize(t *testing.T) {
	a, err := ReadText(strings.NewReader("0 1\n1 3\n"))
	if err != nil {
		t.Fatal(err)
	}
	if a.Size() != 4 {
		t.Errorf("Size() = %d, want 4", a.Size())
	}
	if got := a.Adj(2); len(got) != 0 {
		t.Errorf("Adj(2) = %v, want isolated vertex", got)
	}
}

func TestReadTextErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  errors.Code
		line  string
	}{
		{"bad qreg", "qreg q\n", errors.ErrCodeInvalidFormat, "line 1"},
		{"bad size", "qreg q five\n", errors.ErrCodeInvalidFormat, "line 1"},
		{"bad register name", "qreg Q 2\n", errors.ErrCodeInvalidInput, "line 1"},
		{"too many fields", "qubits 3\n0 1 2 3\n", errors.ErrCodeInvalidFormat, "line 2"},
		{"bad weight", "qubits 3\n0 1 heavy\n", errors.ErrCodeInvalidFormat, "line 2"},
		{"unknown name", "qreg q 2\nq[0] r[1]\n", errors.ErrCodeNotFound, "line 2"},
		{"name without declaration", "0 q[1]\n", errors.ErrCodeNotFound, "line 1"},
		{"vertex out of range", "qubits 2\n\n0 2\n", errors.ErrCodeInvalidVertex, "line 3"},
		{"self loop", "qubits 2\n1 1\n", errors.ErrCodeInvalidVertex, "line 2"},
		{"negative weight", "qubits 2\n0 1 -1\n", errors.ErrCodeInvalidInput, "line 2"},
		{"inferred size too large", "100000000 1\n", errors.ErrCodeInvalidInput, "line 1"},
		{"qubits too large", "qubits 4000\nqubits 200\n", errors.ErrCodeInvalidInput, "line 2"},
		{"register too large", "qreg q 5000\n", errors.ErrCodeInvalidInput, "line 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadText(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Fatalf("ReadText() error = %v, want %s", err, tt.want)
			}
			if !strings.Contains(err.Error(), tt.line) {
				t.Errorf("error %q does not mention %q", err, tt.line)
			}
		})
	}
}

func sameArch(t *testing.T, want, got *graph.Arch) {
	t.Helper()
	if got.Size() != want.Size() {
		t.Fatalf("Size() = %d, want %d", got.Size(), want.Size())
	}
	if !slices.Equal(got.Couplings(), want.Couplings()) {
		t.Errorf("Couplings() = %v, want %v", got.Couplings(), want.Couplings())
	}
	for _, e := range want.Couplings() {
		w1, _ := want.CouplingWeight(e.U, e.V)
		w2, _ := got.CouplingWeight(e.U, e.V)
		if w1 != w2 {
			t.Errorf("weight %v = %v, want %v", e, w2, w1)
		}
	}
	for v := 0; v < want.Size(); v++ {
		if got.VertexName(v) != want.VertexName(v) {
			t.Errorf("VertexName(%d) = %q, want %q", v, got.VertexName(v), want.VertexName(v))
		}
	}
}

func mixed(t *testing.T) *graph.Arch {
	t.Helper()
	b := graph.NewArchBuilder()
	if _, err := b.PutReg("q", 3); err != nil {
		t.Fatal(err)
	}
	b.PutVertex("")
	b.PutVertex("")
	for _, e := range [][2]int{{0, 1}, {2, 1}, {2, 3}, {4, 3}} {
		if err := b.PutEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	if err := b.PutWeightedEdge(0, 4, 2.25); err != nil {
		t.Fatal(err)
	}
	return b.Build()
}

func TestRoundTrip(t *testing.T) {
	qx5, err := arch.Lookup("ibmqx5")
	if err != nil {
		t.Fatal(err)
	}
	codecs := []struct {
		name  string
		write func(*bytes.Buffer, *graph.Arch) error
		read  func(*bytes.Buffer) (*graph.Arch, error)
	}{
		{"text",
			func(b *bytes.Buffer, a *graph.Arch) error { return WriteText(b, a) },
			func(b *bytes.Buffer) (*graph.Arch, error) { return ReadText(b) }},
		{"json",
			func(b *bytes.Buffer, a *graph.Arch) error { return WriteJSON(b, a) },
			func(b *bytes.Buffer) (*graph.Arch, error) { return ReadJSON(b) }},
	}

	for _, c := range codecs {
		for name, a := range map[string]*graph.Arch{"ibmqx5": qx5, "mixed": mixed(t)} {
			t.Run(c.name+"/"+name, func(t *testing.T) {
				var buf bytes.Buffer
				if err := c.write(&buf, a); err != nil {
					t.Fatal(err)
				}
				got, err := c.read(&buf)
				if err != nil {
					t.Fatal(err)
				}
				sameArch(t, a, got)
			})
		}
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  errors.Code
	}{
		{"malformed", `{"vertices": 2,`, errors.ErrCodeInvalidFormat},
		{"unknown field", `{"vertices": 2, "adj": [], "edges": []}`, errors.ErrCodeInvalidFormat},
		{"bad type", `{"vertices": 2, "type": "Mixed", "adj": []}`, errors.ErrCodeInvalidFormat},
		{"adj too long", `{"vertices": 1, "adj": [[], []]}`, errors.ErrCodeInvalidFormat},
		{"registers too large", `{"vertices": 1, "registers": [{"name": "q", "size": 2}], "adj": []}`, errors.ErrCodeInvalidFormat},
		{"too many vertices", `{"vertices": 100000000, "adj": []}`, errors.ErrCodeInvalidInput},
		{"huge register", `{"vertices": 3, "registers": [{"name": "q", "size": 100000000}], "adj": []}`, errors.ErrCodeInvalidFormat},
		{"edge out of range", `{"vertices": 2, "adj": [[{"v": 5}]]}`, errors.ErrCodeInvalidVertex},
		{"negative weight", `{"vertices": 2, "adj": [[{"v": 1, "w": -2}]]}`, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadJSON(strings.NewReader(tt.input)); !errors.Is(err, tt.want) {
				t.Errorf("ReadJSON() error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestImportExportArch(t *testing.T) {
	dir := t.TempDir()
	a := mixed(t)

	for _, name := range []string{"device.json", "device.txt"} {
		path := filepath.Join(dir, name)
		if err := ExportArch(a, path); err != nil {
			t.Fatalf("ExportArch(%s): %v", name, err)
		}
		got, err := ImportArch(path)
		if err != nil {
			t.Fatalf("ImportArch(%s): %v", name, err)
		}
		sameArch(t, a, got)
	}

	if _, err := ImportArch(filepath.Join(dir, "missing.txt")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file: %v", err)
	}

	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(bad, []byte("qreg q 2\nq[0]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ImportArch(bad)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) || !strings.Contains(err.Error(), "bad.txt") {
		t.Errorf("ImportArch(bad) = %v", err)
	}
}
