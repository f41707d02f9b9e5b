package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ysiraichi/enfield/pkg/cache"
	"github.com/ysiraichi/enfield/pkg/errors"
)

const bellText = `OPENQASM 2.0;
include "qelib1.inc";
qreg q[3];
creg c[3];
h q[0];
cx q[0], q[2];
cx q[1], q[2];
measure q -> c;
`

func newTestCLI() *CLI {
	return New(io.Discard, LogInfo)
}

func TestParseInitial(t *testing.T) {
	tests := []struct {
		in       string
		want     []int
		wantCode errors.Code
	}{
		{"", nil, ""},
		{"0,2,1", []int{0, 2, 1}, ""},
		{"3, -, -1", []int{3, -1, -1}, ""},
		{"0,x", nil, errors.ErrCodeInvalidInput},
		{"-2", nil, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseInitial(tt.in)
			if code := errors.GetCode(err); code != tt.wantCode {
				t.Fatalf("parseInitial(%q) code = %q, want %q", tt.in, code, tt.wantCode)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("parseInitial(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); got != nil {
		t.Errorf("parseFormats(\"\") = %v, want nil", got)
	}
	if got := parseFormats("qasm, svg,"); !slices.Equal(got, []string{"qasm", "svg"}) {
		t.Errorf("parseFormats = %v", got)
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		input, output, format string
		single                bool
		want                  string
	}{
		{"qft.qasm", "", "svg", true, "qft.routed.svg"},
		{"dir/qft.qasm", "", "json", false, "dir/qft.routed.json"},
		{"qft.qasm", "out.svg", "svg", true, "out.svg"},
		{"qft.qasm", "out/qft", "dot", false, "out/qft.dot"},
	}
	for _, tt := range tests {
		if got := artifactPath(tt.input, tt.output, tt.format, tt.single); got != tt.want {
			t.Errorf("artifactPath(%q, %q, %q, %v) = %q, want %q", tt.input, tt.output, tt.format, tt.single, got, tt.want)
		}
	}
}

func TestReportRows(t *testing.T) {
	report := "\n ==--- Stats ---==\n3::swaps::Number of swaps inserted\n12::gates::Gates in the routed circuit\n ==---==\n"
	want := [][]string{
		{"swaps", "3", "Number of swaps inserted"},
		{"gates", "12", "Gates in the routed circuit"},
	}
	got := reportRows(report)
	if len(got) != len(want) {
		t.Fatalf("reportRows = %v", got)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("row %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	c := newTestCLI()
	if dir, _ := c.cacheDir(); dir != filepath.Join("/tmp/xdg", appName) {
		t.Errorf("cacheDir() = %q", dir)
	}
	c.config.Cache.Dir = "/var/cache/routes"
	if dir, _ := c.cacheDir(); dir != "/var/cache/routes" {
		t.Errorf("cacheDir() with configured dir = %q", dir)
	}
}

func TestCacheCommands(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir, err := newTestCLI().cacheDir()
	if err != nil {
		t.Fatal(err)
	}

	execute := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		root := newTestCLI().RootCommand()
		root.SetArgs(args)
		root.SetOut(&out)
		if err := root.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	if got := execute("cache", "path"); strings.TrimSpace(got) != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}
	if got := execute("cache", "clear"); !strings.Contains(got, "Cache is empty") {
		t.Errorf("clearing a missing cache: %q", got)
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"route:a", "route:b"} {
		if err := fc.Set(context.Background(), k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if got := execute("cache", "clear"); !strings.Contains(got, "Removed 2 cached entries") {
		t.Errorf("cache clear output = %q", got)
	}
	if n := countEntries(dir); n != 0 {
		t.Errorf("%d entries left after clear", n)
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	root := newTestCLI().RootCommand()
	for _, name := range []string{"route", "arch", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestMissingConfigFile(t *testing.T) {
	root := newTestCLI().RootCommand()
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.toml"), "arch", "list"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.Execute(); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Execute() error = %v, want INVALID_PATH", err)
	}
}

func TestArchList(t *testing.T) {
	var out bytes.Buffer
	root := newTestCLI().RootCommand()
	root.SetArgs([]string{"arch", "list"})
	root.SetOut(&out)
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"ibmqx2", "ibmqx5", "grid:RxC"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("arch list output lacks %q:\n%s", want, out.String())
		}
	}
}

func TestArchExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ibmqx2.json")
	root := newTestCLI().RootCommand()
	root.SetArgs([]string{"arch", "export", "ibmqx2", path})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"vertices"`)) {
		t.Errorf("exported file is not a device document:\n%s", data)
	}
}

func TestRouteCommandWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bell.qasm")
	if err := os.WriteFile(input, []byte(bellText), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	root := newTestCLI().RootCommand()
	root.SetArgs([]string{"route", input, "--arch", "ibmqx2", "-f", "qasm,json", "--no-cache", "--stats"})
	root.SetOut(&out)
	root.SetErr(io.Discard)
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Routed bell.qasm onto ibmqx2", "fresh", "route_time", "bell.routed.qasm"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("route output lacks %q:\n%s", want, out.String())
		}
	}

	qasm, err := os.ReadFile(filepath.Join(dir, "bell.routed.qasm"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(qasm, []byte("OPENQASM 2.0;")) {
		t.Errorf("routed circuit does not start with the header:\n%s", qasm)
	}
	if _, err := os.Stat(filepath.Join(dir, "bell.routed.json")); err != nil {
		t.Errorf("json artifact missing: %v", err)
	}
}

func TestRouteCommandToStdout(t *testing.T) {
	input := filepath.Join(t.TempDir(), "bell.qasm")
	if err := os.WriteFile(input, []byte(bellText), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	root := newTestCLI().RootCommand()
	root.SetArgs([]string{"route", input, "-f", "qasm", "--no-cache"})
	root.SetOut(&out)
	root.SetErr(io.Discard)
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "OPENQASM 2.0;") {
		t.Errorf("stdout is not the routed circuit:\n%s", out.String())
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(input), "bell.routed.qasm")); !os.IsNotExist(err) {
		t.Errorf("artifact file written despite stdout output: %v", err)
	}
}

func TestArchShow(t *testing.T) {
	var out bytes.Buffer
	root := newTestCLI().RootCommand()
	root.SetArgs([]string{"arch", "show", "ibmqx2"})
	root.SetOut(&out)
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Qubits", "5", "Couplings"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("arch show output lacks %q:\n%s", want, out.String())
		}
	}
}

func TestRouteCommandRejectsBadInitial(t *testing.T) {
	root := newTestCLI().RootCommand()
	root.SetArgs([]string{"route", "bell.qasm", "--initial", "0,a"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.Execute(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Execute() error = %v, want INVALID_INPUT", err)
	}
}
