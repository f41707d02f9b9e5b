package pipeline

import (
	"bytes"
	"os"
	"strings"

	"github.com/ysiraichi/enfield/pkg/arch"
	"github.com/ysiraichi/enfield/pkg/cache"
	"github.com/ysiraichi/enfield/pkg/circuit"
	"github.com/ysiraichi/enfield/pkg/circuit/qasm"
	"github.com/ysiraichi/enfield/pkg/errors"
	"github.com/ysiraichi/enfield/pkg/graph"
	archio "github.com/ysiraichi/enfield/pkg/io"
)

// LoadCircuit parses the circuit named by opts.
func LoadCircuit(opts Options) (*circuit.Module, error) {
	if opts.Circuit != "" {
		name := opts.CircuitName
		if name == "" {
			name = "<input>"
		}
		return qasm.Parse(name, strings.NewReader(opts.Circuit))
	}
	return qasm.ParseFile(opts.CircuitPath)
}

// LoadArch resolves a device. An existing file is read as a device
// description; anything else must be a built-in name.
func LoadArch(name string) (*graph.Arch, error) {
	if st, err := os.Stat(name); err == nil && !st.IsDir() {
		return archio.ImportArch(name)
	}
	a, err := arch.Lookup(name)
	if errors.Is(err, errors.ErrCodeNotFound) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "no such file or built-in device (built-ins: %s)", strings.Join(arch.Names(), ", "))
	}
	return a, err
}

// ArchHash identifies a device by its couplings, weights and names.
func ArchHash(a *graph.Arch) string {
	var buf bytes.Buffer
	_ = archio.WriteJSON(&buf, a)
	return cache.Hash(buf.Bytes())
}
