package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/ysiraichi/enfield/pkg/cache"
	"github.com/ysiraichi/enfield/pkg/circuit"
	"github.com/ysiraichi/enfield/pkg/errors"
	"github.com/ysiraichi/enfield/pkg/graph"
	"github.com/ysiraichi/enfield/pkg/observability"
	"github.com/ysiraichi/enfield/pkg/placement"
	"github.com/ysiraichi/enfield/pkg/render/dot"
)

// report is the JSON artifact.
type report struct {
	Arch        string `json:"arch"`
	ArchHash    string `json:"arch_hash"`
	CircuitHash string `json:"circuit_hash"`
	Qubits      int    `json:"qubits"`
	Layers      int    `json:"layers"`
	Routed
}

// RenderWithCacheInfo produces every format in opts.Formats for a routed
// result. The boolean reports whether all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *Result, opts Options) (map[string][]byte, bool, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	routeData, err := json.Marshal(res.Route)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize routing for cache key")
	}
	routeHash := cache.Hash(append(routeData, res.ArchHash...))

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(routeHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		allCached = false

		data, err := Render(ctx, res, opts, format)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, opts.TTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, allCached, nil
}

// Render produces one artifact without touching the cache.
func Render(ctx context.Context, res *Result, opts Options, format string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatQASM:
		data, err = renderQASM(res.Route.Module, opts.ExpandSwaps)
	case FormatJSON:
		data, err = json.MarshalIndent(report{
			Arch:        opts.Arch,
			ArchHash:    res.ArchHash,
			CircuitHash: res.CircuitHash,
			Qubits:      res.Circuit.Qubits(),
			Layers:      res.Layers,
			Routed:      res.Route,
		}, "", "  ")
	case FormatDOT:
		var src string
		if src, err = renderDOT(res, opts); err == nil {
			data = []byte(src)
		}
	case FormatSVG:
		var src string
		if src, err = renderDOT(res, opts); err == nil {
			data, err = dot.RenderSVG(ctx, src)
		}
	default:
		return nil, ValidateFormat(format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return data, nil
}

func renderQASM(m *circuit.Module, expand bool) ([]byte, error) {
	if expand {
		m = circuit.ExpandSwaps(m)
	}
	var buf bytes.Buffer
	if err := circuit.WriteQASM(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderDOT(res *Result, opts Options) (string, error) {
	final, err := placement.FromSlice(res.Route.Final, res.Arch.Size())
	if err != nil {
		return "", err
	}
	hot := make([]graph.Edge, len(res.Route.Swaps))
	for i, s := range res.Route.Swaps {
		hot[i] = graph.Edge{U: s.U, V: s.V}
	}
	return dot.ToDOT(res.Arch, final, dot.Options{
		Title:     fmt.Sprintf("%s: %d swaps", opts.Arch, len(res.Route.Swaps)),
		Logical:   res.Circuit.QubitName,
		Highlight: hot,
	}), nil
}
