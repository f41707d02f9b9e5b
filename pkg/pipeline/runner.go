package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ysiraichi/enfield/pkg/cache"
	"github.com/ysiraichi/enfield/pkg/circuit"
	"github.com/ysiraichi/enfield/pkg/circuit/qasm"
	"github.com/ysiraichi/enfield/pkg/errors"
	"github.com/ysiraichi/enfield/pkg/estimate"
	"github.com/ysiraichi/enfield/pkg/graph"
	"github.com/ysiraichi/enfield/pkg/live"
	"github.com/ysiraichi/enfield/pkg/observability"
	"github.com/ysiraichi/enfield/pkg/pass"
	"github.com/ysiraichi/enfield/pkg/placement"
	"github.com/ysiraichi/enfield/pkg/route"
	"github.com/ysiraichi/enfield/pkg/swap"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// several goroutines may share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	passes *pass.Cache
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects [cache.DefaultKeyer] and a nil logger selects log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		passes: pass.NewCache(),
	}
}

// Routed is the cacheable part of a routing run.
type Routed struct {
	// Module is the routed circuit, rebuilt from QASM on a cache hit.
	Module  *circuit.Module    `json:"-"`
	QASM    string             `json:"qasm"`
	Initial []int              `json:"initial"`
	Final   []int              `json:"final"`
	Swaps   []swap.Swap        `json:"swaps"`
	Stats   map[string]float64 `json:"stats"`
	// Report is the statistics table in the value::name::description format.
	Report string `json:"report"`
}

// Execute runs load → route → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])

	loadStart := time.Now()
	m, err := LoadCircuit(opts)
	if err != nil {
		return nil, err
	}
	a, err := LoadArch(opts.Arch)
	if err != nil {
		return nil, err
	}
	result.Circuit, result.Arch = m, a
	result.CircuitHash, result.ArchHash = m.Fingerprint(), ArchHash(a)
	result.Stats.LoadTime = time.Since(loadStart)

	layers, err := pass.Get(r.passes, m, pass.LayersPass)
	if err != nil {
		return nil, err
	}
	counts, _ := pass.Get(r.passes, m, pass.GateCountPass)
	result.Layers = len(layers)
	logger.Debug("loaded circuit",
		"qubits", m.Qubits(),
		"gates", len(m.Gates),
		"cx", counts[circuit.GateCX],
		"layers", result.Layers,
		"device", opts.Arch,
		"vertices", a.Size())

	routeStart := time.Now()
	routed, hit, err := r.RouteWithCacheInfo(ctx, m, a, opts)
	if err != nil {
		return nil, err
	}
	result.Route = routed
	result.Stats.RouteTime = time.Since(routeStart)
	result.CacheInfo.RouteHit = hit
	logger.Info("routed circuit",
		"swaps", len(routed.Swaps),
		"depth", routed.Stats[route.StatDepth],
		"cached", hit,
		"duration", result.Stats.RouteTime)

	renderStart := time.Now()
	observability.Route().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result, opts)
	observability.Route().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit
	logger.Debug("rendered outputs", "formats", opts.Formats, "duration", result.Stats.RenderTime)

	return result, nil
}

// RouteWithCacheInfo routes m on a, consulting the cache first unless
// opts.Refresh is set. The whole routing, preprocessing included, is bounded
// by opts.Timeout; on expiry it fails with TIMEOUT and returns no result.
func (r *Runner) RouteWithCacheInfo(ctx context.Context, m *circuit.Module, a *graph.Arch, opts Options) (Routed, bool, error) {
	if err := opts.ValidateRouting(); err != nil {
		return Routed{}, false, err
	}
	opts.SetRoutingDefaults()
	r.applyLogger(&opts)

	circuitHash := m.Fingerprint()
	key := r.Keyer.RouteKey(circuitHash, ArchHash(a), opts.RouteKeyOpts())
	hooks := observability.Route()
	hooks.OnRouteStart(ctx, circuitHash, opts.Arch)

	if !opts.Refresh {
		if routed, ok := r.cachedRoute(ctx, key); ok {
			hooks.OnRouteComplete(ctx, circuitHash, opts.Arch, r.summary(opts, m, routed, 0, true), nil)
			return routed, true, nil
		}
	}

	start := time.Now()
	routed, err := r.route(ctx, m, a, opts)
	if err != nil {
		hooks.OnRouteComplete(ctx, circuitHash, opts.Arch, observability.RouteSummary{}, err)
		return Routed{}, false, err
	}
	hooks.OnRouteComplete(ctx, circuitHash, opts.Arch, r.summary(opts, m, routed, time.Since(start), false), nil)

	if data, err := json.Marshal(routed); err == nil {
		if err := r.Cache.Set(ctx, key, data, opts.TTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "route", len(data))
		} else {
			opts.Logger.Warn("cache write failed", "err", err)
		}
	}
	return routed, false, nil
}

func (r *Runner) cachedRoute(ctx context.Context, key string) (Routed, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "route")
		return Routed{}, false
	}
	var routed Routed
	if err := json.Unmarshal(data, &routed); err != nil {
		observability.Cache().OnCacheMiss(ctx, "route")
		return Routed{}, false
	}
	m, err := qasm.ParseString(routed.QASM)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "route")
		return Routed{}, false
	}
	routed.Module = m
	observability.Cache().OnCacheHit(ctx, "route")
	return routed, true
}

func (r *Runner) route(ctx context.Context, m *circuit.Module, a *graph.Arch, opts Options) (Routed, error) {
	router, err := newRouter(opts)
	if err != nil {
		return Routed{}, err
	}
	var initial *placement.Placement
	if opts.Initial != nil {
		if initial, err = placement.FromSlice(opts.Initial, a.Size()); err != nil {
			return Routed{}, err
		}
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	type outcome struct {
		res *route.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		if err := router.Preprocess(ctx, a); err != nil {
			done <- outcome{err: err}
			return
		}
		res, err := router.Route(m, a, initial)
		done <- outcome{res, err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out.err = ctx.Err()
	}
	if out.err != nil {
		if stderrors.Is(out.err, context.DeadlineExceeded) {
			return Routed{}, errors.Wrap(errors.ErrCodeTimeout, out.err, "routing did not finish within %s", opts.Timeout)
		}
		return Routed{}, out.err
	}
	return toRouted(out.res)
}

func newRouter(opts Options) (*route.Router, error) {
	finder, err := swap.New(opts.Finder, opts.ExactMaxVertices)
	if err != nil {
		return nil, err
	}
	est, err := estimate.New(opts.Estimator)
	if err != nil {
		return nil, err
	}
	proc, err := live.New(opts.Order, est)
	if err != nil {
		return nil, err
	}
	return route.New(route.Config{
		Finder:    finder,
		Estimator: est,
		Processor: proc,
		Logger:    opts.Logger,
		PinIdle:   opts.PinIdle,
	}), nil
}

func toRouted(res *route.Result) (Routed, error) {
	var text, report bytes.Buffer
	if err := circuit.WriteQASM(&text, res.Module); err != nil {
		return Routed{}, errors.Wrap(errors.ErrCodeInternal, err, "write routed circuit")
	}
	if err := res.Stats.Print(&report); err != nil {
		return Routed{}, errors.Wrap(errors.ErrCodeInternal, err, "write statistics")
	}
	return Routed{
		Module:  res.Module,
		QASM:    text.String(),
		Initial: res.Initial.Slice(),
		Final:   res.Final.Slice(),
		Swaps:   res.Swaps,
		Stats:   res.Stats.Snapshot(),
		Report:  report.String(),
	}, nil
}

func (r *Runner) summary(opts Options, m *circuit.Module, routed Routed, d time.Duration, hit bool) observability.RouteSummary {
	return observability.RouteSummary{
		Finder:    opts.Finder,
		Estimator: opts.Estimator,
		Order:     opts.Order,
		Qubits:    m.Qubits(),
		Gates:     int(routed.Stats[route.StatGates]),
		Swaps:     len(routed.Swaps),
		Depth:     int(routed.Stats[route.StatDepth]),
		Duration:  d,
		CacheHit:  hit,
	}
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
