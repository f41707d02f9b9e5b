// Package pipeline runs the complete load → route → render flow.
//
// The CLI and any embedding program share this package, so caching, timeouts
// and defaults behave the same everywhere.
//
// # Stages
//
//  1. Load: parse the circuit (OpenQASM 2) and resolve the device, either a
//     built-in name such as "ibmqx5" or "grid:3x4", or a description file
//  2. Route: insert swaps so every two-qubit gate acts on coupled qubits.
//     The result is cached under the circuit, device and router settings.
//  3. Render: produce the requested artifacts (qasm, json, dot, svg)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    CircuitPath: "qft.qasm",
//	    Arch:        "ibmqx5",
//	    Formats:     []string{"qasm", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Artifacts["qasm"])
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ysiraichi/enfield/pkg/cache"
	"github.com/ysiraichi/enfield/pkg/circuit"
	"github.com/ysiraichi/enfield/pkg/errors"
	"github.com/ysiraichi/enfield/pkg/estimate"
	"github.com/ysiraichi/enfield/pkg/graph"
	"github.com/ysiraichi/enfield/pkg/live"
	"github.com/ysiraichi/enfield/pkg/swap"
)

// Default values shared by the CLI and the configuration file.
const (
	DefaultFinder           = swap.NameApprox
	DefaultEstimator        = estimate.NameGeoDistance
	DefaultOrder            = live.NameProgram
	DefaultExactMaxVertices = swap.DefaultMaxVertices
	DefaultTimeout          = 30 * time.Second
)

// Output formats.
const (
	FormatQASM = "qasm"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatQASM: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

var (
	validFinders    = map[string]bool{swap.NameApprox: true, swap.NameExact: true}
	validEstimators = map[string]bool{estimate.NameHopCount: true, estimate.NameGeoDistance: true}
	validOrders     = map[string]bool{live.NameProgram: true, live.NameGeoNearest: true}
)

// Options configures one pipeline run.
type Options struct {
	// Circuit source: either CircuitPath or the QASM text in Circuit.
	// CircuitName labels Circuit in error messages.
	CircuitPath string `json:"circuit_path,omitempty"`
	Circuit     string `json:"circuit,omitempty"`
	CircuitName string `json:"circuit_name,omitempty"`

	// Arch is a built-in device name or a device description file.
	Arch string `json:"arch"`

	// Router options
	Finder           string        `json:"finder,omitempty"`
	Estimator        string        `json:"estimator,omitempty"`
	Order            string        `json:"order,omitempty"`
	ExactMaxVertices int           `json:"exact_max_vertices,omitempty"`
	Initial          []int         `json:"initial,omitempty"` // logical qubit -> vertex, -1 for unassigned
	PinIdle          bool          `json:"pin_idle,omitempty"`
	Timeout          time.Duration `json:"timeout,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	ExpandSwaps bool     `json:"expand_swaps,omitempty"` // write each swap as three cx gates

	// Cache options
	Refresh bool          `json:"refresh,omitempty"` // ignore cached results
	TTL     time.Duration `json:"ttl,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs.
	RunID string

	Circuit     *circuit.Module
	CircuitHash string
	Arch        *graph.Arch
	ArchHash    string

	Route Routed

	// Layers is the number of parallel layers of two-qubit gates in the
	// input circuit, a lower bound on the routed depth.
	Layers int

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline timings.
type Stats struct {
	LoadTime   time.Duration
	RouteTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	RouteHit  bool
	RenderHit bool // every artifact came from the cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: qasm, json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.CircuitPath == "" && o.Circuit == "" {
		return errors.New(errors.ErrCodeInvalidInput, "circuit path or circuit text is required")
	}
	if o.Arch == "" {
		return errors.New(errors.ErrCodeInvalidInput, "architecture is required")
	}
	o.SetRoutingDefaults()
	if err := o.ValidateRouting(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatQASM}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.TTL == 0 {
		o.TTL = cache.DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SetRoutingDefaults fills unset router options.
func (o *Options) SetRoutingDefaults() {
	if o.Finder == "" {
		o.Finder = DefaultFinder
	}
	if o.Estimator == "" {
		o.Estimator = DefaultEstimator
	}
	if o.Order == "" {
		o.Order = DefaultOrder
	}
	if o.ExactMaxVertices == 0 {
		o.ExactMaxVertices = DefaultExactMaxVertices
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
}

// ValidateRouting checks the router component names. Empty names are
// accepted and mean the default.
func (o *Options) ValidateRouting() error {
	if o.Finder != "" && !validFinders[o.Finder] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid finder: %q (must be one of: approx, exact)", o.Finder)
	}
	if o.Estimator != "" && !validEstimators[o.Estimator] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid estimator: %q (must be one of: hop, geo)", o.Estimator)
	}
	if o.Order != "" && !validOrders[o.Order] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid order: %q (must be one of: program, geo-nearest)", o.Order)
	}
	if o.ExactMaxVertices < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "exact_max_vertices cannot be negative")
	}
	if o.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "timeout cannot be negative")
	}
	return nil
}

// RouteKeyOpts returns the cache key options for routing.
func (o *Options) RouteKeyOpts() cache.RouteKeyOpts {
	return cache.RouteKeyOpts{
		Finder:           o.Finder,
		Estimator:        o.Estimator,
		Order:            o.Order,
		ExactMaxVertices: o.ExactMaxVertices,
		Initial:          o.Initial,
		PinIdle:          o.PinIdle,
	}
}

// ArtifactKeyOpts returns the cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, ExpandSwaps: o.ExpandSwaps && format == FormatQASM}
}
