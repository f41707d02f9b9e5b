// Package config loads enfield.toml.
//
// A missing file is not an error: [Load] then returns [Default]. Values left
// out of the file keep their defaults, and command-line flags override both.
//
//	[router]
//	finder = "approx"          # approx | exact
//	estimator = "geo"          # hop | geo
//	order = "program"          # program | geo-nearest
//	exact_max_vertices = 8
//	pin_idle = false
//	timeout = "30s"
//
//	[cache]
//	backend = "file"           # file | redis | none
//	dir = ""                   # default: $XDG_CACHE_HOME/enfield
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[output]
//	formats = ["qasm"]         # qasm | json | dot | svg
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ysiraichi/enfield/pkg/cache"
	"github.com/ysiraichi/enfield/pkg/errors"
	"github.com/ysiraichi/enfield/pkg/pipeline"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "enfield.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the decoded configuration file.
type Config struct {
	Router Router `toml:"router"`
	Cache  Cache  `toml:"cache"`
	Output Output `toml:"output"`
}

// Router selects the routing components.
type Router struct {
	Finder           string   `toml:"finder"`
	Estimator        string   `toml:"estimator"`
	Order            string   `toml:"order"`
	ExactMaxVertices int      `toml:"exact_max_vertices"`
	PinIdle          bool     `toml:"pin_idle"`
	Timeout          Duration `toml:"timeout"`
}

// Cache selects the result cache backend.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// Output lists the artifacts written by default.
type Output struct {
	Formats []string `toml:"formats"`
}

// Duration is a time.Duration written as a string ("30s", "24h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Router: Router{
			Finder:           pipeline.DefaultFinder,
			Estimator:        pipeline.DefaultEstimator,
			Order:            pipeline.DefaultOrder,
			ExactMaxVertices: pipeline.DefaultExactMaxVertices,
			Timeout:          Duration{pipeline.DefaultTimeout},
		},
		Cache: Cache{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			TTL:       Duration{cache.DefaultTTL},
		},
		Output: Output{
			Formats: []string{pipeline.FormatQASM},
		},
	}
}

// Load reads path on top of [Default]. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return cfg, Decode(string(data), &cfg)
}

// Decode parses TOML text into cfg and validates the result. Keys the
// decoder does not know fail with INVALID_FORMAT so typos surface.
func Decode(text string, cfg *Config) error {
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse configuration")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown configuration key %q", undecoded[0].String())
	}
	return cfg.Validate()
}

// Validate checks every enumerated value.
func (c Config) Validate() error {
	opts := pipeline.Options{
		Finder:           c.Router.Finder,
		Estimator:        c.Router.Estimator,
		Order:            c.Router.Order,
		ExactMaxVertices: c.Router.ExactMaxVertices,
		Formats:          c.Output.Formats,
	}
	if err := opts.ValidateRouting(); err != nil {
		return err
	}
	if err := pipeline.ValidateFormats(c.Output.Formats); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Router.Timeout.Duration < 0 || c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "durations cannot be negative")
	}
	return nil
}

// Apply copies the router and output settings into opts, leaving fields
// the caller already set untouched.
func (c Config) Apply(opts *pipeline.Options) {
	if opts.Finder == "" {
		opts.Finder = c.Router.Finder
	}
	if opts.Estimator == "" {
		opts.Estimator = c.Router.Estimator
	}
	if opts.Order == "" {
		opts.Order = c.Router.Order
	}
	if opts.ExactMaxVertices == 0 {
		opts.ExactMaxVertices = c.Router.ExactMaxVertices
	}
	if opts.Timeout == 0 {
		opts.Timeout = c.Router.Timeout.Duration
	}
	if !opts.PinIdle {
		opts.PinIdle = c.Router.PinIdle
	}
	if len(opts.Formats) == 0 {
		opts.Formats = append([]string(nil), c.Output.Formats...)
	}
	if opts.TTL == 0 {
		opts.TTL = c.Cache.TTL.Duration
	}
}
