// Package pass memoises analyses over circuits.
//
// A [Pass] computes a value from a [circuit.Module]. A [Cache] stores each
// result under the module's fingerprint and the pass ID, so running the
// same pass on an unchanged module is free and any change to the module
// (which changes its fingerprint) misses. Results are shared: callers must
// treat them as read-only.
package pass

import (
	"sync"

	"github.com/ysiraichi/enfield/pkg/circuit"
	"github.com/ysiraichi/enfield/pkg/errors"
)

// Pass is one analysis.
type Pass[T any] interface {
	// ID names the pass. Two passes with the same ID must compute the
	// same thing.
	ID() string
	Run(m *circuit.Module) (T, error)
}

// Func adapts a function to [Pass].
type Func[T any] struct {
	Name string
	Fn   func(m *circuit.Module) (T, error)
}

// ID returns f.Name.
func (f Func[T]) ID() string { return f.Name }

// Run calls f.Fn.
func (f Func[T]) Run(m *circuit.Module) (T, error) { return f.Fn(m) }

// Cache holds pass results per module fingerprint. It is safe for
// concurrent use.
type Cache struct {
	mu      sync.Mutex
	results map[string]map[string]any // fingerprint -> pass ID -> result
	hits    int
	misses  int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{results: make(map[string]map[string]any)}
}

// Get returns p's result for m, running p on a miss. Failed runs are not
// cached.
func Get[T any](c *Cache, m *circuit.Module, p Pass[T]) (T, error) {
	key := m.Fingerprint()

	c.mu.Lock()
	if v, ok := c.results[key][p.ID()]; ok {
		c.hits++
		c.mu.Unlock()
		t, ok := v.(T)
		if !ok {
			var zero T
			return zero, errors.New(errors.ErrCodeInternal, "pass %q cached a %T", p.ID(), v)
		}
		return t, nil
	}
	c.misses++
	c.mu.Unlock()

	v, err := p.Run(m)
	if err != nil {
		return v, errors.Wrap(errors.GetCode(err), err, "pass %s", p.ID())
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.results[key] == nil {
		c.results[key] = make(map[string]any)
	}
	c.results[key][p.ID()] = v
	return v, nil
}

// Invalidate drops every result computed for m.
func (c *Cache) Invalidate(m *circuit.Module) {
	key := m.Fingerprint()
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.results, key)
}

// Clear drops every result.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = make(map[string]map[string]any)
}

// Stats returns the number of hits and misses so far.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
