// Package stats collects named numeric metrics during a routing run.
//
// A [Pool] is owned by whoever produces the metrics (the router creates one
// per run) and printed once at the end. Metrics must be declared with
// [Pool.Add] before they are updated, which keeps every printed line tied
// to a description.
//
// The printed report lists one "value::name::description" line per non-zero
// metric, ordered by name, between two header lines:
//
//	 ==-------------- Stats --------------==
//	2::swaps::Number of swaps inserted
//	 ==-----------------------------------==
package stats

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/emirpasic/gods/maps/treemap"

	"github.com/ysiraichi/enfield/pkg/errors"
)

const (
	header = " ==-------------- Stats --------------=="
	footer = " ==-----------------------------------=="
)

type metric struct {
	desc  string
	value float64
}

// Pool is a set of named metrics. It is safe for concurrent use.
type Pool struct {
	mu      sync.RWMutex
	metrics *treemap.Map // name -> *metric
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{metrics: treemap.NewWithStringComparator()}
}

// Add declares a metric with value zero. Declaring a name twice fails with
// INVALID_INPUT.
func (p *Pool) Add(name, desc string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.metrics.Get(name); ok {
		return errors.New(errors.ErrCodeInvalidInput, "stat %q already defined", name)
	}
	p.metrics.Put(name, &metric{desc: desc})
	return nil
}

// Has reports whether name was declared.
func (p *Pool) Has(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.metrics.Get(name)
	return ok
}

// Inc adds delta to name. Undeclared names fail with NOT_FOUND.
func (p *Pool) Inc(name string, delta float64) error {
	return p.update(name, func(m *metric) { m.value += delta })
}

// Set overwrites the value of name.
func (p *Pool) Set(name string, value float64) error {
	return p.update(name, func(m *metric) { m.value = value })
}

// Max raises name to value if value is larger.
func (p *Pool) Max(name string, value float64) error {
	return p.update(name, func(m *metric) { m.value = max(m.value, value) })
}

func (p *Pool) update(name string, fn func(*metric)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.metrics.Get(name)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "stat %q not defined", name)
	}
	fn(m.(*metric))
	return nil
}

// Get returns the value of name.
func (p *Pool) Get(name string) (float64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	m, ok := p.metrics.Get(name)
	if !ok {
		return 0, false
	}
	return m.(*metric).value, true
}

// Description returns the description name was declared with.
func (p *Pool) Description(name string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if m, ok := p.metrics.Get(name); ok {
		return m.(*metric).desc
	}
	return ""
}

// Names returns every declared name in order.
func (p *Pool) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, p.metrics.Size())
	for _, k := range p.metrics.Keys() {
		out = append(out, k.(string))
	}
	return out
}

// Snapshot copies every value into a map.
func (p *Pool) Snapshot() map[string]float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]float64, p.metrics.Size())
	it := p.metrics.Iterator()
	for it.Next() {
		out[it.Key().(string)] = it.Value().(*metric).value
	}
	return out
}

// Print writes the report. Metrics still at zero are left out.
func (p *Pool) Print(w io.Writer) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, err := fmt.Fprintf(w, "\n%s\n", header); err != nil {
		return err
	}
	it := p.metrics.Iterator()
	for it.Next() {
		m := it.Value().(*metric)
		if m.value == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s::%s::%s\n", Format(m.value), it.Key(), m.desc); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, footer)
	return err
}

// Format renders a metric value without trailing zeros.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
