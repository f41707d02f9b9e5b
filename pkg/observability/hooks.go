// Package observability provides hooks for metrics and tracing.
//
// Hooks are interfaces with no-op defaults. The binary registers real
// implementations at startup; library packages only call them:
//
//	observability.Route().OnRouteStart(ctx, circuitHash, archName)
//	// ... route ...
//	observability.Route().OnRouteComplete(ctx, circuitHash, archName, summary, err)
//
// Hooks keep the routing packages free of any metrics backend.
package observability

import (
	"context"
	"sync"
	"time"
)

// RouteSummary describes one finished routing run.
type RouteSummary struct {
	Finder    string
	Estimator string
	Order     string
	Qubits    int
	Gates     int
	Swaps     int
	Depth     int
	Duration  time.Duration
	CacheHit  bool
}

// RouteHooks receives events from the routing pipeline.
type RouteHooks interface {
	OnRouteStart(ctx context.Context, circuitHash, arch string)
	// OnRouteComplete is called once per run; summary is zero when err is set.
	OnRouteComplete(ctx context.Context, circuitHash, arch string, summary RouteSummary, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations. keyType is "route" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopRouteHooks is a no-op implementation of RouteHooks.
type NoopRouteHooks struct{}

func (NoopRouteHooks) OnRouteStart(context.Context, string, string) {}
func (NoopRouteHooks) OnRouteComplete(context.Context, string, string, RouteSummary, error) {
}
func (NoopRouteHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopRouteHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	routeHooks RouteHooks = NoopRouteHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetRouteHooks registers custom routing hooks. A nil h is ignored.
func SetRouteHooks(h RouteHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		routeHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Route returns the registered routing hooks.
func Route() RouteHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return routeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	routeHooks = NoopRouteHooks{}
	cacheHooks = NoopCacheHooks{}
}
