package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRouteHooks{}
	r.OnRouteStart(ctx, "abc", "ibmqx2")
	r.OnRouteComplete(ctx, "abc", "ibmqx2", RouteSummary{Swaps: 3}, nil)
	r.OnRenderStart(ctx, []string{"qasm"})
	r.OnRenderComplete(ctx, []string{"qasm"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "route")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "route", 1024)
}

type recordingRouteHooks struct {
	NoopRouteHooks
	started, completed int
}

func (h *recordingRouteHooks) OnRouteStart(context.Context, string, string) { h.started++ }
func (h *recordingRouteHooks) OnRouteComplete(context.Context, string, string, RouteSummary, error) {
	h.completed++
}

type recordingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *recordingCacheHooks) OnCacheHit(context.Context, string) { h.hits++ }

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Route().(NoopRouteHooks); !ok {
		t.Error("Route() should return NoopRouteHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	rh := &recordingRouteHooks{}
	ch := &recordingCacheHooks{}
	SetRouteHooks(rh)
	SetCacheHooks(ch)
	SetRouteHooks(nil)

	ctx := context.Background()
	Route().OnRouteStart(ctx, "abc", "ibmqx2")
	Route().OnRouteComplete(ctx, "abc", "ibmqx2", RouteSummary{}, nil)
	Cache().OnCacheHit(ctx, "route")

	if rh.started != 1 || rh.completed != 1 {
		t.Errorf("route hooks: started=%d completed=%d", rh.started, rh.completed)
	}
	if ch.hits != 1 {
		t.Errorf("cache hits = %d", ch.hits)
	}

	Reset()
	if _, ok := Route().(NoopRouteHooks); !ok {
		t.Error("Reset() should restore NoopRouteHooks")
	}
}
