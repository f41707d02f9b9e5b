package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get() = %q, %v, %v; want a miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	payload := bytes.Repeat([]byte("cx q[0], q[1];\n"), 64)
	if err := c.Set(ctx, "route:abc", payload, time.Hour); err != nil {
		t.Fatal(err)
	}
	got, hit, err := c.Get(ctx, "route:abc")
	if err != nil || !hit {
		t.Fatalf("Get() hit=%v err=%v", hit, err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("Get() returned different bytes")
	}

	raw, err := os.ReadFile(c.path("route:abc"))
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) >= len(payload) {
		t.Errorf("entry is %d bytes for a %d byte payload, want compression", len(raw), len(payload))
	}

	if err := c.Delete(ctx, "route:abc"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "route:abc"); hit {
		t.Error("hit after Delete")
	}
	if err := c.Delete(ctx, "route:abc"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiryAndCorruption(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, err := c.Get(ctx, "old"); hit || err != nil {
		t.Errorf("expired entry: hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(c.path("old")); !os.IsNotExist(err) {
		t.Error("expired entry was not removed")
	}

	if err := c.Set(ctx, "bad", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("bad"), []byte("not zstd"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}

	// Valid zstd frame, but shorter than the expiry header.
	if err := c.Set(ctx, "short", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("short"), encoder.EncodeAll([]byte("abc"), nil), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "short"); hit || err != nil {
		t.Errorf("truncated entry: hit=%v err=%v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("%s survived Clear", k)
		}
	}
	if err := c.Set(ctx, "a", []byte("a"), 0); err != nil {
		t.Errorf("Set after Clear: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := RouteKeyOpts{Finder: "approx", Estimator: "geo", Order: "program"}
	variants := []RouteKeyOpts{
		{Finder: "exact", Estimator: "geo", Order: "program"},
		{Finder: "approx", Estimator: "hop", Order: "program"},
		{Finder: "approx", Estimator: "geo", Order: "geo-nearest"},
		{Finder: "approx", Estimator: "geo", Order: "program", Initial: []int{1, 0}},
		{Finder: "approx", Estimator: "geo", Order: "program", PinIdle: true},
	}
	rk := k.RouteKey("c1", "a1", base)
	if rk != k.RouteKey("c1", "a1", base) {
		t.Error("RouteKey is not deterministic")
	}
	for _, v := range variants {
		if k.RouteKey("c1", "a1", v) == rk {
			t.Errorf("RouteKey ignores %+v", v)
		}
	}
	if k.RouteKey("c2", "a1", base) == rk || k.RouteKey("c1", "a2", base) == rk {
		t.Error("RouteKey ignores the content hashes")
	}

	ak1 := k.ArtifactKey("r", ArtifactKeyOpts{Format: "qasm"})
	ak2 := k.ArtifactKey("r", ArtifactKeyOpts{Format: "svg"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	for _, inner := range []Keyer{NewDefaultKeyer(), nil} {
		scoped := NewScopedKeyer(inner, "user:123:")
		want := "user:123:" + NewDefaultKeyer().RouteKey("c", "a", RouteKeyOpts{})
		if got := scoped.RouteKey("c", "a", RouteKeyOpts{}); got != want {
			t.Errorf("RouteKey() = %s, want %s", got, want)
		}
		ak := scoped.ArtifactKey("r", ArtifactKeyOpts{Format: "dot"})
		if len(ak) < 9 || ak[:9] != "user:123:" {
			t.Errorf("ArtifactKey should be prefixed: %s", ak)
		}
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}
	err := fmt.Errorf("get: %w", Retryable(ErrNetwork))
	if !IsRetryable(err) {
		t.Error("IsRetryable is false for a wrapped retryable error")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("retryable error hides its cause")
	}
	if IsRetryable(ErrNetwork) {
		t.Error("IsRetryable is true for an unmarked error")
	}
}

func TestBackoffRetry(t *testing.T) {
	b := Backoff{Attempts: 3, Delay: time.Millisecond, Max: 2 * time.Millisecond}
	errFatal := errors.New("fatal")

	tests := []struct {
		name      string
		fail      int // attempts that fail before success
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"first try", 0, true, 1, false},
		{"non-retryable", 5, false, 1, true},
		{"retry once", 1, true, 2, false},
		{"give up", 5, true, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := b.Retry(context.Background(), func() error {
				calls++
				if calls > tt.fail {
					return nil
				}
				if tt.retryable {
					return Retryable(ErrNetwork)
				}
				return errFatal
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond})
	if err == nil {
		t.Fatal("NewRedisCache to a closed port succeeded")
	}
	if !errors.Is(err, ErrNetwork) && !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want a network or deadline error", err)
	}
}
