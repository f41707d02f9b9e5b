package cache

// ScopedKeyer wraps a Keyer with a prefix so several users or projects can
// share one backend:
//
//	shared := NewScopedKeyer(NewDefaultKeyer(), "project:qft:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RouteKey generates a prefixed routing key.
func (k *ScopedKeyer) RouteKey(circuitHash, archHash string, opts RouteKeyOpts) string {
	return k.prefix + k.inner.RouteKey(circuitHash, archHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(routeHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(routeHash, opts)
}
