package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants or encodings can
// share one backend. The CLI scopes keys by report encoding version:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SolveKey generates a prefixed solve key.
func (k *ScopedKeyer) SolveKey(nestHash string, opts SolveKeyOpts) string {
	return k.prefix + k.inner.SolveKey(nestHash, opts)
}

// RenderKey generates a prefixed render key.
func (k *ScopedKeyer) RenderKey(solveKey string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(solveKey, opts)
}
