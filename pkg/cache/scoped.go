package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments can
// share one Redis without colliding.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "vegabundle:v1:")
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
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SpecKey generates a prefixed key for parsed specs.
func (k *ScopedKeyer) SpecKey(rawHash string, opts SpecKeyOpts) string {
	return k.prefix + k.inner.SpecKey(rawHash, opts)
}

// BundleKey generates a prefixed key for compiled bundles.
func (k *ScopedKeyer) BundleKey(sourceHash string, opts BundleKeyOpts) string {
	return k.prefix + k.inner.BundleKey(sourceHash, opts)
}
