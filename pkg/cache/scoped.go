package cache

// ScopedKeyer prefixes every key produced by an inner Keyer. The HTTP
// server uses it to keep its entries apart from the CLI's when both share
// one Redis database.
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "almanac:server:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner means the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SolveKey returns the prefixed solve key.
func (k *ScopedKeyer) SolveKey(inputHash string, opts SolveKeyOpts) string {
	return k.prefix + k.inner.SolveKey(inputHash, opts)
}

// TraceKey returns the prefixed trace key.
func (k *ScopedKeyer) TraceKey(inputHash string, opts TraceKeyOpts) string {
	return k.prefix + k.inner.TraceKey(inputHash, opts)
}
