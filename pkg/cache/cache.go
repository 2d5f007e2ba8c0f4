// Package cache stores solve results between runs.
//
// # Backends
//
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, used by --no-cache
//
// # Keys
//
// Keys are produced by a [Keyer] so that callers never build key strings by
// hand. The default keyer hashes the almanac content together with every
// option that changes the answer:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.SolveKey(cache.Hash(input), cache.SolveKeyOpts{Mode: "range", Format: "text"})
//
// Wrap a keyer with [NewScopedKeyer] to isolate one namespace from another.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Get reports a miss with ok == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys for each kind of cached artifact.
type Keyer interface {
	// SolveKey identifies the minimum computed for an almanac.
	SolveKey(inputHash string, opts SolveKeyOpts) string
	// TraceKey identifies a rendered trace of an almanac.
	TraceKey(inputHash string, opts TraceKeyOpts) string
}

// SolveKeyOpts are the options that change a solve result. Format is the
// input format: the same bytes may parse as text and fail as TOML.
type SolveKeyOpts struct {
	Mode   string `json:"mode"`
	Format string `json:"format"`
}

// TraceKeyOpts are the options that change a rendered trace. Format is the
// input format, Output the diagram format.
type TraceKeyOpts struct {
	Mode   string `json:"mode"`
	Format string `json:"format"`
	Output string `json:"output"`
}

// Key prefixes, one per artifact kind.
const (
	solvePrefix = "solve"
	tracePrefix = "trace"
)

// DefaultKeyer is the unscoped Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SolveKey returns "solve:<sha256>" over the input hash and opts.
func (DefaultKeyer) SolveKey(inputHash string, opts SolveKeyOpts) string {
	return hashKey(solvePrefix, inputHash, opts)
}

// TraceKey returns "trace:<sha256>" over the input hash and opts.
func (DefaultKeyer) TraceKey(inputHash string, opts TraceKeyOpts) string {
	return hashKey(tracePrefix, inputHash, opts)
}
