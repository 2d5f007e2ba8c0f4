// Package pipeline runs a complete solve: parse an almanac, push its seeds
// through every stage and report the lowest output value.
//
// The CLI and the HTTP server both go through [Runner] so that caching,
// logging and instrumentation behave the same everywhere.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input: data,
//	    Mode:  almanac.ModeRange,
//	})
//	fmt.Println(result.Min)
//
// Individual steps are available as plain functions:
//
//	a, err := pipeline.Parse(ctx, opts)
//	result, err := pipeline.Solve(ctx, a, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/almanac/pkg/almanac"
	"github.com/matzehuels/almanac/pkg/cache"
	"github.com/matzehuels/almanac/pkg/core/remap"
	apperrors "github.com/matzehuels/almanac/pkg/errors"
)

// DefaultTTL is how long solve results stay cached when no TTL is configured.
const DefaultTTL = 7 * 24 * time.Hour

// =============================================================================
// Options
// =============================================================================

// Options configures one solve. It decodes from API requests.
type Options struct {
	// Input is the almanac source.
	Input []byte `json:"-"`
	// Format of Input; empty means text.
	Format almanac.Format `json:"format,omitempty"`
	// Mode selects point or range reading of the seeds.
	Mode almanac.Mode `json:"mode,omitempty"`
	// Refresh ignores cached results but still stores the new one.
	Refresh bool `json:"refresh,omitempty"`
	// Trace records every split in Result.Trace. Traced runs skip the cache
	// lookup.
	Trace bool `json:"trace,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the input and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := apperrors.ValidateInputSize(o.Input); err != nil {
		return err
	}

	mode, err := almanac.ParseMode(string(o.Mode))
	if err != nil {
		return err
	}
	o.Mode = mode

	format, err := almanac.ParseFormat(string(o.Format))
	if err != nil {
		return err
	}
	o.Format = format

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SolveKeyOpts returns the cache key options for this solve.
func (o *Options) SolveKeyOpts() cache.SolveKeyOpts {
	return cache.SolveKeyOpts{Mode: string(o.Mode), Format: string(o.Format)}
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of one solve.
type Result struct {
	// RunID identifies this run in logs and API responses.
	RunID string
	// Min is the lowest value among all final ranges.
	Min int64
	// Mode the seeds were read in.
	Mode almanac.Mode
	// StageNames and StageCounts hold, per stage, the name and the number
	// of ranges it produced.
	StageNames  []string
	StageCounts []int
	// Trace is set only when Options.Trace was requested.
	Trace *remap.Trace
	// Pipeline is the parsed pipeline; nil on cache hits.
	Pipeline *remap.Pipeline

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds timing and size information.
type Stats struct {
	ParseTime time.Duration
	SolveTime time.Duration
	Stages    int
	Rules     int
	Inputs    int
	Outputs   int
}

// CacheInfo reports whether the result came from the cache.
type CacheInfo struct {
	Hit bool
	Key string
}
