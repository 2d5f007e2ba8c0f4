package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/almanac/pkg/almanac"
	"github.com/matzehuels/almanac/pkg/cache"
	"github.com/matzehuels/almanac/pkg/observability"
	"github.com/matzehuels/almanac/pkg/render/trace"
)

// Key types reported to cache hooks.
const (
	keyTypeSolve = "solve"
	keyTypeTrace = "trace"
)

// Runner executes solves with caching. It holds no per-run state and is
// safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL for stored results; zero means DefaultTTL.
	TTL time.Duration
}

// NewRunner returns a Runner. A nil cache disables caching, a nil keyer
// uses the default keyer and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// cachedSolve is the cache payload for a solve.
type cachedSolve struct {
	Min         int64    `json:"min"`
	Mode        string   `json:"mode"`
	StageNames  []string `json:"stage_names"`
	StageCounts []int    `json:"stage_counts"`
	Stages      int      `json:"stages"`
	Rules       int      `json:"rules"`
	Inputs      int      `json:"inputs"`
	Outputs     int      `json:"outputs"`
}

// Execute parses opts.Input, solves it and caches the answer under the
// input's content hash and mode.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	logger := opts.Logger.With("run", runID[:8])
	opts.Logger = logger

	key := r.Keyer.SolveKey(cache.Hash(opts.Input), opts.SolveKeyOpts())

	if !opts.Refresh && !opts.Trace {
		if res, ok := r.lookup(ctx, key); ok {
			res.RunID = runID
			logger.Info("cache hit", "min", res.Min, "mode", res.Mode)
			return res, nil
		}
	}

	parseStart := time.Now()
	a, err := Parse(ctx, opts)
	if err != nil {
		return nil, err
	}
	parseTime := time.Since(parseStart)
	logger.Info("parsed almanac", "seeds", len(a.Seeds), "stages", len(a.Stages), "duration", parseTime)

	res, err := Solve(ctx, a, opts)
	if err != nil {
		return nil, err
	}
	res.RunID = runID
	res.Stats.ParseTime = parseTime
	res.CacheInfo.Key = key
	logger.Info("solved",
		"min", res.Min,
		"mode", res.Mode,
		"inputs", res.Stats.Inputs,
		"outputs", res.Stats.Outputs,
		"duration", res.Stats.SolveTime)

	r.store(ctx, key, keyTypeSolve, r.encode(res))
	return res, nil
}

// RenderTrace returns the trace diagram of opts.Input in format (see
// [trace.ParseFormat]). Rendered diagrams are cached separately from solve
// results. The bool reports a cache hit.
func (r *Runner) RenderTrace(ctx context.Context, opts Options, format string, topts trace.Options) ([]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	format, err := trace.ParseFormat(format)
	if err != nil {
		return nil, false, err
	}

	key := r.Keyer.TraceKey(cache.Hash(opts.Input), cache.TraceKeyOpts{
		Mode:   string(opts.Mode),
		Format: string(opts.Format),
		Output: format,
	})
	if !opts.Refresh {
		if data, ok := r.get(ctx, key, keyTypeTrace); ok {
			return data, true, nil
		}
	}

	opts.Trace = true
	res, err := r.Execute(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	if topts.Pipeline == nil {
		topts.Pipeline = res.Pipeline
	}
	out, err := trace.Render(ctx, *res.Trace, format, topts)
	if err != nil {
		return nil, false, err
	}
	r.store(ctx, key, keyTypeTrace, out)
	return out, false, nil
}

// Close closes the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) lookup(ctx context.Context, key string) (*Result, bool) {
	data, ok := r.get(ctx, key, keyTypeSolve)
	if !ok {
		return nil, false
	}
	var c cachedSolve
	if err := json.Unmarshal(data, &c); err != nil {
		r.Logger.Warn("dropping unreadable cache entry", "key", key, "err", err)
		_ = r.Cache.Delete(ctx, key)
		return nil, false
	}
	return &Result{
		Min:         c.Min,
		Mode:        almanac.Mode(c.Mode),
		StageNames:  c.StageNames,
		StageCounts: c.StageCounts,
		Stats: Stats{
			Stages:  c.Stages,
			Rules:   c.Rules,
			Inputs:  c.Inputs,
			Outputs: c.Outputs,
		},
		CacheInfo: CacheInfo{Hit: true, Key: key},
	}, true
}

func (r *Runner) encode(res *Result) []byte {
	data, _ := json.Marshal(cachedSolve{
		Min:         res.Min,
		Mode:        string(res.Mode),
		StageNames:  res.StageNames,
		StageCounts: res.StageCounts,
		Stages:      res.Stats.Stages,
		Rules:       res.Stats.Rules,
		Inputs:      res.Stats.Inputs,
		Outputs:     res.Stats.Outputs,
	})
	return data
}

// get reads key and reports the outcome to the cache hooks. Backend errors
// count as misses.
func (r *Runner) get(ctx context.Context, key, keyType string) ([]byte, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
	}
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, keyType)
		return nil, false
	}
	hooks.OnCacheHit(ctx, keyType)
	return data, true
}

// store writes data under key, retrying transient backend failures. A
// failed write is logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, key, keyType string, data []byte) {
	ttl := r.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	err := cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, ttl)
	})
	if err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger gives opts the runner's logger when it has none.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
