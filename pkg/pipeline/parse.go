package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/almanac/pkg/almanac"
	"github.com/matzehuels/almanac/pkg/observability"
)

// Parse decodes opts.Input. Broken category chains and overlapping rules are
// logged as warnings; neither stops the solve.
func Parse(ctx context.Context, opts Options) (*almanac.Almanac, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, string(opts.Format))

	start := time.Now()
	a, err := almanac.ParseBytes(opts.Input, opts.Format)
	stages := 0
	if a != nil {
		stages = len(a.Stages)
	}
	hooks.OnParseComplete(ctx, string(opts.Format), stages, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if err := a.Validate(); err != nil {
		opts.Logger.Warn("category chain is broken", "err", err)
	}
	for stage, pairs := range a.Overlaps() {
		opts.Logger.Warn("overlapping rules", "stage", stage, "pairs", pairs)
	}
	opts.Logger.Debug("parsed almanac", "summary", a.String())
	return a, nil
}
