package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/almanac/pkg/almanac"
	"github.com/matzehuels/almanac/pkg/core/interval"
	"github.com/matzehuels/almanac/pkg/core/remap"
	"github.com/matzehuels/almanac/pkg/observability"
)

// Solve runs a's seeds through its stages in opts.Mode and fills the
// solve-related fields of a new Result.
func Solve(ctx context.Context, a *almanac.Almanac, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	inputs, err := a.Inputs(opts.Mode)
	if err != nil {
		return nil, err
	}

	p := a.Pipeline()
	res := &Result{
		Mode:     opts.Mode,
		Pipeline: p,
		Stats:    Stats{Stages: p.Len(), Inputs: len(inputs)},
	}
	for _, s := range a.Stages {
		res.Stats.Rules += s.Len()
	}

	hooks := observability.Pipeline()
	hooks.OnSolveStart(ctx, string(opts.Mode), len(inputs))
	start := time.Now()

	record := func(stage string, in, out int) {
		res.StageNames = append(res.StageNames, stage)
		res.StageCounts = append(res.StageCounts, out)
		hooks.OnStageApplied(ctx, stage, in, out)
		opts.Logger.Debug("applied stage", "stage", stage, "in", in, "out", out)
	}

	var outputs []interval.Range
	if opts.Trace {
		tr := p.Trace(inputs)
		in := len(tr.Inputs)
		for _, step := range tr.Steps {
			record(step.Stage, in, len(step.Pieces))
			in = len(step.Pieces)
		}
		res.Trace = &tr
		outputs = tr.Outputs()
	} else {
		outputs = p.ApplyObserved(inputs, record)
	}

	res.Stats.Outputs = len(outputs)
	res.Min, err = remap.Lowest(outputs, len(inputs))
	res.Stats.SolveTime = time.Since(start)
	hooks.OnSolveComplete(ctx, string(opts.Mode), len(outputs), res.Stats.SolveTime, err)
	if err != nil {
		return nil, err
	}
	return res, nil
}
