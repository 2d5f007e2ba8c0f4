package remap

import (
	"slices"

	"github.com/matzehuels/almanac/pkg/core/interval"
)

// Pipeline is an ordered chain of stages. The zero value is the identity
// pipeline.
type Pipeline struct {
	stages []*Stage
}

// NewPipeline returns a pipeline applying stages in the given order.
func NewPipeline(stages ...*Stage) *Pipeline {
	return &Pipeline{stages: slices.Clone(stages)}
}

// Stages returns a copy of the stage list.
func (p *Pipeline) Stages() []*Stage { return slices.Clone(p.stages) }

// Len returns the number of stages.
func (p *Pipeline) Len() int { return len(p.stages) }

// Stage returns the first stage with the given name.
func (p *Pipeline) Stage(name string) (*Stage, bool) {
	for _, s := range p.stages {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// Apply pushes ranges through every stage, flat-mapping the collection at
// each step. Empty input ranges are dropped; an empty pipeline returns the
// non-empty inputs unchanged. The input slice is not modified.
func (p *Pipeline) Apply(ranges []interval.Range) []interval.Range {
	cur := interval.Compact(ranges)
	for _, s := range p.stages {
		cur = applyStage(s, cur)
	}
	return cur
}

// StageObserver is called by ApplyObserved after each stage with the number
// of ranges that went in and came out.
type StageObserver func(stage string, in, out int)

// ApplyObserved is Apply that reports every stage to observe. A nil observe
// behaves like Apply.
func (p *Pipeline) ApplyObserved(ranges []interval.Range, observe StageObserver) []interval.Range {
	cur := interval.Compact(ranges)
	for _, s := range p.stages {
		next := applyStage(s, cur)
		if observe != nil {
			observe(s.Name(), len(cur), len(next))
		}
		cur = next
	}
	return cur
}

func applyStage(s *Stage, in []interval.Range) []interval.Range {
	out := make([]interval.Range, 0, len(in))
	for _, r := range in {
		out = append(out, s.Apply(r)...)
	}
	return out
}

// MapPoint runs x through every stage's point mapping.
func (p *Pipeline) MapPoint(x int64) int64 {
	for _, s := range p.stages {
		x = s.MapPoint(x)
	}
	return x
}

// =============================================================================
// Tracing
// =============================================================================

// Step records what one stage did to the range collection.
type Step struct {
	Stage  string  // Stage name
	Pieces []Piece // Every piece produced, grouped by input range in input order; Piece.Input names the source
}

// Outputs returns the output ranges of the step, in order.
func (s Step) Outputs() []interval.Range {
	out := make([]interval.Range, len(s.Pieces))
	for i, p := range s.Pieces {
		out[i] = p.To
	}
	return out
}

// Mapped returns how many pieces were produced by a rule rather than identity.
func (s Step) Mapped() int {
	n := 0
	for _, p := range s.Pieces {
		if p.Mapped() {
			n++
		}
	}
	return n
}

// Trace is the full record of a pipeline run.
type Trace struct {
	Inputs []interval.Range
	Steps  []Step
}

// Outputs returns the final range collection, which equals Pipeline.Apply
// on the same inputs.
func (t Trace) Outputs() []interval.Range {
	if len(t.Steps) == 0 {
		return slices.Clone(t.Inputs)
	}
	return t.Steps[len(t.Steps)-1].Outputs()
}

// Trace is Apply with a per-stage record of every split.
func (p *Pipeline) Trace(ranges []interval.Range) Trace {
	t := Trace{Inputs: interval.Compact(ranges)}
	cur := t.Inputs
	for _, s := range p.stages {
		step := Step{Stage: s.Name()}
		for i, r := range cur {
			for _, piece := range s.ApplyDetailed(r) {
				piece.Input = i
				step.Pieces = append(step.Pieces, piece)
			}
		}
		t.Steps = append(t.Steps, step)
		cur = step.Outputs()
	}
	return t
}
