package remap

import (
	"slices"

	"github.com/matzehuels/almanac/pkg/core/interval"
)

// Stage is one remapping table: a set of rules, identity elsewhere.
//
// Rule order does not affect range mode when domains are disjoint. It is
// kept as given so that point mode's first-match behaviour and the rule
// indices reported in [Piece] are stable.
type Stage struct {
	name  string
	rules []Rule
}

// NewStage returns a stage holding a copy of rules. The name is informational
// (e.g. "seed-to-soil") and may be empty.
func NewStage(name string, rules ...Rule) *Stage {
	return &Stage{name: name, rules: slices.Clone(rules)}
}

// Name returns the stage name given to NewStage.
func (s *Stage) Name() string { return s.name }

// Len returns the number of rules.
func (s *Stage) Len() int { return len(s.rules) }

// Rules returns a copy of the stage's rules.
func (s *Stage) Rules() []Rule { return slices.Clone(s.rules) }

// Apply maps r through the stage. See [Split] for the output contract; an
// empty r yields an empty result.
func (s *Stage) Apply(r interval.Range) []interval.Range {
	return Split(r, s.rules)
}

// ApplyDetailed is Apply with provenance, see [SplitDetailed].
func (s *Stage) ApplyDetailed(r interval.Range) []Piece {
	return SplitDetailed(r, s.rules)
}

// MapPoint maps x with the first rule whose domain contains it, or returns x
// unchanged when none does.
func (s *Stage) MapPoint(x int64) int64 {
	for _, rule := range s.rules {
		if y, ok := rule.MapPoint(x); ok {
			return y
		}
	}
	return x
}

// Overlaps returns the index pairs (i < j) of rules whose domains overlap.
// A well-formed stage returns nil.
func (s *Stage) Overlaps() [][2]int {
	var pairs [][2]int
	for i := range s.rules {
		for j := i + 1; j < len(s.rules); j++ {
			if s.rules[i].Domain().Overlaps(s.rules[j].Domain()) {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}
