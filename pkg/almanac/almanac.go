// Package almanac reads remapping tables and seed lists into the types of
// [remap] and [interval].
//
// # Formats
//
// The text format is the one the tables are published in:
//
//	seeds: 79 14 55 13
//
//	seed-to-soil map:
//	50 98 2
//	52 50 48
//
// Each map block is a header "<from>-to-<to> map:" followed by one rule per
// line in (destination, source, length) order. Blank lines separate blocks.
//
// The TOML format carries the same data:
//
//	seeds = [79, 14, 55, 13]
//
//	[[stage]]
//	name  = "seed-to-soil"
//	rules = [[50, 98, 2], [52, 50, 48]]
//
// # Modes
//
// The seed list is read either as explicit points ([ModePoint]) or as
// (start, length) pairs ([ModeRange]).
package almanac

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/almanac/pkg/core/interval"
	"github.com/matzehuels/almanac/pkg/core/remap"
	apperrors "github.com/matzehuels/almanac/pkg/errors"
)

// Mode selects how the seed list is turned into input ranges.
type Mode string

const (
	// ModeRange reads seeds as (start, length) pairs.
	ModeRange Mode = "range"
	// ModePoint reads every seed as a single value.
	ModePoint Mode = "point"
)

// DefaultMode is used when no mode is given.
const DefaultMode = ModeRange

// ParseMode converts a flag or request value into a Mode. The empty string
// selects DefaultMode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultMode, nil
	case ModeRange:
		return ModeRange, nil
	case ModePoint:
		return ModePoint, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidMode, "invalid mode: %q (must be one of: range, point)", s)
}

// Almanac is a parsed seed list plus its ordered stages.
type Almanac struct {
	Seeds  []int64
	Stages []*remap.Stage
}

// Pipeline returns the stages as a pipeline, in file order.
func (a *Almanac) Pipeline() *remap.Pipeline {
	return remap.NewPipeline(a.Stages...)
}

// Points returns every seed as a length-1 range. A seed of math.MaxInt64 has
// no representable end and is an INVALID_ALMANAC error.
func (a *Almanac) Points() ([]interval.Range, error) {
	out := make([]interval.Range, len(a.Seeds))
	for i, s := range a.Seeds {
		if s == math.MaxInt64 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidAlmanac,
				"seed %d (%d) overflows int64", i+1, s)
		}
		out[i] = interval.Point(s)
	}
	return out, nil
}

// Ranges reads the seeds as (start, length) pairs. An odd number of seeds, a
// negative length or a pair whose end overflows int64 is an INVALID_ALMANAC
// error; zero lengths are kept and later dropped by the pipeline.
func (a *Almanac) Ranges() ([]interval.Range, error) {
	if len(a.Seeds)%2 != 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidAlmanac,
			"range mode needs (start, length) pairs, got %d seeds", len(a.Seeds))
	}
	out := make([]interval.Range, 0, len(a.Seeds)/2)
	for i := 0; i < len(a.Seeds); i += 2 {
		start, length := a.Seeds[i], a.Seeds[i+1]
		if length < 0 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidAlmanac,
				"seed pair %d has negative length %d", i/2+1, length)
		}
		if start > math.MaxInt64-length {
			return nil, apperrors.New(apperrors.ErrCodeInvalidAlmanac,
				"seed pair %d (%d %d) overflows int64", i/2+1, start, length)
		}
		out = append(out, interval.FromLength(start, length))
	}
	return out, nil
}

// Inputs returns the input ranges for mode.
func (a *Almanac) Inputs(mode Mode) ([]interval.Range, error) {
	switch mode {
	case ModePoint:
		return a.Points()
	case ModeRange, "":
		return a.Ranges()
	}
	return nil, apperrors.New(apperrors.ErrCodeInvalidMode, "invalid mode: %q", mode)
}

// Validate checks the category chain: every stage named "<from>-to-<to>"
// must start where the previous one ended. Unnamed stages and names outside
// that pattern are not checked. The core never requires this; callers
// typically log the result as a warning.
func (a *Almanac) Validate() error {
	var prevTo, prevName string
	for _, s := range a.Stages {
		from, to, ok := Category(s.Name())
		if !ok {
			prevTo, prevName = "", ""
			continue
		}
		if prevTo != "" && from != prevTo {
			return apperrors.New(apperrors.ErrCodeInvalidAlmanac,
				"stage %q does not follow %q (expected %s-to-...)", s.Name(), prevName, prevTo)
		}
		prevTo, prevName = to, s.Name()
	}
	return nil
}

// Overlaps lists, per stage name, the rule index pairs whose domains overlap.
func (a *Almanac) Overlaps() map[string][][2]int {
	var out map[string][][2]int
	for _, s := range a.Stages {
		if pairs := s.Overlaps(); len(pairs) > 0 {
			if out == nil {
				out = make(map[string][][2]int)
			}
			out[s.Name()] = pairs
		}
	}
	return out
}

// Category splits a stage name "<from>-to-<to>" into its categories.
func Category(name string) (from, to string, ok bool) {
	from, to, ok = strings.Cut(name, "-to-")
	if !ok || from == "" || to == "" || strings.Contains(to, "-to-") {
		return "", "", false
	}
	return from, to, true
}

// String summarises the almanac for logs.
func (a *Almanac) String() string {
	names := make([]string, len(a.Stages))
	for i, s := range a.Stages {
		names[i] = s.Name()
	}
	return fmt.Sprintf("%d seeds, %d stages [%s]", len(a.Seeds), len(a.Stages), strings.Join(names, " → "))
}
