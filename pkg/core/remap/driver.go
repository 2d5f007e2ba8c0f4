package remap

import (
	"github.com/matzehuels/almanac/pkg/core/interval"
	apperrors "github.com/matzehuels/almanac/pkg/errors"
)

// MinOutput runs ranges through p and returns the smallest Start among the
// resulting ranges.
//
// It fails with an error wrapping [ErrNoOutput] (code EMPTY_RESULT) when no
// non-empty range comes out, which happens only when no non-empty range went
// in.
func MinOutput(ranges []interval.Range, p *Pipeline) (int64, error) {
	if p == nil {
		p = NewPipeline()
	}
	return Lowest(p.Apply(ranges), len(ranges))
}

// Lowest returns the smallest Start among the non-empty ranges in outputs.
// inputs is the number of ranges that produced them and only appears in the
// EMPTY_RESULT error.
func Lowest(outputs []interval.Range, inputs int) (int64, error) {
	lo, ok := interval.MinStart(outputs)
	if !ok {
		return 0, apperrors.Wrap(apperrors.ErrCodeEmptyResult, ErrNoOutput,
			"%d input ranges produced no output", inputs)
	}
	return lo, nil
}

// MinPoint is the point-mode driver: every point is treated as a length-1
// range. With pairwise-disjoint rule domains the result equals the smallest
// p.MapPoint(x) over points. When domains overlap a point is mapped by every
// rule that covers it and the minimum is taken over all of them, whereas
// MapPoint follows only the first match, so the two can disagree.
func MinPoint(points []int64, p *Pipeline) (int64, error) {
	ranges := make([]interval.Range, len(points))
	for i, x := range points {
		ranges[i] = interval.Point(x)
	}
	return MinOutput(ranges, p)
}
