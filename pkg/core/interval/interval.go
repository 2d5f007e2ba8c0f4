// Package interval provides half-open integer ranges.
//
// A [Range] is the interval [Start, End) over int64. Ranges are plain values:
// every operation returns a new Range and never mutates its receiver. The
// arithmetic is exact integer arithmetic throughout; there are no inclusive
// bounds anywhere in this package.
//
// Ranges with Start == End are degenerate. They carry no values, and every
// operation that could produce one (Intersect, Subtract) reports it as empty
// so callers can drop it.
package interval

import (
	"fmt"
	"slices"
)

// Range is the half-open interval [Start, End).
//
// The zero value is the empty range [0, 0).
type Range struct {
	Start int64 // Inclusive lower bound
	End   int64 // Exclusive upper bound
}

// New returns the range [start, end). If end < start the result is the empty
// range at start.
func New(start, end int64) Range {
	if end < start {
		end = start
	}
	return Range{Start: start, End: end}
}

// FromLength returns the range [start, start+length).
// A non-positive length yields the empty range at start. start+length must
// not overflow int64.
func FromLength(start, length int64) Range {
	if length <= 0 {
		return Range{Start: start, End: start}
	}
	return Range{Start: start, End: start + length}
}

// Point returns the length-1 range [x, x+1). x must be below math.MaxInt64.
func Point(x int64) Range {
	return Range{Start: x, End: x + 1}
}

// Len returns the number of integers in r, or 0 for malformed ranges.
func (r Range) Len() int64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Empty reports whether r contains no integers.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Contains reports whether Start <= x < End.
func (r Range) Contains(x int64) bool {
	return r.Start <= x && x < r.End
}

// Overlaps reports whether r and o share at least one integer.
func (r Range) Overlaps(o Range) bool {
	return r.Start < o.End && o.Start < r.End && !r.Empty() && !o.Empty()
}

// Intersect returns the integers common to r and o. When they do not
// overlap the result is empty (Len() == 0) with unspecified bounds.
func (r Range) Intersect(o Range) Range {
	start := max(r.Start, o.Start)
	end := min(r.End, o.End)
	if end < start {
		end = start
	}
	return Range{Start: start, End: end}
}

// Subtract removes o from r and returns what is left: no windows if o covers
// r, one if o overlaps a single edge of r or misses it entirely, and two if o
// lies strictly inside r. Empty windows are never returned.
func (r Range) Subtract(o Range) []Range {
	if r.Empty() {
		return nil
	}
	if !r.Overlaps(o) {
		return []Range{r}
	}
	var out []Range
	if left := (Range{Start: r.Start, End: min(r.End, o.Start)}); !left.Empty() {
		out = append(out, left)
	}
	if right := (Range{Start: max(r.Start, o.End), End: r.End}); !right.Empty() {
		out = append(out, right)
	}
	return out
}

// Shift translates r by delta.
func (r Range) Shift(delta int64) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}

// String formats r as "[start,end)".
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// =============================================================================
// Collections
// =============================================================================

// TotalLen returns the summed length of rs. Overlapping ranges are counted
// once per range.
func TotalLen(rs []Range) int64 {
	var n int64
	for _, r := range rs {
		n += r.Len()
	}
	return n
}

// SortByStart returns a copy of rs ordered by Start, then End.
// The input slice is not modified.
func SortByStart(rs []Range) []Range {
	out := slices.Clone(rs)
	slices.SortFunc(out, Compare)
	return out
}

// Compare orders ranges by Start, then End. It is suitable for slices.SortFunc.
func Compare(a, b Range) int {
	switch {
	case a.Start < b.Start:
		return -1
	case a.Start > b.Start:
		return 1
	case a.End < b.End:
		return -1
	case a.End > b.End:
		return 1
	}
	return 0
}

// MinStart returns the smallest Start among the non-empty ranges in rs.
// ok is false when rs holds no non-empty range.
func MinStart(rs []Range) (start int64, ok bool) {
	for _, r := range rs {
		if r.Empty() {
			continue
		}
		if !ok || r.Start < start {
			start, ok = r.Start, true
		}
	}
	return start, ok
}

// Compact returns rs without its empty ranges. The input is not modified.
func Compact(rs []Range) []Range {
	out := make([]Range, 0, len(rs))
	for _, r := range rs {
		if !r.Empty() {
			out = append(out, r)
		}
	}
	return out
}
