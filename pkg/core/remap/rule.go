package remap

import (
	"errors"
	"fmt"
	"math"

	"github.com/matzehuels/almanac/pkg/core/interval"
	apperrors "github.com/matzehuels/almanac/pkg/errors"
)

var (
	// ErrInvalidRule is returned by [NewRule] when the length is not positive
	// or the source or destination domain would overflow int64.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrNoOutput is returned by [MinOutput] and [MinPoint] when the final
	// range collection is empty, e.g. because every input range was empty.
	ErrNoOutput = errors.New("no output ranges")
)

// Rule is one affine mapping on a contiguous sub-domain.
//
// The zero value is not usable; build rules with [NewRule].
type Rule struct {
	Source int64 // First integer of the domain
	Dest   int64 // Image of Source
	Length int64 // Size of the domain, always > 0
}

// NewRule builds a rule from the on-disk triple order
// (destination_start, source_start, length).
//
// It fails with an error wrapping [ErrInvalidRule] (code INVALID_RULE) when
// length <= 0 or when either end of the mapping does not fit in an int64.
func NewRule(dest, source, length int64) (Rule, error) {
	if length <= 0 {
		return Rule{}, apperrors.Wrap(apperrors.ErrCodeInvalidRule, ErrInvalidRule,
			"length must be positive, got %d (dest=%d source=%d)", length, dest, source)
	}
	if source > math.MaxInt64-length || dest > math.MaxInt64-length {
		return Rule{}, apperrors.Wrap(apperrors.ErrCodeInvalidRule, ErrInvalidRule,
			"domain overflows int64 (dest=%d source=%d length=%d)", dest, source, length)
	}
	return Rule{Source: source, Dest: dest, Length: length}, nil
}

// MustRule is like NewRule but panics on invalid input. It is intended for
// tests and static tables.
func MustRule(dest, source, length int64) Rule {
	r, err := NewRule(dest, source, length)
	if err != nil {
		panic(err)
	}
	return r
}

// Domain returns [Source, Source+Length).
func (r Rule) Domain() interval.Range {
	return interval.Range{Start: r.Source, End: r.Source + r.Length}
}

// Offset returns Dest - Source, the constant shift applied by the rule.
func (r Rule) Offset() int64 {
	return r.Dest - r.Source
}

// MapPoint maps x when Source <= x < Source+Length. The upper bound is
// exclusive: Source+Length itself does not match.
func (r Rule) MapPoint(x int64) (int64, bool) {
	if !r.Domain().Contains(x) {
		return 0, false
	}
	return r.Dest + (x - r.Source), true
}

// MapRange maps the part of in that lies inside the rule's domain. It
// reports false when in and the domain share no integer. The result is never
// wider than that overlap.
func (r Rule) MapRange(in interval.Range) (interval.Range, bool) {
	overlap := in.Intersect(r.Domain())
	if overlap.Empty() {
		return interval.Range{}, false
	}
	return overlap.Shift(r.Offset()), true
}

// String formats the rule in the on-disk order "dest source length".
func (r Rule) String() string {
	return fmt.Sprintf("%d %d %d", r.Dest, r.Source, r.Length)
}
