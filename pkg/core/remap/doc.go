// Package remap pushes integer ranges through chains of piecewise-affine
// remapping tables.
//
// # Model
//
// A [Rule] maps the domain [Source, Source+Length) onto
// [Dest, Dest+Length) by the constant offset Dest-Source. A [Stage] is a set
// of rules with the identity mapping implied everywhere no rule applies, so
// every stage is a total function on the integers. A [Pipeline] is an ordered
// list of stages: stage i's complete output is stage i+1's input.
//
// # Splitting
//
// The interesting work happens in [Split]. Given one input range and a
// stage's rules it returns a covering set of output ranges:
//
//  1. every rule maps the part of the input it covers
//  2. the remainder is tracked as a set of uncovered windows; each rule's
//     domain is subtracted from every window it touches, leaving zero, one
//     or two sub-windows
//  3. surviving windows pass through unchanged
//
// Tracking a set of windows (instead of shrinking a single one) is what lets
// a remainder that is interrupted by several rules keep all of its gaps.
//
// # Overlapping rules
//
// Rule domains within a stage are assumed to be pairwise disjoint; the
// package does not enforce it. When domains do overlap, range mode emits a
// mapped piece for every overlapping rule (so the output may cover more
// integers than the input), and point mode uses the first matching rule in
// iteration order. [MinPoint] goes through range mode, so under overlap it
// takes the minimum over every covering rule and can return less than the
// smallest [Pipeline.MapPoint]. [Stage.Overlaps] reports offending pairs for
// diagnostics.
//
// # Example
//
//	soil, _ := remap.NewRule(52, 50, 48)
//	stage := remap.NewStage("seed-to-soil", soil)
//	out := stage.Apply(interval.FromLength(79, 14)) // [[81,95)]
//
// Everything in this package is a pure function of its inputs. Values are
// immutable after construction and safe to share between goroutines.
package remap
