package remap

import "github.com/matzehuels/almanac/pkg/core/interval"

// Identity is the Piece.Rule value for pieces that matched no rule.
const Identity = -1

// Piece is one output fragment of a split, with its provenance.
type Piece struct {
	From  interval.Range // Sub-range of the input that produced this piece
	To    interval.Range // Output range (From shifted by the rule's offset)
	Rule  int            // Index of the mapping rule, or Identity
	Input int            // Index of the input range within a traced step; 0 from SplitDetailed
}

// Mapped reports whether a rule (rather than the identity) produced the piece.
func (p Piece) Mapped() bool { return p.Rule != Identity }

// Split applies rules to in and returns the covering set of output ranges.
//
// Rule-covered parts come first, in rule order, already shifted. The
// uncovered remainder follows, unshifted, ordered by start. Empty pieces are
// never returned, so an empty input yields nil.
//
// When the rule domains are pairwise disjoint, every integer of in is mapped
// exactly once and the output lengths sum to in.Len().
func Split(in interval.Range, rules []Rule) []interval.Range {
	pieces := SplitDetailed(in, rules)
	if len(pieces) == 0 {
		return nil
	}
	out := make([]interval.Range, len(pieces))
	for i, p := range pieces {
		out[i] = p.To
	}
	return out
}

// SplitDetailed is Split with provenance: each piece records the input
// sub-range it came from and the rule that mapped it.
func SplitDetailed(in interval.Range, rules []Rule) []Piece {
	if in.Empty() {
		return nil
	}

	var pieces []Piece
	for i, rule := range rules {
		if to, ok := rule.MapRange(in); ok {
			pieces = append(pieces, Piece{
				From: in.Intersect(rule.Domain()),
				To:   to,
				Rule: i,
			})
		}
	}

	for _, w := range uncovered(in, rules) {
		pieces = append(pieces, Piece{From: w, To: w, Rule: Identity})
	}
	return pieces
}

// uncovered returns the windows of in that no rule domain touches.
//
// Each rule is subtracted from every window still present. A rule can split
// at most one window into two (windows are disjoint and the domain is
// contiguous, so only a window strictly containing it splits), which bounds
// the window count by len(rules)+1 and keeps the loop to one pass.
func uncovered(in interval.Range, rules []Rule) []interval.Range {
	windows := []interval.Range{in}
	for _, rule := range rules {
		if len(windows) == 0 {
			break
		}
		domain := rule.Domain()
		next := make([]interval.Range, 0, len(windows)+1)
		for _, w := range windows {
			next = append(next, w.Subtract(domain)...)
		}
		windows = next
	}
	return interval.SortByStart(windows)
}
