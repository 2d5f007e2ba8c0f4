package remap

import (
	"errors"
	"math"
	"testing"

	"github.com/matzehuels/almanac/pkg/core/interval"
	apperrors "github.com/matzehuels/almanac/pkg/errors"
)

func TestNewRule(t *testing.T) {
	r, err := NewRule(52, 50, 48)
	if err != nil {
		t.Fatalf("NewRule: %v", err)
	}
	if r.Source != 50 || r.Dest != 52 || r.Length != 48 {
		t.Errorf("NewRule(52, 50, 48) = %+v, want Source=50 Dest=52 Length=48", r)
	}
	if r.Offset() != 2 {
		t.Errorf("Offset() = %d, want 2", r.Offset())
	}
	if r.Domain() != (interval.Range{Start: 50, End: 98}) {
		t.Errorf("Domain() = %v, want [50,98)", r.Domain())
	}
	if r.String() != "52 50 48" {
		t.Errorf("String() = %q, want %q", r.String(), "52 50 48")
	}
}

func TestNewRuleInvalid(t *testing.T) {
	tests := []struct {
		name                 string
		dest, source, length int64
	}{
		{"zero length", 10, 20, 0},
		{"negative length", 10, 20, -5},
		{"source overflow", 0, math.MaxInt64 - 1, 5},
		{"dest overflow", math.MaxInt64, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRule(tt.dest, tt.source, tt.length)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidRule) {
				t.Errorf("errors.Is(err, ErrInvalidRule) = false for %v", err)
			}
			if !apperrors.Is(err, apperrors.ErrCodeInvalidRule) {
				t.Errorf("code = %v, want %v", apperrors.GetCode(err), apperrors.ErrCodeInvalidRule)
			}
		})
	}
}

func TestMustRulePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustRule with zero length should panic")
		}
	}()
	MustRule(1, 2, 0)
}

func TestRuleMapPointBoundary(t *testing.T) {
	r := MustRule(52, 50, 48)
	tests := []struct {
		x      int64
		want   int64
		wantOK bool
	}{
		{49, 0, false},
		{50, 52, true},
		{79, 81, true},
		{97, 99, true},
		{98, 0, false}, // first excluded point
	}

	for _, tt := range tests {
		got, ok := r.MapPoint(tt.x)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("MapPoint(%d) = %d, %v; want %d, %v", tt.x, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRuleMapRange(t *testing.T) {
	r := MustRule(52, 50, 48) // [50,98) -> [52,100)
	tests := []struct {
		name   string
		in     interval.Range
		want   interval.Range
		wantOK bool
	}{
		{"inside", interval.Range{Start: 79, End: 93}, interval.Range{Start: 81, End: 95}, true},
		{"left overhang", interval.Range{Start: 40, End: 60}, interval.Range{Start: 52, End: 62}, true},
		{"right overhang", interval.Range{Start: 90, End: 120}, interval.Range{Start: 92, End: 100}, true},
		{"covering", interval.Range{Start: 0, End: 200}, interval.Range{Start: 52, End: 100}, true},
		{"ends at source", interval.Range{Start: 40, End: 50}, interval.Range{}, false},
		{"starts at end", interval.Range{Start: 98, End: 110}, interval.Range{}, false},
		{"empty", interval.Range{Start: 60, End: 60}, interval.Range{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.MapRange(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("MapRange(%v) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("MapRange(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if ok && got.Len() > tt.in.Len() {
				t.Errorf("MapRange(%v) wider than input: %v", tt.in, got)
			}
		})
	}
}

func TestRulePointRangeConsistency(t *testing.T) {
	rules := []Rule{
		MustRule(52, 50, 48),
		MustRule(50, 98, 2),
		MustRule(0, 15, 37),
		MustRule(-10, 5, 3),
	}

	for _, r := range rules {
		for x := int64(-20); x < 120; x++ {
			p, pok := r.MapPoint(x)
			rr, rok := r.MapRange(interval.Point(x))
			if pok != rok {
				t.Fatalf("rule %v at %d: MapPoint ok=%v, MapRange ok=%v", r, x, pok, rok)
			}
			if pok && p != rr.Start {
				t.Fatalf("rule %v at %d: MapPoint=%d, MapRange start=%d", r, x, p, rr.Start)
			}
		}
	}
}
