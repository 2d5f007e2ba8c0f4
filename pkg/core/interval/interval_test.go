package interval

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		start, end int64
		want       Range
	}{
		{"normal", 3, 7, Range{3, 7}},
		{"empty", 5, 5, Range{5, 5}},
		{"reversed clamps", 9, 2, Range{9, 9}},
		{"negative", -4, -1, Range{-4, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.start, tt.end); got != tt.want {
				t.Errorf("New(%d, %d) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestFromLength(t *testing.T) {
	if got := FromLength(79, 14); got != (Range{79, 93}) {
		t.Errorf("FromLength(79, 14) = %v, want [79,93)", got)
	}
	if got := FromLength(10, 0); !got.Empty() {
		t.Errorf("FromLength(10, 0) = %v, want empty", got)
	}
	if got := FromLength(10, -3); !got.Empty() {
		t.Errorf("FromLength(10, -3) = %v, want empty", got)
	}
}

func TestPoint(t *testing.T) {
	p := Point(42)
	if p.Len() != 1 || !p.Contains(42) || p.Contains(43) {
		t.Errorf("Point(42) = %v, want [42,43)", p)
	}
}

func TestContains(t *testing.T) {
	r := Range{50, 98}
	tests := []struct {
		x    int64
		want bool
	}{
		{49, false},
		{50, true},
		{97, true},
		{98, false}, // exclusive upper bound
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x); got != tt.want {
			t.Errorf("%v.Contains(%d) = %v, want %v", r, tt.x, got, tt.want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Range
		want bool
	}{
		{"disjoint", Range{0, 5}, Range{10, 20}, false},
		{"touching right edge", Range{0, 5}, Range{5, 10}, false},
		{"touching left edge", Range{5, 10}, Range{0, 5}, false},
		{"partial", Range{0, 6}, Range{5, 10}, true},
		{"contained", Range{0, 10}, Range{3, 4}, true},
		{"empty never overlaps", Range{3, 3}, Range{0, 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestIntersect(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Range
		want    Range
		wantLen int64
	}{
		{"overlap", Range{79, 93}, Range{50, 98}, Range{79, 93}, 14},
		{"partial", Range{0, 10}, Range{5, 20}, Range{5, 10}, 5},
		{"touching", Range{0, 5}, Range{5, 10}, Range{5, 5}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Intersect(tt.b)
			if got.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", got.Len(), tt.wantLen)
			}
			if tt.wantLen > 0 && got != tt.want {
				t.Errorf("Intersect = %v, want %v", got, tt.want)
			}
		})
	}

	if got := (Range{0, 5}).Intersect(Range{10, 20}); !got.Empty() {
		t.Errorf("disjoint Intersect = %v, want empty", got)
	}
}

func TestSubtract(t *testing.T) {
	tests := []struct {
		name string
		r, o Range
		want []Range
	}{
		{"miss", Range{0, 10}, Range{20, 30}, []Range{{0, 10}}},
		{"touching right", Range{0, 10}, Range{10, 20}, []Range{{0, 10}}},
		{"touching left", Range{10, 20}, Range{0, 10}, []Range{{10, 20}}},
		{"cover", Range{3, 7}, Range{0, 10}, nil},
		{"exact", Range{3, 7}, Range{3, 7}, nil},
		{"left edge", Range{0, 10}, Range{-5, 4}, []Range{{4, 10}}},
		{"right edge", Range{0, 10}, Range{6, 15}, []Range{{0, 6}}},
		{"inside", Range{0, 10}, Range{3, 5}, []Range{{0, 3}, {5, 10}}},
		{"empty window", Range{4, 4}, Range{0, 10}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.r.Subtract(tt.o)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Subtract mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestShift(t *testing.T) {
	if got := (Range{79, 93}).Shift(2); got != (Range{81, 95}) {
		t.Errorf("Shift(2) = %v, want [81,95)", got)
	}
	if got := (Range{98, 100}).Shift(-48); got != (Range{50, 52}) {
		t.Errorf("Shift(-48) = %v, want [50,52)", got)
	}
}

func TestString(t *testing.T) {
	if got := (Range{81, 95}).String(); got != "[81,95)" {
		t.Errorf("String() = %q, want %q", got, "[81,95)")
	}
}

func TestCollections(t *testing.T) {
	rs := []Range{{57, 70}, {46, 57}, {60, 60}, {46, 50}}

	if got := TotalLen(rs); got != 13+11+0+4 {
		t.Errorf("TotalLen = %d, want %d", got, 28)
	}

	want := []Range{{46, 50}, {46, 57}, {57, 70}, {60, 60}}
	if diff := cmp.Diff(want, SortByStart(rs)); diff != "" {
		t.Errorf("SortByStart mismatch (-want +got):\n%s", diff)
	}
	if rs[0] != (Range{57, 70}) {
		t.Error("SortByStart modified its input")
	}

	if got, ok := MinStart(rs); !ok || got != 46 {
		t.Errorf("MinStart = %d, %v; want 46, true", got, ok)
	}
	if _, ok := MinStart([]Range{{3, 3}}); ok {
		t.Error("MinStart over empty ranges should report !ok")
	}

	if got := Compact(rs); len(got) != 3 {
		t.Errorf("Compact kept %d ranges, want 3", len(got))
	}
}
