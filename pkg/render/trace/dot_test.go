package trace

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/almanac/pkg/core/interval"
	"github.com/matzehuels/almanac/pkg/core/remap"
	apperrors "github.com/matzehuels/almanac/pkg/errors"
)

func samplePipeline() *remap.Pipeline {
	return remap.NewPipeline(
		remap.NewStage("seed-to-soil", remap.MustRule(50, 98, 2), remap.MustRule(52, 50, 48)),
		remap.NewStage("soil-to-fertilizer", remap.MustRule(0, 15, 37)),
	)
}

func TestToDOT(t *testing.T) {
	p := samplePipeline()
	tr := p.Trace([]interval.Range{interval.New(90, 110)})

	dot, err := ToDOT(tr, Options{Title: "sample"})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}

	for _, want := range []string{
		"digraph trace {",
		`label="sample";`,
		`label="inputs";`,
		`label="seed-to-soil";`,
		`n0_0 [label="[90,110)"];`,
		`n1_0 [label="[50,52)"];`,
		`n0_0 -> n1_0 [label="#0"];`,
		`n0_0 -> n1_2 [label="id", style=dashed, color=grey50];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("DOT should end with a closing brace")
	}
}

func TestToDOTRuleLabels(t *testing.T) {
	p := samplePipeline()
	tr := p.Trace([]interval.Range{interval.New(98, 100)})

	dot, err := ToDOT(tr, Options{Pipeline: p})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}
	if !strings.Contains(dot, `[label="50 98 2"]`) {
		t.Errorf("expected rule text on edge:\n%s", dot)
	}
}

func TestToDOTMaxNodes(t *testing.T) {
	tr := samplePipeline().Trace([]interval.Range{interval.New(0, 200)})
	_, err := ToDOT(tr, Options{MaxNodes: 3})
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestEdges(t *testing.T) {
	inputs := []interval.Range{interval.New(0, 10), interval.New(20, 25)}
	pieces := []remap.Piece{
		{From: interval.New(0, 4), To: interval.New(100, 104), Rule: 0},
		{From: interval.New(4, 10), To: interval.New(4, 10), Rule: remap.Identity},
		{From: interval.New(20, 25), To: interval.New(20, 25), Rule: remap.Identity, Input: 1},
		{From: interval.New(20, 25), To: interval.New(20, 25), Rule: remap.Identity, Input: 7},
	}
	want := []edge{{0, 0}, {0, 1}, {1, 2}}
	if diff := cmp.Diff(want, edges(inputs, pieces), cmp.AllowUnexported(edge{})); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]string{"": FormatSVG, "DOT": FormatDOT, "svg": FormatSVG} {
		if got, err := ParseFormat(in); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("png"); err == nil {
		t.Error("ParseFormat(png) should fail")
	}
}

func TestRenderDOT(t *testing.T) {
	tr := samplePipeline().Trace([]interval.Range{interval.New(79, 93)})
	out, err := Render(context.Background(), tr, FormatDOT, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(string(out), "digraph trace {") {
		t.Errorf("unexpected output: %s", out)
	}
	if _, err := Render(context.Background(), tr, "pdf", Options{}); err == nil {
		t.Error("Render(pdf) should fail")
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	tr := samplePipeline().Trace([]interval.Range{interval.New(79, 93)})
	out, err := Render(context.Background(), tr, FormatSVG, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), "<svg") {
		t.Errorf("output is not SVG: %.200s", out)
	}
}

func TestToDOTOverlappingRules(t *testing.T) {
	// [0,10) and [5,15) overlap, so [0,20) yields two mapped pieces covering
	// [5,10) twice plus the identity remainder [15,20).
	p := remap.NewPipeline(remap.NewStage("a-to-b", remap.MustRule(100, 0, 10), remap.MustRule(205, 5, 10)))
	tr := p.Trace([]interval.Range{interval.New(0, 20), interval.New(50, 60)})

	wantInputs := []int{0, 0, 0, 1}
	var gotInputs []int
	for _, piece := range tr.Steps[0].Pieces {
		gotInputs = append(gotInputs, piece.Input)
	}
	if diff := cmp.Diff(wantInputs, gotInputs); diff != "" {
		t.Fatalf("piece inputs (-want +got):\n%s", diff)
	}

	dot, err := ToDOT(tr, Options{})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}
	for _, want := range []string{
		`n1_2 [label="[15,20)"];`,
		`n0_0 -> n1_0 [label="#0"];`,
		`n0_0 -> n1_1 [label="#1"];`,
		`n0_0 -> n1_2 [label="id", style=dashed, color=grey50];`,
		`n0_1 -> n1_3 [label="id", style=dashed, color=grey50];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "n0_1 -> n1_2") {
		t.Errorf("identity piece [15,20) attributed to [50,60):\n%s", dot)
	}
}
