package trace

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/almanac/pkg/core/interval"
	"github.com/matzehuels/almanac/pkg/core/remap"
	apperrors "github.com/matzehuels/almanac/pkg/errors"
)

// Output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// DefaultMaxNodes bounds the diagram size when Options.MaxNodes is zero.
const DefaultMaxNodes = 2000

// Options configures diagram generation.
type Options struct {
	// Title is drawn above the diagram when set.
	Title string
	// Pipeline, when set, labels mapped edges with the rule text
	// ("dest source length") instead of the rule index.
	Pipeline *remap.Pipeline
	// MaxNodes caps the number of boxes; ToDOT fails beyond it.
	MaxNodes int
}

// ParseFormat validates a format name.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case FormatDOT, FormatSVG:
		return f, nil
	case "":
		return FormatSVG, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidInput, "invalid trace format: %q (must be one of: dot, svg)", s)
}

// ToDOT converts tr to Graphviz DOT.
func ToDOT(tr remap.Trace, opts Options) (string, error) {
	if opts.MaxNodes == 0 {
		opts.MaxNodes = DefaultMaxNodes
	}
	if n := nodeCount(tr); n > opts.MaxNodes {
		return "", apperrors.New(apperrors.ErrCodeInvalidInput,
			"trace has %d ranges, more than the limit of %d", n, opts.MaxNodes)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph trace {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  labelloc=t;\n  label=%q;\n", opts.Title)
	}

	writeRow(&buf, 0, "inputs", tr.Inputs)
	for i, step := range tr.Steps {
		writeRow(&buf, i+1, step.Stage, step.Outputs())
	}

	var stages []*remap.Stage
	if opts.Pipeline != nil {
		stages = opts.Pipeline.Stages()
	}

	prev := tr.Inputs
	for i, step := range tr.Steps {
		var rules []remap.Rule
		if i < len(stages) {
			rules = stages[i].Rules()
		}
		for _, e := range edges(prev, step.Pieces) {
			p := step.Pieces[e.piece]
			attrs := []string{fmt.Sprintf("label=%q", edgeLabel(p, rules))}
			if !p.Mapped() {
				attrs = append(attrs, "style=dashed", "color=grey50")
			}
			fmt.Fprintf(&buf, "  %s -> %s [%s];\n", nodeID(i, e.from), nodeID(i+1, e.piece), strings.Join(attrs, ", "))
		}
		prev = step.Outputs()
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func writeRow(buf *bytes.Buffer, level int, label string, ranges []interval.Range) {
	if label == "" {
		label = fmt.Sprintf("stage %d", level)
	}
	fmt.Fprintf(buf, "\n  subgraph cluster_%d {\n", level)
	fmt.Fprintf(buf, "    label=%q;\n    style=dashed;\n    color=grey70;\n", label)
	for i, r := range ranges {
		fmt.Fprintf(buf, "    %s [label=%q];\n", nodeID(level, i), r.String())
	}
	buf.WriteString("  }\n")
}

func nodeID(level, i int) string {
	return fmt.Sprintf("n%d_%d", level, i)
}

func edgeLabel(p remap.Piece, rules []remap.Rule) string {
	if !p.Mapped() {
		return "id"
	}
	if p.Rule < len(rules) {
		return rules[p.Rule].String()
	}
	return fmt.Sprintf("#%d", p.Rule)
}

type edge struct{ from, piece int }

// edges pairs every piece with the input it was cut from. Overlapping rules
// can cut several pieces from the same part of one input, so the pairing
// comes from Piece.Input rather than from piece lengths.
func edges(inputs []interval.Range, pieces []remap.Piece) []edge {
	out := make([]edge, 0, len(pieces))
	for i, p := range pieces {
		if p.Input < 0 || p.Input >= len(inputs) {
			continue
		}
		out = append(out, edge{from: p.Input, piece: i})
	}
	return out
}

func nodeCount(tr remap.Trace) int {
	n := len(tr.Inputs)
	for _, s := range tr.Steps {
		n += len(s.Pieces)
	}
	return n
}

// RenderSVG lays out dot with Graphviz and returns the SVG document.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// Render produces tr in format (FormatDOT or FormatSVG).
func Render(ctx context.Context, tr remap.Trace, format string, opts Options) ([]byte, error) {
	dot, err := ToDOT(tr, opts)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return RenderSVG(ctx, dot)
	}
	return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid trace format: %q", format)
}
