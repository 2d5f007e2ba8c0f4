// Package trace draws a [remap.Trace] as a Graphviz diagram.
//
// Each stage becomes one labelled row of boxes, one box per range. Edges run
// from every range to the pieces it was split into and carry the index of
// the rule that mapped the piece, or "id" for identity pieces.
//
//	tr := pipeline.Trace(inputs)
//	dot := trace.ToDOT(tr, trace.Options{})
//	svg, err := trace.RenderSVG(ctx, dot)
//
// The DOT source can also be written out and processed with external
// Graphviz tools. SVG rendering runs in process through
// [github.com/goccy/go-graphviz].
package trace
