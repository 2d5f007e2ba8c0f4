// Package pkg provides the libraries behind almanac.
//
// # Overview
//
// Almanac pushes integer ranges through an ordered chain of remapping
// tables. Each table (a stage) holds rules "dest source length" that shift a
// window of values; anything no rule covers passes through unchanged. The
// answer to an almanac is the lowest value that leaves the last stage.
//
// The typical data flow:
//
//	almanac text or TOML
//	         ↓
//	    [almanac] package (seeds + stages)
//	         ↓
//	    [core/remap] package (split every range, stage by stage)
//	         ↓
//	    lowest output value, optionally a [render/trace] diagram
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/almanac/pkg/almanac"
//	    "github.com/matzehuels/almanac/pkg/core/remap"
//	)
//
//	a, _ := almanac.ParseFile("input.txt")
//	ranges, _ := a.Inputs(almanac.ModeRange)
//	lowest, _ := remap.MinOutput(ranges, a.Pipeline())
//
// # Main Packages
//
// ## Core Domain Logic
//
// [core/interval] - Half-open integer ranges [start, end) with intersection,
// subtraction and ordering.
//
// [core/remap] - Rules, stages and pipelines. [remap.Split] is the range
// splitter; [remap.Pipeline.Trace] records the provenance of every piece.
//
// ## Input
//
// [almanac] - Text and TOML readers, seed modes and category-chain checks.
//
// ## Orchestration
//
// [pipeline] - Parse, solve and cache in one call. Used by the CLI and the
// HTTP server so both behave the same way.
//
// [cache] - Result cache with file, Redis and null backends.
//
// [render/trace] - Graphviz diagrams of a traced solve.
//
// ## Support
//
// [config] - TOML configuration with environment overrides.
//
// [errors] - Coded errors shared by every layer.
//
// [observability] - Hooks for parse, solve, cache and HTTP events.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
//	go test ./pkg/...                # All tests
//	go test -short ./pkg/...         # Skip Graphviz rendering
//	go test -run Example ./pkg/...   # Examples only
//
// [core/interval]: https://pkg.go.dev/github.com/matzehuels/almanac/pkg/core/interval
// [core/remap]: https://pkg.go.dev/github.com/matzehuels/almanac/pkg/core/remap
// [almanac]: https://pkg.go.dev/github.com/matzehuels/almanac/pkg/almanac
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/almanac/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/almanac/pkg/cache
// [render/trace]: https://pkg.go.dev/github.com/matzehuels/almanac/pkg/render/trace
// [config]: https://pkg.go.dev/github.com/matzehuels/almanac/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/almanac/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/almanac/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/almanac/pkg/buildinfo
// [remap.Split]: https://pkg.go.dev/github.com/matzehuels/almanac/pkg/core/remap#Split
// [remap.Pipeline.Trace]: https://pkg.go.dev/github.com/matzehuels/almanac/pkg/core/remap#Pipeline.Trace
package pkg
