package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/almanac/pkg/errors"
	"github.com/matzehuels/almanac/pkg/pipeline"
	"github.com/matzehuels/almanac/pkg/render/trace"
)

type traceOpts struct {
	output   string
	mode     string
	format   string
	title    string
	maxNodes int
	noCache  bool
	refresh  bool
}

func (c *CLI) traceCommand() *cobra.Command {
	var opts traceOpts

	cmd := &cobra.Command{
		Use:   "trace <file>",
		Short: "Draw every split of a solve as SVG or DOT",
		Long: `Trace runs a solve and records how each range splits at every stage.
The result is drawn as a Graphviz diagram with one row per stage; edges are
labelled with the rule that mapped them, or "id" for pass-through pieces.

The output format follows the extension of --output (.svg or .dot). Without
--output, DOT is written to stdout.`,
		Example: `  almanac trace input.txt -o trace.svg
  almanac trace --mode point input.txt | dot -Tpng > trace.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTrace(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.svg or .dot)")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "seed mode: range or point (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "input format: text or toml (default by extension)")
	cmd.Flags().StringVar(&opts.title, "title", "", "diagram title")
	cmd.Flags().IntVar(&opts.maxNodes, "max-nodes", trace.DefaultMaxNodes, "refuse to draw more boxes than this")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render and overwrite the cached diagram")

	return cmd
}

func (c *CLI) runTrace(cmd *cobra.Command, path string, opts traceOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	format := trace.FormatDOT
	if opts.output != "" {
		if err := apperrors.ValidateOutputExt(opts.output, ".svg", ".dot"); err != nil {
			return err
		}
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.output)), ".")
	}

	data, inFormat, err := readAlmanac(cmd, path, opts.format)
	if err != nil {
		return err
	}
	mode, err := c.resolveMode(opts.mode)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	out, cached, err := runner.RenderTrace(ctx, pipeline.Options{
		Input:   data,
		Format:  inFormat,
		Mode:    mode,
		Refresh: opts.refresh,
		Logger:  logger,
	}, format, trace.Options{Title: opts.title, MaxNodes: opts.maxNodes})
	if err != nil {
		return err
	}
	logger.Debug("trace rendered", "format", format, "bytes", len(out), "cached", cached)

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "write %s", opts.output)
	}
	prog.done("Rendered")
	printFile(cmd.OutOrStdout(), opts.output)
	return nil
}
