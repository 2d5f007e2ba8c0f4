package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/almanac/pkg/pipeline"
)

type solveOpts struct {
	mode    string
	format  string
	noCache bool
	refresh bool
	json    bool
}

// solveOutput is the --json form of a solve.
type solveOutput struct {
	RunID       string   `json:"run_id"`
	Min         int64    `json:"min"`
	Mode        string   `json:"mode"`
	StageNames  []string `json:"stage_names"`
	StageCounts []int    `json:"stage_counts"`
	Inputs      int      `json:"inputs"`
	Outputs     int      `json:"outputs"`
	Cached      bool     `json:"cached"`
}

func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts

	cmd := &cobra.Command{
		Use:   "solve <file>",
		Short: "Print the lowest value reachable from the seeds",
		Long: `Solve reads an almanac, pushes its seeds through every stage and prints
the lowest value among the final ranges.

In range mode (the default) the seed list is read as (start, length) pairs.
In point mode every seed is a single value. Use "-" to read from stdin.`,
		Example: `  almanac solve input.txt
  almanac solve --mode point input.txt
  cat input.toml | almanac solve --format toml -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "seed mode: range or point (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "input format: text or toml (default by extension)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite the cached result")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")

	return cmd
}

func (c *CLI) runSolve(cmd *cobra.Command, path string, opts solveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	data, format, err := readAlmanac(cmd, path, opts.format)
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
	res, err := runner.Execute(ctx, pipeline.Options{
		Input:   data,
		Format:  format,
		Mode:    mode,
		Refresh: opts.refresh,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	prog.done("Solved")

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(solveOutput{
			RunID:       res.RunID,
			Min:         res.Min,
			Mode:        string(res.Mode),
			StageNames:  res.StageNames,
			StageCounts: res.StageCounts,
			Inputs:      res.Stats.Inputs,
			Outputs:     res.Stats.Outputs,
			Cached:      res.CacheInfo.Hit,
		})
	}

	printSuccess(out, "Lowest value: %s", StyleNumber.Render(strconv.FormatInt(res.Min, 10)))
	printStats(out, len(res.StageCounts), res.Stats.Inputs, res.Stats.Outputs, res.CacheInfo.Hit)
	printKeyValue(out, "mode", string(res.Mode))
	printKeyValue(out, "run", res.RunID)
	if logger.GetLevel() <= LogDebug {
		for i, n := range res.StageCounts {
			name := ""
			if i < len(res.StageNames) {
				name = res.StageNames[i]
			}
			printDetail(out, "%-24s %d ranges", name, n)
		}
	}
	fmt.Fprintln(out)
	printNextStep(out, "See every split", "almanac trace "+path+" -o trace.svg")
	return nil
}
