// File: cmd/batch.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/openfield/internal/batch"
	"github.com/xkilldash9x/openfield/internal/observability"
	"github.com/xkilldash9x/openfield/internal/report"
)

func newBatchCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run independent seeded walks in parallel and summarize them.",
		Long: `Runs batch.runs simulations with seeds seed, seed+1, ... and prints one line
per run followed by the mean and standard deviation across runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unsupported report format %q (want text or json)", format)
			}
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}

			bc := cfg.Batch()
			runner := batch.NewRunner(bc.Concurrency, cfg.Simulation().ProgressInterval, observability.GetLogger())
			outcome, err := runner.Run(cmd.Context(), cfg.WalkConfig(), bc.Runs)
			if err != nil {
				return err
			}

			if format == "json" {
				return report.WriteJSON(cmd.OutOrStdout(), outcome)
			}
			return report.WriteAggregate(cmd.OutOrStdout(), outcome.Summaries, outcome.Aggregate)
		},
	}

	fs := cmd.Flags()
	addWalkFlags(fs)
	fs.Int("runs", 0, "number of independent runs")
	fs.Int("concurrency", 0, "maximum runs in flight")
	annotate(fs, "runs", "batch.runs")
	annotate(fs, "concurrency", "batch.concurrency")
	fs.StringVar(&format, "format", "text", "report format: text or json")
	return cmd
}
