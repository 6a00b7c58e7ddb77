package cmd

import (
	"github.com/lehigh-university-libraries/beateval/internal/evalcmd"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Beat tracking evaluation tools",
		Long: `Evaluation tools for measuring how well predicted beats match reference annotations.

Supports scoring a whole corpus of predictions in parallel, scoring a single
prediction, summarising score files per prediction variant and inspecting
beat files.`,
	}

	// Add eval subcommands
	cmd.AddCommand(evalcmd.NewRunCmd())
	cmd.AddCommand(evalcmd.NewScoreCmd())
	cmd.AddCommand(evalcmd.NewReportCmd())
	cmd.AddCommand(evalcmd.NewInspectCmd())

	return cmd
}
