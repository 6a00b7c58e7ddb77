package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "beateval",
		Short: "Beat tracking accuracy evaluation tool",
		Long: `Beateval scores predicted beat times against human-annotated reference beats.

Each prediction is reduced to nine standard accuracy measures (Cemgil, CMLc,
CMLt, AMLc, AMLt, F-measure, Goto, information gain and P-score), either for
a single file or in parallel over a whole corpus.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			logLevel := slog.LevelInfo
			if verbose {
				logLevel = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
			slog.SetDefault(logger)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newEvalCmd())

	return cmd
}
