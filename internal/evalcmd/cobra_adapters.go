package evalcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/beateval/internal/config"
	"github.com/lehigh-university-libraries/beateval/internal/eval/metrics"
)

// NewRunCmd creates the run command for batch evaluation of a prediction corpus
func NewRunCmd() *cobra.Command {
	var configPath string
	var jobs int
	var minBeatTime float64
	var infoGainScale string
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "run INPUT_GLOB TRUTH_PATH DESTINATION",
		Short: "Score every prediction file matching a glob",
		Long: `Score every prediction file matching INPUT_GLOB against its reference beats.

Each prediction <id>.<rest>.csv is compared with TRUTH_PATH/<id>.txt and a
score file <id>.<rest>.scores.txt is written to DESTINATION along with a
run.yaml manifest. A file that cannot be scored gets a row of zeros and is
reported as degenerate input; it never stops the batch.`,
		Example: `  # Score all predictions with 8 workers
  beateval eval run 'predictions/*.csv' ./annotations ./scores -j 8

  # Report information gain normalised to [0, 1]
  beateval eval run 'predictions/*.csv' ./annotations ./scores --info-gain-scale normalized`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig(configPath, func(c *config.Config) {
				if cmd.Flags().Changed("num-jobs") {
					c.Jobs = jobs
				}
				if noProgress {
					c.Progress = false
				}
				if cmd.Flags().Changed("min-beat-time") {
					c.Metrics.MinBeatTime = minBeatTime
				}
				if cmd.Flags().Changed("info-gain-scale") {
					c.Metrics.InfoGainScale = infoGainScale
				}
			})
			if err != nil {
				return err
			}

			req := runRequest{
				InputGlob:   args[0],
				TruthPath:   args[1],
				Destination: args[2],
				Config:      cfg,
			}
			if cfg.Progress {
				req.Progress = os.Stderr
			}

			return executeRun(cmd.Context(), req, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML configuration file")
	cmd.Flags().IntVarP(&jobs, "num-jobs", "j", 1, "Number of files to score in parallel")
	cmd.Flags().Float64Var(&minBeatTime, "min-beat-time", metrics.DefaultConfig().MinBeatTime, "Discard beats earlier than this many seconds")
	cmd.Flags().StringVar(&infoGainScale, "info-gain-scale", string(metrics.ScaleBits), "Information gain scale (bits or normalized)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")

	return cmd
}

// NewScoreCmd creates the score command for a single prediction/reference pair
func NewScoreCmd() *cobra.Command {
	var configPath string
	var minBeatTime float64
	var format string

	cmd := &cobra.Command{
		Use:   "score PREDICTION REFERENCE",
		Short: "Score one prediction file against its reference",
		Example: `  # Score a single prediction
  beateval eval score predictions/track01.log.sum.full.csv annotations/track01.txt

  # Keep beats before 5 seconds and print JSON
  beateval eval score pred.csv ref.txt --min-beat-time 0 --format json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig(configPath, func(c *config.Config) {
				if cmd.Flags().Changed("min-beat-time") {
					c.Metrics.MinBeatTime = minBeatTime
				}
			})
			if err != nil {
				return err
			}

			return executeScore(args[0], args[1], cfg.Tolerance(), format, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML configuration file")
	cmd.Flags().Float64Var(&minBeatTime, "min-beat-time", metrics.DefaultConfig().MinBeatTime, "Discard beats earlier than this many seconds")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text or json)")

	return cmd
}

// NewReportCmd creates the report command summarising a results directory
func NewReportCmd() *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "report RESULTS",
		Short: "Summarise score files by prediction variant",
		Long: `Load every *.scores.txt file in a results directory (or a parquet score
table) and report mean and standard deviation of each metric per
prediction variant, where the variant is the onset aggregate and
spectrogram view encoded in the file name.`,
		Example: `  # Print a per-variant table
  beateval eval report ./scores

  # Export every score as a parquet table
  beateval eval report ./scores --format parquet --output scores.parquet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "parquet" && output == "" {
				return fmt.Errorf("--output is required for parquet format")
			}
			return executeReport(args[0], format, output, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json, csv, yaml or parquet)")
	cmd.Flags().StringVar(&output, "output", "", "Write the report to this file instead of stdout")

	return cmd
}

// loadRunConfig loads the configuration, applies flag overrides and
// validates the result.
func loadRunConfig(path string, override func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	override(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
