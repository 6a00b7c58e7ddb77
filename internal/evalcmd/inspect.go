package evalcmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/lehigh-university-libraries/beateval/internal/beats"
	"github.com/lehigh-university-libraries/beateval/internal/eval/dataset"
	"github.com/lehigh-university-libraries/beateval/internal/eval/metrics"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var minBeatTime float64

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Inspect a beat file (useful for checking annotations and predictions)",
		Long: `Inspect a prediction or reference beat file.

Prints how many beats the file holds before and after preconditioning
(sorting, dropping beats before the cutoff and collapsing duplicates),
the time span covered and the tempo implied by the median inter-beat
interval.`,
		Example: `  # Inspect a reference annotation
  beateval eval inspect annotations/track01.txt

  # Inspect a prediction keeping every beat
  beateval eval inspect predictions/track01.log.sum.full.csv --min-beat-time 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeInspect(args[0], minBeatTime, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Float64Var(&minBeatTime, "min-beat-time", metrics.DefaultConfig().MinBeatTime, "Discard beats earlier than this many seconds")

	return cmd
}

func executeInspect(path string, minBeatTime float64, w io.Writer) error {
	raw, err := beats.Load(path)
	if err != nil {
		return err
	}
	kept := beats.Precondition(raw, minBeatTime, metrics.DefaultConfig().DedupEpsilon)

	fmt.Fprintf(w, "File:           %s\n", path)
	if v := dataset.ParseVariant(dataset.RawName(path)); v != dataset.VariantUnknown {
		fmt.Fprintf(w, "Variant:        %s\n", v)
	}
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Beats in file:  %d\n", len(raw))
	fmt.Fprintf(w, "Beats kept:     %d (cutoff %.2fs)\n", len(kept), minBeatTime)

	if len(kept) == 0 {
		return nil
	}
	fmt.Fprintf(w, "First beat:     %.3fs\n", kept[0])
	fmt.Fprintf(w, "Last beat:      %.3fs\n", kept[len(kept)-1])

	if ibi := kept.Intervals(); len(ibi) > 0 {
		fmt.Fprintf(w, "Min interval:   %.3fs\n", floats.Min(ibi))
		fmt.Fprintf(w, "Max interval:   %.3fs\n", floats.Max(ibi))
		fmt.Fprintf(w, "Tempo:          %.1f BPM\n", kept.Tempo())
	}

	return nil
}
