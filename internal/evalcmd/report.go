package evalcmd

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/beateval/internal/eval/dataset"
	"github.com/lehigh-university-libraries/beateval/internal/eval/results"
	"github.com/lehigh-university-libraries/beateval/internal/eval/score"
)

type report struct {
	InfoGainScale string                 `json:"info_gain_scale,omitempty" yaml:"info_gain_scale,omitempty"`
	Variants      []results.VariantStats `json:"variants" yaml:"variants"`
	Records       []dataset.ScoreRecord  `json:"records" yaml:"records"`
}

func executeReport(resultsPath, format, output string, stdout io.Writer) error {
	records, err := dataset.NewLoader(resultsPath).Load()
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	if format == "parquet" {
		return dataset.WriteScoreTable(output, records)
	}

	r := report{
		InfoGainScale: runInfoGainScale(resultsPath),
		Variants:      results.Aggregate(records),
		Records:       records,
	}

	if output == "" {
		return writeReport(stdout, format, r)
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeReport(file, format, r); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// runInfoGainScale reads the information gain scale from the run manifest
// in a results directory. Score files alone do not record it.
func runInfoGainScale(resultsPath string) string {
	info, err := os.Stat(resultsPath)
	if err != nil || !info.IsDir() {
		return ""
	}

	m, err := results.LoadManifest(resultsPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Ignoring unreadable run manifest", "dir", resultsPath, "error", err)
		}
		return ""
	}
	return m.Config.Metrics.InfoGainScale
}

func writeReport(w io.Writer, format string, r report) error {
	switch format {
	case "text":
		printTextReport(w, r)
		return nil
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(r)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		if err := encoder.Encode(r); err != nil {
			encoder.Close()
			return err
		}
		return encoder.Close()
	case "csv":
		return printCSVReport(w, r)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printTextReport(w io.Writer, r report) {
	names := score.Names()

	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Beat Tracking Evaluation Report")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Score files: %d\n", len(r.Records))
	if r.InfoGainScale != "" {
		fmt.Fprintf(w, "I.Gain scale: %s\n", r.InfoGainScale)
	}

	if len(r.Variants) == 0 {
		fmt.Fprintln(w, "\nNo score files found.")
		return
	}

	fmt.Fprintf(w, "\n%-18s %5s", "Variant", "Files")
	for _, name := range names {
		fmt.Fprintf(w, " %8s", name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 24+9*len(names)))

	for _, v := range r.Variants {
		fmt.Fprintf(w, "%-18s %5d", v.Variant, v.Files)
		for i := range names {
			fmt.Fprintf(w, " %8.4f", v.Mean[i])
		}
		fmt.Fprintln(w)
	}
}

func printCSVReport(w io.Writer, r report) error {
	writer := csv.NewWriter(w)

	header := []string{"Variant", "Files"}
	for _, name := range score.Names() {
		header = append(header, name+" mean", name+" std")
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, v := range r.Variants {
		row := []string{v.Variant, strconv.Itoa(v.Files)}
		for i := range v.Mean {
			row = append(row,
				fmt.Sprintf("%.4f", v.Mean[i]),
				fmt.Sprintf("%.4f", v.StdDev[i]),
			)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
