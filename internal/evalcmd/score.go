package evalcmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lehigh-university-libraries/beateval/internal/beats"
	"github.com/lehigh-university-libraries/beateval/internal/eval/dataset"
	"github.com/lehigh-university-libraries/beateval/internal/eval/metrics"
	"github.com/lehigh-university-libraries/beateval/internal/eval/score"
)

type scoreReport struct {
	dataset.ScoreRecord
	CemgilMax float64      `json:"cemgil_max"`
	Status    score.Status `json:"status"`
	Error     string       `json:"error,omitempty"`
}

func executeScore(predictionPath, referencePath string, cfg metrics.Config, format string, w io.Writer) error {
	raw := dataset.RawName(predictionPath)
	res := score.EvaluateFiles(dataset.TrackID(raw), predictionPath, referencePath, cfg)

	report := scoreReport{
		ScoreRecord: dataset.NewScoreRecord(raw, res.Vector),
		Status:      res.Status,
	}
	if res.Err != nil {
		report.Error = res.Err.Error()
	}
	if res.Status == score.StatusOK {
		report.CemgilMax = cemgilMax(predictionPath, referencePath, cfg)
	}

	switch format {
	case "text":
		printScoreText(w, report, res.Vector)
		return nil
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func cemgilMax(predictionPath, referencePath string, cfg metrics.Config) float64 {
	ref, err := beats.Load(referencePath)
	if err != nil {
		return 0
	}
	pred, err := beats.Load(predictionPath)
	if err != nil {
		return 0
	}
	return metrics.CemgilMax(
		beats.Precondition(ref, cfg.MinBeatTime, cfg.DedupEpsilon),
		beats.Precondition(pred, cfg.MinBeatTime, cfg.DedupEpsilon),
		cfg)
}

func printScoreText(w io.Writer, r scoreReport, v score.Vector) {
	fmt.Fprintf(w, "ID:       %s\n", r.ID)
	fmt.Fprintf(w, "Variant:  %s\n", r.Variant())
	fmt.Fprintf(w, "Status:   %s\n", r.Status)
	if r.Error != "" {
		fmt.Fprintf(w, "Error:    %s\n", r.Error)
	}
	fmt.Fprintln(w)

	for i, name := range score.Names() {
		fmt.Fprintf(w, "  %-10s %.4f\n", name, v[i])
	}
	fmt.Fprintf(w, "  %-10s %.4f\n", "CemgilMax", r.CemgilMax)
}
