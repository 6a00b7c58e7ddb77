package evalcmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/beateval/internal/eval/dataset"
	"github.com/lehigh-university-libraries/beateval/internal/eval/results"
	"github.com/lehigh-university-libraries/beateval/internal/eval/score"
)

func scoresDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	vectors := map[string]score.Vector{
		"t1.log.sum.full": {1, 1, 1, 1, 1, 1, 1, 4, 1},
		"t2.log.sum.full": {0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0, 2, 0.5},
		"t1.log.med.hp":   {},
	}
	for raw, v := range vectors {
		if err := results.WriteScoreFile(filepath.Join(dir, raw+dataset.ScoreFileSuffix), v); err != nil {
			t.Fatalf("WriteScoreFile() error = %v", err)
		}
	}
	return dir
}

func TestExecuteReportText(t *testing.T) {
	var out bytes.Buffer
	if err := executeReport(scoresDir(t), "text", "", &out); err != nil {
		t.Fatalf("executeReport() error = %v", err)
	}

	for _, want := range []string{"Score files: 3", "med.hp", "sum.full", "all", "I.Gain"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected report to contain %q, got:\n%s", want, out.String())
		}
	}
}

func TestExecuteReportCSV(t *testing.T) {
	var out bytes.Buffer
	if err := executeReport(scoresDir(t), "csv", "", &out); err != nil {
		t.Fatalf("executeReport() error = %v", err)
	}

	rows, err := csv.NewReader(&out).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	// Header, two variants and the overall row.
	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(rows))
	}
	if len(rows[0]) != 2+2*score.NumSlots {
		t.Errorf("Expected %d columns, got %d", 2+2*score.NumSlots, len(rows[0]))
	}
	if rows[2][0] != "sum.full" || rows[2][1] != "2" || rows[2][2] != "0.7500" {
		t.Errorf("Unexpected sum.full row %v", rows[2])
	}
}

func TestExecuteReportJSONAndYAML(t *testing.T) {
	dir := scoresDir(t)

	var jsonOut bytes.Buffer
	if err := executeReport(dir, "json", "", &jsonOut); err != nil {
		t.Fatalf("executeReport(json) error = %v", err)
	}
	var fromJSON report
	if err := json.Unmarshal(jsonOut.Bytes(), &fromJSON); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	var yamlOut bytes.Buffer
	if err := executeReport(dir, "yaml", "", &yamlOut); err != nil {
		t.Fatalf("executeReport(yaml) error = %v", err)
	}
	var fromYAML report
	if err := yaml.Unmarshal(yamlOut.Bytes(), &fromYAML); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}

	for name, r := range map[string]report{"json": fromJSON, "yaml": fromYAML} {
		if len(r.Records) != 3 || len(r.Variants) != 3 {
			t.Errorf("%s: expected 3 records and 3 variants, got %d and %d", name, len(r.Records), len(r.Variants))
		}
	}
}

func TestExecuteReportParquet(t *testing.T) {
	table := filepath.Join(t.TempDir(), "scores.parquet")
	if err := executeReport(scoresDir(t), "parquet", table, &bytes.Buffer{}); err != nil {
		t.Fatalf("executeReport(parquet) error = %v", err)
	}

	// The table can itself be reported on.
	var out bytes.Buffer
	if err := executeReport(table, "text", "", &out); err != nil {
		t.Fatalf("executeReport(table) error = %v", err)
	}
	if !strings.Contains(out.String(), "Score files: 3") {
		t.Errorf("Expected 3 score files from parquet, got:\n%s", out.String())
	}
}

func TestExecuteReportRunDirectory(t *testing.T) {
	predDir, truthDir := corpus(t)
	dest := filepath.Join(t.TempDir(), "scores")

	req := runRequest{
		InputGlob:   filepath.Join(predDir, "*.csv"),
		TruthPath:   truthDir,
		Destination: dest,
		Config:      runConfig(t),
	}
	if err := executeRun(context.Background(), req, &bytes.Buffer{}); err != nil {
		t.Fatalf("executeRun() error = %v", err)
	}

	output := filepath.Join(t.TempDir(), "report.txt")
	var stdout bytes.Buffer
	if err := executeReport(dest, "text", output, &stdout); err != nil {
		t.Fatalf("executeReport() error = %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("Expected nothing on stdout with --output, got:\n%s", stdout.String())
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	for _, want := range []string{"Score files: 3", "I.Gain scale: bits"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Expected report file to contain %q, got:\n%s", want, data)
		}
	}

	var jsonOut bytes.Buffer
	if err := executeReport(dest, "json", "", &jsonOut); err != nil {
		t.Fatalf("executeReport(json) error = %v", err)
	}
	var r report
	if err := json.Unmarshal(jsonOut.Bytes(), &r); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if r.InfoGainScale != "bits" {
		t.Errorf("Expected info_gain_scale bits, got %q", r.InfoGainScale)
	}
}

func TestExecuteReportWithoutManifest(t *testing.T) {
	var out bytes.Buffer
	if err := executeReport(scoresDir(t), "text", "", &out); err != nil {
		t.Fatalf("executeReport() error = %v", err)
	}
	if strings.Contains(out.String(), "I.Gain scale") {
		t.Errorf("Expected no scale line without a run manifest, got:\n%s", out.String())
	}
}

func TestExecuteReportUnsupportedFormat(t *testing.T) {
	if err := executeReport(scoresDir(t), "xml", "", &bytes.Buffer{}); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestExecuteScore(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "t1.txt")
	pred := filepath.Join(dir, "t1.log.sum.full.csv")
	writeFile(t, ref, "1.0\n2.0\n3.0\n4.0\n")
	writeFile(t, pred, "1.0\n2.0\n3.0\n4.0\n")

	var out bytes.Buffer
	if err := executeScore(pred, ref, earlyBeats(), "json", &out); err != nil {
		t.Fatalf("executeScore() error = %v", err)
	}

	var got struct {
		ID        string  `json:"id"`
		View      string  `json:"view"`
		FMeasure  float64 `json:"f_measure"`
		CemgilMax float64 `json:"cemgil_max"`
		Status    string  `json:"status"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if got.ID != "t1" || got.View != "full" || got.Status != "ok" {
		t.Errorf("Unexpected report %+v", got)
	}
	if got.FMeasure != 1 || got.CemgilMax != 1 {
		t.Errorf("Expected perfect scores, got F=%v CemgilMax=%v", got.FMeasure, got.CemgilMax)
	}

	out.Reset()
	if err := executeScore(pred, ref, earlyBeats(), "text", &out); err != nil {
		t.Fatalf("executeScore(text) error = %v", err)
	}
	if !strings.Contains(out.String(), "Variant:  sum.full") {
		t.Errorf("Expected variant in text output, got:\n%s", out.String())
	}
}

func TestExecuteInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t1.log.med.percussive.csv")
	writeFile(t, path, "7.0\n1.0\n5.5\n6.0\n6.5\n6.5\n")

	var out bytes.Buffer
	if err := executeInspect(path, 5, &out); err != nil {
		t.Fatalf("executeInspect() error = %v", err)
	}

	for _, want := range []string{
		"Variant:        med.percussive",
		"Beats in file:  6",
		"Beats kept:     4",
		"First beat:     5.500s",
		"Tempo:          120.0 BPM",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out.String())
		}
	}
}
