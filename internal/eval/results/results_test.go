package results

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/beateval/internal/config"
	"github.com/lehigh-university-libraries/beateval/internal/eval/dataset"
	"github.com/lehigh-university-libraries/beateval/internal/eval/metrics"
	"github.com/lehigh-university-libraries/beateval/internal/eval/score"
)

func TestFormatScoreFile(t *testing.T) {
	v := score.Vector{0.74436, 1, 1, 1, 1, 1, 1, 5.321928, 0.93}

	want := "# Cemgil, CMLc, CMLt, AMLc, AMLt, F-Meas, Goto, I.Gain, P_score\n" +
		"0.7444,1.0000,1.0000,1.0000,1.0000,1.0000,1.0000,5.3219,0.9300\n"

	if got := string(FormatScoreFile(v)); got != want {
		t.Errorf("Expected:\n%s\nGot:\n%s", want, got)
	}
}

func TestWriteScoreFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t1.log.sum.full.scores.txt")
	v := score.Vector{0.5, 0.25, 0.75, 1, 1, 0.8, 1, 3.5, 0.6}

	if err := WriteScoreFile(path, v); err != nil {
		t.Fatalf("WriteScoreFile() error = %v", err)
	}

	got, err := dataset.LoadScoreFile(path)
	if err != nil {
		t.Fatalf("LoadScoreFile() error = %v", err)
	}
	if got != v {
		t.Errorf("Expected %v, got %v", v, got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the score file in %s, found %d entries", dir, len(entries))
	}
}

func TestWriteScoreFileReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.scores.txt")
	if err := os.WriteFile(path, []byte("stale\n"), 0644); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}

	if err := WriteScoreFile(path, score.Vector{}); err != nil {
		t.Fatalf("WriteScoreFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Equal(data, FormatScoreFile(score.Vector{})) {
		t.Errorf("Expected file to be replaced, got %q", data)
	}
}

func TestWriteScoreFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "x.scores.txt")
	if err := WriteScoreFile(path, score.Vector{}); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func testManifest() Manifest {
	return Manifest{
		Config: RunConfig{
			InputGlob:   "pred/*.csv",
			TruthPath:   "truth",
			Destination: "out",
			Metrics:     config.FromMetrics(metrics.DefaultConfig()),
		},
		Summary: RunSummary{Files: 2, OK: 1, Degenerate: 1},
		Files: []FileEntry{
			NewFileEntry("t2.log.med.hp", "med.hp", score.Result{
				ID: "t2", Status: score.StatusDegenerateInput, Err: errors.New("no beats"),
			}),
			NewFileEntry("t1.log.sum.full", "sum.full", score.Result{
				ID: "t1", Status: score.StatusOK, Vector: score.Vector{1, 1, 1, 1, 1, 1, 1, 5, 1},
			}),
		},
	}
}

func TestWriteManifestDeterministic(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()

	m := testManifest()
	if err := WriteManifest(dirA, m); err != nil {
		t.Fatalf("WriteManifest() error = %v", err)
	}

	reversed := testManifest()
	reversed.Files[0], reversed.Files[1] = reversed.Files[1], reversed.Files[0]
	if err := WriteManifest(dirB, reversed); err != nil {
		t.Fatalf("WriteManifest() error = %v", err)
	}

	a, _ := os.ReadFile(filepath.Join(dirA, ManifestName))
	b, _ := os.ReadFile(filepath.Join(dirB, ManifestName))
	if !bytes.Equal(a, b) {
		t.Errorf("Manifests differ:\n%s\n---\n%s", a, b)
	}

	loaded, err := LoadManifest(dirA)
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if loaded.Files[0].ID != "t1" || loaded.Files[1].Error != "no beats" {
		t.Errorf("Unexpected manifest entries %+v", loaded.Files)
	}
	if loaded.Config.Metrics.InfoGainScale != "bits" {
		t.Errorf("Expected info gain scale bits, got %s", loaded.Config.Metrics.InfoGainScale)
	}
}

func TestAggregate(t *testing.T) {
	records := []dataset.ScoreRecord{
		dataset.NewScoreRecord("t1.log.sum.full", score.Vector{1, 1, 1, 1, 1, 1, 1, 4, 1}),
		dataset.NewScoreRecord("t2.log.sum.full", score.Vector{0, 0, 0, 0, 0, 0, 0, 2, 0}),
		dataset.NewScoreRecord("t1.log.med.hp", score.Vector{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 1, 1, 0.5}),
	}

	stats := Aggregate(records)

	wantVariants := []string{"med.hp", "sum.full", OverallVariant}
	if len(stats) != len(wantVariants) {
		t.Fatalf("Expected %d groups, got %d", len(wantVariants), len(stats))
	}
	for i, name := range wantVariants {
		if stats[i].Variant != name {
			t.Errorf("group %d = %s, want %s", i, stats[i].Variant, name)
		}
	}

	full := stats[1]
	if full.Files != 2 {
		t.Errorf("Expected 2 files for sum.full, got %d", full.Files)
	}
	if full.Mean[score.Cemgil] != 0.5 || full.Mean[score.InfoGain] != 3 {
		t.Errorf("Unexpected sum.full means %v", full.Mean)
	}
	if math.Abs(full.StdDev[score.Cemgil]-math.Sqrt(0.5)) > 1e-12 {
		t.Errorf("Expected sample std dev %.4f, got %.4f", math.Sqrt(0.5), full.StdDev[score.Cemgil])
	}

	if stats[0].StdDev != (score.Vector{}) {
		t.Errorf("Expected zero std dev for a single file, got %v", stats[0].StdDev)
	}
	if stats[2].Files != 3 {
		t.Errorf("Expected 3 files overall, got %d", stats[2].Files)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if stats := Aggregate(nil); len(stats) != 0 {
		t.Errorf("Expected no groups, got %+v", stats)
	}
}
