package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/beateval/internal/eval/metrics"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Jobs != 1 {
		t.Errorf("Jobs = %d, want 1", cfg.Jobs)
	}
	if cfg.Tolerance() != metrics.DefaultConfig() {
		t.Errorf("Tolerance() = %+v, want defaults", cfg.Tolerance())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BEATEVAL_JOBS", "8")
	t.Setenv("BEATEVAL_MIN_BEAT_TIME", "0")
	t.Setenv("BEATEVAL_INFO_GAIN_SCALE", "normalized")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Jobs != 8 {
		t.Errorf("Jobs = %d, want 8", cfg.Jobs)
	}
	tol := cfg.Tolerance()
	if tol.MinBeatTime != 0 {
		t.Errorf("MinBeatTime = %v, want 0", tol.MinBeatTime)
	}
	if tol.InfoGainScale != metrics.ScaleNormalized {
		t.Errorf("InfoGainScale = %s, want normalized", tol.InfoGainScale)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
jobs: 4
progress: false
metrics:
  cemgil_sigma: 0.1
  info_gain_bins: 41
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Jobs != 4 {
		t.Errorf("Jobs = %d, want 4", cfg.Jobs)
	}
	if cfg.Progress {
		t.Error("Progress = true, want false")
	}
	if cfg.Metrics.CemgilSigma != 0.1 {
		t.Errorf("CemgilSigma = %v, want 0.1", cfg.Metrics.CemgilSigma)
	}
	if cfg.Metrics.InfoGainBins != 41 {
		t.Errorf("InfoGainBins = %d, want 41", cfg.Metrics.InfoGainBins)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Metrics.FMeasureWindow != 0.07 {
		t.Errorf("FMeasureWindow = %v, want 0.07", cfg.Metrics.FMeasureWindow)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("jobs: 4\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("BEATEVAL_JOBS", "2")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Jobs != 2 {
		t.Errorf("Jobs = %d, want 2", cfg.Jobs)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			modify: func(c *Config) {},
		},
		{
			name:    "zero jobs",
			modify:  func(c *Config) { c.Jobs = 0 },
			wantErr: "jobs must be at least 1",
		},
		{
			name:    "unknown scale",
			modify:  func(c *Config) { c.Metrics.InfoGainScale = "nats" },
			wantErr: "unknown information gain scale",
		},
		{
			name:    "negative cutoff",
			modify:  func(c *Config) { c.Metrics.MinBeatTime = -1 },
			wantErr: "min_beat_time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			setDefaults(cfg)
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
