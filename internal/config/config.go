// Package config handles run configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/beateval/internal/eval/metrics"
)

// Config holds all run configuration.
type Config struct {
	// Batch configuration
	Jobs     int  `envconfig:"BEATEVAL_JOBS" yaml:"jobs"`
	Progress bool `envconfig:"BEATEVAL_PROGRESS" yaml:"progress"`

	// Tolerance windows shared by every metric
	Metrics ToleranceConfig `yaml:"metrics"`
}

// ToleranceConfig is the file and environment form of metrics.Config.
type ToleranceConfig struct {
	MinBeatTime  float64 `envconfig:"BEATEVAL_MIN_BEAT_TIME" yaml:"min_beat_time"`
	DedupEpsilon float64 `envconfig:"BEATEVAL_DEDUP_EPSILON" yaml:"dedup_epsilon"`

	ContinuityPhaseThreshold  float64 `envconfig:"BEATEVAL_CONTINUITY_PHASE_THRESHOLD" yaml:"continuity_phase_threshold"`
	ContinuityPeriodThreshold float64 `envconfig:"BEATEVAL_CONTINUITY_PERIOD_THRESHOLD" yaml:"continuity_period_threshold"`

	CemgilSigma    float64 `envconfig:"BEATEVAL_CEMGIL_SIGMA" yaml:"cemgil_sigma"`
	FMeasureWindow float64 `envconfig:"BEATEVAL_F_MEASURE_WINDOW" yaml:"f_measure_window"`

	GotoThreshold float64 `envconfig:"BEATEVAL_GOTO_THRESHOLD" yaml:"goto_threshold"`
	GotoMu        float64 `envconfig:"BEATEVAL_GOTO_MU" yaml:"goto_mu"`
	GotoSigma     float64 `envconfig:"BEATEVAL_GOTO_SIGMA" yaml:"goto_sigma"`
	GotoMinRun    float64 `envconfig:"BEATEVAL_GOTO_MIN_RUN" yaml:"goto_min_run"`

	InfoGainBins  int    `envconfig:"BEATEVAL_INFO_GAIN_BINS" yaml:"info_gain_bins"`
	InfoGainScale string `envconfig:"BEATEVAL_INFO_GAIN_SCALE" yaml:"info_gain_scale"`

	PScoreThreshold  float64 `envconfig:"BEATEVAL_P_SCORE_THRESHOLD" yaml:"p_score_threshold"`
	PScoreSampleRate float64 `envconfig:"BEATEVAL_P_SCORE_SAMPLE_RATE" yaml:"p_score_sample_rate"`
}

// Load loads configuration from defaults, an optional YAML file and the
// environment, in increasing priority.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	setDefaults(cfg)

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func setDefaults(cfg *Config) {
	cfg.Jobs = 1
	cfg.Progress = true
	cfg.Metrics = FromMetrics(metrics.DefaultConfig())
}

// FromMetrics converts a metrics.Config into its serialisable form.
func FromMetrics(m metrics.Config) ToleranceConfig {
	return ToleranceConfig{
		MinBeatTime:               m.MinBeatTime,
		DedupEpsilon:              m.DedupEpsilon,
		ContinuityPhaseThreshold:  m.ContinuityPhaseThreshold,
		ContinuityPeriodThreshold: m.ContinuityPeriodThreshold,
		CemgilSigma:               m.CemgilSigma,
		FMeasureWindow:            m.FMeasureWindow,
		GotoThreshold:             m.GotoThreshold,
		GotoMu:                    m.GotoMu,
		GotoSigma:                 m.GotoSigma,
		GotoMinRun:                m.GotoMinRun,
		InfoGainBins:              m.InfoGainBins,
		InfoGainScale:             string(m.InfoGainScale),
		PScoreThreshold:           m.PScoreThreshold,
		PScoreSampleRate:          m.PScoreSampleRate,
	}
}

// Tolerance returns the metrics.Config for this run.
func (c *Config) Tolerance() metrics.Config {
	t := c.Metrics
	return metrics.Config{
		MinBeatTime:               t.MinBeatTime,
		DedupEpsilon:              t.DedupEpsilon,
		ContinuityPhaseThreshold:  t.ContinuityPhaseThreshold,
		ContinuityPeriodThreshold: t.ContinuityPeriodThreshold,
		CemgilSigma:               t.CemgilSigma,
		FMeasureWindow:            t.FMeasureWindow,
		GotoThreshold:             t.GotoThreshold,
		GotoMu:                    t.GotoMu,
		GotoSigma:                 t.GotoSigma,
		GotoMinRun:                t.GotoMinRun,
		InfoGainBins:              t.InfoGainBins,
		InfoGainScale:             metrics.InfoGainScale(t.InfoGainScale),
		PScoreThreshold:           t.PScoreThreshold,
		PScoreSampleRate:          t.PScoreSampleRate,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	if c.Jobs < 1 {
		errs = append(errs, "jobs must be at least 1")
	}

	errs = append(errs, c.Tolerance().Validate()...)

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
