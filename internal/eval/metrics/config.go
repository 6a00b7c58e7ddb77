package metrics

import (
	"fmt"
	"math"
)

// InfoGainScale selects how InformationGain reports its divergence.
type InfoGainScale string

const (
	// ScaleBits reports the divergence in bits, in [0, log2(bins)].
	ScaleBits InfoGainScale = "bits"
	// ScaleNormalized divides the divergence by log2(bins), giving [0, 1].
	ScaleNormalized InfoGainScale = "normalized"
)

// ParseInfoGainScale resolves a scale name.
func ParseInfoGainScale(s string) (InfoGainScale, error) {
	switch InfoGainScale(s) {
	case ScaleBits, ScaleNormalized:
		return InfoGainScale(s), nil
	default:
		return "", fmt.Errorf("unknown information gain scale: %s (must be bits or normalized)", s)
	}
}

// Config holds the tolerance parameters for one evaluation run. It is
// passed by value and never modified once a run has started.
type Config struct {
	MinBeatTime  float64 // seconds; earlier beats are discarded from both sequences
	DedupEpsilon float64 // seconds; beats closer than this are collapsed

	ContinuityPhaseThreshold  float64 // fraction of the local inter-beat interval
	ContinuityPeriodThreshold float64 // relative interval error

	CemgilSigma float64 // seconds

	FMeasureWindow float64 // seconds

	GotoThreshold float64 // relative error above which a beat is incorrect
	GotoMu        float64
	GotoSigma     float64
	GotoMinRun    float64 // fraction of reference intervals the run must exceed

	InfoGainBins  int
	InfoGainScale InfoGainScale

	PScoreThreshold  float64 // fraction of the median reference interval
	PScoreSampleRate float64 // Hz
}

// DefaultConfig returns the standard beat evaluation tolerances.
func DefaultConfig() Config {
	return Config{
		MinBeatTime:               5.0,
		DedupEpsilon:              1e-6,
		ContinuityPhaseThreshold:  0.175,
		ContinuityPeriodThreshold: 0.175,
		CemgilSigma:               0.04,
		FMeasureWindow:            0.07,
		GotoThreshold:             0.35,
		GotoMu:                    0.2,
		GotoSigma:                 0.2,
		GotoMinRun:                0.25,
		InfoGainBins:              40,
		InfoGainScale:             ScaleBits,
		PScoreThreshold:           0.2,
		PScoreSampleRate:          100,
	}
}

// MaxInfoGain is the largest value InformationGain can return under c.
func (c Config) MaxInfoGain() float64 {
	if c.InfoGainScale == ScaleNormalized {
		return 1
	}
	return math.Log2(float64(c.InfoGainBins))
}

// Validate reports every parameter outside its usable range.
func (c Config) Validate() []string {
	var errs []string

	if c.MinBeatTime < 0 {
		errs = append(errs, "min_beat_time must not be negative")
	}
	if c.DedupEpsilon < 0 {
		errs = append(errs, "dedup_epsilon must not be negative")
	}
	if c.ContinuityPhaseThreshold <= 0 || c.ContinuityPeriodThreshold <= 0 {
		errs = append(errs, "continuity thresholds must be positive")
	}
	if c.CemgilSigma <= 0 {
		errs = append(errs, "cemgil_sigma must be positive")
	}
	if c.FMeasureWindow <= 0 {
		errs = append(errs, "f_measure_window must be positive")
	}
	if c.GotoThreshold <= 0 || c.GotoMu <= 0 || c.GotoSigma <= 0 {
		errs = append(errs, "goto thresholds must be positive")
	}
	if c.GotoMinRun < 0 || c.GotoMinRun > 1 {
		errs = append(errs, "goto_min_run must be between 0 and 1")
	}
	if c.InfoGainBins < 2 {
		errs = append(errs, "info_gain_bins must be at least 2")
	}
	if _, err := ParseInfoGainScale(string(c.InfoGainScale)); err != nil {
		errs = append(errs, err.Error())
	}
	if c.PScoreThreshold <= 0 {
		errs = append(errs, "p_score_threshold must be positive")
	}
	if c.PScoreSampleRate <= 0 {
		errs = append(errs, "p_score_sample_rate must be positive")
	}

	return errs
}
