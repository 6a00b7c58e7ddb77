package metrics

import "math"

// ContinuityScores holds the four continuity-based accuracies. The "c"
// scores use the longest continuously correct run of beats, the "t" scores
// count every correct beat. CML requires the annotated metrical level, AML
// also accepts off-beat, double and half tempo tracking.
type ContinuityScores struct {
	CMLc float64
	CMLt float64
	AMLc float64
	AMLt float64
}

// Continuity computes CMLc, CMLt, AMLc and AMLt.
//
// A predicted beat is correct when it lies within the phase threshold of its
// nearest unused reference beat (relative to the local reference interval)
// and its own local interval agrees with the reference interval within the
// period threshold.
func Continuity(reference, prediction []float64, cfg Config) ContinuityScores {
	var scores ContinuityScores
	if len(reference) < 2 || len(prediction) < 2 {
		return scores
	}

	for i, variant := range referenceVariations(reference) {
		c, t := continuity(variant, prediction, cfg)
		if i == 0 {
			scores.CMLc, scores.CMLt = c, t
		}
		scores.AMLc = math.Max(scores.AMLc, c)
		scores.AMLt = math.Max(scores.AMLt, t)
	}

	return scores
}

func continuity(reference, prediction []float64, cfg Config) (longest, total float64) {
	if len(reference) < 2 || len(prediction) < 2 {
		return 0, 0
	}

	refIntervals := LocalIntervals(reference)
	predIntervals := LocalIntervals(prediction)

	used := make([]bool, len(reference))
	correct := make([]bool, max(len(reference), len(prediction)))

	for m, match := range Nearest(reference, prediction) {
		j := match.Target
		if used[j] || refIntervals[j] <= 0 {
			continue
		}

		phase := math.Abs(match.Error) / refIntervals[j]
		period := math.Abs(1 - predIntervals[m]/refIntervals[j])
		if phase < cfg.ContinuityPhaseThreshold && period < cfg.ContinuityPeriodThreshold {
			used[j] = true
			correct[m] = true
		}
	}

	n := float64(len(correct))
	run, _ := longestRun(correct)
	return float64(run) / n, float64(countTrue(correct)) / n
}
