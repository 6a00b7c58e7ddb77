// Package metrics implements the beat tracking accuracy measures.
//
// Every metric takes preconditioned reference and prediction sequences
// (sorted, trimmed, de-duplicated) together with a Config, and returns 0
// when either sequence is too short to score.
package metrics

import "math"

// Cemgil scores each reference beat by a Gaussian of its distance to the
// nearest predicted beat, normalised by the mean length of both sequences.
func Cemgil(reference, prediction []float64, cfg Config) float64 {
	return cemgil(reference, prediction, cfg.CemgilSigma)
}

// CemgilMax is Cemgil taken as the best score over the off-beat, double
// and half tempo variations of the reference.
func CemgilMax(reference, prediction []float64, cfg Config) float64 {
	if len(reference) < 2 || len(prediction) < 2 {
		return 0
	}
	best := 0.0
	for _, variant := range referenceVariations(reference) {
		best = math.Max(best, cemgil(variant, prediction, cfg.CemgilSigma))
	}
	return best
}

func cemgil(reference, prediction []float64, sigma float64) float64 {
	matches := Nearest(prediction, reference)
	if len(matches) == 0 {
		return 0
	}

	var accuracy float64
	for _, m := range matches {
		accuracy += math.Exp(-(m.Error * m.Error) / (2 * sigma * sigma))
	}
	score := accuracy / (0.5 * float64(len(reference)+len(prediction)))
	return math.Min(score, 1)
}
