package metrics

import (
	"math"
	"sort"

	"github.com/lehigh-university-libraries/beateval/internal/beats"
)

// PScore correlates reference and predicted beat impulse trains sampled at
// PScoreSampleRate, summing the correlation over lags within PScoreThreshold
// of the median reference interval. The sum is divided by the longer
// sequence length and capped at 1. Both sequences must be sorted.
func PScore(reference, prediction []float64, cfg Config) float64 {
	if len(reference) < 2 || len(prediction) < 2 {
		return 0
	}

	offset := math.Min(reference[0], prediction[0])
	refTrain := impulses(reference, offset, cfg.PScoreSampleRate)
	predTrain := impulses(prediction, offset, cfg.PScoreSampleRate)
	if len(refTrain) < 2 {
		return 0
	}

	gaps := make([]float64, len(refTrain)-1)
	for i := 1; i < len(refTrain); i++ {
		gaps[i-1] = float64(refTrain[i] - refTrain[i-1])
	}
	window := int(math.Round(cfg.PScoreThreshold * beats.Median(gaps)))

	// Impulse positions are sorted, so the pairs within the lag window can be
	// counted with a sliding lower bound.
	var hits int
	lo := 0
	for _, r := range refTrain {
		for lo < len(predTrain) && predTrain[lo] < r-window {
			lo++
		}
		for j := lo; j < len(predTrain) && predTrain[j] <= r+window; j++ {
			hits++
		}
	}

	n := max(len(reference), len(prediction))
	return math.Min(float64(hits)/float64(n), 1)
}

// impulses converts beat times to sorted, unique sample indices.
func impulses(seq []float64, offset, rate float64) []int {
	out := make([]int, 0, len(seq))
	for _, t := range seq {
		out = append(out, int(math.Ceil((t-offset)*rate)))
	}
	sort.Ints(out)

	unique := out[:0]
	for _, idx := range out {
		if n := len(unique); n > 0 && unique[n-1] == idx {
			continue
		}
		unique = append(unique, idx)
	}
	return unique
}
