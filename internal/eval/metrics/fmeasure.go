package metrics

import (
	"math"
	"sort"
)

// MatchCounts summarises a one-to-one matching of predicted to reference beats.
type MatchCounts struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	Precision      float64
	Recall         float64
	F1             float64
}

// FMeasure is the harmonic mean of precision and recall, counting a
// prediction as a hit when it can be paired with a distinct reference beat
// inside the F-measure window.
func FMeasure(reference, prediction []float64, cfg Config) float64 {
	if len(reference) < 2 || len(prediction) < 2 {
		return 0
	}
	return MatchBeats(reference, prediction, cfg.FMeasureWindow).F1
}

// MatchBeats pairs predicted and reference beats greedily, closest pairs
// first, so each beat is used at most once.
func MatchBeats(reference, prediction []float64, window float64) MatchCounts {
	type pair struct {
		ref, pred int
		dist      float64
	}

	var candidates []pair
	for i, r := range reference {
		for j, p := range prediction {
			if d := math.Abs(p - r); d <= window {
				candidates = append(candidates, pair{ref: i, pred: j, dist: d})
			}
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].dist < candidates[b].dist
	})

	refUsed := make([]bool, len(reference))
	predUsed := make([]bool, len(prediction))
	tp := 0
	for _, c := range candidates {
		if refUsed[c.ref] || predUsed[c.pred] {
			continue
		}
		refUsed[c.ref] = true
		predUsed[c.pred] = true
		tp++
	}

	m := MatchCounts{
		TruePositives:  tp,
		FalsePositives: len(prediction) - tp,
		FalseNegatives: len(reference) - tp,
	}

	if len(prediction) > 0 {
		m.Precision = float64(tp) / float64(len(prediction))
	}
	if len(reference) > 0 {
		m.Recall = float64(tp) / float64(len(reference))
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	return m
}
