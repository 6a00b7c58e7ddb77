package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Goto returns 1 when the prediction contains a long enough continuously
// correct run of beats whose timing errors are small and stable, else 0.
//
// Only inner reference beats are scored. An inner beat is correct when
// exactly one predicted beat falls between the midpoints to its neighbours
// and that beat's error, relative to the half interval on its side, is
// within GotoThreshold.
func Goto(reference, prediction []float64, cfg Config) float64 {
	inner := len(reference) - 2
	if inner < 1 || len(prediction) < 2 {
		return 0
	}

	errs := make([]float64, inner)
	correct := make([]bool, inner)
	for n := 1; n < len(reference)-1; n++ {
		prevHalf := 0.5 * (reference[n] - reference[n-1])
		nextHalf := 0.5 * (reference[n+1] - reference[n])
		lo := reference[n] - prevHalf
		hi := reference[n] + nextHalf

		found := -1
		count := 0
		for j, p := range prediction {
			if p >= lo && p < hi {
				found = j
				count++
			}
		}
		if count != 1 {
			errs[n-1] = 1
			continue
		}

		offset := prediction[found] - reference[n]
		if offset < 0 {
			errs[n-1] = offset / prevHalf
		} else {
			errs[n-1] = offset / nextHalf
		}
		correct[n-1] = math.Abs(errs[n-1]) <= cfg.GotoThreshold
	}

	// The run length gate must pass before the run statistics are defined.
	// The run must exceed GotoMinRun of the reference intervals, and the
	// sample deviation needs at least two errors.
	length, start := longestRun(correct)
	if length < 2 || float64(length) <= cfg.GotoMinRun*float64(len(reference)-1) {
		return 0
	}

	track := errs[start : start+length]
	abs := make([]float64, len(track))
	for i, e := range track {
		abs[i] = math.Abs(e)
	}

	if stat.Mean(abs, nil) < cfg.GotoMu && stat.StdDev(track, nil) < cfg.GotoSigma {
		return 1
	}
	return 0
}
