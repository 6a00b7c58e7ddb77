package metrics

import "math"

// InformationGain measures how far the distribution of beat timing errors
// is from uniform. Errors are taken relative to the local reference interval
// and wrapped into [-0.5, 0.5) so that off-beat and metrical level mistakes
// still concentrate in a few bins. The result is the KL divergence
// log2(bins) - H of the more uniform of the forward (prediction against
// reference) and backward histograms.
func InformationGain(reference, prediction []float64, cfg Config) float64 {
	bins := cfg.InfoGainBins
	if len(reference) < 2 || len(prediction) < 2 || bins < 2 {
		return 0
	}

	forward := errorEntropy(reference, prediction, bins)
	backward := errorEntropy(prediction, reference, bins)

	norm := math.Log2(float64(bins))
	gain := math.Max(norm-math.Max(forward, backward), 0)

	if cfg.InfoGainScale == ScaleNormalized {
		return gain / norm
	}
	return gain
}

// errorEntropy histograms the wrapped relative error of every query beat
// against its nearest target and returns the histogram entropy in bits.
func errorEntropy(targets, queries []float64, bins int) float64 {
	hist := make([]float64, bins)
	total := 0.0

	last := len(targets) - 1
	for _, m := range Nearest(targets, queries) {
		j := m.Target

		var interval float64
		switch {
		case j == 0:
			interval = targets[1] - targets[0]
		case j == last:
			interval = targets[j] - targets[j-1]
		case m.Error < 0:
			interval = targets[j] - targets[j-1]
		default:
			interval = targets[j+1] - targets[j]
		}
		if interval <= 0 {
			continue
		}

		e := m.Error / interval
		e -= math.Floor(e + 0.5)

		bin := int(math.Floor((e + 0.5) * float64(bins)))
		bin = min(max(bin, 0), bins-1)
		hist[bin]++
		total++
	}

	if total == 0 {
		return math.Log2(float64(bins))
	}

	// Empty bins contribute nothing (p log p -> 0).
	var h float64
	for _, count := range hist {
		if count == 0 {
			continue
		}
		p := count / total
		h -= p * math.Log2(p)
	}
	return h
}
