package metrics

import "math"

// Match associates a query beat with its nearest target beat.
type Match struct {
	Target int     // index into the target sequence
	Error  float64 // query time minus target time, in seconds
}

// Nearest finds, for every query, the closest target. Ties resolve to the
// earliest target index. Sequences of fewer than two beats carry no timing
// information, so either input that short yields no matches.
func Nearest(targets, queries []float64) []Match {
	if len(targets) < 2 || len(queries) < 2 {
		return nil
	}

	matches := make([]Match, len(queries))
	for q, query := range queries {
		best := 0
		bestDist := math.Abs(query - targets[0])
		for i := 1; i < len(targets); i++ {
			if d := math.Abs(query - targets[i]); d < bestDist {
				best, bestDist = i, d
			}
		}
		matches[q] = Match{Target: best, Error: query - targets[best]}
	}
	return matches
}

// LocalIntervals returns the local inter-beat interval at every beat: the
// mean of the gaps on either side, or the single available gap at the ends.
// Sequences shorter than two beats have no intervals.
func LocalIntervals(seq []float64) []float64 {
	n := len(seq)
	if n < 2 {
		return nil
	}

	out := make([]float64, n)
	out[0] = seq[1] - seq[0]
	out[n-1] = seq[n-1] - seq[n-2]
	for i := 1; i < n-1; i++ {
		out[i] = 0.5 * (seq[i+1] - seq[i-1])
	}
	return out
}

// referenceVariations returns the reference beats at the annotated metrical
// level followed by the off-beat, double tempo, and both half tempo variants.
func referenceVariations(ref []float64) [][]float64 {
	n := len(ref)
	double := make([]float64, 0, 2*n)
	offbeat := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		double = append(double, ref[i])
		if i+1 < n {
			mid := 0.5 * (ref[i] + ref[i+1])
			double = append(double, mid)
			offbeat = append(offbeat, mid)
		}
	}

	halfOdd := make([]float64, 0, (n+1)/2)
	halfEven := make([]float64, 0, n/2)
	for i, t := range ref {
		if i%2 == 0 {
			halfOdd = append(halfOdd, t)
		} else {
			halfEven = append(halfEven, t)
		}
	}

	return [][]float64{ref, offbeat, double, halfOdd, halfEven}
}

// longestRun returns the length of the longest stretch of true flags.
func longestRun(flags []bool) (length, start int) {
	run := 0
	for i, ok := range flags {
		if !ok {
			run = 0
			continue
		}
		run++
		if run > length {
			length, start = run, i-run+1
		}
	}
	return length, start
}

func countTrue(flags []bool) int {
	n := 0
	for _, ok := range flags {
		if ok {
			n++
		}
	}
	return n
}
