// Package beats loads and preconditions beat-time sequences.
package beats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ErrMalformedInput indicates a beat file that cannot be read, parsed, or is empty.
var ErrMalformedInput = errors.New("beats: malformed input")

// Sequence is a list of beat times in seconds. It is not assumed to be
// sorted or unique until it has been passed through Precondition.
type Sequence []float64

// Parse reads one beat per line. Blank lines and lines starting with '#'
// are skipped; the first comma or whitespace separated field is the time.
func Parse(r io.Reader) (Sequence, error) {
	var seq Sequence
	scanner := bufio.NewScanner(r)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedInput, lineNum, err)
		}
		if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
			return nil, fmt.Errorf("%w: line %d: invalid beat time %v", ErrMalformedInput, lineNum, t)
		}
		seq = append(seq, t)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if len(seq) == 0 {
		return nil, fmt.Errorf("%w: no beats", ErrMalformedInput)
	}

	return seq, nil
}

// Load reads a beat file from disk.
func Load(path string) (Sequence, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	defer file.Close()

	seq, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seq, nil
}

// Precondition returns a sorted copy of seq with every beat before
// minBeatTime removed and beats closer than epsilon to their predecessor
// collapsed. The input is never modified.
func Precondition(seq Sequence, minBeatTime, epsilon float64) Sequence {
	sorted := make(Sequence, len(seq))
	copy(sorted, seq)
	sort.Float64s(sorted)

	out := make(Sequence, 0, len(sorted))
	for _, t := range sorted {
		if t < minBeatTime {
			continue
		}
		if n := len(out); n > 0 && t-out[n-1] <= epsilon {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Intervals returns the gaps between consecutive beats.
func (s Sequence) Intervals() []float64 {
	if len(s) < 2 {
		return nil
	}
	out := make([]float64, len(s)-1)
	for i := 1; i < len(s); i++ {
		out[i-1] = s[i] - s[i-1]
	}
	return out
}

// Tempo estimates beats per minute from the median inter-beat interval.
// Returns 0 for sequences with fewer than two beats.
func (s Sequence) Tempo() float64 {
	median := Median(s.Intervals())
	if median <= 0 {
		return 0
	}
	return 60 / median
}

// Median returns the median of xs, averaging the middle pair for even
// lengths, or 0 when xs is empty. xs is not modified.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
