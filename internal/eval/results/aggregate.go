package results

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/lehigh-university-libraries/beateval/internal/eval/dataset"
	"github.com/lehigh-university-libraries/beateval/internal/eval/score"
)

// OverallVariant labels the summary taken over every record.
const OverallVariant = "all"

// VariantStats summarises the scores of one prediction variant.
type VariantStats struct {
	Variant string       `json:"variant" yaml:"variant"`
	Files   int          `json:"files" yaml:"files"`
	Mean    score.Vector `json:"mean" yaml:"mean,flow"`
	StdDev  score.Vector `json:"std_dev" yaml:"std_dev,flow"`
}

// Aggregate groups records by variant and computes per-column mean and
// standard deviation. Groups are sorted by variant name and followed by
// the overall summary.
func Aggregate(records []dataset.ScoreRecord) []VariantStats {
	groups := make(map[string][]score.Vector)
	var all []score.Vector
	for _, r := range records {
		v := r.Vector()
		name := r.Variant().String()
		groups[name] = append(groups[name], v)
		all = append(all, v)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	stats := make([]VariantStats, 0, len(names)+1)
	for _, name := range names {
		stats = append(stats, summarise(name, groups[name]))
	}
	if len(all) > 0 {
		stats = append(stats, summarise(OverallVariant, all))
	}
	return stats
}

func summarise(name string, vectors []score.Vector) VariantStats {
	s := VariantStats{Variant: name, Files: len(vectors)}

	column := make([]float64, len(vectors))
	for slot := 0; slot < score.NumSlots; slot++ {
		for i, v := range vectors {
			column[i] = v[slot]
		}
		s.Mean[slot] = stat.Mean(column, nil)
		if len(column) > 1 {
			s.StdDev[slot] = stat.StdDev(column, nil)
		}
	}
	return s
}
