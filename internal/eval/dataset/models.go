package dataset

import (
	"strings"

	"github.com/lehigh-university-libraries/beateval/internal/eval/score"
)

// Task is one prediction file selected for evaluation.
type Task struct {
	ID             string // track identifier shared by prediction and reference
	PredictionPath string
	ReferencePath  string
	OutputPath     string
	Variant        Variant
}

// OnsetAggregate is how the onset envelope behind a prediction was pooled
// across frequency bands.
type OnsetAggregate int

const (
	AggregateUnknown OnsetAggregate = iota
	AggregateMean                   // "sum"
	AggregateMedian                 // "med"
)

var aggregateNames = map[OnsetAggregate]string{
	AggregateMean:   "sum",
	AggregateMedian: "med",
}

func (a OnsetAggregate) String() string {
	if s, ok := aggregateNames[a]; ok {
		return s
	}
	return "unknown"
}

// SpectrogramView is the spectrogram decomposition the prediction was
// computed from.
type SpectrogramView int

const (
	ViewUnknown SpectrogramView = iota
	ViewFull
	ViewHarmonic
	ViewPercussive
	ViewLowRank
	ViewSparse
	ViewHP
)

var viewNames = map[SpectrogramView]string{
	ViewFull:       "full",
	ViewHarmonic:   "harmonic",
	ViewPercussive: "percussive",
	ViewLowRank:    "lowrank",
	ViewSparse:     "sparse",
	ViewHP:         "hp",
}

func (v SpectrogramView) String() string {
	if s, ok := viewNames[v]; ok {
		return s
	}
	return "unknown"
}

// Variant identifies the processing pipeline that produced a prediction.
type Variant struct {
	Aggregate OnsetAggregate
	View      SpectrogramView
}

// VariantUnknown is returned for file names outside the naming scheme.
var VariantUnknown = Variant{}

func (v Variant) String() string {
	if v == VariantUnknown {
		return "unknown"
	}
	return v.Aggregate.String() + "." + v.View.String()
}

// ParseVariant resolves the variant encoded in a prediction's base name
// without its extension, "<id>.log.<aggregate>.<view>".
func ParseVariant(raw string) Variant {
	parts := strings.Split(raw, ".")
	if len(parts) < 4 || parts[len(parts)-3] != "log" {
		return VariantUnknown
	}

	v := Variant{
		Aggregate: lookup(aggregateNames, parts[len(parts)-2]),
		View:      lookup(viewNames, parts[len(parts)-1]),
	}
	if v.Aggregate == AggregateUnknown || v.View == ViewUnknown {
		return VariantUnknown
	}
	return v
}

func lookup[K comparable](names map[K]string, s string) K {
	for k, name := range names {
		if name == s {
			return k
		}
	}
	var zero K
	return zero
}

// ScoreRecord is one row of the flattened score table.
type ScoreRecord struct {
	ID        string  `json:"id" yaml:"id" parquet:"id"`
	File      string  `json:"file" yaml:"file" parquet:"file"`
	Aggregate string  `json:"aggregate" yaml:"aggregate" parquet:"aggregate"`
	View      string  `json:"view" yaml:"view" parquet:"view"`
	Cemgil    float64 `json:"cemgil" yaml:"cemgil" parquet:"cemgil"`
	CMLc      float64 `json:"cmlc" yaml:"cmlc" parquet:"cmlc"`
	CMLt      float64 `json:"cmlt" yaml:"cmlt" parquet:"cmlt"`
	AMLc      float64 `json:"amlc" yaml:"amlc" parquet:"amlc"`
	AMLt      float64 `json:"amlt" yaml:"amlt" parquet:"amlt"`
	FMeasure  float64 `json:"f_measure" yaml:"f_measure" parquet:"f_measure"`
	Goto      float64 `json:"goto" yaml:"goto" parquet:"goto"`
	InfoGain  float64 `json:"information_gain" yaml:"information_gain" parquet:"information_gain"`
	PScore    float64 `json:"p_score" yaml:"p_score" parquet:"p_score"`
}

// NewScoreRecord flattens a score vector for the file named raw.
func NewScoreRecord(raw string, v score.Vector) ScoreRecord {
	variant := ParseVariant(raw)
	return ScoreRecord{
		ID:        TrackID(raw),
		File:      raw,
		Aggregate: variant.Aggregate.String(),
		View:      variant.View.String(),
		Cemgil:    v[score.Cemgil],
		CMLc:      v[score.CMLc],
		CMLt:      v[score.CMLt],
		AMLc:      v[score.AMLc],
		AMLt:      v[score.AMLt],
		FMeasure:  v[score.FMeasure],
		Goto:      v[score.Goto],
		InfoGain:  v[score.InfoGain],
		PScore:    v[score.PScore],
	}
}

// Vector returns the record's scores in column order.
func (r ScoreRecord) Vector() score.Vector {
	return score.Vector{r.Cemgil, r.CMLc, r.CMLt, r.AMLc, r.AMLt, r.FMeasure, r.Goto, r.InfoGain, r.PScore}
}

// Variant resolves the record's pipeline variant.
func (r ScoreRecord) Variant() Variant {
	return ParseVariant(r.File)
}
