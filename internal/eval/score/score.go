// Package score assembles the nine beat tracking metrics into one fixed
// width vector and classifies each evaluation as ok or degenerate.
package score

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/lehigh-university-libraries/beateval/internal/beats"
	"github.com/lehigh-university-libraries/beateval/internal/eval/metrics"
)

// ErrNumericInstability indicates a metric produced a value outside its range.
var ErrNumericInstability = errors.New("score: numeric instability")

// Slot indices into a Vector.
const (
	Cemgil = iota
	CMLc
	CMLt
	AMLc
	AMLt
	FMeasure
	Goto
	InfoGain
	PScore

	NumSlots
)

// Header is the column header written above every score row.
const Header = "Cemgil, CMLc, CMLt, AMLc, AMLt, F-Meas, Goto, I.Gain, P_score"

var names = [NumSlots]string{"Cemgil", "CMLc", "CMLt", "AMLc", "AMLt", "F-Meas", "Goto", "I.Gain", "P_score"}

// Vector holds one evaluation's scores in Header order.
type Vector [NumSlots]float64

// Names returns the slot names in column order.
func Names() []string {
	out := make([]string, NumSlots)
	copy(out, names[:])
	return out
}

// Valid checks every slot is finite and inside its range under cfg.
func (v Vector) Valid(cfg metrics.Config) error {
	for i, x := range v {
		hi := 1.0
		if i == InfoGain {
			hi = cfg.MaxInfoGain()
		}
		if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 || x > hi+1e-9 {
			return fmt.Errorf("%w: %s = %v", ErrNumericInstability, names[i], x)
		}
	}
	return nil
}

// Status classifies an evaluation.
type Status string

const (
	StatusOK              Status = "ok"
	StatusDegenerateInput Status = "degenerate-input"
)

// Result is the outcome of scoring one prediction file.
type Result struct {
	ID     string
	Vector Vector
	Status Status
	Err    error
}

// Evaluate preconditions both sequences and runs every metric in slot order.
func Evaluate(reference, prediction beats.Sequence, cfg metrics.Config) Vector {
	ref := beats.Precondition(reference, cfg.MinBeatTime, cfg.DedupEpsilon)
	pred := beats.Precondition(prediction, cfg.MinBeatTime, cfg.DedupEpsilon)

	c := metrics.Continuity(ref, pred, cfg)

	var v Vector
	v[Cemgil] = metrics.Cemgil(ref, pred, cfg)
	v[CMLc] = c.CMLc
	v[CMLt] = c.CMLt
	v[AMLc] = c.AMLc
	v[AMLt] = c.AMLt
	v[FMeasure] = metrics.FMeasure(ref, pred, cfg)
	v[Goto] = metrics.Goto(ref, pred, cfg)
	v[InfoGain] = metrics.InformationGain(ref, pred, cfg)
	v[PScore] = metrics.PScore(ref, pred, cfg)
	return v
}

// Score evaluates an in-memory pair. An empty input sequence, or a vector
// that fails Valid, yields the all-zero vector with StatusDegenerateInput.
func Score(id string, reference, prediction beats.Sequence, cfg metrics.Config) Result {
	switch {
	case len(reference) == 0:
		return Degenerate(id, fmt.Errorf("%w: empty reference", beats.ErrMalformedInput))
	case len(prediction) == 0:
		return Degenerate(id, fmt.Errorf("%w: empty prediction", beats.ErrMalformedInput))
	}

	v := Evaluate(reference, prediction, cfg)
	if err := v.Valid(cfg); err != nil {
		return Degenerate(id, err)
	}
	return Result{ID: id, Vector: v, Status: StatusOK}
}

// EvaluateFiles loads a prediction and its reference from disk and scores them.
func EvaluateFiles(id, predictionPath, referencePath string, cfg metrics.Config) Result {
	reference, err := beats.Load(referencePath)
	if err != nil {
		return Degenerate(id, fmt.Errorf("failed to load reference: %w", err))
	}
	prediction, err := beats.Load(predictionPath)
	if err != nil {
		return Degenerate(id, fmt.Errorf("failed to load prediction: %w", err))
	}
	return Score(id, reference, prediction, cfg)
}

// Degenerate builds the zero-vector fallback for id and logs the cause.
func Degenerate(id string, err error) Result {
	slog.Warn("Degenerate input", "id", id, "error", err)
	return Result{ID: id, Status: StatusDegenerateInput, Err: err}
}
