// Package kernel implements the immutable Mantic scoring formula and
// the temporal kernel evaluator.
//
//	S = Σ Wᵢ·Lᵢ·Iᵢ          (spatial component)
//	M = (S · f_time) / k_n   (final score)
//
// The formula is intentionally simple, deterministic, and strictly
// validated. It holds no state: every call is a pure function of its
// arguments, safe to invoke concurrently. Input governance (clamping,
// renormalization, auditing) lives in internal/validate — this package
// only re-checks the structural invariants it cannot function without.
package kernel

import (
	"fmt"
	"math"
)

const (
	// MaxVal is the saturation sentinel: any term that would overflow
	// to ±Inf is capped at ±MaxVal and the result flagged as saturated.
	MaxVal = 1e300

	// minPositive is the positivity floor for temporal kernel outputs
	// and the zero-threshold below which attribution is undefined.
	minPositive = 1e-10

	// weightSumTolerance is the allowed deviation of Σ Wᵢ from 1.0.
	weightSumTolerance = 1e-6
)

// Score is the output of a single kernel evaluation.
type Score struct {
	// M is the final score. Unbounded above when f_time or any Iᵢ
	// exceeds 1 — amplified signals are by contract, not clamped away.
	M float64 `json:"m_score"`

	// S is the pre-temporal weighted sum Σ Wᵢ·Lᵢ·Iᵢ.
	S float64 `json:"spatial_component"`

	// Attribution holds each layer's proportional share Wᵢ·Lᵢ·Iᵢ / S.
	// All zeros when |S| is below the zero threshold.
	Attribution []float64 `json:"attribution"`

	// Saturated reports that a term overflowed float64 and was capped
	// at ±MaxVal instead of propagating infinity.
	Saturated bool `json:"saturated"`
}

// NormalizationError reports a non-positive normalization constant.
// This is a configuration failure, not a caller-input failure, and the
// call fails closed.
type NormalizationError struct {
	KN float64
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalization constant k_n must be positive, got %g", e.KN)
}

// ArityError reports mismatched W/L/I lengths.
type ArityError struct {
	W, L, I int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("array length mismatch: W=%d L=%d I=%d", e.W, e.L, e.I)
}

// WeightSumError reports weights that do not sum to 1 within tolerance.
// Unreachable when inputs pass through internal/validate first; kept as
// defense in depth because the formula is meaningless without it.
type WeightSumError struct {
	Sum float64
}

func (e *WeightSumError) Error() string {
	return fmt.Sprintf("weights must sum to 1.0, got %g", e.Sum)
}

// Compute evaluates the formula over fully validated inputs: weights
// summing to 1, layer values within their declared ranges, interaction
// coefficients in [0.1, 2.0], and positive fTime and kn. The result's
// sign always equals the sign of S because fTime and kn are positive.
func Compute(w, l, i []float64, fTime, kn float64) (Score, error) {
	if kn <= 0 || math.IsNaN(kn) {
		return Score{}, &NormalizationError{KN: kn}
	}
	if len(w) != len(l) || len(l) != len(i) {
		return Score{}, &ArityError{W: len(w), L: len(l), I: len(i)}
	}

	sum := 0.0
	for _, v := range w {
		sum += v
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return Score{}, &WeightSumError{Sum: sum}
	}

	score := Score{Attribution: make([]float64, len(w))}

	terms := make([]float64, len(w))
	for idx := range w {
		terms[idx] = w[idx] * l[idx] * i[idx]
		score.S += terms[idx]
	}

	m := (score.S * fTime) / kn
	if math.IsInf(m, 0) {
		m = math.Copysign(MaxVal, m)
		score.Saturated = true
	}
	score.M = m

	if math.Abs(score.S) > minPositive {
		for idx, term := range terms {
			score.Attribution[idx] = term / score.S
		}
	}

	return score, nil
}
