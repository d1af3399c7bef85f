// Package validate implements the input validator and governance clamp
// that sits between raw caller input and the immutable kernel.
//
// The propagation policy is deliberate: out-of-range values are
// recovered locally — clamped and recorded in the audit trail — while
// structurally impossible requests (missing required data, disallowed
// kernel, non-positive normalization) become hard errors. An automated
// caller should rarely be blocked by governance, only shaped by it, and
// must never be handed an unbounded or undefined result.
package validate

import (
	"math"
)

// Governance bounds. These are the system's non-negotiables: no caller
// input, however phrased, escapes them.
const (
	InteractionMin = 0.1
	InteractionMax = 2.0

	FTimeMin = 0.1
	FTimeMax = 3.0

	AlphaMin = 0.01
	AlphaMax = 0.5

	NoveltyMin = -2.0
	NoveltyMax = 2.0

	// ThresholdDrift is the relative band (±20%) a threshold override
	// may move from its domain default.
	ThresholdDrift = 0.2

	// ThresholdFloor and ThresholdCeil are absolute hard bounds that
	// win over the drift band when a default sits near the edge.
	ThresholdFloor = 0.05
	ThresholdCeil  = 0.95

	// MinValidLayers is the smallest layer count that still counts as
	// a multi-signal score after missing-data exclusion.
	MinValidLayers = 2

	zeroWeightSum = 1e-10
)

// Range bounds a layer value. The universal default is [0, 1];
// signed-flow layers use [-1, 1].
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Unit is the default [0, 1] layer range.
var Unit = Range{Min: 0, Max: 1}

// Signed is the [-1, 1] range for signed-flow layers.
var Signed = Range{Min: -1, Max: 1}

// Clamp bounds v into r. NaN passes through untouched — it means
// "missing", not zero.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Min(math.Max(v, r.Min), r.Max)
}

// Contains reports whether v lies inside r.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Layers is the validated layer-value set for one invocation.
type Layers struct {
	// Values holds every layer's clamped value; missing layers stay NaN.
	Values []float64
	// Valid flags which indices carry usable data.
	Valid []bool
	// ValidCount is the number of true entries in Valid.
	ValidCount int
}

// ValidateLayers clamps each layer value into its declared range and
// classifies missing data. NaN is treated as missing; infinities are
// hard errors because they are values the caller asserted, not gaps.
// Fails with InsufficientLayersError when fewer than MinValidLayers
// layers remain.
func ValidateLayers(values []float64, ranges []Range, names []string) (Layers, error) {
	if len(values) != len(names) {
		return Layers{}, &InputError{
			Field:  "layer_values",
			Value:  float64(len(values)),
			Reason: "layer value count must match layer count",
		}
	}

	out := Layers{
		Values: make([]float64, len(values)),
		Valid:  make([]bool, len(values)),
	}

	for i, v := range values {
		if math.IsInf(v, 0) {
			return Layers{}, &InputError{
				Field: names[i], Value: v, Reason: "must be finite",
			}
		}
		r := Unit
		if i < len(ranges) {
			r = ranges[i]
		}
		out.Values[i] = r.Clamp(v)
		if !math.IsNaN(v) {
			out.Valid[i] = true
			out.ValidCount++
		}
	}

	if out.ValidCount < MinValidLayers {
		return Layers{}, &InsufficientLayersError{
			Valid:    out.ValidCount,
			Required: MinValidLayers,
		}
	}

	return out, nil
}

// NormalizeWeights rescales raw weights to sum to 1.0. Negative
// entries are floored at zero before rescaling; non-finite entries are
// hard errors. Returns the normalized weights and an audit of what
// changed. An all-zero weight set cannot be normalized and fails.
func NormalizeWeights(raw []float64) ([]float64, *WeightAudit, error) {
	audit := &WeightAudit{Requested: append([]float64(nil), raw...)}

	clamped := make([]float64, len(raw))
	sum := 0.0
	for i, w := range raw {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, nil, &InputError{
				Field: "weights", Value: w, Reason: "must be finite",
			}
		}
		if w < 0 {
			audit.NegativeClamped = append(audit.NegativeClamped, i)
			w = 0
		}
		clamped[i] = w
		sum += w
	}

	if sum < zeroWeightSum {
		return nil, nil, &InputError{
			Field:  "weights",
			Value:  sum,
			Reason: "cannot normalize: all weights are zero or negative",
		}
	}

	out := make([]float64, len(clamped))
	for i, w := range clamped {
		out[i] = w / sum
	}

	audit.Used = out
	audit.Renormalized = len(audit.NegativeClamped) > 0 || math.Abs(sum-1.0) > 1e-9
	return out, audit, nil
}

// ExcludeMissing drops layers flagged missing and renormalizes the
// surviving weights proportionally to their original relative weights.
// Call only after ValidateLayers has confirmed enough layers remain.
// Fails when all surviving weight mass sat on the excluded layers.
func ExcludeMissing(layers Layers, weights, interactions []float64, names []string) (w, l, i []float64, kept []int, excluded []string, err error) {
	if layers.ValidCount == len(layers.Values) {
		kept = make([]int, len(names))
		for idx := range names {
			kept[idx] = idx
		}
		return weights, layers.Values, interactions, kept, nil, nil
	}

	sum := 0.0
	for idx, ok := range layers.Valid {
		if ok {
			sum += weights[idx]
			kept = append(kept, idx)
		} else {
			excluded = append(excluded, names[idx])
		}
	}

	if sum < zeroWeightSum {
		return nil, nil, nil, nil, nil, &InputError{
			Field:  "weights",
			Value:  sum,
			Reason: "all weight rests on missing layers; nothing to renormalize",
		}
	}

	w = make([]float64, 0, len(kept))
	l = make([]float64, 0, len(kept))
	i = make([]float64, 0, len(kept))
	for _, idx := range kept {
		w = append(w, weights[idx]/sum)
		l = append(l, layers.Values[idx])
		i = append(i, interactions[idx])
	}
	return w, l, i, kept, excluded, nil
}

// ClampFTime bounds a directly-supplied temporal scale into
// [FTimeMin, FTimeMax]. Non-finite requests are rejected back to the
// neutral 1.0 and flagged as clamped so the audit shows the refusal.
func ClampFTime(requested float64) (float64, FTimeAudit) {
	audit := FTimeAudit{Requested: requested}

	if math.IsNaN(requested) || math.IsInf(requested, 0) {
		audit.Used = 1.0
		audit.Clamped = true
		return audit.Used, audit
	}

	used := math.Min(math.Max(requested, FTimeMin), FTimeMax)
	audit.Used = used
	audit.Clamped = used != requested
	return used, audit
}

// isFinite reports whether v is an ordinary number.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
