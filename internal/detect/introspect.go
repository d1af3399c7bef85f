package detect

import "math"

// Introspection over the validated inputs. These reports are strictly
// read-only: they never feed back into weights, thresholds, or the
// score itself.

// VisibilityLevels is the recognized ordering of the layer hierarchy,
// finest first.
var VisibilityLevels = []string{"micro", "meso", "macro", "meta"}

// VisibilityReport aggregates per-layer contributions up a caller-
// declared micro/meso/macro/meta hierarchy.
type VisibilityReport struct {
	// Contributions holds each layer's W*L*I term.
	Contributions map[string]float64 `json:"contributions"`
	// Levels holds the summed contribution per hierarchy level, for
	// levels that have at least one mapped layer.
	Levels map[string]float64 `json:"levels"`
	// Dominant is the level with the largest absolute contribution.
	Dominant string `json:"dominant"`
	// Unmapped lists layers the hierarchy did not place.
	Unmapped []string `json:"unmapped,omitempty"`
}

// CouplingReport measures how tightly the layers move together.
// Coherence is 1.0 when every layer carries the same value and falls
// toward 0 as the spread widens.
type CouplingReport struct {
	Coherence float64 `json:"coherence"`
	Mean      float64 `json:"mean"`
	// Deviations holds each layer's offset from the mean.
	Deviations map[string]float64 `json:"deviations"`
}

func couplingReport(cfg *DomainConfig, kept []int, values []float64) *CouplingReport {
	mean := 0.0
	minV, maxV := values[0], values[0]
	for _, v := range values {
		mean += v
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	mean /= float64(len(values))

	r := &CouplingReport{
		Coherence:  math.Max(0, 1-(maxV-minV)),
		Mean:       mean,
		Deviations: make(map[string]float64, len(values)),
	}
	for pos, v := range values {
		r.Deviations[cfg.LayerNames[kept[pos]]] = v - mean
	}
	return r
}

func visibilityReport(cfg *DomainConfig, kept []int, w, l, i []float64, hierarchy map[string]string) *VisibilityReport {
	r := &VisibilityReport{
		Contributions: make(map[string]float64, len(kept)),
		Levels:        make(map[string]float64),
	}

	for pos, idx := range kept {
		name := cfg.LayerNames[idx]
		contribution := w[pos] * l[pos] * i[pos]
		r.Contributions[name] = contribution

		level, ok := hierarchy[name]
		if !ok {
			r.Unmapped = append(r.Unmapped, name)
			continue
		}
		r.Levels[level] += contribution
	}

	best := math.Inf(-1)
	for _, level := range VisibilityLevels {
		sum, ok := r.Levels[level]
		if ok && math.Abs(sum) > best {
			best = math.Abs(sum)
			r.Dominant = level
		}
	}
	// Hierarchies may use labels outside the canonical four.
	for level, sum := range r.Levels {
		if math.Abs(sum) > best {
			best = math.Abs(sum)
			r.Dominant = level
		}
	}
	return r
}
