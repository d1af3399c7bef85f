package validate

import (
	"math"
	"sort"
)

// ClampThreshold bounds a caller-requested threshold override to
// within ±20% of the domain default, intersected with the absolute
// [ThresholdFloor, ThresholdCeil] hard bounds (hard bounds win when a
// default sits near the edge). Out-of-band requests are clamped to the
// nearest bound, never rejected; non-finite requests fall back to the
// default and the refusal is recorded.
func ClampThreshold(requested, def float64) Adjustment {
	lo := math.Max(def*(1-ThresholdDrift), ThresholdFloor)
	hi := math.Min(def*(1+ThresholdDrift), ThresholdCeil)
	bounds := Bounds{lo, hi}

	if !isFinite(requested) {
		return Adjustment{
			Requested:  requested,
			Used:       def,
			WasClamped: true,
			Bounds:     &bounds,
			Reason:     "non-finite override rejected; default used",
		}
	}

	used := math.Min(math.Max(requested, lo), hi)
	adj := Adjustment{Requested: requested, Used: used}
	if used != requested {
		adj.WasClamped = true
		adj.Bounds = &bounds
	}
	return adj
}

// ApplyThresholdOverrides resolves a full threshold override map
// against the domain defaults. Unknown keys are ignored and listed in
// the audit's IgnoredKeys, not treated as errors. Returns the active
// threshold set and the audit block (nil when no overrides were
// requested).
func ApplyThresholdOverrides(defaults, overrides map[string]float64) (map[string]float64, *ThresholdAudit) {
	active := make(map[string]float64, len(defaults))
	for k, v := range defaults {
		active[k] = v
	}

	if len(overrides) == 0 {
		return active, nil
	}

	audit := &ThresholdAudit{
		Requested: overrides,
		Applied:   make(map[string]Adjustment),
	}

	for key, requested := range overrides {
		def, known := defaults[key]
		if !known {
			audit.IgnoredKeys = append(audit.IgnoredKeys, key)
			continue
		}
		adj := ClampThreshold(requested, def)
		active[key] = adj.Used
		audit.Applied[key] = adj
		if adj.WasClamped {
			audit.Clamped = true
		}
	}

	sort.Strings(audit.IgnoredKeys)
	return active, audit
}
