package detect

import "math"

// optimalFloor splits an open emergence window into FAVORABLE and
// OPTIMAL classifications.
const optimalFloor = 0.8

// FrictionReport describes cross-layer divergence. A wide spread
// between the strongest and weakest layer signals interference between
// forces that the composite score alone would hide.
type FrictionReport struct {
	Detected bool    `json:"detected"`
	Range    float64 `json:"range"`
	// Severity is the detection range capped at 1.0.
	Severity  float64 `json:"severity"`
	Threshold float64 `json:"threshold"`
	// MaxLayer and MinLayer name the diverging pair.
	MaxLayer string `json:"max_layer"`
	MinLayer string `json:"min_layer"`
	Summary  string `json:"summary"`
}

// EmergenceReport describes cross-layer alignment. The window opens
// when the weakest layer clears the domain's alignment threshold.
type EmergenceReport struct {
	WindowOpen     bool    `json:"window_open"`
	AlignmentFloor float64 `json:"alignment_floor"`
	Threshold      float64 `json:"threshold"`
	// Classification is OPTIMAL or FAVORABLE when the window is open,
	// empty otherwise.
	Classification string  `json:"classification,omitempty"`
	Confidence     float64 `json:"confidence,omitempty"`
	// LimitingFactor names the weakest layer: the first place more
	// signal would widen the window.
	LimitingFactor string `json:"limiting_factor,omitempty"`
	// BelowThreshold lists the layers holding the window shut.
	BelowThreshold []string `json:"below_threshold,omitempty"`
	Summary        string   `json:"summary"`
}

func frictionReport(cfg *DomainConfig, kept []int, values []float64, thresholds map[string]float64) *FrictionReport {
	threshold := thresholds[cfg.DetectionKey]

	maxIdx, minIdx := 0, 0
	for pos, v := range values {
		if v > values[maxIdx] {
			maxIdx = pos
		}
		if v < values[minIdx] {
			minIdx = pos
		}
	}

	r := &FrictionReport{
		Range:     values[maxIdx] - values[minIdx],
		Threshold: threshold,
		MaxLayer:  cfg.LayerNames[kept[maxIdx]],
		MinLayer:  cfg.LayerNames[kept[minIdx]],
	}

	if r.Range > threshold {
		r.Detected = true
		r.Severity = math.Min(r.Range, 1.0)
		r.Summary = "friction detected: " + r.MaxLayer + " and " + r.MinLayer + " are diverging"
	} else {
		r.Summary = "no significant cross-layer friction"
	}
	return r
}

func emergenceReport(cfg *DomainConfig, kept []int, values []float64, thresholds map[string]float64) *EmergenceReport {
	threshold := thresholds[cfg.DetectionKey]

	minIdx := 0
	for pos, v := range values {
		if v < values[minIdx] {
			minIdx = pos
		}
	}

	r := &EmergenceReport{
		AlignmentFloor: values[minIdx],
		Threshold:      threshold,
		LimitingFactor: cfg.LayerNames[kept[minIdx]],
	}

	if r.AlignmentFloor > threshold {
		r.WindowOpen = true
		if r.AlignmentFloor > optimalFloor {
			r.Classification = "OPTIMAL"
			r.Confidence = 0.95
		} else {
			r.Classification = "FAVORABLE"
			r.Confidence = 0.75
		}
		r.Summary = "emergence window open; limiting factor is " + r.LimitingFactor
		return r
	}

	for pos, v := range values {
		if v <= threshold {
			r.BelowThreshold = append(r.BelowThreshold, cfg.LayerNames[kept[pos]])
		}
	}
	r.Summary = "window closed: alignment floor below threshold"
	return r
}
