package validate

// Audit record types. Every adjustable input that passes through the
// governance clamp leaves a structured trace here: what the caller
// requested, what was actually used, and whether bounds intervened.
// Nothing is silently dropped except explicitly-ignored unknown keys,
// which are themselves listed.

// Bounds is a [min, max] pair recorded alongside a clamped value.
type Bounds [2]float64

// Adjustment records a single requested-vs-used value.
type Adjustment struct {
	Requested  float64 `json:"requested"`
	Used       float64 `json:"used"`
	WasClamped bool    `json:"was_clamped"`
	Bounds     *Bounds `json:"bounds,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}

// Rejection records an override that was refused outright (the default
// was used instead) and why.
type Rejection struct {
	Requested any    `json:"requested"`
	Reason    string `json:"reason"`
}

// ThresholdAudit covers the threshold override block.
type ThresholdAudit struct {
	Requested   map[string]float64    `json:"requested"`
	Applied     map[string]Adjustment `json:"applied"`
	Clamped     bool                  `json:"clamped"`
	IgnoredKeys []string              `json:"ignored_keys,omitempty"`
}

// TemporalAudit covers temporal config validation: which parameters
// were accepted, which were rejected (with reasons), and which were
// clamped into bounds.
type TemporalAudit struct {
	Requested map[string]any        `json:"requested,omitempty"`
	Applied   *ResolvedTemporal     `json:"applied"`
	Rejected  map[string]Rejection  `json:"rejected,omitempty"`
	Clamped   map[string]Adjustment `json:"clamped,omitempty"`
	Ignored   []string              `json:"ignored_keys,omitempty"`
}

// InteractionAudit covers interaction coefficient resolution.
type InteractionAudit struct {
	InteractionMode string                `json:"interaction_mode"`
	OverrideMode    string                `json:"override_mode"`
	Requested       any                   `json:"requested"`
	Validated       []float64             `json:"validated,omitempty"`
	Used            []float64             `json:"used"`
	Rejected        map[string]Rejection  `json:"rejected,omitempty"`
	Clamped         map[string]Adjustment `json:"clamped"`
}

// FTimeAudit covers the resolved temporal scale.
type FTimeAudit struct {
	Requested float64 `json:"requested"`
	Used      float64 `json:"used"`
	Clamped   bool    `json:"clamped"`
}

// WeightAudit records weight renormalization adjustments.
type WeightAudit struct {
	Requested    []float64 `json:"requested"`
	Used         []float64 `json:"used"`
	Renormalized bool      `json:"renormalized"`
	// NegativeClamped lists indices whose raw weight was negative and
	// was floored at zero before renormalization.
	NegativeClamped []int `json:"negative_clamped,omitempty"`
	// ExcludedLayers lists layer names dropped for missing values.
	ExcludedLayers []string `json:"excluded_layers,omitempty"`
}

// Overrides is the full overrides_applied block returned to callers.
type Overrides struct {
	ThresholdOverrides *ThresholdAudit   `json:"threshold_overrides,omitempty"`
	TemporalConfig     *TemporalAudit    `json:"temporal_config,omitempty"`
	Interaction        *InteractionAudit `json:"interaction,omitempty"`
	FTime              FTimeAudit        `json:"f_time"`
	Weights            *WeightAudit      `json:"weights,omitempty"`
}
