package detect

import (
	"math"

	"github.com/manticlabs/mantic/internal/kernel"
	"github.com/manticlabs/mantic/internal/validate"
)

// Calibration is attached to every result so downstream consumers do
// not mistake M for a probability.
const Calibration = "M is a bounded intensity score, not a probability or a forecast"

// Request carries everything a caller may supply for one detection.
// Only LayerValues is required; every other field falls back to the
// domain configuration's defaults.
type Request struct {
	// LayerValues are index-aligned with the config's LayerNames.
	// NaN marks a missing layer.
	LayerValues []float64
	// Weights replace the domain defaults when non-nil.
	Weights []float64
	// FTime is a directly-supplied temporal scale; ignored when a
	// temporal config resolves. Nil means the neutral 1.0.
	FTime *float64
	// NormConstant is k_n; zero means the default 1.0.
	NormConstant float64
	// ThresholdOverrides adjusts domain thresholds within governance
	// bounds.
	ThresholdOverrides map[string]float64
	// Temporal requests kernel-computed temporal scaling.
	Temporal *validate.TemporalSpec
	// Interaction adjusts per-layer interaction coefficients.
	Interaction *validate.InteractionOverride
	// InteractionMode is an audit label ("dynamic" unless the caller
	// says otherwise); it does not change behavior.
	InteractionMode string
	// LayerHierarchy optionally maps layer names to visibility levels
	// (micro, meso, macro, meta) for the introspection report.
	LayerHierarchy map[string]string
}

// Result is the full detection response: the score, its decomposition,
// the active thresholds, the audit trail, and the mode-specific
// report.
type Result struct {
	MScore           float64            `json:"m_score"`
	SpatialComponent float64            `json:"spatial_component"`
	FTime            float64            `json:"f_time"`
	NormConstant     float64            `json:"k_n"`
	Saturated        bool               `json:"saturated,omitempty"`
	Domain           string             `json:"domain"`
	Detector         string             `json:"detector,omitempty"`
	Mode             Mode               `json:"mode"`
	LayerValues      map[string]float64 `json:"layer_values"`
	LayerAttribution map[string]float64 `json:"layer_attribution"`
	ExcludedLayers   []string           `json:"excluded_layers,omitempty"`
	Thresholds       map[string]float64 `json:"active_thresholds"`
	Overrides        validate.Overrides `json:"overrides_applied"`
	Friction         *FrictionReport    `json:"friction,omitempty"`
	Emergence        *EmergenceReport   `json:"emergence,omitempty"`
	Visibility       *VisibilityReport  `json:"layer_visibility,omitempty"`
	Coupling         *CouplingReport    `json:"layer_coupling,omitempty"`
	Calibration      string             `json:"calibration"`
}

// Detect runs one full detection. It is pure: no I/O, no shared
// state, safe to call concurrently. On any validation error no
// partial result is returned.
func Detect(cfg *DomainConfig, req Request) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	kn := req.NormConstant
	if kn == 0 {
		kn = 1.0
	}
	if kn < 0 || math.IsNaN(kn) || math.IsInf(kn, 0) {
		return nil, &kernel.NormalizationError{KN: kn}
	}

	layers, err := validate.ValidateLayers(req.LayerValues, cfg.ranges(), cfg.LayerNames)
	if err != nil {
		return nil, err
	}

	rawWeights := cfg.DefaultWeights
	if req.Weights != nil {
		if len(req.Weights) != len(cfg.LayerNames) {
			return nil, &validate.InputError{
				Field:  "weights",
				Value:  float64(len(req.Weights)),
				Reason: "weight count must match layer count",
			}
		}
		rawWeights = req.Weights
	}
	weights, weightAudit, err := validate.NormalizeWeights(rawWeights)
	if err != nil {
		return nil, err
	}

	thresholds, thresholdAudit := validate.ApplyThresholdOverrides(cfg.DefaultThresholds, req.ThresholdOverrides)

	interactions, interactionAudit, err := validate.ResolveInteraction(
		cfg.LayerNames, cfg.baseInteraction(), interactionMode(req), req.Interaction)
	if err != nil {
		return nil, err
	}

	resolved, temporalAudit, err := validate.ValidateTemporal(req.Temporal, cfg.Domain, cfg.TemporalAllowlist)
	if err != nil {
		return nil, err
	}

	var fRequested float64
	if resolved != nil {
		fRequested, err = kernel.Temporal(resolved.KernelType, resolved.Params)
		if err != nil {
			return nil, err
		}
	} else if req.FTime != nil {
		fRequested = *req.FTime
	} else {
		fRequested = 1.0
	}
	fTime, fTimeAudit := validate.ClampFTime(fRequested)

	w, l, i, kept, excluded, err := validate.ExcludeMissing(layers, weights, interactions, cfg.LayerNames)
	if err != nil {
		return nil, err
	}
	if excluded != nil {
		weightAudit.ExcludedLayers = excluded
		weightAudit.Renormalized = true
		weightAudit.Used = w
	}

	score, err := kernel.Compute(w, l, i, fTime, kn)
	if err != nil {
		return nil, err
	}

	res := &Result{
		MScore:           score.M,
		SpatialComponent: score.S,
		FTime:            fTime,
		NormConstant:     kn,
		Saturated:        score.Saturated,
		Domain:           cfg.Domain,
		Detector:         cfg.Detector,
		Mode:             cfg.Mode,
		LayerValues:      make(map[string]float64, len(kept)),
		LayerAttribution: make(map[string]float64, len(cfg.LayerNames)),
		ExcludedLayers:   excluded,
		Thresholds:       thresholds,
		Overrides: validate.Overrides{
			ThresholdOverrides: thresholdAudit,
			TemporalConfig:     temporalAudit,
			Interaction:        interactionAudit,
			FTime:              fTimeAudit,
			Weights:            weightAudit,
		},
		Calibration: Calibration,
	}

	// Excluded layers attribute zero, not "absent": the caller sees
	// the full layer set it asked about.
	for _, name := range cfg.LayerNames {
		res.LayerAttribution[name] = 0
	}
	for pos, idx := range kept {
		name := cfg.LayerNames[idx]
		res.LayerValues[name] = l[pos]
		res.LayerAttribution[name] = score.Attribution[pos]
	}

	switch cfg.Mode {
	case ModeFriction:
		res.Friction = frictionReport(cfg, kept, l, thresholds)
	case ModeEmergence:
		res.Emergence = emergenceReport(cfg, kept, l, thresholds)
	}

	res.Coupling = couplingReport(cfg, kept, l)
	if req.LayerHierarchy != nil {
		res.Visibility = visibilityReport(cfg, kept, w, l, i, req.LayerHierarchy)
	}

	return res, nil
}

func interactionMode(req Request) string {
	if req.InteractionMode != "" {
		return req.InteractionMode
	}
	return "dynamic"
}
