// Package detect runs the full detection pipeline: input validation,
// governance clamping, temporal scaling, the intensity kernel, and the
// mode-specific post-processing that turns a raw score into a friction
// or emergence report.
package detect

import (
	"fmt"

	"github.com/manticlabs/mantic/internal/kernel"
	"github.com/manticlabs/mantic/internal/validate"
)

// Mode selects the post-processing applied to a computed score.
type Mode string

const (
	// ModeFriction looks for divergence across layers: a wide spread
	// between the strongest and weakest layer signals interference.
	ModeFriction Mode = "friction"
	// ModeEmergence looks for alignment: a high floor across all
	// layers signals an open opportunity window.
	ModeEmergence Mode = "emergence"
)

// ParseMode resolves a caller-supplied mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFriction, ModeEmergence:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("mode must be %q or %q, got %q", ModeFriction, ModeEmergence, s)
	}
}

// DomainConfig is a fully-resolved detector configuration. Presets
// produce these; custom detectors build them directly.
type DomainConfig struct {
	// Domain is the governance domain ("healthcare", "generic", ...).
	Domain string
	// Detector names the configured detector within the domain.
	Detector string
	// Mode is the detection mode this configuration serves.
	Mode Mode
	// LayerNames, LayerRanges and DefaultWeights are index-aligned.
	LayerNames     []string
	LayerRanges    []validate.Range
	DefaultWeights []float64
	// DefaultThresholds are the domain's threshold defaults;
	// DetectionKey names the one driving the detection decision.
	DefaultThresholds map[string]float64
	DetectionKey      string
	// TemporalAllowlist is the domain's permitted kernel set. Empty
	// means every temporal override is refused.
	TemporalAllowlist []kernel.KernelType
	// BaseInteraction is the per-layer coefficient baseline; nil
	// means the unit vector.
	BaseInteraction []float64
}

// Validate checks internal consistency before the config is used.
func (c *DomainConfig) Validate() error {
	n := len(c.LayerNames)
	if n < validate.MinValidLayers {
		return fmt.Errorf("domain %q: need at least %d layers, have %d",
			c.Domain, validate.MinValidLayers, n)
	}
	if len(c.DefaultWeights) != n {
		return fmt.Errorf("domain %q: %d weights for %d layers",
			c.Domain, len(c.DefaultWeights), n)
	}
	if c.LayerRanges != nil && len(c.LayerRanges) != n {
		return fmt.Errorf("domain %q: %d ranges for %d layers",
			c.Domain, len(c.LayerRanges), n)
	}
	if c.BaseInteraction != nil && len(c.BaseInteraction) != n {
		return fmt.Errorf("domain %q: %d interaction coefficients for %d layers",
			c.Domain, len(c.BaseInteraction), n)
	}
	if c.Mode != ModeFriction && c.Mode != ModeEmergence {
		return fmt.Errorf("domain %q: unknown mode %q", c.Domain, c.Mode)
	}
	if _, ok := c.DefaultThresholds[c.DetectionKey]; !ok {
		return fmt.Errorf("domain %q: detection key %q missing from thresholds",
			c.Domain, c.DetectionKey)
	}
	return nil
}

// ranges returns the per-layer ranges, defaulting to [0,1].
func (c *DomainConfig) ranges() []validate.Range {
	if c.LayerRanges != nil {
		return c.LayerRanges
	}
	out := make([]validate.Range, len(c.LayerNames))
	for i := range out {
		out[i] = validate.Unit
	}
	return out
}

// baseInteraction returns the coefficient baseline, defaulting to the
// unit vector.
func (c *DomainConfig) baseInteraction() []float64 {
	if c.BaseInteraction != nil {
		return c.BaseInteraction
	}
	out := make([]float64, len(c.LayerNames))
	for i := range out {
		out[i] = 1.0
	}
	return out
}
