package domains

import (
	"fmt"
	"math"

	"github.com/manticlabs/mantic/internal/detect"
)

const (
	// CustomMinLayers and CustomMaxLayers bound caller-defined
	// detectors; the score is meaningless under 3 signals and the
	// presets never exceed 6.
	CustomMinLayers = 3
	CustomMaxLayers = 6

	// customWeightTolerance is the accepted drift around a unit weight
	// sum before registration is refused (an accepted sum is still
	// renormalized to exactly 1).
	customWeightTolerance = 0.05
)

// CustomSpec is a caller-defined detector: the generic counterpart of
// a preset.
type CustomSpec struct {
	Name       string
	Mode       detect.Mode
	Layers     []Layer
	Thresholds map[string]float64
	// DetectionKey defaults to "detection" with a 0.4 threshold when
	// neither is supplied.
	DetectionKey string
}

// Custom validates a caller-defined detector and resolves it into a
// runnable configuration under the generic domain's kernel allowlist.
// Custom detectors may not shadow a preset domain name.
func Custom(spec CustomSpec) (*detect.DomainConfig, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("custom detector needs a name")
	}
	if _, reserved := registry[spec.Name]; reserved {
		return nil, fmt.Errorf("name %q is reserved for a built-in domain", spec.Name)
	}
	if spec.Mode != detect.ModeFriction && spec.Mode != detect.ModeEmergence {
		return nil, fmt.Errorf("mode must be %q or %q, got %q",
			detect.ModeFriction, detect.ModeEmergence, spec.Mode)
	}
	if n := len(spec.Layers); n < CustomMinLayers || n > CustomMaxLayers {
		return nil, fmt.Errorf("custom detector needs %d-%d layers, got %d",
			CustomMinLayers, CustomMaxLayers, n)
	}

	seen := make(map[string]bool, len(spec.Layers))
	sum := 0.0
	for _, layer := range spec.Layers {
		if layer.Name == "" {
			return nil, fmt.Errorf("every layer needs a name")
		}
		if seen[layer.Name] {
			return nil, fmt.Errorf("duplicate layer name %q", layer.Name)
		}
		seen[layer.Name] = true
		if math.IsNaN(layer.Weight) || math.IsInf(layer.Weight, 0) || layer.Weight < 0 {
			return nil, fmt.Errorf("layer %q: weight must be finite and non-negative, got %v",
				layer.Name, layer.Weight)
		}
		sum += layer.Weight
	}
	if math.Abs(sum-1.0) > customWeightTolerance {
		return nil, fmt.Errorf("weights sum to %.4f; must be within %.2f of 1.0",
			sum, customWeightTolerance)
	}

	det := &Detector{
		Name:         spec.Name,
		Layers:       make([]Layer, len(spec.Layers)),
		Thresholds:   make(map[string]float64, len(spec.Thresholds)+1),
		DetectionKey: spec.DetectionKey,
	}
	for i, layer := range spec.Layers {
		det.Layers[i] = layer
		det.Layers[i].Weight = layer.Weight / sum
	}
	for k, v := range spec.Thresholds {
		det.Thresholds[k] = v
	}
	if det.DetectionKey == "" {
		det.DetectionKey = "detection"
	}
	if _, ok := det.Thresholds[det.DetectionKey]; !ok {
		det.Thresholds[det.DetectionKey] = 0.4
	}

	return det.config("generic", spec.Mode, KernelAllowlist("generic")), nil
}

// GenericConfig builds a runnable configuration for ad-hoc scoring
// without named layers: n layers called layer_1..layer_n with equal
// weights, every kernel permitted.
func GenericConfig(mode detect.Mode, n int) (*detect.DomainConfig, error) {
	if n < CustomMinLayers || n > CustomMaxLayers {
		return nil, fmt.Errorf("need %d-%d layers, got %d", CustomMinLayers, CustomMaxLayers, n)
	}
	layers := make([]Layer, n)
	for i := range layers {
		layers[i] = Layer{
			Name:   fmt.Sprintf("layer_%d", i+1),
			Weight: 1.0 / float64(n),
		}
	}
	det := &Detector{
		Name:         "generic_" + string(mode),
		Layers:       layers,
		Thresholds:   map[string]float64{"detection": 0.4},
		DetectionKey: "detection",
	}
	return det.config("generic", mode, KernelAllowlist("generic")), nil
}
