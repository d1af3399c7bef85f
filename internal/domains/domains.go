// Package domains holds the built-in detector presets and the rules
// for registering caller-defined generic detectors. Presets are data,
// not code: the full table lives in presets.yaml and is embedded at
// build time.
package domains

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/manticlabs/mantic/internal/detect"
	"github.com/manticlabs/mantic/internal/kernel"
	"github.com/manticlabs/mantic/internal/validate"
)

//go:embed presets.yaml
var presetsYAML []byte

// Layer is one named input dimension of a preset.
type Layer struct {
	Name   string  `yaml:"name" json:"name"`
	Weight float64 `yaml:"weight" json:"weight"`
	// Signed widens the layer's range from [0,1] to [-1,1].
	Signed bool `yaml:"signed,omitempty" json:"signed,omitempty"`
}

// Detector is one preset configuration within a domain.
type Detector struct {
	Name         string             `yaml:"name" json:"name"`
	Layers       []Layer            `yaml:"layers" json:"layers"`
	Thresholds   map[string]float64 `yaml:"thresholds" json:"thresholds"`
	DetectionKey string             `yaml:"detection_key" json:"detection_key"`
}

// Domain groups a temporal kernel allowlist with up to two detectors.
type Domain struct {
	Kernels   []string  `yaml:"kernels" json:"kernels"`
	Friction  *Detector `yaml:"friction,omitempty" json:"friction,omitempty"`
	Emergence *Detector `yaml:"emergence,omitempty" json:"emergence,omitempty"`
}

type presetFile struct {
	Domains map[string]Domain `yaml:"domains"`
}

var registry map[string]Domain

func init() {
	var f presetFile
	if err := yaml.Unmarshal(presetsYAML, &f); err != nil {
		panic(fmt.Sprintf("domains: embedded presets are malformed: %v", err))
	}
	registry = f.Domains
}

// Names returns the preset domain names in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Get looks up a preset domain by name.
func Get(name string) (Domain, bool) {
	d, ok := registry[name]
	return d, ok
}

// KernelAllowlist returns the temporal kernels a domain permits. An
// unknown domain yields nil: temporal overrides for it are refused.
func KernelAllowlist(domain string) []kernel.KernelType {
	d, ok := registry[domain]
	if !ok {
		return nil
	}
	out := make([]kernel.KernelType, 0, len(d.Kernels))
	for _, name := range d.Kernels {
		kt, err := kernel.ParseKernelType(name)
		if err != nil {
			panic(fmt.Sprintf("domains: %q allowlist: %v", domain, err))
		}
		out = append(out, kt)
	}
	return out
}

// Config resolves a domain's detector for the given mode into a
// runnable configuration.
func Config(domain string, mode detect.Mode) (*detect.DomainConfig, error) {
	d, ok := registry[domain]
	if !ok {
		return nil, fmt.Errorf("unknown domain %q (available: %v)", domain, Names())
	}

	var det *Detector
	switch mode {
	case detect.ModeFriction:
		det = d.Friction
	case detect.ModeEmergence:
		det = d.Emergence
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	if det == nil {
		return nil, fmt.Errorf("domain %q has no %s detector", domain, mode)
	}

	return det.config(domain, mode, KernelAllowlist(domain)), nil
}

func (det *Detector) config(domain string, mode detect.Mode, allowlist []kernel.KernelType) *detect.DomainConfig {
	cfg := &detect.DomainConfig{
		Domain:            domain,
		Detector:          det.Name,
		Mode:              mode,
		LayerNames:        make([]string, len(det.Layers)),
		LayerRanges:       make([]validate.Range, len(det.Layers)),
		DefaultWeights:    make([]float64, len(det.Layers)),
		DefaultThresholds: make(map[string]float64, len(det.Thresholds)),
		DetectionKey:      det.DetectionKey,
		TemporalAllowlist: allowlist,
	}
	for i, layer := range det.Layers {
		cfg.LayerNames[i] = layer.Name
		cfg.DefaultWeights[i] = layer.Weight
		cfg.LayerRanges[i] = validate.Unit
		if layer.Signed {
			cfg.LayerRanges[i] = validate.Signed
		}
	}
	for k, v := range det.Thresholds {
		cfg.DefaultThresholds[k] = v
	}
	return cfg
}
