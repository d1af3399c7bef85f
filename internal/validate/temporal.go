package validate

import (
	"math"
	"sort"

	"github.com/manticlabs/mantic/internal/kernel"
)

// TemporalSpec is a decoded caller request for temporal scaling.
// Pointer fields distinguish "absent" from zero. Unknown keys seen by
// the decoder (legacy names like midpoint, steepness, decay) land in
// Ignored and are recorded in the audit, never treated as errors.
type TemporalSpec struct {
	KernelType     *string
	T              *float64
	Alpha          *float64
	N              *float64
	T0             *float64
	Exponent       *float64
	Frequency      *float64
	MemoryStrength *float64
	Ignored        []string

	// Raw preserves the originally-requested payload for the audit.
	Raw map[string]any
}

// DecodeTemporalSpec converts a loosely-typed temporal_config payload
// (as delivered by MCP tool arguments or JSON) into a TemporalSpec.
// Non-numeric values for numeric parameters are left unset so the
// validator can reject them with a recorded reason. The legacy
// decay_rate key is accepted as an alias for alpha.
func DecodeTemporalSpec(raw map[string]any) *TemporalSpec {
	if raw == nil {
		return nil
	}
	spec := &TemporalSpec{Raw: raw}

	for key, val := range raw {
		switch key {
		case "kernel_type":
			if s, ok := val.(string); ok {
				spec.KernelType = &s
			} else {
				spec.Ignored = append(spec.Ignored, key)
			}
		case "t":
			spec.T = asFloat(val)
		case "alpha":
			spec.Alpha = asFloat(val)
		case "decay_rate":
			if spec.Alpha == nil {
				spec.Alpha = asFloat(val)
			}
		case "n":
			spec.N = asFloat(val)
		case "t0":
			spec.T0 = asFloat(val)
		case "exponent":
			spec.Exponent = asFloat(val)
		case "frequency":
			spec.Frequency = asFloat(val)
		case "memory_strength":
			spec.MemoryStrength = asFloat(val)
		default:
			spec.Ignored = append(spec.Ignored, key)
		}
	}
	sort.Strings(spec.Ignored)
	return spec
}

func asFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case float32:
		f := float64(n)
		return &f
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	}
	return nil
}

// ResolvedTemporal is an accepted temporal override, ready for the
// kernel evaluator.
type ResolvedTemporal struct {
	KernelType kernel.KernelType     `json:"kernel_type"`
	Params     kernel.TemporalParams `json:"params"`
}

// ValidateTemporal checks a temporal spec against a domain's kernel
// allowlist and clamps its parameters into bounds.
//
// Both kernel_type and t must be present for an override to apply at
// all; a partial spec is not an error — it yields a nil resolution
// with the gaps recorded in the audit, and the caller falls back to
// the raw f_time. A kernel outside the seven modes is an
// UnknownKernelError; a known kernel missing from the allowlist is a
// DisallowedKernelError. Unknown domains have empty allowlists, so
// they fail closed.
func ValidateTemporal(spec *TemporalSpec, domain string, allowlist []kernel.KernelType) (*ResolvedTemporal, *TemporalAudit, error) {
	if spec == nil {
		return nil, nil, nil
	}

	audit := &TemporalAudit{
		Requested: spec.Raw,
		Ignored:   spec.Ignored,
	}

	var kt kernel.KernelType
	if spec.KernelType != nil {
		parsed, err := kernel.ParseKernelType(*spec.KernelType)
		if err != nil {
			return nil, audit, err
		}
		if !kernelAllowed(parsed, allowlist) {
			return nil, audit, &DisallowedKernelError{
				KernelType: *spec.KernelType,
				Domain:     domain,
				Allowed:    allowlist,
			}
		}
		kt = parsed
	} else {
		audit.Rejected = rejectInto(audit.Rejected, "kernel_type", Rejection{
			Reason: "kernel_type is required for a temporal override",
		})
	}

	if spec.T == nil {
		audit.Rejected = rejectInto(audit.Rejected, "t", Rejection{
			Reason: "t is required for a temporal override",
		})
	} else if !isFinite(*spec.T) {
		audit.Rejected = rejectInto(audit.Rejected, "t", Rejection{
			Requested: *spec.T,
			Reason:    "must be a finite number",
		})
		spec.T = nil
	}

	if kt == "" || spec.T == nil {
		return nil, audit, nil
	}

	p := kernel.DefaultTemporalParams()
	p.T = *spec.T

	p.Alpha = clampParam(audit, "alpha", spec.Alpha, p.Alpha, AlphaMin, AlphaMax)
	p.N = clampParam(audit, "n", spec.N, p.N, NoveltyMin, NoveltyMax)

	p.T0 = finiteParam(audit, "t0", spec.T0, p.T0)
	p.Exponent = finiteParam(audit, "exponent", spec.Exponent, p.Exponent)
	p.Frequency = finiteParam(audit, "frequency", spec.Frequency, p.Frequency)
	p.MemoryStrength = finiteParam(audit, "memory_strength", spec.MemoryStrength, p.MemoryStrength)

	// power_law's domain starts at t = -1; earlier values clamp to the
	// edge and the adjustment is recorded.
	if kt == kernel.PowerLaw && p.T < -1 {
		if audit.Clamped == nil {
			audit.Clamped = make(map[string]Adjustment)
		}
		b := Bounds{-1, math.Inf(1)}
		audit.Clamped["t"] = Adjustment{
			Requested:  p.T,
			Used:       -1,
			WasClamped: true,
			Bounds:     &b,
		}
		p.T = -1
	}

	resolved := &ResolvedTemporal{KernelType: kt, Params: p}
	audit.Applied = resolved
	return resolved, audit, nil
}

// clampParam bounds an optional parameter, recording any adjustment or
// rejection, and returns the value to use.
func clampParam(audit *TemporalAudit, name string, requested *float64, def, lo, hi float64) float64 {
	if requested == nil {
		return def
	}
	if !isFinite(*requested) {
		audit.Rejected = rejectInto(audit.Rejected, name, Rejection{
			Requested: *requested,
			Reason:    "must be a finite number; default used",
		})
		return def
	}
	used := math.Min(math.Max(*requested, lo), hi)
	if used != *requested {
		if audit.Clamped == nil {
			audit.Clamped = make(map[string]Adjustment)
		}
		b := Bounds{lo, hi}
		audit.Clamped[name] = Adjustment{
			Requested:  *requested,
			Used:       used,
			WasClamped: true,
			Bounds:     &b,
		}
	}
	return used
}

// finiteParam accepts an optional unbounded parameter, rejecting a
// non-finite value to the default with a recorded reason.
func finiteParam(audit *TemporalAudit, name string, requested *float64, def float64) float64 {
	if requested == nil {
		return def
	}
	if !isFinite(*requested) {
		audit.Rejected = rejectInto(audit.Rejected, name, Rejection{
			Requested: *requested,
			Reason:    "must be a finite number; default used",
		})
		return def
	}
	return *requested
}

func rejectInto(m map[string]Rejection, key string, r Rejection) map[string]Rejection {
	if m == nil {
		m = make(map[string]Rejection)
	}
	m[key] = r
	return m
}

func kernelAllowed(kt kernel.KernelType, allowlist []kernel.KernelType) bool {
	for _, allowed := range allowlist {
		if kt == allowed {
			return true
		}
	}
	return false
}
