package validate

import (
	"fmt"
	"math"
	"strconv"
)

// OverrideMode selects how an interaction override combines with the
// base coefficients.
type OverrideMode string

const (
	// OverrideScale multiplies the base coefficient by the requested
	// factor, then clamps.
	OverrideScale OverrideMode = "scale"
	// OverrideReplace uses the requested value directly, then clamps.
	OverrideReplace OverrideMode = "replace"
)

// ParseOverrideMode resolves a caller-supplied mode string, defaulting
// to scale when empty.
func ParseOverrideMode(s string) (OverrideMode, error) {
	switch OverrideMode(s) {
	case "":
		return OverrideScale, nil
	case OverrideScale, OverrideReplace:
		return OverrideMode(s), nil
	default:
		return "", fmt.Errorf("interaction_override_mode must be %q or %q, got %q",
			OverrideScale, OverrideReplace, s)
	}
}

// InteractionOverride is the caller's per-layer interaction request.
// Exactly one of Values (by layer name) or List (positional) should be
// set; a nil override leaves the base coefficients untouched.
type InteractionOverride struct {
	Mode   OverrideMode
	Values map[string]float64
	List   []float64
}

// interactionBounds is recorded on every interaction clamp.
var interactionBounds = Bounds{InteractionMin, InteractionMax}

// ResolveInteraction produces the validated interaction coefficient
// vector and its audit trail. base is the domain's coefficient
// baseline (unit vector unless the domain declares otherwise); mode is
// the interaction mode label carried into the audit ("dynamic" or
// "base"). Every requested factor is clamped into [0.1, 2.0] — never
// zero, so no layer can be silenced, and never unbounded. Non-finite
// requests are rejected to the neutral 1.0 and recorded.
func ResolveInteraction(names []string, base []float64, mode string, ov *InteractionOverride) ([]float64, *InteractionAudit, error) {
	used := append([]float64(nil), base...)

	audit := &InteractionAudit{
		InteractionMode: mode,
		OverrideMode:    string(OverrideScale),
		Used:            used,
	}

	if ov == nil {
		return used, audit, nil
	}

	if ov.Mode != "" {
		audit.OverrideMode = string(ov.Mode)
	}

	requested, err := ov.positional(names)
	if err != nil {
		return nil, nil, err
	}
	audit.Requested = ov.raw()

	validated := make([]float64, len(names))
	for i, req := range requested {
		key := names[i]
		if ov.List != nil {
			key = strconv.Itoa(i)
		}

		switch {
		case math.IsNaN(req) && ov.has(i, names):
			// Explicitly supplied but non-finite: reject to neutral.
			validated[i] = 1.0
			if audit.Rejected == nil {
				audit.Rejected = make(map[string]Rejection)
			}
			audit.Rejected[key] = Rejection{
				Requested: req,
				Reason:    "must be a finite number; defaulted to 1.0",
			}
		case math.IsInf(req, 0):
			validated[i] = 1.0
			if audit.Rejected == nil {
				audit.Rejected = make(map[string]Rejection)
			}
			audit.Rejected[key] = Rejection{
				Requested: req,
				Reason:    "must be a finite number; defaulted to 1.0",
			}
		case math.IsNaN(req):
			// Not supplied for this layer: neutral factor.
			validated[i] = 1.0
		default:
			clamped := math.Min(math.Max(req, InteractionMin), InteractionMax)
			validated[i] = clamped
			if clamped != req {
				if audit.Clamped == nil {
					audit.Clamped = make(map[string]Adjustment)
				}
				b := interactionBounds
				audit.Clamped[key] = Adjustment{
					Requested:  req,
					Used:       clamped,
					WasClamped: true,
					Bounds:     &b,
				}
			}
		}
	}
	audit.Validated = validated

	final := make([]float64, len(names))
	for i := range names {
		switch audit.OverrideMode {
		case string(OverrideReplace):
			final[i] = validated[i]
		default: // scale
			final[i] = base[i] * validated[i]
		}
		// The product of two in-bounds values can leave bounds; the
		// governance clamp is absolute.
		clamped := math.Min(math.Max(final[i], InteractionMin), InteractionMax)
		if clamped != final[i] {
			if audit.Clamped == nil {
				audit.Clamped = make(map[string]Adjustment)
			}
			key := names[i]
			if ov.List != nil {
				key = strconv.Itoa(i)
			}
			if _, already := audit.Clamped[key]; !already {
				b := interactionBounds
				audit.Clamped[key] = Adjustment{
					Requested:  final[i],
					Used:       clamped,
					WasClamped: true,
					Bounds:     &b,
				}
			}
			final[i] = clamped
		}
	}

	audit.Used = final
	return final, audit, nil
}

// positional expands the override into one requested factor per layer,
// NaN marking "not supplied" for dict-style overrides.
func (ov *InteractionOverride) positional(names []string) ([]float64, error) {
	if ov.List != nil {
		if len(ov.List) != len(names) {
			return nil, &InputError{
				Field:  "interaction_override",
				Value:  float64(len(ov.List)),
				Reason: fmt.Sprintf("list length must match layer count %d", len(names)),
			}
		}
		return append([]float64(nil), ov.List...), nil
	}

	out := make([]float64, len(names))
	for i, name := range names {
		if v, ok := ov.Values[name]; ok {
			out[i] = v
		} else {
			out[i] = math.NaN()
		}
	}
	return out, nil
}

// has reports whether the caller explicitly supplied a factor for
// layer i (distinguishes "absent" NaN from "requested" NaN).
func (ov *InteractionOverride) has(i int, names []string) bool {
	if ov.List != nil {
		return true
	}
	_, ok := ov.Values[names[i]]
	return ok
}

// raw returns the override in its requested shape for the audit.
func (ov *InteractionOverride) raw() any {
	if ov.List != nil {
		return append([]float64(nil), ov.List...)
	}
	return ov.Values
}
