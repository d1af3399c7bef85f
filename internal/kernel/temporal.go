package kernel

import (
	"fmt"
	"math"
	"strings"
)

// KernelType names one of the seven temporal kernel modes.
type KernelType string

const (
	Exponential KernelType = "exponential"
	Linear      KernelType = "linear"
	Logistic    KernelType = "logistic"
	SCurve      KernelType = "s_curve"
	PowerLaw    KernelType = "power_law"
	Oscillatory KernelType = "oscillatory"
	Memory      KernelType = "memory"
)

// AllKernelTypes lists the seven modes in canonical order.
func AllKernelTypes() []KernelType {
	return []KernelType{
		Exponential, Linear, Logistic, SCurve, PowerLaw, Oscillatory, Memory,
	}
}

// ParseKernelType resolves a caller-supplied kernel name. Matching is
// case-insensitive; anything outside the seven modes is an
// UnknownKernelError, never a silent fallback.
func ParseKernelType(s string) (KernelType, error) {
	kt := KernelType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllKernelTypes() {
		if kt == known {
			return kt, nil
		}
	}
	return "", &UnknownKernelError{Requested: s}
}

// UnknownKernelError reports a kernel_type outside the seven modes.
type UnknownKernelError struct {
	Requested string
}

func (e *UnknownKernelError) Error() string {
	return fmt.Sprintf("unknown kernel type %q (valid: exponential, linear, logistic, s_curve, power_law, oscillatory, memory)", e.Requested)
}

// TemporalParams carries the inputs to a temporal kernel evaluation.
// Alpha and N apply to every mode; the remaining fields are
// mode-specific extras with neutral defaults.
type TemporalParams struct {
	T              float64
	Alpha          float64
	N              float64
	T0             float64 // s_curve inflection point
	Exponent       float64 // power_law exponent multiplier
	Frequency      float64 // oscillatory ripple frequency
	MemoryStrength float64 // memory kernel offset strength
}

// DefaultTemporalParams returns the neutral parameter set: alpha 0.1,
// n 1.0, and unit/zero extras.
func DefaultTemporalParams() TemporalParams {
	return TemporalParams{
		Alpha:          0.1,
		N:              1.0,
		T0:             0.0,
		Exponent:       1.0,
		Frequency:      1.0,
		MemoryStrength: 1.0,
	}
}

// Temporal evaluates f(t) for the given mode. The result is always
// strictly positive and finite: values that would underflow to zero or
// below are floored at a small positive epsilon, and overflow to +Inf
// saturates at MaxVal. Negative t is permitted (the past) except for
// power_law, whose domain starts at t = -1; earlier values are clamped.
//
// Callers downstream additionally clamp the result to [0.1, 3.0] — see
// internal/validate.ClampFTime.
func Temporal(kt KernelType, p TemporalParams) (float64, error) {
	var v float64

	switch kt {
	case Exponential:
		v = math.Exp(p.N * p.Alpha * p.T)
	case Linear:
		v = math.Max(0, 1-p.Alpha*p.T)
	case Logistic:
		v = 1 / (1 + math.Exp(-p.N*p.Alpha*p.T))
	case SCurve:
		v = 1 / (1 + math.Exp(-p.Alpha*(p.T-p.T0)))
	case PowerLaw:
		base := math.Max(1+math.Max(p.T, -1), minPositive)
		v = math.Pow(base, p.N*p.Alpha*p.Exponent)
	case Oscillatory:
		v = math.Exp(p.N*p.Alpha*p.T) * 0.5 * (1 + 0.5*math.Sin(p.Frequency*p.T))
	case Memory:
		v = 1 + p.MemoryStrength*math.Exp(-p.T)
	default:
		return 0, &UnknownKernelError{Requested: string(kt)}
	}

	if math.IsNaN(v) || v <= minPositive {
		return minPositive, nil
	}
	if math.IsInf(v, 1) {
		return MaxVal, nil
	}
	return v, nil
}
