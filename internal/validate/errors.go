package validate

import (
	"fmt"

	"github.com/manticlabs/mantic/internal/kernel"
)

// InputError reports a required numeric input that is missing,
// non-finite, or of the wrong arity. It carries enough context for the
// caller to self-correct without reading source.
type InputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s (got %g)", e.Field, e.Reason, e.Value)
}

// InsufficientLayersError reports that too few layers carried valid
// values after missing-data exclusion. A single remaining layer is not
// a meaningful multi-signal score.
type InsufficientLayersError struct {
	Valid    int
	Required int
}

func (e *InsufficientLayersError) Error() string {
	return fmt.Sprintf("at least %d layers must have valid data, only %d provided", e.Required, e.Valid)
}

// DisallowedKernelError reports a temporal kernel that exists but is
// not permitted for the calling domain. Unknown domains have an empty
// allowlist, so they always fail closed through this error.
type DisallowedKernelError struct {
	KernelType string
	Domain     string
	Allowed    []kernel.KernelType
}

func (e *DisallowedKernelError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("kernel type %q is not allowed: domain %q has no temporal allowlist", e.KernelType, e.Domain)
	}
	return fmt.Sprintf("kernel type %q is not in the %q allowlist %v", e.KernelType, e.Domain, e.Allowed)
}
