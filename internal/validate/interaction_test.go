package validate

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseOverrideMode(t *testing.T) {
	tests := []struct {
		in      string
		want    OverrideMode
		wantErr bool
	}{
		{"", OverrideScale, false},
		{"scale", OverrideScale, false},
		{"replace", OverrideReplace, false},
		{"multiply", "", true},
	}

	for _, tt := range tests {
		got, err := ParseOverrideMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOverrideMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOverrideMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveInteraction_NilOverrideKeepsBase(t *testing.T) {
	names := []string{"a", "b", "c"}
	base := []float64{1, 1.2, 0.8}

	used, audit, err := ResolveInteraction(names, base, "base", nil)
	if err != nil {
		t.Fatalf("ResolveInteraction() error = %v", err)
	}
	if diff := cmp.Diff(base, used); diff != "" {
		t.Errorf("used mismatch (-want +got):\n%s", diff)
	}
	if audit.OverrideMode != "scale" {
		t.Errorf("OverrideMode = %q, want scale default", audit.OverrideMode)
	}
	if audit.Rejected != nil || audit.Clamped != nil {
		t.Errorf("audit carries rejections/clamps with no override: %+v", audit)
	}
}

func TestResolveInteraction_ListValidation(t *testing.T) {
	names := []string{"a", "b", "c", "d"}
	base := []float64{1, 1, 1, 1}
	ov := &InteractionOverride{
		Mode: OverrideReplace,
		List: []float64{0.05, math.NaN(), 5.0, 1.5},
	}

	used, audit, err := ResolveInteraction(names, base, "dynamic", ov)
	if err != nil {
		t.Fatalf("ResolveInteraction() error = %v", err)
	}

	want := []float64{0.1, 1.0, 2.0, 1.5}
	if diff := cmp.Diff(want, used); diff != "" {
		t.Errorf("used mismatch (-want +got):\n%s", diff)
	}

	// Positional overrides audit under their string index.
	if _, ok := audit.Rejected["1"]; !ok {
		t.Errorf("Rejected = %v, want entry for index 1", audit.Rejected)
	}
	for _, key := range []string{"0", "2"} {
		adj, ok := audit.Clamped[key]
		if !ok {
			t.Errorf("Clamped missing entry for index %s: %v", key, audit.Clamped)
			continue
		}
		if !adj.WasClamped || adj.Bounds == nil {
			t.Errorf("Clamped[%s] = %+v, want clamped with bounds", key, adj)
		}
	}
	if _, ok := audit.Clamped["3"]; ok {
		t.Error("in-bounds factor recorded as clamped")
	}
}

func TestResolveInteraction_ListLengthMismatch(t *testing.T) {
	ov := &InteractionOverride{List: []float64{1, 1}}
	_, _, err := ResolveInteraction([]string{"a", "b", "c"}, []float64{1, 1, 1}, "dynamic", ov)
	var inErr *InputError
	if !errors.As(err, &inErr) {
		t.Fatalf("error = %v, want InputError", err)
	}
}

func TestResolveInteraction_DictFillsAbsentWithNeutral(t *testing.T) {
	names := []string{"a", "b", "c"}
	ov := &InteractionOverride{
		Mode:   OverrideReplace,
		Values: map[string]float64{"b": 1.5},
	}

	used, audit, err := ResolveInteraction(names, []float64{1, 1, 1}, "dynamic", ov)
	if err != nil {
		t.Fatalf("ResolveInteraction() error = %v", err)
	}
	if diff := cmp.Diff([]float64{1.0, 1.5, 1.0}, used); diff != "" {
		t.Errorf("used mismatch (-want +got):\n%s", diff)
	}
	// Absent layers are neutral fills, not rejections.
	if audit.Rejected != nil {
		t.Errorf("Rejected = %v, want nil", audit.Rejected)
	}
}

func TestResolveInteraction_DictNaNIsRejectedByName(t *testing.T) {
	names := []string{"a", "b"}
	ov := &InteractionOverride{
		Values: map[string]float64{"a": math.NaN()},
	}

	used, audit, err := ResolveInteraction(names, []float64{1, 1}, "dynamic", ov)
	if err != nil {
		t.Fatalf("ResolveInteraction() error = %v", err)
	}
	if used[0] != 1.0 {
		t.Errorf("used[0] = %v, want neutral 1.0", used[0])
	}
	if _, ok := audit.Rejected["a"]; !ok {
		t.Errorf("Rejected = %v, want entry keyed by layer name", audit.Rejected)
	}
}

func TestResolveInteraction_ScaleMultipliesBase(t *testing.T) {
	names := []string{"a", "b"}
	base := []float64{1.2, 0.8}
	ov := &InteractionOverride{
		Mode: OverrideScale,
		List: []float64{1.5, 0.5},
	}

	used, _, err := ResolveInteraction(names, base, "dynamic", ov)
	if err != nil {
		t.Fatalf("ResolveInteraction() error = %v", err)
	}
	want := []float64{1.2 * 1.5, 0.8 * 0.5}
	for i := range want {
		if math.Abs(used[i]-want[i]) > 1e-12 {
			t.Errorf("used[%d] = %v, want %v", i, used[i], want[i])
		}
	}
}

func TestResolveInteraction_ScaleProductStaysGoverned(t *testing.T) {
	// 1.8 base x 1.8 factor = 3.24: both in bounds, product is not.
	names := []string{"a", "b"}
	base := []float64{1.8, 1.0}
	ov := &InteractionOverride{
		Mode: OverrideScale,
		List: []float64{1.8, 1.0},
	}

	used, audit, err := ResolveInteraction(names, base, "dynamic", ov)
	if err != nil {
		t.Fatalf("ResolveInteraction() error = %v", err)
	}
	if used[0] != InteractionMax {
		t.Errorf("used[0] = %v, want governance ceiling %v", used[0], InteractionMax)
	}
	if _, ok := audit.Clamped["0"]; !ok {
		t.Errorf("Clamped = %v, want product clamp recorded", audit.Clamped)
	}
	if used[1] != 1.0 {
		t.Errorf("used[1] = %v, want 1.0", used[1])
	}
}
