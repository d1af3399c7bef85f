package validate

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var nan = math.NaN()

func TestRangeClamp(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		in   float64
		want float64
	}{
		{"in bounds unchanged", Unit, 0.5, 0.5},
		{"above unit", Unit, 1.5, 1.0},
		{"below unit", Unit, -0.5, 0.0},
		{"signed negative kept", Signed, -0.5, -0.5},
		{"signed below floor", Signed, -1.5, -1.0},
		{"signed above ceiling", Signed, 1.5, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Clamp(tt.in); got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRangeClamp_NaNPassesThrough(t *testing.T) {
	if got := Unit.Clamp(nan); !math.IsNaN(got) {
		t.Errorf("Clamp(NaN) = %v, want NaN (missing, not zero)", got)
	}
}

func TestValidateLayers(t *testing.T) {
	names := []string{"a", "b", "c", "d"}
	ranges := []Range{Unit, Unit, Unit, Unit}

	t.Run("all valid", func(t *testing.T) {
		got, err := ValidateLayers([]float64{0.3, 0.9, 0.4, 0.8}, ranges, names)
		if err != nil {
			t.Fatalf("ValidateLayers() error = %v", err)
		}
		if got.ValidCount != 4 {
			t.Errorf("ValidCount = %d, want 4", got.ValidCount)
		}
	})

	t.Run("two missing still succeeds", func(t *testing.T) {
		got, err := ValidateLayers([]float64{0.3, nan, nan, 0.8}, ranges, names)
		if err != nil {
			t.Fatalf("ValidateLayers() error = %v", err)
		}
		if got.ValidCount != 2 {
			t.Errorf("ValidCount = %d, want 2", got.ValidCount)
		}
		if got.Valid[1] || got.Valid[2] {
			t.Error("missing layers flagged valid")
		}
	})

	t.Run("one valid layer fails", func(t *testing.T) {
		_, err := ValidateLayers([]float64{0.3, nan, nan, nan}, ranges, names)
		var insufErr *InsufficientLayersError
		if !errors.As(err, &insufErr) {
			t.Fatalf("error = %v, want InsufficientLayersError", err)
		}
		if insufErr.Valid != 1 {
			t.Errorf("Valid = %d, want 1", insufErr.Valid)
		}
	})

	t.Run("infinity is a hard error", func(t *testing.T) {
		_, err := ValidateLayers([]float64{0.3, math.Inf(1), 0.4, 0.8}, ranges, names)
		var inErr *InputError
		if !errors.As(err, &inErr) {
			t.Fatalf("error = %v, want InputError", err)
		}
		if inErr.Field != "b" {
			t.Errorf("Field = %q, want %q", inErr.Field, "b")
		}
	})

	t.Run("out of range values clamped", func(t *testing.T) {
		got, err := ValidateLayers([]float64{-0.2, 1.7, 0.5, 0.5}, ranges, names)
		if err != nil {
			t.Fatalf("ValidateLayers() error = %v", err)
		}
		if got.Values[0] != 0 || got.Values[1] != 1 {
			t.Errorf("Values = %v, want clamped to [0,1]", got.Values[:2])
		}
	})

	t.Run("arity mismatch", func(t *testing.T) {
		_, err := ValidateLayers([]float64{0.3, 0.4}, ranges, names)
		var inErr *InputError
		if !errors.As(err, &inErr) {
			t.Fatalf("error = %v, want InputError", err)
		}
	})
}

func TestNormalizeWeights(t *testing.T) {
	t.Run("already normalized untouched", func(t *testing.T) {
		got, audit, err := NormalizeWeights([]float64{0.35, 0.30, 0.20, 0.15})
		if err != nil {
			t.Fatalf("NormalizeWeights() error = %v", err)
		}
		if audit.Renormalized {
			t.Error("Renormalized = true for unit-sum weights")
		}
		if diff := cmp.Diff([]float64{0.35, 0.30, 0.20, 0.15}, got); diff != "" {
			t.Errorf("weights mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("off-unit sum rescaled", func(t *testing.T) {
		got, audit, err := NormalizeWeights([]float64{2, 2, 2, 2})
		if err != nil {
			t.Fatalf("NormalizeWeights() error = %v", err)
		}
		if !audit.Renormalized {
			t.Error("Renormalized = false, want true")
		}
		for i, w := range got {
			if math.Abs(w-0.25) > 1e-12 {
				t.Errorf("got[%d] = %v, want 0.25", i, w)
			}
		}
	})

	t.Run("negative weight floored then rescaled", func(t *testing.T) {
		got, audit, err := NormalizeWeights([]float64{-0.5, 0.5, 0.5, 0.5})
		if err != nil {
			t.Fatalf("NormalizeWeights() error = %v", err)
		}
		if got[0] != 0 {
			t.Errorf("got[0] = %v, want 0", got[0])
		}
		sum := got[0] + got[1] + got[2] + got[3]
		if math.Abs(sum-1.0) > 1e-12 {
			t.Errorf("sum = %v, want 1.0", sum)
		}
		if len(audit.NegativeClamped) != 1 || audit.NegativeClamped[0] != 0 {
			t.Errorf("NegativeClamped = %v, want [0]", audit.NegativeClamped)
		}
	})

	t.Run("all zero fails", func(t *testing.T) {
		_, _, err := NormalizeWeights([]float64{0, 0, 0, 0})
		var inErr *InputError
		if !errors.As(err, &inErr) {
			t.Fatalf("error = %v, want InputError", err)
		}
	})

	t.Run("all negative fails", func(t *testing.T) {
		_, _, err := NormalizeWeights([]float64{-1, -1, -1, -1})
		if err == nil {
			t.Fatal("NormalizeWeights() succeeded, want error")
		}
	})

	t.Run("NaN weight is a hard error", func(t *testing.T) {
		_, _, err := NormalizeWeights([]float64{0.5, nan, 0.25, 0.25})
		var inErr *InputError
		if !errors.As(err, &inErr) {
			t.Fatalf("error = %v, want InputError", err)
		}
	})
}

func TestExcludeMissing_ProportionalRenormalization(t *testing.T) {
	names := []string{"a", "b", "c", "d"}
	layers, err := ValidateLayers([]float64{0.3, nan, 0.4, 0.8}, nil, names)
	if err != nil {
		t.Fatalf("ValidateLayers() error = %v", err)
	}

	weights := []float64{0.35, 0.30, 0.20, 0.15}
	inter := []float64{1, 1, 1, 1}

	w, l, i, kept, excluded, err := ExcludeMissing(layers, weights, inter, names)
	if err != nil {
		t.Fatalf("ExcludeMissing() error = %v", err)
	}

	// Surviving weights 0.35/0.20/0.15 renormalize over their 0.70 sum.
	want := []float64{0.35 / 0.70, 0.20 / 0.70, 0.15 / 0.70}
	for idx := range want {
		if math.Abs(w[idx]-want[idx]) > 1e-9 {
			t.Errorf("w[%d] = %v, want %v", idx, w[idx], want[idx])
		}
	}
	if diff := cmp.Diff([]float64{0.3, 0.4, 0.8}, l); diff != "" {
		t.Errorf("layer values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 2, 3}, kept); diff != "" {
		t.Errorf("kept mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b"}, excluded); diff != "" {
		t.Errorf("excluded mismatch (-want +got):\n%s", diff)
	}
	if len(i) != 3 {
		t.Errorf("interactions length = %d, want 3", len(i))
	}
}

func TestExcludeMissing_NoMissingPassThrough(t *testing.T) {
	names := []string{"a", "b", "c"}
	layers, err := ValidateLayers([]float64{0.1, 0.2, 0.3}, nil, names)
	if err != nil {
		t.Fatalf("ValidateLayers() error = %v", err)
	}
	weights := []float64{0.5, 0.3, 0.2}

	w, _, _, kept, excluded, err := ExcludeMissing(layers, weights, []float64{1, 1, 1}, names)
	if err != nil {
		t.Fatalf("ExcludeMissing() error = %v", err)
	}
	if diff := cmp.Diff(weights, w); diff != "" {
		t.Errorf("weights changed without missing layers (-want +got):\n%s", diff)
	}
	if len(kept) != 3 || excluded != nil {
		t.Errorf("kept = %v excluded = %v, want all kept", kept, excluded)
	}
}

func TestExcludeMissing_AllWeightOnMissingLayers(t *testing.T) {
	names := []string{"a", "b", "c"}
	layers, err := ValidateLayers([]float64{nan, 0.5, 0.5}, nil, names)
	if err != nil {
		t.Fatalf("ValidateLayers() error = %v", err)
	}

	_, _, _, _, _, err = ExcludeMissing(layers, []float64{1, 0, 0}, []float64{1, 1, 1}, names)
	var inErr *InputError
	if !errors.As(err, &inErr) {
		t.Fatalf("error = %v, want InputError", err)
	}
}

func TestClampFTime(t *testing.T) {
	tests := []struct {
		name        string
		in          float64
		want        float64
		wantClamped bool
	}{
		{"exact lower bound untouched", 0.1, 0.1, false},
		{"exact upper bound untouched", 3.0, 3.0, false},
		{"neutral untouched", 1.0, 1.0, false},
		{"below lower bound", 0.05, 0.1, true},
		{"above upper bound", 100, 3.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, audit := ClampFTime(tt.in)
			if got != tt.want {
				t.Errorf("ClampFTime(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if audit.Clamped != tt.wantClamped {
				t.Errorf("Clamped = %v, want %v", audit.Clamped, tt.wantClamped)
			}
			if audit.Used != got {
				t.Errorf("audit.Used = %v, want %v", audit.Used, got)
			}
		})
	}
}

func TestClampFTime_NonFiniteFallsBackToNeutral(t *testing.T) {
	for _, in := range []float64{nan, math.Inf(1), math.Inf(-1)} {
		got, audit := ClampFTime(in)
		if got != 1.0 {
			t.Errorf("ClampFTime(%v) = %v, want neutral 1.0", in, got)
		}
		if !audit.Clamped {
			t.Errorf("ClampFTime(%v) not flagged clamped", in)
		}
	}
}
