package validate

import (
	"math"
	"testing"
)

func TestClampThreshold(t *testing.T) {
	tests := []struct {
		name        string
		requested   float64
		def         float64
		want        float64
		wantClamped bool
	}{
		{"within band untouched", 0.45, 0.4, 0.45, false},
		{"near lower band boundary", 0.33, 0.4, 0.33, false},
		{"near upper band boundary", 0.47, 0.4, 0.47, false},
		{"below band clamped up", 0.2, 0.4, 0.32, true},
		{"above band clamped down", 0.9, 0.4, 0.48, true},
		// With a default of 0.05 the 20% band would reach 0.04; the
		// absolute floor wins.
		{"hard floor beats band", 0.01, 0.05, 0.05, true},
		// With a default of 0.9 the band reaches 1.08; the ceiling wins.
		{"hard ceiling beats band", 2.0, 0.9, 0.95, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj := ClampThreshold(tt.requested, tt.def)
			if math.Abs(adj.Used-tt.want) > 1e-12 {
				t.Errorf("Used = %v, want %v", adj.Used, tt.want)
			}
			if adj.WasClamped != tt.wantClamped {
				t.Errorf("WasClamped = %v, want %v", adj.WasClamped, tt.wantClamped)
			}
			if tt.wantClamped && adj.Bounds == nil {
				t.Error("clamped adjustment carries no bounds")
			}
		})
	}
}

func TestClampThreshold_NonFiniteFallsBackToDefault(t *testing.T) {
	for _, requested := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		adj := ClampThreshold(requested, 0.4)
		if adj.Used != 0.4 {
			t.Errorf("ClampThreshold(%v, 0.4).Used = %v, want default 0.4", requested, adj.Used)
		}
		if !adj.WasClamped || adj.Reason == "" {
			t.Errorf("non-finite override %v not recorded as a refusal", requested)
		}
	}
}

func TestApplyThresholdOverrides(t *testing.T) {
	defaults := map[string]float64{"buffering": 0.4, "alignment": 0.65}

	t.Run("no overrides yields defaults and nil audit", func(t *testing.T) {
		active, audit := ApplyThresholdOverrides(defaults, nil)
		if audit != nil {
			t.Errorf("audit = %+v, want nil", audit)
		}
		if active["buffering"] != 0.4 || active["alignment"] != 0.65 {
			t.Errorf("active = %v, want defaults", active)
		}
	})

	t.Run("known override clamped into band", func(t *testing.T) {
		active, audit := ApplyThresholdOverrides(defaults, map[string]float64{"buffering": 0.9})
		if got := active["buffering"]; math.Abs(got-0.48) > 1e-12 {
			t.Errorf("active[buffering] = %v, want 0.48", got)
		}
		if audit == nil || !audit.Clamped {
			t.Fatalf("audit = %+v, want Clamped", audit)
		}
		if adj := audit.Applied["buffering"]; !adj.WasClamped {
			t.Errorf("Applied[buffering] = %+v, want WasClamped", adj)
		}
	})

	t.Run("unknown keys ignored and recorded", func(t *testing.T) {
		active, audit := ApplyThresholdOverrides(defaults, map[string]float64{
			"zzz": 0.5, "aaa": 0.5, "buffering": 0.42,
		})
		if active["buffering"] != 0.42 {
			t.Errorf("active[buffering] = %v, want 0.42", active["buffering"])
		}
		if _, present := active["zzz"]; present {
			t.Error("unknown key leaked into active thresholds")
		}
		if audit == nil {
			t.Fatal("audit = nil, want ignored keys recorded")
		}
		if len(audit.IgnoredKeys) != 2 || audit.IgnoredKeys[0] != "aaa" || audit.IgnoredKeys[1] != "zzz" {
			t.Errorf("IgnoredKeys = %v, want [aaa zzz]", audit.IgnoredKeys)
		}
	})

	t.Run("defaults map not mutated", func(t *testing.T) {
		ApplyThresholdOverrides(defaults, map[string]float64{"buffering": 0.48})
		if defaults["buffering"] != 0.4 {
			t.Errorf("defaults mutated: buffering = %v", defaults["buffering"])
		}
	})
}
