package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manticlabs/mantic/internal/detect"
	"github.com/manticlabs/mantic/internal/history"
)

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// decodeResult unmarshals a JSON tool result into a detection result.
func decodeResult(t *testing.T, r *mcp.CallToolResult) detect.Result {
	t.Helper()
	if r.IsError {
		t.Fatalf("tool returned error: %s", resultText(r))
	}
	var out detect.Result
	if err := json.Unmarshal([]byte(resultText(r)), &out); err != nil {
		t.Fatalf("decoding result: %v\n%s", err, resultText(r))
	}
	return out
}

func newTestHistory(t *testing.T) *history.Store {
	t.Helper()
	s, err := history.New(history.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create history store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDetectTool_Definition(t *testing.T) {
	def := NewDetectTool(nil).Definition()
	if def.Name != "detect" {
		t.Errorf("tool name = %q, want %q", def.Name, "detect")
	}
	props := def.InputSchema.Properties
	for _, want := range []string{"domain", "mode", "layer_values", "weights", "temporal_config", "interaction_override"} {
		if _, ok := props[want]; !ok {
			t.Errorf("missing %q parameter", want)
		}
	}
}

func TestDetectTool_PresetScore(t *testing.T) {
	hist := newTestHistory(t)
	tool := NewDetectTool(hist)

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"domain":       "healthcare",
		"mode":         "friction",
		"layer_values": []any{0.3, 0.9, 0.4, 0.8},
	}))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	res := decodeResult(t, r)

	// 0.40*0.3 + 0.20*0.9 + 0.25*0.4 + 0.15*0.8 = 0.52
	if diff := res.MScore - 0.52; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("MScore = %v, want 0.52", res.MScore)
	}
	if res.Domain != "healthcare" || res.Friction == nil {
		t.Errorf("result = %+v, want healthcare friction report", res)
	}

	// The run was journaled.
	runs, err := hist.Recent(5)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(runs) != 1 || runs[0].Domain != "healthcare" {
		t.Errorf("run log = %+v, want one healthcare run", runs)
	}
}

func TestDetectTool_Validation(t *testing.T) {
	tool := NewDetectTool(nil)

	tests := []struct {
		name    string
		args    map[string]interface{}
		wantSub string
	}{
		{"missing mode", map[string]interface{}{
			"domain": "healthcare", "layer_values": []any{0.3, 0.9, 0.4, 0.8},
		}, "mode"},
		{"unknown domain", map[string]interface{}{
			"domain": "astrology", "mode": "friction", "layer_values": []any{0.3, 0.9, 0.4, 0.8},
		}, "unknown domain"},
		// Generic runs belong to detect_friction / detect_emergence,
		// which build an equal-weight config; detect resolves presets
		// only and must say so.
		{"generic has no preset detector", map[string]interface{}{
			"domain": "generic", "mode": "emergence", "layer_values": []any{0.5, 0.5, 0.5, 0.5},
		}, "no emergence detector"},
		{"missing layer values", map[string]interface{}{
			"domain": "healthcare", "mode": "friction",
		}, "layer_values"},
		{"wrong arity", map[string]interface{}{
			"domain": "healthcare", "mode": "friction", "layer_values": []any{0.3, 0.9},
		}, "layer value count"},
		{"non-numeric layer value", map[string]interface{}{
			"domain": "healthcare", "mode": "friction", "layer_values": []any{0.3, "high", 0.4, 0.8},
		}, "must be a number"},
		{"disallowed kernel", map[string]interface{}{
			"domain": "healthcare", "mode": "friction",
			"layer_values":    []any{0.3, 0.9, 0.4, 0.8},
			"temporal_config": map[string]any{"kernel_type": "oscillatory", "t": 1.0},
		}, "allowlist"},
		{"both override forms", map[string]interface{}{
			"domain": "healthcare", "mode": "friction",
			"layer_values":              []any{0.3, 0.9, 0.4, 0.8},
			"interaction_override":      map[string]any{"phenotypic": 1.5},
			"interaction_override_list": []any{1.0, 1.0, 1.0, 1.0},
		}, "not both"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := tool.Handle(context.Background(), makeReq(tt.args))
			if err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if !r.IsError {
				t.Fatalf("result = %s, want error", resultText(r))
			}
			if !strings.Contains(resultText(r), tt.wantSub) {
				t.Errorf("error %q does not mention %q", resultText(r), tt.wantSub)
			}
		})
	}
}

func TestDetectTool_MissingLayerDegrades(t *testing.T) {
	tool := NewDetectTool(nil)

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"domain":       "healthcare",
		"mode":         "friction",
		"layer_values": []any{0.3, nil, 0.4, 0.8},
	}))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	res := decodeResult(t, r)
	if len(res.ExcludedLayers) != 1 || res.ExcludedLayers[0] != "genomic" {
		t.Errorf("ExcludedLayers = %v, want [genomic]", res.ExcludedLayers)
	}
}

func TestFrictionTool_CustomLayers(t *testing.T) {
	tool := NewFrictionTool(nil)

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"detector_name": "supply_chain",
		"layers": []any{
			map[string]any{"name": "supplier", "weight": 0.4},
			map[string]any{"name": "logistics", "weight": 0.3},
			map[string]any{"name": "demand", "weight": 0.3},
		},
		"layer_values": []any{0.9, 0.2, 0.5},
	}))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	res := decodeResult(t, r)
	if res.Domain != "generic" || res.Detector != "supply_chain" {
		t.Errorf("identity = %s/%s, want generic/supply_chain", res.Domain, res.Detector)
	}
	if res.Friction == nil || !res.Friction.Detected {
		t.Errorf("Friction = %+v, want detection for a 0.7 spread", res.Friction)
	}
}

func TestFrictionTool_ReservedNameRejected(t *testing.T) {
	tool := NewFrictionTool(nil)

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"detector_name": "finance",
		"layers": []any{
			map[string]any{"name": "a", "weight": 0.5},
			map[string]any{"name": "b", "weight": 0.25},
			map[string]any{"name": "c", "weight": 0.25},
		},
		"layer_values": []any{0.5, 0.5, 0.5},
	}))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !r.IsError || !strings.Contains(resultText(r), "reserved") {
		t.Errorf("result = %s, want reserved-name error", resultText(r))
	}
}

func TestEmergenceTool_GenericFallback(t *testing.T) {
	tool := NewEmergenceTool(nil)

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"layer_values": []any{0.9, 0.85, 0.95, 0.88},
	}))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	res := decodeResult(t, r)
	if res.Emergence == nil || !res.Emergence.WindowOpen {
		t.Fatalf("Emergence = %+v, want open window", res.Emergence)
	}
	if res.Emergence.Classification != "OPTIMAL" {
		t.Errorf("Classification = %q, want OPTIMAL", res.Emergence.Classification)
	}
}

func TestHealthCheckTool(t *testing.T) {
	tool := NewHealthCheckTool("1.2.3", nil)

	r, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	text := resultText(r)
	for _, want := range []string{`"ok"`, "1.2.3", "healthcare", "exponential", `"history_enabled": false`} {
		if !strings.Contains(text, want) {
			t.Errorf("health output missing %q:\n%s", want, text)
		}
	}
}

func TestVisualizeGaugeTool(t *testing.T) {
	tool := NewVisualizeGaugeTool()

	r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"m_score": 0.85,
	}))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !strings.Contains(resultText(r), "STATUS: HIGH") {
		t.Errorf("gauge output = %s, want HIGH band", resultText(r))
	}

	r, err = tool.Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !r.IsError {
		t.Error("missing m_score accepted, want error")
	}
}

func TestVisualizeKernelsTool(t *testing.T) {
	tool := NewVisualizeKernelsTool()

	t.Run("domain allowlist", func(t *testing.T) {
		r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
			"domain": "legal",
		}))
		if err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		text := resultText(r)
		if !strings.Contains(text, "linear") || strings.Contains(text, "oscillatory") {
			t.Errorf("legal comparison should cover only its allowlist:\n%s", text)
		}
	})

	t.Run("unknown kernel rejected", func(t *testing.T) {
		r, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
			"kernels": []any{"quantum"},
		}))
		if err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if !r.IsError {
			t.Error("unknown kernel accepted, want error")
		}
	})
}

func TestHistoryTools(t *testing.T) {
	t.Run("disabled run log", func(t *testing.T) {
		r, err := NewHistoryRecentTool(nil).Handle(context.Background(), makeReq(nil))
		if err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if !r.IsError || !strings.Contains(resultText(r), "disabled") {
			t.Errorf("result = %s, want disabled error", resultText(r))
		}
	})

	t.Run("recent and stats", func(t *testing.T) {
		hist := newTestHistory(t)
		detectTool := NewDetectTool(hist)
		for i := 0; i < 2; i++ {
			if _, err := detectTool.Handle(context.Background(), makeReq(map[string]interface{}{
				"domain":       "cyber",
				"mode":         "friction",
				"layer_values": []any{0.9, 0.2, 0.5, 0.5},
			})); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
		}

		r, err := NewHistoryRecentTool(hist).Handle(context.Background(), makeReq(map[string]interface{}{
			"limit": 1.0,
		}))
		if err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		var runs []history.Run
		if err := json.Unmarshal([]byte(resultText(r)), &runs); err != nil {
			t.Fatalf("decoding runs: %v", err)
		}
		if len(runs) != 1 || runs[0].Domain != "cyber" {
			t.Errorf("runs = %+v, want one cyber run", runs)
		}
		if runs[0].Result != nil {
			t.Error("full results included without include_results")
		}

		r, err = NewHistoryStatsTool(hist).Handle(context.Background(), makeReq(nil))
		if err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		var stats history.Stats
		if err := json.Unmarshal([]byte(resultText(r)), &stats); err != nil {
			t.Fatalf("decoding stats: %v", err)
		}
		if stats.TotalRuns != 2 || stats.DetectedRuns != 2 {
			t.Errorf("stats = %+v, want 2 detected runs", stats)
		}
	})
}
