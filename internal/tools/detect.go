package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manticlabs/mantic/internal/detect"
	"github.com/manticlabs/mantic/internal/domains"
	"github.com/manticlabs/mantic/internal/history"
	"github.com/manticlabs/mantic/internal/validate"
)

// DetectTool handles the detect MCP tool: one entry point over every
// preset domain, both modes.
type DetectTool struct {
	hist *history.Store // nullable — detection works without a run log
}

// NewDetectTool creates a DetectTool. hist may be nil; results are
// then simply not persisted.
func NewDetectTool(hist *history.Store) *DetectTool {
	return &DetectTool{hist: hist}
}

// Definition returns the MCP tool definition for registration.
func (t *DetectTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Run a detection over one of the preset domains. Computes the bounded "+
				"intensity score M from per-layer values, applies the domain's governance "+
				"bounds, and returns the score, per-layer attribution, the mode-specific "+
				"friction/emergence report, and a full audit of every clamp or rejection. "+
				"Layer values are index-aligned with the domain's layers; pass null for a "+
				"missing value and the remaining weights are renormalized.",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("Preset domain name. One of: healthcare, finance, cyber, "+
				"climate, codebase, legal, military, social, system_lock, planning."),
		),
		mcp.WithString("mode",
			mcp.Required(),
			mcp.Description("'friction' (divergence detection) or 'emergence' (alignment detection)."),
			mcp.Enum(string(detect.ModeFriction), string(detect.ModeEmergence)),
		),
	}
	opts = append(opts, detectionArgs()...)
	return mcp.NewTool("detect", opts...)
}

// detectionArgs are the input options shared by every detection tool.
func detectionArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithArray("layer_values",
			mcp.Required(),
			mcp.Description("Per-layer values in domain order, each in [0,1] "+
				"(signed layers accept [-1,1]). null marks a missing value."),
			mcp.Items(map[string]any{"type": []string{"number", "null"}}),
		),
		mcp.WithArray("weights",
			mcp.Description("Optional weight override, one non-negative number per layer; "+
				"renormalized to sum to 1."),
			mcp.Items(map[string]any{"type": "number"}),
		),
		mcp.WithNumber("f_time",
			mcp.Description("Direct temporal scale, clamped to [0.1, 3.0]. "+
				"Ignored when temporal_config resolves. Default 1.0."),
		),
		mcp.WithNumber("k_n",
			mcp.Description("Normalization constant, must be positive. Default 1.0."),
		),
		mcp.WithObject("threshold_overrides",
			mcp.Description("Threshold overrides by name, each clamped to within "+
				"20% of the domain default."),
		),
		mcp.WithObject("temporal_config",
			mcp.Description("Kernel-computed temporal scaling: kernel_type and t are "+
				"required, alpha/n/t0/exponent/frequency/memory_strength optional. "+
				"The kernel must be in the domain's allowlist."),
		),
		mcp.WithObject("interaction_override",
			mcp.Description("Interaction coefficients by layer name, each clamped "+
				"to [0.1, 2.0]. Use interaction_override_list for positional form."),
		),
		mcp.WithArray("interaction_override_list",
			mcp.Description("Positional interaction coefficients, one per layer."),
			mcp.Items(map[string]any{"type": "number"}),
		),
		mcp.WithString("interaction_override_mode",
			mcp.Description("'scale' multiplies the base coefficient, 'replace' uses "+
				"the value directly. Default scale."),
			mcp.Enum(string(validate.OverrideScale), string(validate.OverrideReplace)),
		),
		mcp.WithObject("layer_hierarchy",
			mcp.Description("Optional layer-name to level (micro/meso/macro/meta) map "+
				"for the visibility report."),
		),
	}
}

// Handle processes the detect tool call.
func (t *DetectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode, err := detect.ParseMode(req.GetString("mode", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg, err := domains.Config(req.GetString("domain", ""), mode)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return runDetection(cfg, req, t.hist)
}

// runDetection builds the typed request, runs the pipeline, persists
// to the run log when available, and formats the response.
func runDetection(cfg *detect.DomainConfig, req mcp.CallToolRequest, hist *history.Store) (*mcp.CallToolResult, error) {
	dr, err := buildRequest(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := detect.Detect(cfg, dr)
	if err != nil {
		// Validation failures are caller errors, not transport errors:
		// the message carries the field and bounds needed to retry.
		return mcp.NewToolResultError(err.Error()), nil
	}

	if hist != nil {
		if _, err := hist.SaveRun(res); err != nil {
			// The run log is write-behind; a persistence failure must
			// not fail the detection.
			return jsonResult(struct {
				*detect.Result
				HistoryError string `json:"history_error"`
			}{res, err.Error()})
		}
	}
	return jsonResult(res)
}

// buildRequest converts tool arguments into a typed detection request.
func buildRequest(req mcp.CallToolRequest) (detect.Request, error) {
	var dr detect.Request

	layerValues, err := floatSliceArg(req, "layer_values")
	if err != nil {
		return dr, err
	}
	if layerValues == nil {
		return dr, fmt.Errorf("'layer_values' is required")
	}
	dr.LayerValues = layerValues

	if dr.Weights, err = floatSliceArg(req, "weights"); err != nil {
		return dr, err
	}

	if raw, ok := req.GetArguments()["f_time"].(float64); ok {
		dr.FTime = &raw
	}
	dr.NormConstant = floatArg(req, "k_n", 0)

	if dr.ThresholdOverrides, err = floatMapArg(req, "threshold_overrides"); err != nil {
		return dr, err
	}

	temporal, err := objectArg(req, "temporal_config")
	if err != nil {
		return dr, err
	}
	dr.Temporal = validate.DecodeTemporalSpec(temporal)

	if dr.Interaction, err = interactionArg(req); err != nil {
		return dr, err
	}

	if dr.LayerHierarchy, err = stringMapArg(req, "layer_hierarchy"); err != nil {
		return dr, err
	}
	return dr, nil
}

// interactionArg assembles the interaction override from its dict or
// positional form plus the mode flag.
func interactionArg(req mcp.CallToolRequest) (*validate.InteractionOverride, error) {
	values, err := floatMapArg(req, "interaction_override")
	if err != nil {
		return nil, err
	}
	list, err := floatSliceArg(req, "interaction_override_list")
	if err != nil {
		return nil, err
	}
	if values != nil && list != nil {
		return nil, fmt.Errorf("supply 'interaction_override' or 'interaction_override_list', not both")
	}
	modeStr := req.GetString("interaction_override_mode", "")
	if values == nil && list == nil {
		if modeStr != "" {
			return nil, fmt.Errorf("'interaction_override_mode' needs an override to apply to")
		}
		return nil, nil
	}

	mode, err := validate.ParseOverrideMode(modeStr)
	if err != nil {
		return nil, err
	}
	return &validate.InteractionOverride{Mode: mode, Values: values, List: list}, nil
}
