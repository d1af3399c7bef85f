package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manticlabs/mantic/internal/detect"
	"github.com/manticlabs/mantic/internal/domains"
	"github.com/manticlabs/mantic/internal/history"
)

// FrictionTool handles the detect_friction MCP tool: divergence
// detection over a preset domain or a caller-defined layer set.
type FrictionTool struct {
	hist *history.Store
}

// NewFrictionTool creates a FrictionTool. hist may be nil.
func NewFrictionTool(hist *history.Store) *FrictionTool {
	return &FrictionTool{hist: hist}
}

// Definition returns the MCP tool definition for registration.
func (t *FrictionTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Detect cross-layer friction: a wide spread between the strongest and "+
				"weakest layer signals interference between forces. Uses a preset domain, "+
				"or a caller-defined detector when 'layers' is supplied (3-6 named layers "+
				"with weights, registered under the generic domain).",
		),
	}
	opts = append(opts, customDomainArgs()...)
	opts = append(opts, detectionArgs()...)
	return mcp.NewTool("detect_friction", opts...)
}

// Handle processes the detect_friction tool call.
func (t *FrictionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := resolveConfig(req, detect.ModeFriction)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return runDetection(cfg, req, t.hist)
}

// EmergenceTool handles the detect_emergence MCP tool: alignment
// detection over a preset domain or a caller-defined layer set.
type EmergenceTool struct {
	hist *history.Store
}

// NewEmergenceTool creates an EmergenceTool. hist may be nil.
func NewEmergenceTool(hist *history.Store) *EmergenceTool {
	return &EmergenceTool{hist: hist}
}

// Definition returns the MCP tool definition for registration.
func (t *EmergenceTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Detect an emergence window: the opportunity opens when the weakest layer "+
				"clears the alignment threshold. Uses a preset domain, or a caller-defined "+
				"detector when 'layers' is supplied (3-6 named layers with weights, "+
				"registered under the generic domain).",
		),
	}
	opts = append(opts, customDomainArgs()...)
	opts = append(opts, detectionArgs()...)
	return mcp.NewTool("detect_emergence", opts...)
}

// Handle processes the detect_emergence tool call.
func (t *EmergenceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := resolveConfig(req, detect.ModeEmergence)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return runDetection(cfg, req, t.hist)
}

func customDomainArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("domain",
			mcp.Description("Preset domain name; 'generic' (the default) uses equal "+
				"weights over unnamed layers unless 'layers' defines them."),
		),
		mcp.WithString("detector_name",
			mcp.Description("Name for a caller-defined detector. Required with 'layers'; "+
				"may not shadow a preset domain."),
		),
		mcp.WithArray("layers",
			mcp.Description("Caller-defined layers: objects with 'name', 'weight' and "+
				"optional 'signed'. Weights must sum to 1 within 0.05."),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":   map[string]any{"type": "string"},
					"weight": map[string]any{"type": "number"},
					"signed": map[string]any{"type": "boolean"},
				},
				"required": []string{"name", "weight"},
			}),
		),
		mcp.WithString("detection_key",
			mcp.Description("Threshold name driving the detection decision for a "+
				"caller-defined detector. Default 'detection' at 0.4."),
		),
	}
}

// resolveConfig picks the detector: caller-defined layers when given,
// a named preset otherwise, and an equal-weight generic fallback when
// neither is supplied.
func resolveConfig(req mcp.CallToolRequest, mode detect.Mode) (*detect.DomainConfig, error) {
	domain := req.GetString("domain", "generic")

	layers, err := customLayersArg(req)
	if err != nil {
		return nil, err
	}
	if layers != nil {
		if domain != "generic" {
			return nil, fmt.Errorf("custom 'layers' only apply to the generic domain, not %q", domain)
		}
		thresholds, err := floatMapArg(req, "threshold_overrides")
		if err != nil {
			return nil, err
		}
		return domains.Custom(domains.CustomSpec{
			Name:         req.GetString("detector_name", ""),
			Mode:         mode,
			Layers:       layers,
			Thresholds:   thresholds,
			DetectionKey: req.GetString("detection_key", ""),
		})
	}

	if domain == "generic" {
		values, err := floatSliceArg(req, "layer_values")
		if err != nil {
			return nil, err
		}
		return domains.GenericConfig(mode, len(values))
	}
	return domains.Config(domain, mode)
}

func customLayersArg(req mcp.CallToolRequest) ([]domains.Layer, error) {
	raw, present := req.GetArguments()["layers"]
	if !present || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("'layers' must be an array of layer objects")
	}
	out := make([]domains.Layer, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("'layers[%d]' must be an object", i)
		}
		name, _ := obj["name"].(string)
		weight, ok := obj["weight"].(float64)
		if name == "" || !ok {
			return nil, fmt.Errorf("'layers[%d]' needs a 'name' and a numeric 'weight'", i)
		}
		signed, _ := obj["signed"].(bool)
		out[i] = domains.Layer{Name: name, Weight: weight, Signed: signed}
	}
	return out, nil
}
