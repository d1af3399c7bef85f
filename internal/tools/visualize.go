package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manticlabs/mantic/internal/domains"
	"github.com/manticlabs/mantic/internal/kernel"
	"github.com/manticlabs/mantic/internal/viz"
)

// VisualizeGaugeTool handles the visualize_gauge MCP tool.
type VisualizeGaugeTool struct{}

// NewVisualizeGaugeTool creates a VisualizeGaugeTool.
func NewVisualizeGaugeTool() *VisualizeGaugeTool {
	return &VisualizeGaugeTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *VisualizeGaugeTool) Definition() mcp.Tool {
	return mcp.NewTool("visualize_gauge",
		mcp.WithDescription("Render an M-score as a plain-text gauge with a LOW/MODERATE/HIGH band."),
		mcp.WithNumber("m_score",
			mcp.Required(),
			mcp.Description("The M score to render."),
		),
		mcp.WithNumber("spatial_component",
			mcp.Description("The pre-temporal-scaling sum S. Defaults to m_score."),
		),
		mcp.WithNumber("width",
			mcp.Description("Gauge width in characters. Default 50."),
		),
	)
}

// Handle processes the visualize_gauge tool call.
func (t *VisualizeGaugeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, err := req.RequireFloat("m_score")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s := floatArg(req, "spatial_component", m)
	return mcp.NewToolResultText(viz.Gauge(m, s, intArg(req, "width", 0))), nil
}

// VisualizeAttributionTool handles the visualize_attribution MCP tool.
type VisualizeAttributionTool struct{}

// NewVisualizeAttributionTool creates a VisualizeAttributionTool.
func NewVisualizeAttributionTool() *VisualizeAttributionTool {
	return &VisualizeAttributionTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *VisualizeAttributionTool) Definition() mcp.Tool {
	return mcp.NewTool("visualize_attribution",
		mcp.WithDescription("Render per-layer attribution shares as sorted horizontal bars."),
		mcp.WithObject("attribution",
			mcp.Required(),
			mcp.Description("Layer-name to share map, as returned by detect's layer_attribution."),
		),
		mcp.WithNumber("width",
			mcp.Description("Chart width in characters. Default 60."),
		),
	)
}

// Handle processes the visualize_attribution tool call.
func (t *VisualizeAttributionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	shares, err := floatMapArg(req, "attribution")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(shares) == 0 {
		return mcp.NewToolResultError("'attribution' is required and must not be empty"), nil
	}
	return mcp.NewToolResultText(viz.Attribution(shares, intArg(req, "width", 0))), nil
}

// VisualizeKernelsTool handles the visualize_kernels MCP tool.
type VisualizeKernelsTool struct{}

// NewVisualizeKernelsTool creates a VisualizeKernelsTool.
func NewVisualizeKernelsTool() *VisualizeKernelsTool {
	return &VisualizeKernelsTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *VisualizeKernelsTool) Definition() mcp.Tool {
	return mcp.NewTool("visualize_kernels",
		mcp.WithDescription(
			"Tabulate temporal kernel values over a time range so the seven scaling "+
				"modes can be compared side by side.",
		),
		mcp.WithArray("kernels",
			mcp.Description("Kernel names to compare. Defaults to a domain's allowlist "+
				"when 'domain' is set, else all seven."),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("domain",
			mcp.Description("Preset domain whose kernel allowlist to compare."),
		),
		mcp.WithNumber("t_start", mcp.Description("Range start. Default 0.")),
		mcp.WithNumber("t_end", mcp.Description("Range end. Default 10.")),
		mcp.WithNumber("steps", mcp.Description("Sample count. Default 11.")),
	)
}

// Handle processes the visualize_kernels tool call.
func (t *VisualizeKernelsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kernels, err := kernelsArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out, err := viz.KernelComparison(kernels,
		floatArg(req, "t_start", 0),
		floatArg(req, "t_end", 10),
		intArg(req, "steps", 11))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func kernelsArg(req mcp.CallToolRequest) ([]kernel.KernelType, error) {
	if domain := req.GetString("domain", ""); domain != "" {
		allowed := domains.KernelAllowlist(domain)
		if allowed == nil {
			return nil, fmt.Errorf("unknown domain %q", domain)
		}
		return allowed, nil
	}

	raw, present := req.GetArguments()["kernels"]
	if !present || raw == nil {
		return kernel.AllKernelTypes(), nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("'kernels' must be an array of kernel names")
	}
	out := make([]kernel.KernelType, 0, len(list))
	for i, item := range list {
		name, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("'kernels[%d]' must be a string", i)
		}
		kt, err := kernel.ParseKernelType(name)
		if err != nil {
			return nil, err
		}
		out = append(out, kt)
	}
	return out, nil
}
