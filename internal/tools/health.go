package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manticlabs/mantic/internal/domains"
	"github.com/manticlabs/mantic/internal/history"
	"github.com/manticlabs/mantic/internal/kernel"
)

// HealthCheckTool handles the health_check MCP tool.
type HealthCheckTool struct {
	version string
	hist    *history.Store
}

// NewHealthCheckTool creates a HealthCheckTool. hist may be nil.
func NewHealthCheckTool(version string, hist *history.Store) *HealthCheckTool {
	return &HealthCheckTool{version: version, hist: hist}
}

// Definition returns the MCP tool definition for registration.
func (t *HealthCheckTool) Definition() mcp.Tool {
	return mcp.NewTool("health_check",
		mcp.WithDescription(
			"Report server status: version, available preset domains, temporal "+
				"kernel modes, and whether the run log is enabled.",
		),
	)
}

// Handle processes the health_check tool call.
func (t *HealthCheckTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kernels := make([]string, 0, 7)
	for _, kt := range kernel.AllKernelTypes() {
		kernels = append(kernels, string(kt))
	}

	return jsonResult(map[string]any{
		"status":          "ok",
		"version":         t.version,
		"domains":         domains.Names(),
		"kernels":         kernels,
		"history_enabled": t.hist != nil,
	})
}
