package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manticlabs/mantic/internal/history"
)

// HistoryRecentTool handles the history_recent MCP tool.
type HistoryRecentTool struct {
	hist *history.Store
}

// NewHistoryRecentTool creates a HistoryRecentTool. hist may be nil;
// calls then report that the run log is disabled.
func NewHistoryRecentTool(hist *history.Store) *HistoryRecentTool {
	return &HistoryRecentTool{hist: hist}
}

// Definition returns the MCP tool definition for registration.
func (t *HistoryRecentTool) Definition() mcp.Tool {
	return mcp.NewTool("history_recent",
		mcp.WithDescription("List recent detection runs from the run log, newest first."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum runs to return. Server-capped."),
		),
		mcp.WithBoolean("include_results",
			mcp.Description("Include each run's full detection response. Default false."),
		),
	)
}

// Handle processes the history_recent tool call.
func (t *HistoryRecentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.hist == nil {
		return mcp.NewToolResultError("the run log is disabled on this server"), nil
	}

	runs, err := t.hist.Recent(intArg(req, "limit", 0))
	if err != nil {
		return nil, err
	}
	if !boolArg(req, "include_results", false) {
		for i := range runs {
			runs[i].Result = nil
		}
	}
	if runs == nil {
		runs = []history.Run{}
	}
	return jsonResult(runs)
}

// HistoryStatsTool handles the history_stats MCP tool.
type HistoryStatsTool struct {
	hist *history.Store
}

// NewHistoryStatsTool creates a HistoryStatsTool. hist may be nil.
func NewHistoryStatsTool(hist *history.Store) *HistoryStatsTool {
	return &HistoryStatsTool{hist: hist}
}

// Definition returns the MCP tool definition for registration.
func (t *HistoryStatsTool) Definition() mcp.Tool {
	return mcp.NewTool("history_stats",
		mcp.WithDescription("Aggregate the run log: totals, detection rate inputs, mean M score, and per-domain counts."),
	)
}

// Handle processes the history_stats tool call.
func (t *HistoryStatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.hist == nil {
		return mcp.NewToolResultError("the run log is disabled on this server"), nil
	}
	stats, err := t.hist.Stats()
	if err != nil {
		return nil, err
	}
	return jsonResult(stats)
}
