// Package prompts implements MCP prompt handlers for the detection
// suite.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// WarmupPrompt handles the mantic-warmup MCP prompt. It walks the AI
// through the server surface before the first real detection.
type WarmupPrompt struct{}

// NewWarmupPrompt creates a WarmupPrompt.
func NewWarmupPrompt() *WarmupPrompt {
	return &WarmupPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *WarmupPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("mantic-warmup",
		mcp.WithPromptDescription(
			"Get oriented: check server health, list the preset domains and "+
				"temporal kernels, and run one sample detection end to end.",
		),
	)
}

// Handle processes the mantic-warmup prompt request.
func (p *WarmupPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Warm up the detection server",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please warm up the detection server:\n\n" +
						"1. Run `health_check` and confirm the status is ok\n" +
						"2. Read the `mantic://formula` resource and summarize the M-score formula and its bounds in two sentences\n" +
						"3. Read `mantic://domains` and list each preset domain with its modes\n" +
						"4. Run one sample `detect_emergence` on the generic domain with four mid-range layer values\n" +
						"5. Render the result with `visualize_gauge`\n\n" +
						"Keep the output short — this is a smoke test, not an analysis.",
				),
			},
		},
	}, nil
}

// AnalyzePrompt handles the mantic-analyze MCP prompt. It guides a
// full friction-plus-emergence read of one domain.
type AnalyzePrompt struct{}

// NewAnalyzePrompt creates an AnalyzePrompt.
func NewAnalyzePrompt() *AnalyzePrompt {
	return &AnalyzePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *AnalyzePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("mantic-analyze",
		mcp.WithPromptDescription(
			"Run a full analysis of one preset domain: gather layer values from "+
				"the user, score friction and emergence, and interpret both reports "+
				"side by side.",
		),
		mcp.WithArgument("domain",
			mcp.ArgumentDescription("Preset domain to analyze. Default: generic"),
		),
	)
}

// Handle processes the mantic-analyze prompt request.
func (p *AnalyzePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	domain := "generic"
	if args := req.Params.Arguments; args != nil {
		if d, ok := args["domain"]; ok && d != "" {
			domain = d
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Analyze the %s domain", domain),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want a full read of the '%s' domain.\n\n"+
						"Please:\n"+
						"1. Read `mantic://presets` and show me this domain's layers and thresholds, then ask me for a value per layer\n"+
						"2. Run `detect_friction` and `detect_emergence` with my values\n"+
						"3. Render both M-scores with `visualize_gauge` and the friction attribution with `visualize_attribution`\n"+
						"4. Interpret the pair: is energy blocked (friction detected), is a window open (emergence), or neither?\n\n"+
						"Remember the calibration note in every result: M is a bounded intensity "+
						"score, not a probability — do not present it as a forecast.",
					domain,
				)),
			},
		},
	}, nil
}
