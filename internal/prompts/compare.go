package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ComparePrompt handles the mantic-compare MCP prompt. It runs the
// same layer values through both modes and contrasts the readings.
type ComparePrompt struct{}

// NewComparePrompt creates a ComparePrompt.
func NewComparePrompt() *ComparePrompt {
	return &ComparePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ComparePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("mantic-compare",
		mcp.WithPromptDescription(
			"Score the same layer values in friction and emergence mode and "+
				"explain where the two readings agree and disagree.",
		),
		mcp.WithArgument("domain",
			mcp.ArgumentDescription("Preset domain to score. Default: generic"),
		),
		mcp.WithArgument("layer_values",
			mcp.ArgumentDescription("Comma-separated layer values to reuse for both runs"),
		),
	)
}

// Handle processes the mantic-compare prompt request.
func (p *ComparePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	domain := "generic"
	values := ""
	if args := req.Params.Arguments; args != nil {
		if d, ok := args["domain"]; ok && d != "" {
			domain = d
		}
		values = args["layer_values"]
	}

	valueNote := "Ask me for one value per layer first."
	if values != "" {
		valueNote = fmt.Sprintf("Use these layer values for both runs: %s.", values)
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Compare friction vs emergence for %s", domain),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Compare the two detection modes on the '%s' domain. %s\n\n"+
						"Then:\n"+
						"1. Run `detect_friction` and `detect_emergence` with identical inputs\n"+
						"2. Put the two M-scores, the friction range, and the emergence floor side by side\n"+
						"3. Explain the asymmetry: friction keys on the SPREAD between layers, "+
						"emergence keys on the WEAKEST layer — the same values can trip both, one, or neither\n"+
						"4. Close with which reading matters more for my situation, and why",
					domain, valueNote,
				)),
			},
		},
	}, nil
}
