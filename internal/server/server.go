// Package server wires all MCP components and creates the server
// instance.
//
// This is the composition root: it creates concrete implementations
// and injects them into the tools, prompts, and resources. No scoring
// logic lives here — only wiring.
package server

import (
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/manticlabs/mantic/internal/history"
	"github.com/manticlabs/mantic/internal/prompts"
	"github.com/manticlabs/mantic/internal/resources"
	"github.com/manticlabs/mantic/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the run log's database
// connection and must be called on shutdown (typically via defer).
// It is always non-nil and safe to call even if history init failed.
func New() (*server.MCPServer, func(), error) {
	s := server.NewMCPServer(
		"mantic",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// The run log is an independent subsystem: if it fails to
	// initialize, detection tools continue working without
	// persistence. We log a warning and hand the tools a nil store.
	cleanup := noop
	hist, histErr := history.New(history.DefaultConfig())
	if histErr != nil {
		log.Printf("WARNING: run log disabled: %v", histErr)
		hist = nil
	} else {
		cleanup = func() {
			if err := hist.Close(); err != nil {
				log.Printf("WARNING: run log close: %v", err)
			}
		}
	}

	// --- Register detection tools ---

	healthTool := tools.NewHealthCheckTool(Version, hist)
	s.AddTool(healthTool.Definition(), healthTool.Handle)

	detectTool := tools.NewDetectTool(hist)
	s.AddTool(detectTool.Definition(), detectTool.Handle)

	frictionTool := tools.NewFrictionTool(hist)
	s.AddTool(frictionTool.Definition(), frictionTool.Handle)

	emergenceTool := tools.NewEmergenceTool(hist)
	s.AddTool(emergenceTool.Definition(), emergenceTool.Handle)

	// --- Register visualization tools ---

	gaugeTool := tools.NewVisualizeGaugeTool()
	s.AddTool(gaugeTool.Definition(), gaugeTool.Handle)

	attributionTool := tools.NewVisualizeAttributionTool()
	s.AddTool(attributionTool.Definition(), attributionTool.Handle)

	kernelsTool := tools.NewVisualizeKernelsTool()
	s.AddTool(kernelsTool.Definition(), kernelsTool.Handle)

	// --- Register run log tools ---
	//
	// Registered unconditionally — with a nil store they answer that
	// the run log is disabled instead of disappearing from the
	// tool list.

	recentTool := tools.NewHistoryRecentTool(hist)
	s.AddTool(recentTool.Definition(), recentTool.Handle)

	statsTool := tools.NewHistoryStatsTool(hist)
	s.AddTool(statsTool.Definition(), statsTool.Handle)

	// --- Register prompts ---

	warmupPrompt := prompts.NewWarmupPrompt()
	s.AddPrompt(warmupPrompt.Definition(), warmupPrompt.Handle)

	analyzePrompt := prompts.NewAnalyzePrompt()
	s.AddPrompt(analyzePrompt.Definition(), analyzePrompt.Handle)

	comparePrompt := prompts.NewComparePrompt()
	s.AddPrompt(comparePrompt.Definition(), comparePrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler()
	s.AddResource(resourceHandler.PresetsResource(), resourceHandler.HandlePresets)
	s.AddResource(resourceHandler.DomainsResource(), resourceHandler.HandleDomains)
	s.AddResource(resourceHandler.FormulaResource(), resourceHandler.HandleFormula)

	return s, cleanup, nil
}

// noop is the default cleanup when the run log is disabled.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use the detection suite effectively.
func serverInstructions() string {
	return `You have access to mantic, a cross-layer detection MCP server.

## WHAT IT COMPUTES

Every detection scores M = (sum of weight * layer * interaction) * f_time / k_n
over a small set of named layers. M is a bounded intensity score, not a
probability or a forecast — never present it as one.

Two modes read the same layers differently:
- friction: a wide spread between the strongest and weakest layer means
  forces are interfering. Use when the user describes tension, blockage,
  or conflicting signals.
- emergence: the window opens when the WEAKEST layer clears the
  alignment threshold. Use when the user asks about timing, readiness,
  or opportunity.

## HOW TO USE IT

1. Pick a preset domain (read mantic://domains) and call detect, or use
   detect_friction / detect_emergence for the generic domain and for
   3-6 caller-defined layers. The detect tool resolves presets only;
   generic runs go through detect_friction / detect_emergence.
2. Elicit a value in [0,1] per layer from the user (signed layers take
   [-1,1]). Pass null for anything they cannot assess — the remaining
   weights renormalize.
3. Every response carries an audit of clamps and rejections under
   overrides_applied. Surface these to the user: a clamped override
   means their input was out of governance bounds.
4. Render results with visualize_gauge and visualize_attribution rather
   than quoting raw JSON.

Past runs are in history_recent / history_stats when the run log is
enabled.`
}
