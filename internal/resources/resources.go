// Package resources implements MCP resource handlers for the
// detection suite.
//
// Resources provide read-only data that the host can consume for
// context. They use URI-based addressing (mantic://...) following MCP
// conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/manticlabs/mantic/internal/detect"
	"github.com/manticlabs/mantic/internal/domains"
	"github.com/manticlabs/mantic/internal/kernel"
	"github.com/manticlabs/mantic/internal/validate"
)

// Handler manages the read-only resource endpoints.
type Handler struct{}

// NewHandler creates a resource Handler. The preset registry is
// embedded, so there are no dependencies to inject.
func NewHandler() *Handler {
	return &Handler{}
}

// PresetsResource returns the MCP resource definition for the full
// preset catalog.
func (h *Handler) PresetsResource() mcp.Resource {
	return mcp.NewResource(
		"mantic://presets",
		"Preset Detector Catalog",
		mcp.WithResourceDescription("Every preset domain's friction and emergence detectors: layer names, weights, signed ranges, and thresholds"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandlePresets returns the preset catalog as JSON.
func (h *Handler) HandlePresets(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	catalog := make(map[string]domains.Domain, len(domains.Names()))
	for _, name := range domains.Names() {
		d, _ := domains.Get(name)
		catalog[name] = d
	}

	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling presets: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

// DomainsResource returns the MCP resource definition for the domain
// summary.
func (h *Handler) DomainsResource() mcp.Resource {
	return mcp.NewResource(
		"mantic://domains",
		"Domain Summary",
		mcp.WithResourceDescription("Preset domain names with their supported modes and temporal kernel allowlists"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleDomains returns the per-domain summary as JSON.
func (h *Handler) HandleDomains(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	type summary struct {
		Modes   []string            `json:"modes"`
		Kernels []kernel.KernelType `json:"kernels"`
	}

	out := make(map[string]summary, len(domains.Names()))
	for _, name := range domains.Names() {
		d, _ := domains.Get(name)
		var modes []string
		if d.Friction != nil {
			modes = append(modes, string(detect.ModeFriction))
		}
		if d.Emergence != nil {
			modes = append(modes, string(detect.ModeEmergence))
		}
		out[name] = summary{Modes: modes, Kernels: domains.KernelAllowlist(name)}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling domains: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

// FormulaResource returns the MCP resource definition for the scoring
// formula reference.
func (h *Handler) FormulaResource() mcp.Resource {
	return mcp.NewResource(
		"mantic://formula",
		"Scoring Formula Reference",
		mcp.WithResourceDescription("The M-score formula, its governance bounds, and the temporal kernel modes"),
		mcp.WithMIMEType("text/plain"),
	)
}

// HandleFormula returns the formula reference as plain text.
func (h *Handler) HandleFormula(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	var b strings.Builder
	b.WriteString("M-SCORE FORMULA\n")
	b.WriteString("===============\n\n")
	b.WriteString("  S = sum_i( W_i * L_i * I_i )\n")
	b.WriteString("  M = (S * f_time) / k_n\n")
	b.WriteString("  attribution_i = W_i * L_i * I_i / S\n\n")
	b.WriteString("W_i are layer weights (renormalized to sum to 1), L_i are layer\n")
	b.WriteString("values, I_i are interaction coefficients. " + detect.Calibration + ".\n\n")

	b.WriteString("GOVERNANCE BOUNDS\n")
	fmt.Fprintf(&b, "  interaction coefficients  [%g, %g]\n", validate.InteractionMin, validate.InteractionMax)
	fmt.Fprintf(&b, "  f_time                    [%g, %g]\n", validate.FTimeMin, validate.FTimeMax)
	fmt.Fprintf(&b, "  temporal alpha            [%g, %g]\n", validate.AlphaMin, validate.AlphaMax)
	fmt.Fprintf(&b, "  temporal n                [%g, %g]\n", validate.NoveltyMin, validate.NoveltyMax)
	fmt.Fprintf(&b, "  threshold overrides       within %.0f%% of the default, hard [%g, %g]\n",
		validate.ThresholdDrift*100, validate.ThresholdFloor, validate.ThresholdCeil)
	fmt.Fprintf(&b, "  minimum valid layers      %d\n\n", validate.MinValidLayers)

	b.WriteString("TEMPORAL KERNELS\n")
	names := make([]string, 0, 7)
	for _, kt := range kernel.AllKernelTypes() {
		names = append(names, string(kt))
	}
	sort.Strings(names)
	b.WriteString("  " + strings.Join(names, ", ") + "\n")
	b.WriteString("Each domain permits a subset; see mantic://domains.\n")

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     b.String(),
		},
	}, nil
}

// jsonResource wraps JSON text in the MCP resource contents envelope.
func jsonResource(uri, text string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		},
	}
}
