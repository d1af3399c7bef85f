package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manticlabs/mantic/internal/detect"
	"github.com/manticlabs/mantic/internal/domains"
	"github.com/manticlabs/mantic/internal/viz"
)

var detectFlags struct {
	domain string
	mode   string
	values string
	fTime  float64
	gauge  bool
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Run one detection from the command line",
	Long: `Scores a preset domain from comma-separated layer values and prints the
full result as JSON. Values follow the domain's layer order; use 'nan'
for a layer you cannot assess.`,
	Example: `  mantic detect --domain finance --mode friction --values 0.8,0.3,-0.2,0.6
  mantic detect --domain generic --mode emergence --values 0.7,0.8,0.6,0.9 --gauge`,
	RunE: runDetect,
}

func init() {
	f := detectCmd.Flags()
	f.StringVar(&detectFlags.domain, "domain", "", "Preset domain name (required)")
	f.StringVar(&detectFlags.mode, "mode", "", "'friction' or 'emergence' (required)")
	f.StringVar(&detectFlags.values, "values", "", "Comma-separated layer values (required)")
	f.Float64Var(&detectFlags.fTime, "f-time", 0, "Direct temporal scale, clamped to [0.1, 3.0]")
	f.BoolVar(&detectFlags.gauge, "gauge", false, "Render the score as a text gauge instead of JSON")

	_ = detectCmd.MarkFlagRequired("domain")
	_ = detectCmd.MarkFlagRequired("mode")
	_ = detectCmd.MarkFlagRequired("values")
}

func runDetect(cmd *cobra.Command, _ []string) error {
	mode, err := detect.ParseMode(detectFlags.mode)
	if err != nil {
		return err
	}

	values, err := parseValues(detectFlags.values)
	if err != nil {
		return err
	}

	var cfg *detect.DomainConfig
	if detectFlags.domain == "generic" {
		cfg, err = domains.GenericConfig(mode, len(values))
	} else {
		cfg, err = domains.Config(detectFlags.domain, mode)
	}
	if err != nil {
		return err
	}

	req := detect.Request{LayerValues: values}
	if detectFlags.fTime != 0 {
		req.FTime = &detectFlags.fTime
	}

	res, err := detect.Detect(cfg, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if detectFlags.gauge {
		fmt.Fprintln(out, viz.Gauge(res.MScore, res.SpatialComponent, 0))
		fmt.Fprintln(out)
		fmt.Fprintln(out, viz.Attribution(res.LayerAttribution, 0))
		return nil
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data))
	return nil
}

// parseValues splits a comma-separated value list; 'nan' (any case)
// marks a missing layer.
func parseValues(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %q is not a number (use 'nan' for missing)", i+1, p)
		}
		out[i] = v
	}
	return out, nil
}
