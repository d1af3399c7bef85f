package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manticlabs/mantic/internal/domains"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the preset domains and their detectors",
	RunE:  runPresets,
}

func runPresets(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	for _, name := range domains.Names() {
		d, _ := domains.Get(name)
		fmt.Fprintf(out, "%s\n", name)
		fmt.Fprintf(out, "  kernels: %s\n", strings.Join(d.Kernels, ", "))
		printDetector(out, "friction", d.Friction)
		printDetector(out, "emergence", d.Emergence)
		fmt.Fprintln(out)
	}
	return nil
}

func printDetector(out io.Writer, mode string, det *domains.Detector) {
	if det == nil {
		return
	}
	layers := make([]string, len(det.Layers))
	for i, l := range det.Layers {
		layers[i] = fmt.Sprintf("%s (%.2f)", l.Name, l.Weight)
		if l.Signed {
			layers[i] += " ±"
		}
	}
	fmt.Fprintf(out, "  %s: %s\n", mode, strings.Join(layers, ", "))
	fmt.Fprintf(out, "    thresholds: %s, decides on %q\n", formatThresholds(det.Thresholds), det.DetectionKey)
}

func formatThresholds(t map[string]float64) string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%.2f", k, t[k]))
	}
	return strings.Join(parts, " ")
}
