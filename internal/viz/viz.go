// Package viz renders detection results as plain-text charts. Pure
// box-drawing and ASCII, no color codes, suitable for any terminal or
// LLM transcript.
package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/manticlabs/mantic/internal/kernel"
)

const defaultWidth = 50

// Gauge renders an M-score bar with a LOW/MODERATE/HIGH band marker.
func Gauge(m, s float64, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	filled := int(m * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	band, barChar, marker := "LOW", "#", "-"
	switch {
	case m >= 0.7:
		band, barChar, marker = "HIGH", "@", "+"
	case m >= 0.3:
		band, barChar, marker = "MODERATE", "=", "~"
	}

	bar := strings.Repeat(barChar, filled) + strings.Repeat("-", width-filled)
	edge := "+" + strings.Repeat("-", width) + "+"

	var b strings.Builder
	fmt.Fprintf(&b, "  M-SCORE: %.3f  |  SIGNAL: %.3f\n", m, s)
	fmt.Fprintf(&b, "  %s\n", edge)
	fmt.Fprintf(&b, "  |%s|\n", bar)
	fmt.Fprintf(&b, "  %s\n", edge)
	fmt.Fprintf(&b, "  0.0%s1.0+\n", strings.Repeat(" ", width-8))
	fmt.Fprintf(&b, "\n  STATUS: %s (%s)", band, marker)
	return b.String()
}

// Attribution renders per-layer shares as sorted horizontal bars,
// largest contribution first. Zero shares are labelled absent.
func Attribution(shares map[string]float64, width int) string {
	if width <= 0 {
		width = 60
	}

	names := make([]string, 0, len(shares))
	total := 0.0
	maxLabel := 0
	for name, v := range shares {
		names = append(names, name)
		total += math.Abs(v)
		if len(name) > maxLabel {
			maxLabel = len(name)
		}
	}
	if total == 0 {
		total = 1.0
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := math.Abs(shares[names[i]]), math.Abs(shares[names[j]])
		if a != b {
			return a > b
		}
		return names[i] < names[j]
	})

	barWidth := width - maxLabel - 15
	if barWidth < 10 {
		barWidth = 10
	}

	var b strings.Builder
	b.WriteString("  LAYER CONTRIBUTION\n")
	b.WriteString("  " + strings.Repeat("=", width) + "\n")
	for _, name := range names {
		share := shares[name]
		prop := math.Abs(share) / total
		filled := int(prop * float64(barWidth))
		bar := strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)
		if share == 0 {
			fmt.Fprintf(&b, "  %-*s [%s] %5.1f%% (absent)\n", maxLabel, name, bar, prop*100)
		} else {
			fmt.Fprintf(&b, "  %-*s [%s] %5.1f%% (%.3f)\n", maxLabel, name, bar, prop*100, share)
		}
	}
	b.WriteString("  " + strings.Repeat("=", width))
	return b.String()
}

// KernelComparison tabulates f(t) for the given kernels over a time
// range, one column per kernel, so callers can see how the modes
// scale the same score differently.
func KernelComparison(kernels []kernel.KernelType, tStart, tEnd float64, steps int) (string, error) {
	if len(kernels) == 0 {
		return "", fmt.Errorf("no kernels to compare")
	}
	if steps < 2 {
		steps = 2
	}
	if tEnd <= tStart {
		return "", fmt.Errorf("time range [%v, %v] is empty", tStart, tEnd)
	}

	var b strings.Builder
	b.WriteString("  TEMPORAL KERNEL COMPARISON (alpha=0.10, n=1.0)\n\n")
	fmt.Fprintf(&b, "  %8s", "t")
	for _, kt := range kernels {
		fmt.Fprintf(&b, "  %12s", string(kt))
	}
	b.WriteString("\n  " + strings.Repeat("-", 8+14*len(kernels)) + "\n")

	p := kernel.DefaultTemporalParams()
	step := (tEnd - tStart) / float64(steps-1)
	for i := 0; i < steps; i++ {
		p.T = tStart + float64(i)*step
		fmt.Fprintf(&b, "  %8.2f", p.T)
		for _, kt := range kernels {
			v, err := kernel.Temporal(kt, p)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "  %12.4f", v)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
