package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manticlabs/mantic/internal/domains"
	"github.com/manticlabs/mantic/internal/kernel"
	"github.com/manticlabs/mantic/internal/viz"
)

var kernelsFlags struct {
	domain string
	tStart float64
	tEnd   float64
	steps  int
}

var kernelsCmd = &cobra.Command{
	Use:   "kernels",
	Short: "Tabulate the temporal kernels over a time range",
	RunE:  runKernels,
}

func init() {
	f := kernelsCmd.Flags()
	f.StringVar(&kernelsFlags.domain, "domain", "", "Limit to a preset domain's kernel allowlist")
	f.Float64Var(&kernelsFlags.tStart, "t-start", 0, "Range start")
	f.Float64Var(&kernelsFlags.tEnd, "t-end", 10, "Range end")
	f.IntVar(&kernelsFlags.steps, "steps", 11, "Sample count")
}

func runKernels(cmd *cobra.Command, _ []string) error {
	kernels := kernel.AllKernelTypes()
	if kernelsFlags.domain != "" {
		kernels = domains.KernelAllowlist(kernelsFlags.domain)
		if kernels == nil {
			return fmt.Errorf("unknown domain %q", kernelsFlags.domain)
		}
	}

	out, err := viz.KernelComparison(kernels, kernelsFlags.tStart, kernelsFlags.tEnd, kernelsFlags.steps)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
