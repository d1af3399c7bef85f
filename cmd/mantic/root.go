package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/manticlabs/mantic/internal/server"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "mantic",
	Short: "Cross-layer friction and emergence detection",
	Long: "Mantic scores a bounded intensity M over weighted analytical layers\n" +
		"and reads it two ways: friction (forces interfering) and emergence\n" +
		"(a window opening). Runs standalone or as an MCP server over stdio.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(kernelsCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.Version = version
	server.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
