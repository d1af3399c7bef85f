package main

import (
	"fmt"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/manticlabs/mantic/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: `Starts the detection suite as an MCP server over stdin/stdout. The host
(Claude Code, Cursor, any MCP client) gets the detection and
visualization tools, the mantic:// resources, and the guided prompts.

Run logs persist under ~/.mantic; if that directory is unavailable the
server starts anyway with history disabled.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	s, cleanup, err := server.New()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	return mcpserver.ServeStdio(s)
}
