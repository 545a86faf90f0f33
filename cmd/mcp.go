package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/streak/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server communicates over stdio and exposes tools for reading the timer
and statistics and for controlling the countdown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.config.MCP.Enabled {
			return fmt.Errorf("MCP server is disabled in the config (mcp.enabled)")
		}

		// stdout carries the protocol, so status goes to stderr.
		fmt.Fprintln(os.Stderr, "Starting MCP server on stdio. Press Ctrl+C to stop.")

		server := mcp.NewServer(app.ctrl, app.state, Version)
		if err := server.Start(setupSignalHandler()); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}
