// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for Claude integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/gym/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to read and log gym sessions through
a standardized protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "gym": {
        "command": "gym",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_sessions     List recent sessions or the sessions on a date
  add_session       Log a session
  delete_sessions   Delete the sessions on a date
  session_stats     Counts, average duration, and visit rates

AVAILABLE RESOURCES:

  gym://recent      Last 10 sessions
  gym://stats       Statistics dashboard`,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := sessionTable()
		if err != nil {
			return err
		}

		server, err := mcp.NewServer(db, table, cfg.Files.DedupColumns)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
