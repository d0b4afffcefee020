// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio MCP server backed by the shared tracker.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/nutrition/internal/mcp"
	"github.com/harperreed/nutrition/internal/notify"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout; logs go to stderr.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "nutrition": {
        "command": "nutrition",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  log_food          Record calories under a category
  log_water         Record water in litres
  validate_intake   Check an intake against today's goals without logging it
  get_today         Today's totals, targets, progress and status
  get_history       Records for one day
  get_weekly        Week-bucketed history (1, 4 or 12 weeks)
  set_targets       Change the calorie and/or water goal
  list_categories   List categories
  add_category      Create a category
  delete_category   Delete an unused, non-default category
  reset_daily       Zero today's totals

AVAILABLE RESOURCES:

  nutrition://today     Today's state and records
  nutrition://summary   Yesterday, 30-day average, and recent weeks`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol
		notifier.SetDeliver(notify.Console(os.Stderr))

		server, err := mcp.NewServer(tr, version)
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

		go func() {
			if err := tr.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("rollover loop stopped", "err", err)
			}
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
