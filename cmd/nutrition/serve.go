// ABOUTME: CLI command for running the long-lived tracker process.
// ABOUTME: Delivers reminders, rolls over at midnight, and serves the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/nutrition/internal/api"
	"github.com/harperreed/nutrition/internal/notify"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Run reminders, midnight rollover, and the HTTP API",
	Long: `Run nutrition in the foreground.

While running it:

  - delivers reminders and the daily summary to this terminal
  - zeroes today's totals at local midnight (and catches up after sleep)
  - serves the JSON API and an event stream at http://<addr>/api

EXAMPLES:

  nutrition serve
  nutrition serve --addr 0.0.0.0:8787`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// The summary body is rendered at delivery time so it reflects the day.
		console := notify.Console(os.Stdout)
		notifier.SetDeliver(func(n notify.Notification) {
			if n.Kind == notify.KindSummary {
				n.Body = tr.SummaryText(ctx)
			}
			console(n)
		})

		if _, err := tr.Resume(ctx); err != nil {
			logger.Warn("resume", "err", err)
		}
		if err := tr.ScheduleReminders(ctx); err != nil {
			logger.Warn("schedule reminders", "err", err)
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.GetHTTPAddr()
		}
		server := api.NewServer(tr, logger)

		errCh := make(chan error, 2)
		go func() { errCh <- tr.Run(ctx) }()
		go func() { errCh <- server.ListenAndServe(ctx, addr) }()

		fmt.Printf("nutrition is running on http://%s (Ctrl+C to stop)\n", addr)

		var first error
		for i := 0; i < 2; i++ {
			err := <-errCh
			if err != nil && ctx.Err() == nil && first == nil {
				first = err
				stop()
			}
		}
		return first
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, 127.0.0.1:8787)")
	rootCmd.AddCommand(serveCmd)
}
