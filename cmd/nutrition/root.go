// ABOUTME: Root Cobra command for the nutrition CLI.
// ABOUTME: Opens storage, settings, and the tracker via PersistentPre/PostRunE.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harperreed/nutrition/internal/config"
	"github.com/harperreed/nutrition/internal/notify"
	"github.com/harperreed/nutrition/internal/settings"
	"github.com/harperreed/nutrition/internal/storage"
	"github.com/harperreed/nutrition/internal/tracker"
)

var version = "dev"

// skipSetup names commands that run without the tracker.
var skipSetup = map[string]bool{
	"version":       true,
	"help":          true,
	"install-skill": true,
	"migrate":       true,
	"config":        true,
}

var (
	cfg      *config.Config
	logger   *log.Logger
	repo     storage.Repository
	prefs    *settings.Store
	notifier *notify.Local
	tr       *tracker.Tracker
)

var rootCmd = &cobra.Command{
	Use:   "nutrition",
	Short: "Daily calorie and water tracker",
	Long: `Nutrition tracks what you eat and drink against daily goals.

WHAT IT TRACKS:

  Food     calories per meal or snack, filed under a category
  Water    litres, filed under a category (Drink by default)

QUICK START:

  $ nutrition log food lunch 650          # Log 650 kcal under Lunch
  $ nutrition log water 0.5               # Log half a litre
  $ nutrition today                       # Progress toward today's goals
  $ nutrition target calories 1800        # Change the calorie goal
  $ nutrition weekly --weeks 4            # Last four weeks, week by week

CATEGORIES:

  Breakfast, Lunch, Dinner, Snack and Drink exist out of the box.
  Add your own with 'nutrition category add', remove them with
  'nutrition category delete' once no records use them.

NOTIFICATIONS:

  $ nutrition notifications               # Grant permission once
  $ nutrition reminders --frequency high  # Six reminders a day
  $ nutrition serve                       # Deliver reminders, host the HTTP API

MCP INTEGRATION:

  Run 'nutrition mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants.

  {
    "mcpServers": {
      "nutrition": { "command": "nutrition", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Records live in ~/.local/share/nutrition/nutrition.db (SQLite) unless the
  config selects the charm backend. Settings live next to them in settings/.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for commands that don't need it
		if skipSetup[cmd.Name()] {
			return nil
		}
		return openAll(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeAll()
	},
}

// Execute runs the root command. Resources are released even when a
// command fails, which skips PersistentPostRunE.
func Execute() error {
	err := rootCmd.Execute()
	return errors.Join(err, closeAll())
}

func openAll(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err = cfg.NewLogger(os.Stderr)
	if err != nil {
		return err
	}

	repo, err = cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	prefs, err = cfg.OpenSettings(logger)
	if err != nil {
		_ = closeAll()
		return fmt.Errorf("failed to open settings: %w", err)
	}

	if cfg.ReminderFrequency != "" || cfg.SummaryTime != "" || cfg.RemindersEnabled != nil {
		r, err := cfg.GetReminders()
		if err != nil {
			_ = closeAll()
			return fmt.Errorf("invalid reminder config: %w", err)
		}
		if err := prefs.SeedReminders(r); err != nil {
			logger.Warn("seed reminder preferences", "err", err)
		}
	}

	auth, err := prefs.Authorization()
	if err != nil {
		logger.Warn("read notification permission", "err", err)
	}
	notifier = notify.NewLocal(notify.Console(os.Stdout))
	center := notify.NewCenter(notifier, notify.ParseAuthorization(auth), promptYesNo, logger)

	tr, err = tracker.New(ctx, tracker.Options{
		Repo:     repo,
		Settings: prefs,
		Notifier: center,
		Logger:   logger,
	})
	if err != nil {
		_ = closeAll()
		return fmt.Errorf("failed to start tracker: %w", err)
	}
	return nil
}

func closeAll() error {
	var errs []error
	if notifier != nil {
		_ = notifier.CancelAll(context.Background())
		notifier = nil
	}
	if tr != nil {
		errs = append(errs, tr.Close())
		tr = nil
	}
	if prefs != nil {
		errs = append(errs, prefs.Close())
		prefs = nil
	}
	if repo != nil {
		errs = append(errs, repo.Close())
		repo = nil
	}
	return errors.Join(errs...)
}

// promptYesNo asks on the terminal whether notifications may be shown.
func promptYesNo(ctx context.Context) (bool, error) {
	fmt.Print("Allow nutrition to show reminders and goal notifications? [y/N] ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("nutrition", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
