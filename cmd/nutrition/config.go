// ABOUTME: CLI command for viewing and editing the config file.
// ABOUTME: Writes backend, data directory, and HTTP address settings.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/nutrition/internal/config"
	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/storage"
)

var (
	configBackend   string
	configDataDir   string
	configHTTPAddr  string
	configLogLevel  string
	configFrequency string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit configuration",
	Long: `Show or edit ~/.config/nutrition/config.json.

Environment variables override the file:

  NUTRITION_BACKEND     sqlite or charm
  NUTRITION_DATA_DIR    data directory
  NUTRITION_LOG_LEVEL   debug, info, warn, error
  NUTRITION_HTTP_ADDR   listen address for 'nutrition serve'

EXAMPLES:

  nutrition config
  nutrition config --backend charm
  nutrition config --data-dir ~/Dropbox/nutrition`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}

		changed := false
		if configBackend != "" {
			if configBackend != "sqlite" && configBackend != "charm" {
				return fmt.Errorf("unknown backend: %q (use sqlite or charm)", configBackend)
			}
			c.Backend = configBackend
			changed = true
		}
		if configDataDir != "" {
			nonEmpty, err := storage.IsDirNonEmpty(config.ExpandPath(configDataDir))
			if err != nil {
				return err
			}
			if nonEmpty {
				color.Yellow("Note: %s already contains files; existing data there will be used.", configDataDir)
			}
			c.DataDir = configDataDir
			changed = true
		}
		if configHTTPAddr != "" {
			c.HTTPAddr = configHTTPAddr
			changed = true
		}
		if configLogLevel != "" {
			c.LogLevel = configLogLevel
			changed = true
		}
		if configFrequency != "" {
			if _, err := models.ParseFrequency(configFrequency); err != nil {
				return err
			}
			c.ReminderFrequency = configFrequency
			changed = true
		}

		if changed {
			if err := c.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			color.Green("✓ Saved %s", config.GetConfigPath())
		}

		faint := color.New(color.Faint)
		fmt.Printf("  %s %s\n", faint.Sprint("config   "), config.GetConfigPath())
		fmt.Printf("  %s %s\n", faint.Sprint("backend  "), c.GetBackend())
		fmt.Printf("  %s %s\n", faint.Sprint("data dir "), c.GetDataDir())
		fmt.Printf("  %s %s\n", faint.Sprint("log level"), c.GetLogLevel())
		fmt.Printf("  %s %s\n", faint.Sprint("http     "), c.GetHTTPAddr())
		return nil
	},
}

func init() {
	configCmd.Flags().StringVar(&configBackend, "backend", "", "storage backend (sqlite or charm)")
	configCmd.Flags().StringVar(&configDataDir, "data-dir", "", "data directory")
	configCmd.Flags().StringVar(&configHTTPAddr, "http-addr", "", "listen address for serve")
	configCmd.Flags().StringVar(&configLogLevel, "log-level", "", "log level")
	configCmd.Flags().StringVar(&configFrequency, "reminder-frequency", "", "initial reminder frequency")
	rootCmd.AddCommand(configCmd)
}
