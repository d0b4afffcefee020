// ABOUTME: CLI command for migrating data between storage backends.
// ABOUTME: Copies categories and records from one backend into an empty other.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/nutrition/internal/config"
	"github.com/harperreed/nutrition/internal/storage"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateDryRun bool
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data between storage backends",
	Long: `Copy every category and record from one backend to another.

BACKENDS:

  sqlite   ~/.local/share/nutrition/nutrition.db
  charm    Charm KV database "nutrition" (local only)

The destination must be empty unless --force is given. Run with --dry-run
first to see what would be copied. Afterwards set "backend" in
~/.config/nutrition/config.json to switch.

USAGE:

  nutrition migrate --from sqlite --to charm --dry-run
  nutrition migrate --from sqlite --to charm`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateFrom == migrateTo {
			return fmt.Errorf("--from and --to must differ")
		}

		base, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		srcCfg, dstCfg := *base, *base
		srcCfg.Backend = migrateFrom
		dstCfg.Backend = migrateTo

		src, err := srcCfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", migrateFrom, err)
		}
		defer func() { _ = src.Close() }()

		data, err := src.GetAllData()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", migrateFrom, err)
		}
		fmt.Printf("Source %s: %d categories, %d records\n",
			migrateFrom, len(data.Categories), len(data.Consumptions))

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes were made")
			return nil
		}

		dst, err := dstCfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", migrateTo, err)
		}
		defer func() { _ = dst.Close() }()

		if !migrateForce {
			if err := requireEmpty(dst); err != nil {
				return err
			}
		}

		summary, err := storage.MigrateData(src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		color.Green("✓ Migrated %d categories and %d records to %s",
			summary.Categories, summary.Consumptions, migrateTo)
		return nil
	},
}

func requireEmpty(repo storage.Repository) error {
	data, err := repo.GetAllData()
	if err != nil {
		return fmt.Errorf("failed to read destination: %w", err)
	}
	if len(data.Categories) > 0 || len(data.Consumptions) > 0 {
		return fmt.Errorf("destination already has data (use --force to copy anyway)")
	}
	return nil
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "sqlite", "source backend (sqlite or charm)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "charm", "destination backend (sqlite or charm)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "copy into a destination that already has data")
	rootCmd.AddCommand(migrateCmd)
}
