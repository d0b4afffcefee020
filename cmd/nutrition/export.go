// ABOUTME: CLI commands for exporting and importing nutrition data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/storage"
)

var (
	exportOutput string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export nutrition data",
	Long: `Export nutrition data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export grouped by day (human-readable)
  markdown   Per-day tables with totals

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include records since this date (YYYY-MM-DD, markdown only)

EXAMPLES:

  nutrition export json -o backup.json
  nutrition export yaml
  nutrition export markdown --since 2024-01-01`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = storage.ExportJSON(repo)
		case "yaml":
			data, err = storage.ExportYAML(repo)
		case "markdown":
			var since *time.Time
			if exportSince != "" {
				t, err := time.ParseInLocation("2006-01-02", exportSince, time.Local)
				if err != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			md, err := storage.ExportMarkdown(repo, since)
			if err != nil {
				return err
			}
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import nutrition data from JSON",
	Long: `Import categories and records from a JSON backup file.

Categories whose name already exists here are kept as they are; their records
are still imported with the category snapshot they were logged under.
Duplicate record IDs cause an error.

EXAMPLES:

  nutrition import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		raw, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		var data storage.ExportData
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		data.Categories = newCategories(tr.Categories(cmd.Context()), data.Categories)

		if err := repo.ImportData(&data); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported %d categories and %d records from %s",
			len(data.Categories), len(data.Consumptions), filename)
		return nil
	},
}

// newCategories drops incoming categories whose name is already taken.
func newCategories(existing, incoming []*models.Category) []*models.Category {
	var out []*models.Category
	for _, c := range incoming {
		taken := false
		for _, e := range existing {
			if models.SameName(e.Name, c.Name) {
				taken = true
				break
			}
		}
		if !taken {
			out = append(out, c)
		}
	}
	return out
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include data since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
