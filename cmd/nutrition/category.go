// ABOUTME: CLI commands for managing intake categories.
// ABOUTME: Add, list, and delete with default and in-use guards.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var categoryIcon string

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat", "c"},
	Short:   "Manage intake categories",
	Long: `Manage the categories records are filed under.

The five defaults (Breakfast, Lunch, Dinner, Snack, Drink) cannot be deleted.
Names are unique regardless of case. A category that still has records cannot
be deleted either; the log is append-only.`,
}

var categoryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		faint := color.New(color.Faint)
		for _, c := range tr.Categories(cmd.Context()) {
			tag := ""
			if c.IsDefault {
				tag = faint.Sprint(" (default)")
			}
			fmt.Printf("%s %s %s%s\n",
				faint.Sprint(c.ID.String()[:8]),
				padRight(c.Name, 16),
				faint.Sprint(c.Icon),
				tag)
		}
		return nil
	},
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category",
	Long: `Add a category.

EXAMPLES:

  nutrition category add Brunch
  nutrition category add "Protein shake" --icon cup.and.saucer`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := tr.AddCategory(cmd.Context(), args[0], categoryIcon)
		if err != nil {
			return fmt.Errorf("failed to add category: %w", err)
		}
		color.Green("✓ Added category %s", c.Name)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(c.ID.String()[:8]))
		return nil
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:     "delete <name|id>",
	Aliases: []string{"rm"},
	Short:   "Delete a category",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := tr.DeleteCategory(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		color.Green("✓ Deleted category %s", args[0])
		return nil
	},
}

func init() {
	categoryAddCmd.Flags().StringVar(&categoryIcon, "icon", "fork.knife", "icon name")
	categoryCmd.AddCommand(categoryListCmd, categoryAddCmd, categoryDeleteCmd)
	rootCmd.AddCommand(categoryCmd)
}
