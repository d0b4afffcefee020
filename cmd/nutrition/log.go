// ABOUTME: CLI commands for logging food and water.
// ABOUTME: Shows the intake verdict and today's progress after each entry.
package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/nutrition/internal/models"
)

var (
	logAt       string
	logCategory string
)

var logCmd = &cobra.Command{
	Use:     "log",
	Aliases: []string{"add", "a"},
	Short:   "Log food or water",
	Long: `Log a food or water intake. Records cannot be edited or deleted later.

EXAMPLES:

  nutrition log food lunch 650
  nutrition log food snack 180 --at "2024-05-01 16:30"
  nutrition log water 0.5
  nutrition log water 0.33 --category breakfast`,
}

var logFoodCmd = &cobra.Command{
	Use:   "food <category> <kcal>",
	Short: "Log calories",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kcal, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid calories: %s", args[1])
		}
		return logIntake(cmd, args[0], models.Food(kcal))
	},
}

var logWaterCmd = &cobra.Command{
	Use:   "water <litres>",
	Short: "Log water",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		litres, err := strconv.ParseFloat(args[0], 64)
		if err != nil || !models.Finite(litres) {
			return fmt.Errorf("invalid volume: %s", args[0])
		}
		return logIntake(cmd, logCategory, models.Water(litres))
	},
}

func logIntake(cmd *cobra.Command, category string, intake models.Intake) error {
	ctx := cmd.Context()

	at := time.Now()
	if logAt != "" {
		t, err := parseTime(logAt)
		if err != nil {
			return fmt.Errorf("invalid timestamp: %s", logAt)
		}
		at = t
	}

	verdict, err := tr.ValidateIntake(ctx, intake)
	if err != nil {
		return err
	}

	r, err := tr.AddConsumption(ctx, category, intake, at)
	if err != nil {
		return fmt.Errorf("failed to log intake: %w", err)
	}

	color.Green("✓ Logged %s", r.Intake)
	fmt.Printf("  %s %s %s\n",
		color.New(color.Faint).Sprint(r.ID.String()[:8]),
		r.CategoryName,
		color.New(color.Faint).Sprint(r.ConsumedAt.Format("2006-01-02 15:04")))
	printVerdict(verdict)
	return nil
}

func printVerdict(v models.IntakeVerdict) {
	switch v {
	case models.VerdictTargetReached:
		color.Cyan("  Goal reached for today")
	case models.VerdictExcessive:
		color.Yellow("  Well past today's goal")
	case models.VerdictDangerous:
		color.Red("  Far beyond today's goal, take care")
	}
}

// parseTime accepts the usual CLI timestamp forms in local time.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

func init() {
	logCmd.PersistentFlags().StringVar(&logAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	logWaterCmd.Flags().StringVar(&logCategory, "category", "Drink", "category name or ID")
	logCmd.AddCommand(logFoodCmd, logWaterCmd)
	rootCmd.AddCommand(logCmd)
}
