// ABOUTME: CLI commands for goals, dry-run validation, and manual reset.
// ABOUTME: Target changes re-evaluate notification thresholds immediately.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/nutrition/internal/models"
)

var (
	validateCalories int
	validateWater    float64
)

var targetCmd = &cobra.Command{
	Use:   "target <calories|water> <value>",
	Short: "Set a daily goal",
	Long: `Set the daily calorie goal (kcal) or water goal (litres). Both must be
greater than zero.

EXAMPLES:

  nutrition target calories 1800
  nutrition target water 2.5`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"calories", "water"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		switch args[0] {
		case "calories", "kcal":
			v, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid calorie target: %s", args[1])
			}
			if err := tr.UpdateCalorieTarget(ctx, v); err != nil {
				return fmt.Errorf("failed to set target: %w", err)
			}
			color.Green("✓ Calorie goal set to %d kcal", v)
		case "water":
			v, err := strconv.ParseFloat(args[1], 64)
			if err != nil || !models.Finite(v) {
				return fmt.Errorf("invalid water target: %s", args[1])
			}
			if err := tr.UpdateWaterTarget(ctx, v); err != nil {
				return fmt.Errorf("failed to set target: %w", err)
			}
			color.Green("✓ Water goal set to %.2f L", v)
		default:
			return fmt.Errorf("unknown target: %s (use calories or water)", args[0])
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check an intake against today's goals without logging it",
	Long: `Check how a proposed intake would land against today's goals. Nothing
is recorded.

EXAMPLES:

  nutrition validate --calories 900
  nutrition validate --water 1.5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var kcal *int
		var water *float64
		if cmd.Flags().Changed("calories") {
			kcal = &validateCalories
		}
		if cmd.Flags().Changed("water") {
			water = &validateWater
		}
		intake, err := models.IntakeFrom(kcal, water)
		if err != nil {
			return err
		}
		verdict, err := tr.ValidateIntake(cmd.Context(), intake)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", intake, verdict)
		printVerdict(verdict)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Zero today's totals",
	Long: `Zero today's running totals and notification thresholds. Logged records
are kept; they simply stop counting toward today.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := tr.ResetDaily(cmd.Context()); err != nil {
			return fmt.Errorf("failed to reset: %w", err)
		}
		color.Green("✓ Today's totals reset")
		return nil
	},
}

func init() {
	validateCmd.Flags().IntVar(&validateCalories, "calories", 0, "proposed calories")
	validateCmd.Flags().Float64Var(&validateWater, "water", 0, "proposed water in litres")
	rootCmd.AddCommand(targetCmd, validateCmd, resetCmd)
}
