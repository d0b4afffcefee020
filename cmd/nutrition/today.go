// ABOUTME: CLI commands for viewing progress and history.
// ABOUTME: Covers today's snapshot, a day's records, weekly buckets, and trends.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/nutrition/internal/models"
)

var (
	historyDate string
	weeklyWeeks int
	trendDays   int
)

var todayCmd = &cobra.Command{
	Use:     "today",
	Aliases: []string{"t", "status"},
	Short:   "Show today's progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := tr.Snapshot(cmd.Context())
		if err != nil {
			return err
		}

		bold := color.New(color.Bold)
		faint := color.New(color.Faint)
		bold.Printf("Today %s\n\n", s.Date)
		fmt.Printf("  Calories  %s %d / %d kcal\n",
			bar(s.CalorieProgress, 20), s.Totals.Calories, s.Targets.Calories)
		fmt.Printf("  Water     %s %.2f / %.2f L\n",
			bar(s.WaterProgress, 20), s.Totals.Water, s.Targets.Water)
		fmt.Println()
		fmt.Printf("  Status    %s\n", statusLabel(s.Status))
		if s.RemainingCalories > 0 || s.RemainingWater > 0 {
			fmt.Printf("  Remaining %d kcal, %.2f L\n", s.RemainingCalories, s.RemainingWater)
		}
		fmt.Println()
		fmt.Printf("  %s %d kcal   %s %d kcal\n",
			faint.Sprint("Yesterday"), s.YesterdayCalories,
			faint.Sprint("30-day average"), s.AverageCalories)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"list", "ls", "l"},
	Short:   "List one day's records",
	Long: `List the records logged on one day, newest first.

EXAMPLES:

  nutrition history                    # Today
  nutrition history --date 2024-05-01  # A specific day`,
	RunE: func(cmd *cobra.Command, args []string) error {
		day := time.Now()
		if historyDate != "" {
			t, err := time.ParseInLocation("2006-01-02", historyDate, time.Local)
			if err != nil {
				return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", historyDate)
			}
			day = t
		}

		records := tr.History(day)
		if len(records) == 0 {
			fmt.Println("No records found.")
			return nil
		}
		printRecords(records)
		return nil
	},
}

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Show week-by-week totals",
	Long: `Show history bucketed into weeks, most recent first.

  --weeks 1    the last 7 days
  --weeks 4    the last 30 days in four buckets
  --weeks 12   the last 90 days in twelve buckets`,
	RunE: func(cmd *cobra.Command, args []string) error {
		buckets, err := tr.Weekly(weeklyWeeks)
		if err != nil {
			return err
		}
		faint := color.New(color.Faint)
		for _, b := range buckets {
			fmt.Printf("%s  %6d kcal  %6.2f L  %s\n",
				padRight(b.WeekStart.Format("Jan 02")+" - "+b.WeekEnd.Add(-time.Second).Format("Jan 02"), 16),
				b.Totals.Calories,
				b.Totals.Water,
				faint.Sprintf("%d records", len(b.Records)))
		}
		return nil
	},
}

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Show daily totals for recent days",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := tr.Snapshot(cmd.Context())
		if err != nil {
			return err
		}
		for _, d := range tr.Trend(trendDays) {
			ratio := 0.0
			if s.Targets.Calories > 0 {
				ratio = float64(d.Totals.Calories) / float64(s.Targets.Calories)
			}
			fmt.Printf("%s %s %5d kcal  %5.2f L\n", d.Date, bar(ratio, 20), d.Totals.Calories, d.Totals.Water)
		}
		return nil
	},
}

func printRecords(records []*models.Consumption) {
	faint := color.New(color.Faint)
	for _, r := range records {
		fmt.Printf("%s %s %s %s\n",
			faint.Sprint(r.ID.String()[:8]),
			faint.Sprint(r.ConsumedAt.Format("2006-01-02 15:04")),
			padRight(truncate(r.CategoryName, 16), 16),
			r.Intake)
	}
}

// bar renders a progress ratio as a fixed-width bar, capped at full.
func bar(ratio float64, width int) string {
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	s := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if ratio >= 1 {
		return color.GreenString(s)
	}
	return s
}

func statusLabel(s models.HealthStatus) string {
	switch s {
	case models.StatusExcellent:
		return color.GreenString("excellent")
	case models.StatusNeedsWater:
		return color.CyanString("needs water")
	case models.StatusNeedsCalories:
		return color.YellowString("needs calories")
	default:
		return "on track"
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	historyCmd.Flags().StringVar(&historyDate, "date", "", "day to show (YYYY-MM-DD)")
	weeklyCmd.Flags().IntVarP(&weeklyWeeks, "weeks", "w", 1, "number of weeks (1, 4, or 12)")
	trendCmd.Flags().IntVarP(&trendDays, "days", "d", 7, "number of days")
	rootCmd.AddCommand(todayCmd, historyCmd, weeklyCmd, trendCmd)
}
