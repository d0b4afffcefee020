// ABOUTME: CLI commands for notification permission and reminder preferences.
// ABOUTME: Changing preferences re-registers every recurring reminder.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/notify"
)

var (
	remindFrequency   string
	remindSummaryTime string
	remindEnable      bool
	remindDisable     bool
)

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Show or change reminder preferences",
	Long: `Show or change the recurring reminders.

Reminders are spread evenly between 09:00 and 21:00:

  low      2 a day
  medium   4 a day
  high     6 a day

A daily summary is delivered at --summary-time. Reminders are delivered while
'nutrition serve' is running and notifications are allowed.

EXAMPLES:

  nutrition reminders
  nutrition reminders --frequency high --summary-time 21:30
  nutrition reminders --disable`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := tr.Reminders()
		changed := false
		if remindFrequency != "" {
			f, err := models.ParseFrequency(remindFrequency)
			if err != nil {
				return err
			}
			r.Frequency = f
			changed = true
		}
		if remindSummaryTime != "" {
			r.SummaryTime = remindSummaryTime
			changed = true
		}
		if remindEnable && remindDisable {
			return fmt.Errorf("--enable and --disable are mutually exclusive")
		}
		if remindEnable || remindDisable {
			r.Enabled = remindEnable
			changed = true
		}

		if changed {
			if err := tr.ConfigureReminders(cmd.Context(), r); err != nil {
				return fmt.Errorf("failed to save reminders: %w", err)
			}
			color.Green("✓ Reminders updated")
		}

		state := "off"
		if r.Enabled {
			state = "on"
		}
		fmt.Printf("  Reminders     %s\n", state)
		fmt.Printf("  Frequency     %s (%d a day)\n", r.Frequency, models.RemindersPerDay[r.Frequency])
		fmt.Printf("  Summary at    %s\n", r.SummaryTime)
		return nil
	},
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Allow or check notifications",
	Long: `Ask once whether nutrition may show notifications. The answer is
remembered; run it again to see the stored state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := tr.RequestNotifications(cmd.Context())
		if err != nil {
			return err
		}
		switch state {
		case notify.Granted:
			color.Green("✓ Notifications allowed")
		case notify.Denied:
			color.Yellow("Notifications are turned off")
		default:
			fmt.Println("Notifications not decided yet")
		}
		return nil
	},
}

func init() {
	remindersCmd.Flags().StringVarP(&remindFrequency, "frequency", "f", "", "low, medium, or high")
	remindersCmd.Flags().StringVar(&remindSummaryTime, "summary-time", "", "daily summary time (HH:MM)")
	remindersCmd.Flags().BoolVar(&remindEnable, "enable", false, "turn reminders on")
	remindersCmd.Flags().BoolVar(&remindDisable, "disable", false, "turn reminders off")
	rootCmd.AddCommand(remindersCmd, notificationsCmd)
}
