// ABOUTME: Recurring reminder planning.
// ABOUTME: Spreads reminders evenly between 09:00 and 21:00 plus a daily summary.
package notify

import (
	"fmt"
	"time"

	"github.com/harperreed/nutrition/internal/models"
)

// Reminder window bounds, in minutes after midnight.
const (
	windowStart = 9 * 60
	windowEnd   = 21 * 60
)

// ReminderTimes returns the clock times (minutes after midnight) for n
// reminders spaced evenly across the window, endpoints included.
func ReminderTimes(n int) []int {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []int{windowStart}
	}
	step := (windowEnd - windowStart) / (n - 1)
	times := make([]int, n)
	for i := range times {
		times[i] = windowStart + i*step
	}
	times[n-1] = windowEnd
	return times
}

// nextAt returns the next instant at or after now whose clock time is minutes
// after midnight.
func nextAt(now time.Time, minutes int) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), minutes/60, minutes%60, 0, 0, now.Location())
	if t.Before(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// ParseClock parses HH:MM into minutes after midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (expected HH:MM)", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// PlanReminders builds the full set of daily repeating notifications for
// freq plus the summary at summaryTime (HH:MM).
func PlanReminders(freq models.ReminderFrequency, summaryTime string, now time.Time) ([]Notification, error) {
	n, ok := models.RemindersPerDay[freq]
	if !ok {
		return nil, fmt.Errorf("unknown reminder frequency: %q", freq)
	}
	summary, err := ParseClock(summaryTime)
	if err != nil {
		return nil, err
	}

	var out []Notification
	for _, minutes := range ReminderTimes(n) {
		r := New(KindReminder, "Time for a check-in", "Log your meals and have a glass of water.", nextAt(now, minutes))
		r.Repeats = true
		out = append(out, r)
	}

	s := New(KindSummary, "Daily summary", "See how today went against your targets.", nextAt(now, summary))
	s.Repeats = true
	out = append(out, s)
	return out, nil
}
