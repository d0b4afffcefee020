// ABOUTME: Read-side view of the coordinator for UI surfaces.
// ABOUTME: Snapshot bundles totals, progress, categories, and history metrics.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/notify"
	"github.com/harperreed/nutrition/internal/progress"
	"github.com/harperreed/nutrition/internal/rollup"
)

// State is everything a UI renders.
type State struct {
	Date string `json:"date"`
	progress.Summary
	Categories        []*models.Category   `json:"categories"`
	YesterdayCalories int                  `json:"yesterday_calories"`
	AverageCalories   int                  `json:"average_calories"`
	Notifications     notify.Authorization `json:"notifications"`
}

// Snapshot returns the current state. Read failures degrade to zero values.
func (t *Tracker) Snapshot(ctx context.Context) (State, error) {
	var s State
	err := t.do(ctx, func() error {
		s = t.state()
		return nil
	})
	return s, err
}

// state must run on the queue goroutine.
func (t *Tracker) state() State {
	now := t.now()
	s := State{
		Date:              t.day,
		Summary:           progress.Summarize(t.totals, t.targets),
		Categories:        append([]*models.Category(nil), t.categories...),
		YesterdayCalories: t.yesterdayCalories(now),
		AverageCalories:   t.averageCalories(now, rollup.DefaultAverageWindow),
		Notifications:     notify.NotDetermined,
	}
	if t.center != nil {
		s.Notifications = t.center.Authorization()
	}
	return s
}

func (t *Tracker) yesterdayCalories(now time.Time) int {
	yesterday := now.AddDate(0, 0, -1)
	start, end := rollup.DayRange(yesterday)
	records, err := t.repo.ListConsumptions(start, end)
	if err != nil {
		t.logger.Error("load yesterday's records", "op", "yesterday", "err", err)
		return 0
	}
	return rollup.CaloriesForDay(records, yesterday)
}

func (t *Tracker) averageCalories(now time.Time, window int) int {
	records, err := t.repo.ListConsumptions(rollup.AverageSince(now, window), time.Time{})
	if err != nil {
		t.logger.Error("load records for average", "op", "average", "err", err)
		return 0
	}
	return rollup.AverageCalories(records, now, window)
}

// Average returns the mean daily calories over the trailing window in days.
func (t *Tracker) Average(window int) int {
	return t.averageCalories(t.now(), window)
}

// Yesterday returns yesterday's food calories.
func (t *Tracker) Yesterday() int {
	return t.yesterdayCalories(t.now())
}

// History returns the records logged on day, newest first.
func (t *Tracker) History(day time.Time) []*models.Consumption {
	start, end := rollup.DayRange(day)
	records, err := t.repo.ListConsumptions(start, end)
	if err != nil {
		t.logger.Error("load history", "op", "history", "day", rollup.DayKey(day), "err", err)
		return []*models.Consumption{}
	}
	return records
}

// Weekly returns week-bucketed history, most recent bucket first.
// weeks is normally 1, 4, or 12.
func (t *Tracker) Weekly(weeks int) ([]rollup.Bucket, error) {
	if weeks <= 0 {
		return nil, fmt.Errorf("week count must be > 0")
	}
	now := t.now()
	from, to := rollup.WeeklyWindow(now, weeks)
	records, err := t.repo.ListConsumptions(from, to)
	if err != nil {
		t.logger.Error("load weekly records", "op", "weekly", "err", err)
		records = nil
	}
	return rollup.Weekly(records, now, weeks), nil
}

// Trend returns one summary per day for the last days days, oldest first.
func (t *Tracker) Trend(days int) []rollup.DaySummary {
	if days <= 0 {
		return nil
	}
	now := t.now()
	to := rollup.NextMidnight(now)
	from := to.AddDate(0, 0, -days)
	records, err := t.repo.ListConsumptions(from, to)
	if err != nil {
		t.logger.Error("load trend records", "op", "trend", "err", err)
		records = nil
	}
	return rollup.Days(records, from, to)
}

// SummaryText renders the daily summary notification body.
func (t *Tracker) SummaryText(ctx context.Context) string {
	s, err := t.Snapshot(ctx)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d kcal of %d, %.2f L of %.2f L",
		s.Totals.Calories, s.Targets.Calories, s.Totals.Water, s.Targets.Water)
}
