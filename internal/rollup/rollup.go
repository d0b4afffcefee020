// ABOUTME: Daily and weekly aggregation over consumption records.
// ABOUTME: Pure functions; callers fetch the records and pass "now" explicitly.
package rollup

import (
	"sort"
	"time"

	"github.com/harperreed/nutrition/internal/models"
)

// DefaultAverageWindow is the trailing window, in days, for AverageCalories.
const DefaultAverageWindow = 30

// StartOfDay returns local midnight at the start of t's day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NextMidnight returns the first midnight strictly after t.
func NextMidnight(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}

// DayRange returns [start, end) covering day.
func DayRange(day time.Time) (time.Time, time.Time) {
	start := StartOfDay(day)
	return start, start.AddDate(0, 0, 1)
}

// DayKey formats t as YYYY-MM-DD in its own location.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Totals sums records, splitting calories and water by intake kind.
func Totals(records []*models.Consumption) models.DailyTotals {
	var t models.DailyTotals
	for _, r := range records {
		t = t.Add(r.Intake)
	}
	return t
}

// CaloriesForDay sums food calories for records that fall on day.
func CaloriesForDay(records []*models.Consumption, day time.Time) int {
	start, end := DayRange(day)
	total := 0
	for _, r := range records {
		if r.Intake.IsWater() {
			continue
		}
		if !r.ConsumedAt.Before(start) && r.ConsumedAt.Before(end) {
			total += r.Intake.Calories
		}
	}
	return total
}

// AverageCalories sums food calories consumed at or after now minus windowDays
// and divides by windowDays, not by the number of days that have data. A short
// history therefore yields a lower average.
func AverageCalories(records []*models.Consumption, now time.Time, windowDays int) int {
	if windowDays <= 0 {
		return 0
	}
	since := AverageSince(now, windowDays)
	total := 0
	for _, r := range records {
		if r.Intake.IsWater() || r.ConsumedAt.Before(since) {
			continue
		}
		total += r.Intake.Calories
	}
	return total / windowDays
}

// AverageSince is the lower bound used by AverageCalories.
func AverageSince(now time.Time, windowDays int) time.Time {
	return now.AddDate(0, 0, -windowDays)
}

// DaySummary is one day's totals, used for trend charts.
type DaySummary struct {
	Date   string             `json:"date"`
	Totals models.DailyTotals `json:"totals"`
}

// Days returns one summary per calendar day in [from, to), oldest first,
// including days with no records.
func Days(records []*models.Consumption, from, to time.Time) []DaySummary {
	byDay := make(map[string]models.DailyTotals)
	for _, r := range records {
		key := DayKey(r.ConsumedAt.In(from.Location()))
		byDay[key] = byDay[key].Add(r.Intake)
	}

	var out []DaySummary
	for d := StartOfDay(from); d.Before(to); d = d.AddDate(0, 0, 1) {
		key := DayKey(d)
		out = append(out, DaySummary{Date: key, Totals: byDay[key]})
	}
	return out
}

// SortNewestFirst orders records by ConsumedAt descending.
func SortNewestFirst(records []*models.Consumption) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ConsumedAt.After(records[j].ConsumedAt)
	})
}
