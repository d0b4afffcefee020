// ABOUTME: Week-bucketed history for the trend chart.
// ABOUTME: Splits a fixed day span into equal contiguous buckets.
package rollup

import (
	"time"

	"github.com/harperreed/nutrition/internal/models"
)

// spanDays maps a week-count granularity to the days it covers.
var spanDays = map[int]int{
	1:  7,
	4:  30,
	12: 90,
}

// SpanDays returns the number of days covered by weekCount buckets.
// Unlisted counts fall back to weekCount*7.
func SpanDays(weekCount int) int {
	if d, ok := spanDays[weekCount]; ok {
		return d
	}
	return weekCount * 7
}

// Bucket is one slice of the weekly history.
type Bucket struct {
	WeekStart time.Time             `json:"week_start"`
	WeekEnd   time.Time             `json:"week_end"`
	Records   []*models.Consumption `json:"records"`
	Totals    models.DailyTotals    `json:"totals"`
}

// WeeklyWindow returns [from, to) for weekCount buckets ending at the close of
// now's day.
func WeeklyWindow(now time.Time, weekCount int) (time.Time, time.Time) {
	to := NextMidnight(now)
	return to.AddDate(0, 0, -SpanDays(weekCount)), to
}

// Weekly divides the window into weekCount contiguous buckets of equal
// calendar length and assigns each record to the bucket containing it.
// Records outside the window are ignored. Buckets are returned most recent
// first.
func Weekly(records []*models.Consumption, now time.Time, weekCount int) []Bucket {
	if weekCount <= 0 {
		return nil
	}
	from, to := WeeklyWindow(now, weekCount)
	halfDays := 2 * SpanDays(weekCount)

	bounds := make([]time.Time, weekCount+1)
	for i := 0; i <= weekCount; i++ {
		bounds[i] = bucketBound(from, halfDays*i/weekCount)
	}

	// Oldest first while filling.
	buckets := make([]Bucket, weekCount)
	for i := range buckets {
		buckets[i].WeekStart = bounds[i]
		buckets[i].WeekEnd = bounds[i+1]
	}

	for _, r := range records {
		if r.ConsumedAt.Before(from) || !r.ConsumedAt.Before(to) {
			continue
		}
		for i := range buckets {
			if !r.ConsumedAt.Before(buckets[i].WeekStart) && r.ConsumedAt.Before(buckets[i].WeekEnd) {
				buckets[i].Records = append(buckets[i].Records, r)
				buckets[i].Totals = buckets[i].Totals.Add(r.Intake)
				break
			}
		}
	}

	for i, j := 0, len(buckets)-1; i < j; i, j = i+1, j-1 {
		buckets[i], buckets[j] = buckets[j], buckets[i]
	}
	return buckets
}

// bucketBound is from plus n half days, counted in calendar days so bounds
// stay on local midnight (or noon) across DST changes.
func bucketBound(from time.Time, n int) time.Time {
	t := from.AddDate(0, 0, n/2)
	if n%2 == 1 {
		t = time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, t.Location())
	}
	return t
}
