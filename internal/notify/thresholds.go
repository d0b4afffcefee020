// ABOUTME: Progress threshold tracking for goal notifications.
// ABOUTME: Fires at most once per level per metric per day, lowest level first.
package notify

import (
	"fmt"
	"time"

	"github.com/harperreed/nutrition/internal/models"
)

// Levels are the progress ratios that trigger a notification, ascending.
var Levels = []float64{0.25, 0.5, 0.75, 1.0}

// Thresholds holds the last level notified for each metric.
// Values are 0 or one of Levels and only grow until Reset.
type Thresholds struct {
	Calories float64 `json:"calories"`
	Water    float64 `json:"water"`
}

// Reset clears both metrics.
func (t *Thresholds) Reset() {
	t.Calories = 0
	t.Water = 0
}

// ResetMetric clears one metric.
func (t *Thresholds) ResetMetric(m models.Metric) {
	switch m {
	case models.MetricCalories:
		t.Calories = 0
	case models.MetricWater:
		t.Water = 0
	}
}

// Last returns the last notified level for m.
func (t *Thresholds) Last(m models.Metric) float64 {
	if m == models.MetricWater {
		return t.Water
	}
	return t.Calories
}

func (t *Thresholds) set(m models.Metric, v float64) {
	if m == models.MetricWater {
		t.Water = v
	} else {
		t.Calories = v
	}
}

// Advance finds the lowest level that progress has reached but that has not
// yet been notified. If one exists it is recorded and returned. Only one level
// advances per call even if progress jumped past several.
func (t *Thresholds) Advance(m models.Metric, progress float64) (float64, bool) {
	last := t.Last(m)
	for _, level := range Levels {
		if progress >= level && last < level {
			t.set(m, level)
			return level, true
		}
	}
	return 0, false
}

// ThresholdNotification builds the message for metric m crossing level.
func ThresholdNotification(m models.Metric, level float64, totals models.DailyTotals, targets models.Targets, now time.Time) Notification {
	pct := int(level * 100)
	var title, body string
	switch m {
	case models.MetricWater:
		if level >= 1.0 {
			title = "Water goal reached"
		} else {
			title = fmt.Sprintf("Water goal %d%% reached", pct)
		}
		body = fmt.Sprintf("%.2f L of %.2f L today", totals.Water, targets.Water)
	default:
		if level >= 1.0 {
			title = "Calorie goal reached"
		} else {
			title = fmt.Sprintf("Calorie goal %d%% reached", pct)
		}
		body = fmt.Sprintf("%d kcal of %d kcal today", totals.Calories, targets.Calories)
	}
	return New(KindThreshold, title, body, now)
}
