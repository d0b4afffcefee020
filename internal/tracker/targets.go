// ABOUTME: Target updates and the threshold notification check.
// ABOUTME: Changing a target resets that metric's threshold and re-evaluates.
package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/notify"
	"github.com/harperreed/nutrition/internal/progress"
	"github.com/harperreed/nutrition/internal/settings"
)

// UpdateCalorieTarget persists a new calorie target. v must be > 0.
func (t *Tracker) UpdateCalorieTarget(ctx context.Context, v int) error {
	return t.do(ctx, func() error {
		if err := t.settings.SetCalorieTarget(v); err != nil {
			return targetErr("update calorie target", err)
		}
		t.targets.Calories = v
		t.thresholds.ResetMetric(models.MetricCalories)
		t.afterTargetChange()
		return nil
	})
}

// UpdateWaterTarget persists a new water target in litres. v must be > 0.
func (t *Tracker) UpdateWaterTarget(ctx context.Context, v float64) error {
	return t.do(ctx, func() error {
		if err := t.settings.SetWaterTarget(v); err != nil {
			return targetErr("update water target", err)
		}
		t.targets.Water = v
		t.thresholds.ResetMetric(models.MetricWater)
		t.afterTargetChange()
		return nil
	})
}

// targetErr passes validation failures through and tags everything else
// as a persistence failure.
func targetErr(op string, err error) error {
	if errors.Is(err, models.ErrInvalidTarget) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, models.ErrPersistence, err)
}

func (t *Tracker) afterTargetChange() {
	t.saveThresholds()
	t.checkThresholds()
	t.publish(EventTargetsChanged)
}

// checkThresholds advances each metric by at most one level and posts a
// notification for it. Must run on the queue goroutine.
func (t *Tracker) checkThresholds() {
	now := t.now()
	crossed := false
	metrics := []struct {
		metric   models.Metric
		progress float64
	}{
		{models.MetricCalories, progress.Calories(t.totals, t.targets)},
		{models.MetricWater, progress.Water(t.totals, t.targets)},
	}
	for _, m := range metrics {
		level, ok := t.thresholds.Advance(m.metric, m.progress)
		if !ok {
			continue
		}
		crossed = true
		t.logger.Info("threshold crossed", "metric", m.metric, "level", level)
		if t.center == nil {
			continue
		}
		n := notify.ThresholdNotification(m.metric, level, t.totals, t.targets, now)
		if err := t.center.Post(context.Background(), n); err != nil {
			t.logger.Error("post threshold notification", "metric", m.metric, "err", err)
		}
	}
	if crossed {
		t.saveThresholds()
		t.publish(EventThresholdCrossed)
	}
}

func (t *Tracker) saveThresholds() {
	err := t.settings.SetThresholds(settings.Thresholds{
		Day:      t.day,
		Calories: t.thresholds.Calories,
		Water:    t.thresholds.Water,
	})
	if err != nil {
		t.logger.Error("save notification thresholds", "err", err)
	}
}

// Thresholds returns the last notified level for each metric.
func (t *Tracker) Thresholds(ctx context.Context) (notify.Thresholds, error) {
	var th notify.Thresholds
	err := t.do(ctx, func() error {
		th = t.thresholds
		return nil
	})
	return th, err
}
