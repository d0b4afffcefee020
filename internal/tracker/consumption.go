// ABOUTME: Logging intake and pre-checking it against safety thresholds.
// ABOUTME: A successful write updates today's totals and may fire a notification.
package tracker

import (
	"context"
	"time"

	"github.com/harperreed/nutrition/internal/models"
	"github.com/harperreed/nutrition/internal/progress"
	"github.com/harperreed/nutrition/internal/rollup"
)

// AddConsumption appends a record for the category named or identified by
// ref. A zero at means now.
// Records dated today are folded into the daily totals; the threshold check
// runs only after the write succeeds.
func (t *Tracker) AddConsumption(ctx context.Context, ref string, intake models.Intake, at time.Time) (*models.Consumption, error) {
	if err := intake.Validate(); err != nil {
		return nil, err
	}

	var rec *models.Consumption
	err := t.do(ctx, func() error {
		c, err := t.resolveCategory(ref)
		if err != nil {
			return persistErr("add consumption", err)
		}
		now := t.now()
		r := models.NewConsumption(c, intake)
		r.CreatedAt = now
		if at.IsZero() {
			at = now
		}
		r.WithConsumedAt(at)

		if err := t.repo.CreateConsumption(r); err != nil {
			return persistErr("add consumption", err)
		}
		rec = r

		if rollup.DayKey(at.In(now.Location())) == t.day {
			t.totals = t.totals.Add(intake)
		}
		t.checkThresholds()
		t.publish(EventConsumptionAdded)
		return nil
	})
	return rec, err
}

// ValidateIntake classifies a proposed intake against today's totals without
// changing them.
func (t *Tracker) ValidateIntake(ctx context.Context, intake models.Intake) (models.IntakeVerdict, error) {
	if err := intake.Validate(); err != nil {
		return "", err
	}
	var verdict models.IntakeVerdict
	err := t.do(ctx, func() error {
		verdict = progress.ValidateIntake(t.totals, t.targets, intake)
		return nil
	})
	return verdict, err
}
