// ABOUTME: Notification permission and recurring reminder registration.
// ABOUTME: Preferences are persisted before the reminders are re-registered.
package tracker

import (
	"context"
	"fmt"

	"github.com/harperreed/nutrition/internal/notify"
	"github.com/harperreed/nutrition/internal/settings"
)

// RequestNotifications asks for permission once and persists the answer.
func (t *Tracker) RequestNotifications(ctx context.Context) (notify.Authorization, error) {
	if t.center == nil {
		return notify.NotDetermined, fmt.Errorf("notifications are not configured")
	}
	state, err := t.center.RequestAuthorization(ctx)
	if err != nil {
		return state, err
	}
	if err := t.settings.SetAuthorization(string(state)); err != nil {
		return state, fmt.Errorf("save authorization: %w", err)
	}
	return state, nil
}

// Reminders returns the stored reminder preferences.
func (t *Tracker) Reminders() settings.Reminders {
	r, err := t.settings.Reminders()
	if err != nil {
		t.logger.Warn("load reminder preferences, using defaults", "err", err)
	}
	return r
}

// ConfigureReminders saves r and replaces every recurring reminder. Disabled
// reminders cancel everything pending.
func (t *Tracker) ConfigureReminders(ctx context.Context, r settings.Reminders) error {
	if err := t.settings.SetReminders(r); err != nil {
		return err
	}
	return t.ScheduleReminders(ctx)
}

// ScheduleReminders registers the stored reminder plan with the notifier.
func (t *Tracker) ScheduleReminders(ctx context.Context) error {
	if t.center == nil {
		return nil
	}
	r := t.Reminders()
	if !r.Enabled {
		return t.center.CancelAll(ctx)
	}
	plan, err := notify.PlanReminders(r.Frequency, r.SummaryTime, t.now())
	if err != nil {
		return err
	}
	if err := t.center.Replace(ctx, plan); err != nil {
		return err
	}
	t.logger.Info("reminders scheduled", "frequency", r.Frequency, "count", len(plan))
	return nil
}
