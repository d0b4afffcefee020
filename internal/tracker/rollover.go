// ABOUTME: Daily reset and midnight rollover scheduling.
// ABOUTME: The next reset instant is persisted so a resumed process can catch up.
package tracker

import (
	"context"
	"time"

	"github.com/harperreed/nutrition/internal/rollup"
)

// ResetDaily zeroes today's totals and both notification thresholds.
// No records are deleted.
func (t *Tracker) ResetDaily(ctx context.Context) error {
	return t.do(ctx, func() error {
		t.resetLocked(t.now(), false)
		return nil
	})
}

// resetLocked clears daily state. On a rollover the totals are recomputed
// from the log for the new day instead of zeroed.
func (t *Tracker) resetLocked(now time.Time, rollover bool) {
	t.day = rollup.DayKey(now)
	t.thresholds.Reset()
	if rollover {
		t.totals = t.todayTotals(now)
	} else {
		t.totals.Calories = 0
		t.totals.Water = 0
		t.resetAt = now
		if err := t.settings.SetResetAt(now); err != nil {
			t.logger.Error("record reset", "err", err)
		}
	}
	t.saveThresholds()
	if err := t.settings.SetLastActiveDay(t.day); err != nil {
		t.logger.Error("record last active day", "err", err)
	}
	if err := t.settings.SetNextReset(rollup.NextMidnight(now)); err != nil {
		t.logger.Error("record next reset", "err", err)
	}
	t.logger.Info("daily reset", "day", t.day, "rollover", rollover)
	t.publish(EventDailyReset)
}

// Resume detects a missed midnight and catches up. It compares the persisted
// next-reset instant with now, falling back to the last active day when no
// instant was stored. It reports whether a reset happened.
func (t *Tracker) Resume(ctx context.Context) (bool, error) {
	var reset bool
	err := t.submit(ctx, func() error {
		now := t.now()
		due := false

		next, ok, err := t.settings.NextReset()
		if err != nil {
			t.logger.Warn("read next reset", "err", err)
		}
		if ok {
			due = !now.Before(next)
		} else {
			last, ok, err := t.settings.LastActiveDay()
			if err != nil {
				t.logger.Warn("read last active day", "err", err)
			}
			due = ok && last != rollup.DayKey(now)
		}
		if !due && t.day != rollup.DayKey(now) {
			due = true
		}

		if due {
			t.resetLocked(now, true)
			reset = true
			return nil
		}
		if !ok {
			if err := t.settings.SetNextReset(rollup.NextMidnight(now)); err != nil {
				t.logger.Error("record next reset", "err", err)
			}
		}
		return nil
	})
	return reset, err
}

// Run fires the rollover at each local midnight until ctx is done.
// It catches up on a missed rollover before waiting.
func (t *Tracker) Run(ctx context.Context) error {
	for {
		if _, err := t.Resume(ctx); err != nil {
			return err
		}
		now := t.now()
		wait := rollup.NextMidnight(now).Sub(now)
		fire := t.after(wait)
		t.logger.Debug("next rollover scheduled", "in", wait.Round(time.Second))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-fire:
		}
	}
}
