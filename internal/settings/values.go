// ABOUTME: Typed accessors for individual settings.
// ABOUTME: Missing keys fall back to documented defaults.
package settings

import (
	"fmt"
	"time"

	"github.com/harperreed/nutrition/internal/models"
)

// Reminders holds the recurring notification preferences.
type Reminders struct {
	Enabled     bool                     `json:"enabled"`
	Frequency   models.ReminderFrequency `json:"frequency"`
	SummaryTime string                   `json:"summary_time"` // HH:MM
}

// DefaultReminders returns the preferences used before the user changes them.
func DefaultReminders() Reminders {
	return Reminders{Enabled: true, Frequency: models.FrequencyMedium, SummaryTime: "20:00"}
}

// Thresholds is the persisted notification threshold state for one day.
type Thresholds struct {
	Day      string  `json:"day"`
	Calories float64 `json:"calories"`
	Water    float64 `json:"water"`
}

// Targets returns the stored targets or the defaults.
func (s *Store) Targets() (models.Targets, error) {
	t := models.DefaultTargets()
	if _, err := s.getJSON(keyTargets, &t); err != nil {
		return models.DefaultTargets(), err
	}
	return t, nil
}

// SetCalorieTarget persists a new calorie target. v must be > 0.
func (s *Store) SetCalorieTarget(v int) error {
	if v <= 0 {
		return fmt.Errorf("%w: calorie target must be > 0", models.ErrInvalidTarget)
	}
	t, err := s.Targets()
	if err != nil {
		return err
	}
	t.Calories = v
	return s.setJSON(keyTargets, t)
}

// SetWaterTarget persists a new water target in litres. v must be finite and > 0.
func (s *Store) SetWaterTarget(v float64) error {
	if !(v > 0) || !models.Finite(v) {
		return fmt.Errorf("%w: water target must be a finite number > 0", models.ErrInvalidTarget)
	}
	t, err := s.Targets()
	if err != nil {
		return err
	}
	t.Water = v
	return s.setJSON(keyTargets, t)
}

// Reminders returns the stored reminder preferences or the defaults.
func (s *Store) Reminders() (Reminders, error) {
	r := DefaultReminders()
	if _, err := s.getJSON(keyReminders, &r); err != nil {
		return DefaultReminders(), err
	}
	return r, nil
}

// SetReminders validates and persists reminder preferences.
func (s *Store) SetReminders(r Reminders) error {
	if _, err := models.ParseFrequency(string(r.Frequency)); err != nil {
		return err
	}
	if _, err := time.Parse("15:04", r.SummaryTime); err != nil {
		return fmt.Errorf("invalid summary time %q (expected HH:MM)", r.SummaryTime)
	}
	return s.setJSON(keyReminders, r)
}

// SeedReminders stores r only when no preferences have been saved yet.
func (s *Store) SeedReminders(r Reminders) error {
	var existing Reminders
	ok, err := s.getJSON(keyReminders, &existing)
	if err != nil || ok {
		return err
	}
	return s.SetReminders(r)
}

// NextReset returns the persisted next-rollover instant, if any.
func (s *Store) NextReset() (time.Time, bool, error) {
	var t time.Time
	ok, err := s.getJSON(keyNextReset, &t)
	return t, ok, err
}

// SetNextReset persists the next-rollover instant.
func (s *Store) SetNextReset(t time.Time) error {
	return s.setJSON(keyNextReset, t)
}

// LastActiveDay returns the last day (YYYY-MM-DD) the tracker was active.
func (s *Store) LastActiveDay() (string, bool, error) {
	var day string
	ok, err := s.getJSON(keyLastActiveDay, &day)
	return day, ok, err
}

// SetLastActiveDay persists the last active day (YYYY-MM-DD).
func (s *Store) SetLastActiveDay(day string) error {
	return s.setJSON(keyLastActiveDay, day)
}

// ResetAt returns the instant of the last manual daily reset, if any.
func (s *Store) ResetAt() (time.Time, bool, error) {
	var t time.Time
	ok, err := s.getJSON(keyResetAt, &t)
	return t, ok, err
}

// SetResetAt persists the instant of a manual daily reset.
func (s *Store) SetResetAt(t time.Time) error {
	return s.setJSON(keyResetAt, t)
}

// Thresholds returns the persisted threshold state.
func (s *Store) Thresholds() (Thresholds, bool, error) {
	var th Thresholds
	ok, err := s.getJSON(keyThresholds, &th)
	return th, ok, err
}

// SetThresholds persists the threshold state.
func (s *Store) SetThresholds(th Thresholds) error {
	return s.setJSON(keyThresholds, th)
}

// Authorization returns the stored notification authorization state.
func (s *Store) Authorization() (string, error) {
	var a string
	if _, err := s.getJSON(keyAuthorization, &a); err != nil {
		return "", err
	}
	return a, nil
}

// SetAuthorization persists the notification authorization state.
func (s *Store) SetAuthorization(a string) error {
	return s.setJSON(keyAuthorization, a)
}
