// ABOUTME: Targets, daily totals, and derived status enums.
// ABOUTME: Holds defaults for calorie and water goals plus reminder frequency.
package models

import "fmt"

const (
	DefaultCalorieTarget = 2000
	DefaultWaterTarget   = 2.0
)

// Targets are the user-configured daily goals. Both must be > 0.
type Targets struct {
	Calories int     `json:"calorie_target"`
	Water    float64 `json:"water_target"`
}

// DefaultTargets returns the out-of-the-box goals.
func DefaultTargets() Targets {
	return Targets{Calories: DefaultCalorieTarget, Water: DefaultWaterTarget}
}

// DailyTotals is the running sum of today's records.
type DailyTotals struct {
	Calories int     `json:"daily_calories"`
	Water    float64 `json:"daily_water"`
}

// Add folds one intake into the totals.
func (t DailyTotals) Add(i Intake) DailyTotals {
	if i.IsWater() {
		t.Water += i.Volume
	} else {
		t.Calories += i.Calories
	}
	return t
}

// HealthStatus classifies how today's progress looks across both metrics.
type HealthStatus string

const (
	StatusNormal        HealthStatus = "normal"
	StatusExcellent     HealthStatus = "excellent"
	StatusNeedsWater    HealthStatus = "needs_water"
	StatusNeedsCalories HealthStatus = "needs_calories"
)

// IntakeVerdict classifies a proposed intake before it is logged.
type IntakeVerdict string

const (
	VerdictNormal        IntakeVerdict = "normal"
	VerdictTargetReached IntakeVerdict = "target_reached"
	VerdictExcessive     IntakeVerdict = "excessive"
	VerdictDangerous     IntakeVerdict = "dangerous"
)

// Metric names one of the two tracked quantities.
type Metric string

const (
	MetricCalories Metric = "calories"
	MetricWater    Metric = "water"
)

// ReminderFrequency controls how many recurring reminders fire per day.
type ReminderFrequency string

const (
	FrequencyLow    ReminderFrequency = "low"
	FrequencyMedium ReminderFrequency = "medium"
	FrequencyHigh   ReminderFrequency = "high"
)

// RemindersPerDay maps a frequency to its reminder count.
var RemindersPerDay = map[ReminderFrequency]int{
	FrequencyLow:    2,
	FrequencyMedium: 4,
	FrequencyHigh:   6,
}

// ParseFrequency validates a frequency string.
func ParseFrequency(s string) (ReminderFrequency, error) {
	f := ReminderFrequency(s)
	if _, ok := RemindersPerDay[f]; !ok {
		return "", fmt.Errorf("unknown reminder frequency: %q (want low, medium, or high)", s)
	}
	return f, nil
}
