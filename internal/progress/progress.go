// ABOUTME: Target and progress computations for daily intake.
// ABOUTME: Ratios, health status classification, and intake safety checks.
package progress

import "github.com/harperreed/nutrition/internal/models"

// Safety limits used by ValidateIntake.
const (
	DangerousCalories = 5000 // absolute daily kcal, independent of target

	ReachedRatio        = 1.0
	ExcessiveRatio      = 1.5
	DangerousWaterRatio = 2.0
)

// Ratio divides value by target. Targets are expected to be > 0; a
// non-positive target yields 0 rather than Inf or NaN.
func Ratio(value, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return value / target
}

// Calories returns dailyCalories / calorieTarget.
func Calories(totals models.DailyTotals, targets models.Targets) float64 {
	return Ratio(float64(totals.Calories), float64(targets.Calories))
}

// Water returns dailyWater / waterTarget.
func Water(totals models.DailyTotals, targets models.Targets) float64 {
	return Ratio(totals.Water, targets.Water)
}

// Status classifies progress across both metrics.
func Status(calorieProgress, waterProgress float64) models.HealthStatus {
	calDone := calorieProgress >= ReachedRatio
	waterDone := waterProgress >= ReachedRatio
	switch {
	case calDone && waterDone:
		return models.StatusExcellent
	case calDone:
		return models.StatusNeedsWater
	case waterDone:
		return models.StatusNeedsCalories
	default:
		return models.StatusNormal
	}
}

// ValidateIntake projects a proposed intake onto today's totals and classifies
// the result. It never mutates totals.
func ValidateIntake(totals models.DailyTotals, targets models.Targets, proposed models.Intake) models.IntakeVerdict {
	if proposed.IsWater() {
		ratio := Ratio(totals.Water+proposed.Volume, targets.Water)
		switch {
		case ratio >= DangerousWaterRatio:
			return models.VerdictDangerous
		case ratio >= ExcessiveRatio:
			return models.VerdictExcessive
		case ratio >= ReachedRatio:
			return models.VerdictTargetReached
		default:
			return models.VerdictNormal
		}
	}

	projected := totals.Calories + proposed.Calories
	ratio := Ratio(float64(projected), float64(targets.Calories))
	switch {
	case projected > DangerousCalories:
		return models.VerdictDangerous
	case ratio >= ExcessiveRatio:
		return models.VerdictExcessive
	case ratio >= ReachedRatio:
		return models.VerdictTargetReached
	default:
		return models.VerdictNormal
	}
}

// Summary is the derived progress view of one day.
type Summary struct {
	Totals            models.DailyTotals  `json:"totals"`
	Targets           models.Targets      `json:"targets"`
	CalorieProgress   float64             `json:"calorie_progress"`
	WaterProgress     float64             `json:"water_progress"`
	Status            models.HealthStatus `json:"health_status"`
	OverCalorieTarget bool                `json:"is_over_calorie_target"`
	OverWaterTarget   bool                `json:"is_over_water_target"`
	RemainingCalories int                 `json:"remaining_calories"`
	RemainingWater    float64             `json:"remaining_water"`
}

// Summarize derives progress, status and remaining amounts.
func Summarize(totals models.DailyTotals, targets models.Targets) Summary {
	cal := Calories(totals, targets)
	water := Water(totals, targets)
	s := Summary{
		Totals:            totals,
		Targets:           targets,
		CalorieProgress:   cal,
		WaterProgress:     water,
		Status:            Status(cal, water),
		OverCalorieTarget: totals.Calories > targets.Calories,
		OverWaterTarget:   totals.Water > targets.Water,
	}
	if r := targets.Calories - totals.Calories; r > 0 {
		s.RemainingCalories = r
	}
	if r := targets.Water - totals.Water; r > 0 {
		s.RemainingWater = r
	}
	return s
}
