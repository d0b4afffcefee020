// ABOUTME: Consumption record model and the Food/Water intake variant.
// ABOUTME: Records snapshot category name and icon at creation time.
package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// IntakeKind tags which half of the Intake variant is populated.
type IntakeKind string

const (
	IntakeFood  IntakeKind = "food"
	IntakeWater IntakeKind = "water"
)

// Intake is either a calorie count (Food) or a water volume in litres (Water).
// Construct it with Food or Water; the zero value is invalid.
type Intake struct {
	Kind     IntakeKind `json:"kind" yaml:"kind"`
	Calories int        `json:"calories,omitempty" yaml:"calories,omitempty"`
	Volume   float64    `json:"volume,omitempty" yaml:"volume,omitempty"`
}

// Food returns a calorie intake.
func Food(calories int) Intake {
	return Intake{Kind: IntakeFood, Calories: calories}
}

// Water returns a water intake measured in litres.
func Water(volume float64) Intake {
	return Intake{Kind: IntakeWater, Volume: volume}
}

// IntakeFrom builds an Intake from optional fields. Exactly one of calories
// and water must be set.
func IntakeFrom(calories *int, water *float64) (Intake, error) {
	switch {
	case calories != nil && water != nil:
		return Intake{}, fmt.Errorf("pass either calories or water, not both")
	case calories != nil:
		return Food(*calories), nil
	case water != nil:
		return Water(*water), nil
	default:
		return Intake{}, fmt.Errorf("calories or water is required")
	}
}

// Finite reports whether v is neither NaN nor an infinity.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IsWater reports whether the intake is a water entry.
func (i Intake) IsWater() bool {
	return i.Kind == IntakeWater
}

// Validate rejects unknown kinds, negative or non-finite amounts and mixed variants.
func (i Intake) Validate() error {
	switch i.Kind {
	case IntakeFood:
		if i.Calories < 0 {
			return fmt.Errorf("calories must be >= 0")
		}
		if i.Volume != 0 {
			return fmt.Errorf("food intake cannot carry a water volume")
		}
	case IntakeWater:
		if !(i.Volume >= 0) || math.IsInf(i.Volume, 0) {
			return fmt.Errorf("water volume must be a finite number >= 0")
		}
		if i.Calories != 0 {
			return fmt.Errorf("water intake cannot carry calories")
		}
	default:
		return fmt.Errorf("unknown intake kind: %q", i.Kind)
	}
	return nil
}

// String renders the intake with its unit.
func (i Intake) String() string {
	if i.IsWater() {
		return fmt.Sprintf("%.2f L", i.Volume)
	}
	return fmt.Sprintf("%d kcal", i.Calories)
}

// Consumption is one immutable intake record.
type Consumption struct {
	ID           uuid.UUID `json:"id" yaml:"id"`
	CategoryID   uuid.UUID `json:"category_id" yaml:"category_id"`
	CategoryName string    `json:"category_name" yaml:"category_name"`
	CategoryIcon string    `json:"category_icon" yaml:"category_icon"`
	Intake       Intake    `json:"intake" yaml:"intake"`
	ConsumedAt   time.Time `json:"consumed_at" yaml:"consumed_at"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// NewConsumption creates a record for the given category snapshot, timestamped now.
func NewConsumption(c *Category, intake Intake) *Consumption {
	now := time.Now()
	return &Consumption{
		ID:           uuid.New(),
		CategoryID:   c.ID,
		CategoryName: c.Name,
		CategoryIcon: c.Icon,
		Intake:       intake,
		ConsumedAt:   now,
		CreatedAt:    now,
	}
}

// WithConsumedAt sets a custom consumption timestamp.
func (r *Consumption) WithConsumedAt(t time.Time) *Consumption {
	r.ConsumedAt = t
	return r
}
