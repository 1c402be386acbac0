// Package plan implements the plan generation engine: physiological indices,
// calorie and macro targets, the weekly workout split, the macro-constrained
// meal allocation, and readiness-driven plan adaptation.
package plan

import (
	"fmt"
	"strings"

	"github.com/planfit/planfit/internal/catalog"
)

// Sex of the user, used by the Mifflin-St Jeor offset.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Goal is the training goal driving targets and workout style.
type Goal string

const (
	GoalFatLoss     Goal = "fat_loss"
	GoalLeanMass    Goal = "lean_mass"
	GoalHypertrophy Goal = "hypertrophy"
	GoalStrength    Goal = "strength"
	GoalRecomp      Goal = "recomp"
)

// Experience is the user's training experience level.
type Experience string

const (
	ExperienceNovice       Experience = "novice"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceAdvanced     Experience = "advanced"
)

// Equipment is the equipment class available to the user.
type Equipment string

const (
	EquipmentFullGym    Equipment = "full_gym"
	EquipmentDumbbells  Equipment = "dumbbells"
	EquipmentBands      Equipment = "bands"
	EquipmentBodyweight Equipment = "bodyweight"
)

// ToleranceMode sets how far meal macros may stray from their targets.
type ToleranceMode string

const (
	ToleranceTight  ToleranceMode = "tight"
	ToleranceNormal ToleranceMode = "normal"
	ToleranceLoose  ToleranceMode = "loose"
)

// Fraction returns the relative macro tolerance for the mode.
func (m ToleranceMode) Fraction() float64 {
	switch m {
	case ToleranceTight:
		return 0.07
	case ToleranceLoose:
		return 0.15
	case ToleranceNormal:
		return 0.10
	default:
		return 0.10
	}
}

// Profile holds the user's biometrics. Numeric fields are clamped to
// physiologically plausible ranges rather than rejected.
type Profile struct {
	Sex        Sex      `json:"sex"`
	AgeRange   string   `json:"age_range"`
	HeightCm   *float64 `json:"height_cm,omitempty"`
	WeightKg   *float64 `json:"weight_kg,omitempty"`
	BodyFatPct *float64 `json:"bodyfat_pct,omitempty"`
	WaistCm    *float64 `json:"waist_cm,omitempty"`

	// Explicit overrides win over computed values.
	BMROverride  *float64 `json:"bmr_override,omitempty"`
	TDEEOverride *float64 `json:"tdee_override,omitempty"`
	BMIOverride  *float64 `json:"bmi_override,omitempty"`
}

// Method records how the BMR was obtained.
type Method string

const (
	MethodMifflin  Method = "mifflin"
	MethodKatch    Method = "katch"
	MethodOverride Method = "override"
)

// Indices are the derived physiological indices. Fields are nil when the
// inputs required to compute them are missing; they are recomputed on every
// call and never persisted.
type Indices struct {
	BMR    *int     `json:"bmr,omitempty"`
	TDEE   *int     `json:"tdee,omitempty"`
	BMI    *float64 `json:"bmi,omitempty"`
	WHtR   *float64 `json:"whtr,omitempty"`
	FFMI   *float64 `json:"ffmi,omitempty"`
	Method Method   `json:"method,omitempty"`
}

// Band grades how accurate the indices are given input completeness.
type Band string

const (
	BandLow     Band = "low"
	BandMed     Band = "med"
	BandHigh    Band = "high"
	BandHighest Band = "highest"
)

// Accuracy is the band plus the single most valuable missing input, if any.
type Accuracy struct {
	Band          Band   `json:"band"`
	NextBestInput string `json:"next_best_input,omitempty"`
}

// IndicesResult is the response of the recalc-indices operation.
type IndicesResult struct {
	Indices  Indices  `json:"indices"`
	Accuracy Accuracy `json:"accuracy"`
	Warnings []string `json:"warnings,omitempty"`
}

// Targets are the daily calorie and macro targets.
type Targets struct {
	Kcal     int `json:"kcal"`
	ProteinG int `json:"protein_g"`
	FatG     int `json:"fat_g"`
	CarbsG   int `json:"carbs_g"`
}

// PlanRequest is the input of the generate-plan operation.
type PlanRequest struct {
	Profile      Profile       `json:"profile"`
	Goal         Goal          `json:"goal"`
	ScheduleDays int           `json:"schedule_days"`
	Equipment    Equipment     `json:"equipment"`
	Experience   Experience    `json:"experience"`
	Injuries     []string      `json:"injuries,omitempty"`
	BudgetTier   catalog.Tier  `json:"budget_tier"`
	MealsPerDay  int           `json:"meals_per_day,omitempty"`
	Tolerance    ToleranceMode `json:"tolerance,omitempty"`
}

// Block is one exercise assignment within a workout day.
type Block struct {
	Muscle       string   `json:"muscle"`
	ExerciseID   string   `json:"exercise_id"`
	ExerciseName string   `json:"exercise_name"`
	Sets         int      `json:"sets"`
	Reps         string   `json:"reps"`
	RIR          int      `json:"rir"`
	Rest         string   `json:"rest"`
	Progression  string   `json:"progression"`
	Muscles      []string `json:"muscles"`
}

// WorkoutDay is one training day of the weekly split.
type WorkoutDay struct {
	Day    int     `json:"day"`
	Focus  string  `json:"focus"`
	Blocks []Block `json:"blocks"`
}

// MealItem is a single portioned ingredient within a meal.
type MealItem struct {
	IngredientID string  `json:"ingredient_id"`
	Name         string  `json:"name"`
	Grams        float64 `json:"grams"`
	Portion      string  `json:"portion"`
}

// MealCombo groups the selected items of one category with their macro totals.
type MealCombo struct {
	Label    string     `json:"label"`
	Items    []MealItem `json:"items"`
	ProteinG float64    `json:"protein_g"`
	CarbsG   float64    `json:"carbs_g"`
	FatG     float64    `json:"fat_g"`
	Kcal     float64    `json:"kcal"`
}

// Meal is one meal of the day, grouped by category for display.
type Meal struct {
	Index  int         `json:"index"`
	Combos []MealCombo `json:"combos"`
}

// Plan is the full generated plan. It is created fresh per call; the engine
// keeps no state between calls.
type Plan struct {
	ID       string       `json:"id"`
	Indices  Indices      `json:"indices"`
	Accuracy Accuracy     `json:"accuracy"`
	Targets  Targets      `json:"targets"`
	Days     []WorkoutDay `json:"days"`
	Meals    []Meal       `json:"meals"`
	Tips     []string     `json:"tips,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

// WeightTrend categorises the recent weight trajectory against the target.
type WeightTrend string

const (
	WeightTrendAbove   WeightTrend = "above"
	WeightTrendBelow   WeightTrend = "below"
	WeightTrendOnTrack WeightTrend = "on_track"
)

// ReadinessSignal carries the recovery and adherence signals driving plan
// adaptation. Soreness maps a body region to a 1-5 score.
type ReadinessSignal struct {
	SleepHours float64        `json:"sleep_hours"`
	Soreness   map[string]int `json:"soreness,omitempty"`
	Stress     int            `json:"stress"`
	Motivation int            `json:"motivation"`
}

// AdaptRequest is the input of the adapt-plan operation.
type AdaptRequest struct {
	Plan         *Plan            `json:"current_plan"`
	Readiness    *ReadinessSignal `json:"readiness"`
	AdherencePct *float64         `json:"adherence_pct,omitempty"`
	WeightTrend  WeightTrend      `json:"weight_trend,omitempty"`
}

// AdaptResult is the patched plan plus the ordered change log.
type AdaptResult struct {
	Plan      Plan     `json:"plan"`
	ChangeLog []string `json:"change_log"`
}

// ValidationError reports every missing required field of an operation at once.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}
