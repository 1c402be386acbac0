package plan

import "math"

const defaultWeightKg = 70.0

// goalCalorieFactors scales TDEE into the daily calorie target per goal.
//
//nolint:gochecknoglobals // fixed lookup table.
var goalCalorieFactors = map[Goal]float64{
	GoalFatLoss:     0.85,
	GoalLeanMass:    1.08,
	GoalHypertrophy: 1.05,
	GoalStrength:    1.0,
	GoalRecomp:      1.0,
}

// computeTargets resolves daily calories and macros from the TDEE, goal, and
// body weight. Protein and fat are set per kilogram and carbohydrates fill
// the remaining calories, never going negative.
func computeTargets(tdee int, goal Goal, weightKg *float64) Targets {
	factor, ok := goalCalorieFactors[goal]
	if !ok {
		factor = 1.0
	}
	kcal := int(math.Round(float64(tdee) * factor))

	weight := defaultWeightKg
	if weightKg != nil {
		weight = clamp(*weightKg, minWeightKg, maxWeightKg)
	}

	proteinPerKg := 1.8
	fatPerKg := 0.7
	if goal == GoalFatLoss {
		proteinPerKg = 2.0
		fatPerKg = 0.6
	}
	protein := int(math.Round(weight * proteinPerKg))
	fat := int(math.Round(weight * fatPerKg))

	carbs := int(math.Round((float64(kcal) - 4*float64(protein) - 9*float64(fat)) / 4))
	if carbs < 0 {
		carbs = 0
	}

	return Targets{
		Kcal:     kcal,
		ProteinG: protein,
		FatG:     fat,
		CarbsG:   carbs,
	}
}
