package plan

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Readiness thresholds driving the adaptation rules.
const (
	sorenessReduceThreshold  = 4
	stressHighThreshold      = 4
	motivationLowThreshold   = 2
	adherenceLowThresholdPct = 60.0
	deloadSetFactor          = 0.9
	adherenceSetFactor       = 0.85
	surplusCalorieFactor     = 0.95
	deficitCalorieFactor     = 1.05
	deloadRIRFloor           = 2
)

// adaptPlan applies the readiness rules to a deep copy of the plan, in fixed
// order, each rule stacking on the previous one's output. Applying the same
// signals twice shrinks the plan twice; callers send fresh signals per cycle.
func adaptPlan(req AdaptRequest) AdaptResult {
	plan := clonePlan(*req.Plan)
	var log []string

	if req.Readiness != nil {
		log = append(log, reduceSoreMuscles(&plan, req.Readiness.Soreness)...)
		if req.Readiness.Stress >= stressHighThreshold && req.Readiness.Motivation <= motivationLowThreshold {
			log = append(log, deloadWeek(&plan)...)
		}
	}
	log = append(log, adjustCalories(&plan, req.WeightTrend)...)
	if req.AdherencePct != nil && *req.AdherencePct < adherenceLowThresholdPct {
		log = append(log, simplifyVolume(&plan)...)
	}

	return AdaptResult{Plan: plan, ChangeLog: log}
}

// reduceSoreMuscles drops one set from every block whose primary muscle
// matches a region reported at soreness 4 or above.
func reduceSoreMuscles(plan *Plan, soreness map[string]int) []string {
	if len(soreness) == 0 {
		return nil
	}
	regions := make([]string, 0, len(soreness))
	for region, score := range soreness {
		if score >= sorenessReduceThreshold {
			regions = append(regions, strings.ToLower(region))
		}
	}
	sort.Strings(regions)

	var log []string
	for _, region := range regions {
		for d := range plan.Days {
			for b := range plan.Days[d].Blocks {
				block := &plan.Days[d].Blocks[b]
				if !muscleMatchesRegion(block.Muscle, region) || block.Sets <= 1 {
					continue
				}
				block.Sets--
				log = append(log, fmt.Sprintf(
					"reduced %s on day %d to %d sets due to %s soreness",
					block.ExerciseName, plan.Days[d].Day, block.Sets, region))
			}
		}
	}
	return log
}

// muscleMatchesRegion matches in both directions so "legs" covers quads and
// "hamstrings" covers a "hams" shorthand.
func muscleMatchesRegion(muscle, region string) bool {
	muscle = strings.ToLower(muscle)
	return strings.Contains(muscle, region) || strings.Contains(region, muscle)
}

// deloadWeek caps effort and trims volume across the whole week when stress
// is high and motivation low.
func deloadWeek(plan *Plan) []string {
	for d := range plan.Days {
		for b := range plan.Days[d].Blocks {
			block := &plan.Days[d].Blocks[b]
			if block.RIR < deloadRIRFloor {
				block.RIR = deloadRIRFloor
			}
			sets := int(math.Round(float64(block.Sets) * deloadSetFactor))
			if sets < 1 {
				sets = 1
			}
			block.Sets = sets
		}
	}
	return []string{"applied a deload week: effort capped at 2 RIR and volume trimmed 10%"}
}

// adjustCalories nudges the calorie target against the weight trend, scaling
// carbohydrates to absorb the change. No log entry when nothing changes.
func adjustCalories(plan *Plan, trend WeightTrend) []string {
	var factor float64
	switch trend {
	case WeightTrendAbove:
		factor = surplusCalorieFactor
	case WeightTrendBelow:
		factor = deficitCalorieFactor
	default:
		return nil
	}

	before := plan.Targets.Kcal
	after := int(math.Round(float64(before) * factor))
	if after == before {
		return nil
	}
	plan.Targets.Kcal = after
	carbs := plan.Targets.CarbsG + (after-before)/4
	if carbs < 0 {
		carbs = 0
	}
	plan.Targets.CarbsG = carbs
	return []string{fmt.Sprintf("adjusted daily calories from %d to %d for weight trend %s", before, after, trend)}
}

// simplifyVolume shrinks every block when adherence is poor; a plan the user
// completes beats a bigger one they skip.
func simplifyVolume(plan *Plan) []string {
	for d := range plan.Days {
		for b := range plan.Days[d].Blocks {
			block := &plan.Days[d].Blocks[b]
			sets := int(math.Round(float64(block.Sets) * adherenceSetFactor))
			if sets < 1 {
				sets = 1
			}
			block.Sets = sets
		}
	}
	return []string{"reduced training volume 15% due to low adherence"}
}

// clonePlan deep-copies the plan so adaptation never mutates the caller's
// copy.
func clonePlan(plan Plan) Plan {
	out := plan
	out.Days = make([]WorkoutDay, len(plan.Days))
	for i, day := range plan.Days {
		out.Days[i] = day
		out.Days[i].Blocks = make([]Block, len(day.Blocks))
		for j, block := range day.Blocks {
			out.Days[i].Blocks[j] = block
			out.Days[i].Blocks[j].Muscles = append([]string(nil), block.Muscles...)
		}
	}
	out.Meals = make([]Meal, len(plan.Meals))
	for i, meal := range plan.Meals {
		out.Meals[i] = meal
		out.Meals[i].Combos = make([]MealCombo, len(meal.Combos))
		for j, combo := range meal.Combos {
			out.Meals[i].Combos[j] = combo
			out.Meals[i].Combos[j].Items = append([]MealItem(nil), combo.Items...)
		}
	}
	out.Tips = append([]string(nil), plan.Tips...)
	out.Warnings = append([]string(nil), plan.Warnings...)
	return out
}
