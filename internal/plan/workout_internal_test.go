package plan

import (
	"strings"
	"testing"

	"github.com/planfit/planfit/internal/catalog"
)

func testExercisePool() []catalog.Exercise {
	return []catalog.Exercise{
		{ID: "barbell_bench_press", Name: "Barbell bench press", Muscles: []string{"chest", "triceps"}, Equipment: []string{"barbell"}, Movement: catalog.MovementCompound},
		{ID: "push_up", Name: "Push-up", Muscles: []string{"chest", "triceps"}, Equipment: []string{"bodyweight"}, Movement: catalog.MovementCompound},
		{ID: "dumbbell_shoulder_press", Name: "Dumbbell shoulder press", Muscles: []string{"shoulders", "triceps"}, Equipment: []string{"dumbbell"}, Movement: catalog.MovementCompound},
		{ID: "lateral_raise", Name: "Lateral raise", Muscles: []string{"shoulders"}, Equipment: []string{"dumbbell"}, Movement: catalog.MovementIsolation},
		{ID: "triceps_pushdown", Name: "Triceps pushdown", Muscles: []string{"triceps"}, Equipment: []string{"cable"}, Movement: catalog.MovementIsolation},
		{ID: "barbell_row", Name: "Barbell row", Muscles: []string{"back", "biceps"}, Equipment: []string{"barbell"}, Movement: catalog.MovementCompound},
		{ID: "band_row", Name: "Band row", Muscles: []string{"back", "biceps"}, Equipment: []string{"band"}, Movement: catalog.MovementCompound},
		{ID: "dumbbell_curl", Name: "Dumbbell curl", Muscles: []string{"biceps"}, Equipment: []string{"dumbbell"}, Movement: catalog.MovementIsolation},
		{ID: "plank", Name: "Plank", Muscles: []string{"core"}, Equipment: []string{"bodyweight"}, Movement: catalog.MovementIsolation},
		{ID: "barbell_back_squat", Name: "Barbell back squat", Muscles: []string{"quads", "glutes"}, Equipment: []string{"barbell"}, Movement: catalog.MovementCompound},
		{ID: "bodyweight_squat", Name: "Bodyweight squat", Muscles: []string{"quads", "glutes"}, Equipment: []string{"bodyweight"}, Movement: catalog.MovementCompound},
		{ID: "romanian_deadlift", Name: "Romanian deadlift", Muscles: []string{"hamstrings", "glutes"}, Equipment: []string{"barbell"}, Movement: catalog.MovementCompound},
		{ID: "leg_curl", Name: "Leg curl", Muscles: []string{"hamstrings"}, Equipment: []string{"machine"}, Movement: catalog.MovementIsolation},
		{ID: "standing_calf_raise", Name: "Standing calf raise", Muscles: []string{"calves"}, Equipment: []string{"bodyweight"}, Movement: catalog.MovementIsolation},
		{ID: "hip_thrust", Name: "Hip thrust", Muscles: []string{"glutes", "hamstrings"}, Equipment: []string{"barbell"}, Movement: catalog.MovementCompound},
	}
}

func baseWorkoutRequest() PlanRequest {
	return PlanRequest{
		Profile:      Profile{Sex: SexMale, AgeRange: "25-34"},
		Goal:         GoalHypertrophy,
		ScheduleDays: 3,
		Equipment:    EquipmentFullGym,
		Experience:   ExperienceIntermediate,
		BudgetTier:   catalog.TierMedium,
	}
}

func TestBuildWorkoutWeek_SplitSelection(t *testing.T) {
	tests := []struct {
		days      int
		wantFocus []string
	}{
		{days: 1, wantFocus: []string{"full"}},
		{days: 2, wantFocus: []string{"upper", "lower"}},
		{days: 3, wantFocus: []string{"push", "pull", "legs"}},
		{days: 4, wantFocus: []string{"push", "pull", "legs", "upper"}},
		{days: 5, wantFocus: []string{"push", "pull", "legs", "upper", "lower"}},
		{days: 6, wantFocus: []string{"push", "pull", "legs", "push", "pull", "legs"}},
	}

	for _, tt := range tests {
		req := baseWorkoutRequest()
		req.ScheduleDays = tt.days
		days := buildWorkoutWeek(testExercisePool(), req)
		if len(days) != len(tt.wantFocus) {
			t.Fatalf("days=%d: got %d workout days, want %d", tt.days, len(days), len(tt.wantFocus))
		}
		for i, day := range days {
			if day.Focus != tt.wantFocus[i] {
				t.Errorf("days=%d: day %d focus = %q, want %q", tt.days, i+1, day.Focus, tt.wantFocus[i])
			}
			if day.Day != i+1 {
				t.Errorf("days=%d: day number = %d, want %d", tt.days, day.Day, i+1)
			}
			if len(day.Blocks) == 0 {
				t.Errorf("days=%d: day %d has no blocks", tt.days, i+1)
			}
		}
	}
}

func TestBuildWorkoutWeek_BlockPrescriptions(t *testing.T) {
	days := buildWorkoutWeek(testExercisePool(), baseWorkoutRequest())

	for _, day := range days {
		for _, block := range day.Blocks {
			if block.Sets < 3 || block.Sets > 22 {
				t.Errorf("day %d %s: sets = %d out of range", day.Day, block.Muscle, block.Sets)
			}
			if !strings.Contains(block.Reps, "–") {
				t.Errorf("day %d %s: reps %q not a range", day.Day, block.Muscle, block.Reps)
			}
			if block.Rest == "" || block.Progression == "" {
				t.Errorf("day %d %s: missing rest or progression", day.Day, block.Muscle)
			}
		}
	}
}

func TestBuildWorkoutWeek_StrengthPrescription(t *testing.T) {
	req := baseWorkoutRequest()
	req.Goal = GoalStrength
	days := buildWorkoutWeek(testExercisePool(), req)

	block := days[0].Blocks[0]
	if block.Reps != "3–5" {
		t.Errorf("reps = %q, want 3–5 for intermediate strength", block.Reps)
	}
	if block.RIR != 2 {
		t.Errorf("RIR = %d, want 2", block.RIR)
	}
}

func TestBuildWorkoutWeek_CompoundPreferred(t *testing.T) {
	days := buildWorkoutWeek(testExercisePool(), baseWorkoutRequest())

	// Push day chest slot: the compound bench beats any isolation.
	var chest *Block
	for i := range days[0].Blocks {
		if days[0].Blocks[i].Muscle == "chest" {
			chest = &days[0].Blocks[i]
		}
	}
	if chest == nil {
		t.Fatal("no chest block on push day")
	}
	if chest.ExerciseID != "barbell_bench_press" {
		t.Errorf("chest exercise = %q, want barbell_bench_press", chest.ExerciseID)
	}
}

func TestBuildWorkoutWeek_EquipmentFilter(t *testing.T) {
	req := baseWorkoutRequest()
	req.Equipment = EquipmentBodyweight
	days := buildWorkoutWeek(testExercisePool(), req)

	allowed := map[string]bool{"bodyweight": true}
	for _, day := range days {
		for _, block := range day.Blocks {
			if strings.HasSuffix(block.ExerciseID, "_fallback_exercise") {
				continue
			}
			exercise := findExercise(t, block.ExerciseID)
			ok := false
			for _, tag := range exercise.Equipment {
				if allowed[tag] {
					ok = true
				}
			}
			if !ok {
				t.Errorf("exercise %q needs equipment %v", block.ExerciseID, exercise.Equipment)
			}
		}
	}
}

func findExercise(t *testing.T, id string) catalog.Exercise {
	t.Helper()
	for _, exercise := range testExercisePool() {
		if exercise.ID == id {
			return exercise
		}
	}
	t.Fatalf("unknown exercise %q", id)
	return catalog.Exercise{}
}

func TestBuildWorkoutWeek_InjuryFilter(t *testing.T) {
	req := baseWorkoutRequest()
	req.Injuries = []string{"knee"}
	days := buildWorkoutWeek(testExercisePool(), req)

	for _, day := range days {
		for _, block := range day.Blocks {
			id := strings.ToLower(block.ExerciseID)
			for _, token := range []string{"squat", "lunge", "extension"} {
				if strings.Contains(id, token) {
					t.Errorf("knee injury but %q was selected", block.ExerciseID)
				}
			}
		}
	}
}

func TestBuildWorkoutWeek_FallbackWhenNoCatalogMatch(t *testing.T) {
	days := buildWorkoutWeek(nil, baseWorkoutRequest())

	for _, day := range days {
		if len(day.Blocks) == 0 {
			t.Fatalf("day %d has no blocks despite fallback", day.Day)
		}
		for _, block := range day.Blocks {
			if !strings.HasSuffix(block.ExerciseID, "_fallback_exercise") {
				t.Errorf("expected fallback exercise, got %q", block.ExerciseID)
			}
		}
	}
}

func TestBuildWorkoutWeek_MergesDuplicateSelections(t *testing.T) {
	// A pool where one exercise is the best pick for several muscles of the
	// same day must yield a single merged block.
	pool := []catalog.Exercise{
		{ID: "burpee", Name: "Burpee", Muscles: []string{"chest", "shoulders", "triceps"}, Equipment: []string{"bodyweight"}, Movement: catalog.MovementCompound},
	}
	req := baseWorkoutRequest()
	req.ScheduleDays = 3
	days := buildWorkoutWeek(pool, req)

	push := days[0]
	count := 0
	for _, block := range push.Blocks {
		if block.ExerciseID == "burpee" {
			count++
			if len(block.Muscles) != 3 {
				t.Errorf("merged muscles = %v, want all three", block.Muscles)
			}
		}
	}
	if count != 1 {
		t.Errorf("burpee appears %d times on push day, want 1", count)
	}
}

func TestWeeklySetTarget(t *testing.T) {
	tests := []struct {
		experience Experience
		goal       Goal
		want       float64
	}{
		{experience: ExperienceNovice, goal: GoalHypertrophy, want: 10},
		{experience: ExperienceIntermediate, goal: GoalHypertrophy, want: 14},
		{experience: ExperienceAdvanced, goal: GoalHypertrophy, want: 17},
		{experience: ExperienceIntermediate, goal: GoalStrength, want: 11.2},
		{experience: ExperienceIntermediate, goal: GoalFatLoss, want: 11.9},
	}
	for _, tt := range tests {
		if got := weeklySetTarget(tt.experience, tt.goal); got != tt.want {
			t.Errorf("weeklySetTarget(%s, %s) = %v, want %v", tt.experience, tt.goal, got, tt.want)
		}
	}
}
