package plan

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/planfit/planfit/internal/catalog"
)

// splits maps weekly training frequency to the day-focus sequence.
//
//nolint:gochecknoglobals // fixed lookup table.
var splits = map[int][]string{
	1: {"full"},
	2: {"upper", "lower"},
	3: {"push", "pull", "legs"},
	4: {"push", "pull", "legs", "upper"},
	5: {"push", "pull", "legs", "upper", "lower"},
	6: {"push", "pull", "legs", "push", "pull", "legs"},
}

// focusMuscles maps a day focus to the muscles it trains, in block order.
//
//nolint:gochecknoglobals // fixed lookup table.
var focusMuscles = map[string][]string{
	"push":  {"chest", "shoulders", "triceps"},
	"pull":  {"back", "biceps", "core"},
	"legs":  {"quads", "hamstrings", "glutes", "calves"},
	"upper": {"chest", "back", "shoulders", "biceps", "triceps"},
	"lower": {"quads", "hamstrings", "glutes", "calves", "core"},
	"full":  {"chest", "back", "shoulders", "quads", "hamstrings", "core"},
}

// weeklySetBaselines is the weekly set count per muscle by experience level,
// before goal scaling.
//
//nolint:gochecknoglobals // fixed lookup table.
var weeklySetBaselines = map[Experience]float64{
	ExperienceNovice:       10,
	ExperienceIntermediate: 14,
	ExperienceAdvanced:     17,
}

const (
	minWeeklySets = 6
	maxWeeklySets = 22
	minDaySets    = 3
)

type prescription struct {
	repsLow     int
	repsHigh    int
	rir         int
	rest        string
	progression string
}

// prescriptions keys experience and training style to the per-block set
// scheme. Style is strength for the strength goal and hypertrophy otherwise.
//
//nolint:gochecknoglobals // fixed lookup table.
var prescriptions = map[Experience]map[string]prescription{
	ExperienceNovice: {
		"strength":    {repsLow: 4, repsHigh: 6, rir: 3, rest: "150s", progression: "add 2.5kg when all sets hit the top of the range"},
		"hypertrophy": {repsLow: 8, repsHigh: 12, rir: 3, rest: "90s", progression: "add one rep per set each week, then add load"},
	},
	ExperienceIntermediate: {
		"strength":    {repsLow: 3, repsHigh: 5, rir: 2, rest: "180s", progression: "add 2.5kg every second week"},
		"hypertrophy": {repsLow: 8, repsHigh: 12, rir: 2, rest: "90s", progression: "double progression across the rep range"},
	},
	ExperienceAdvanced: {
		"strength":    {repsLow: 2, repsHigh: 4, rir: 1, rest: "240s", progression: "wave load weekly, deload every fourth week"},
		"hypertrophy": {repsLow: 6, repsHigh: 10, rir: 1, rest: "120s", progression: "add load when the top of the range is reached at target RIR"},
	},
}

// equipmentTags maps the available equipment to the exercise tags it can
// serve. Bodyweight movements are always possible.
//
//nolint:gochecknoglobals // fixed lookup table.
var equipmentTags = map[Equipment][]string{
	EquipmentDumbbells:  {"dumbbell", "bodyweight"},
	EquipmentBands:      {"band", "bodyweight"},
	EquipmentBodyweight: {"bodyweight"},
}

// injuryAvoidTokens maps a reported injury region to the movement tokens to
// exclude, matched case-insensitively against exercise ids and names.
//
//nolint:gochecknoglobals // fixed lookup table.
var injuryAvoidTokens = map[string][]string{
	"knee":       {"squat", "lunge", "extension"},
	"shoulder":   {"overhead", "press", "raise"},
	"lower_back": {"deadlift", "row", "squat"},
	"elbow":      {"curl", "pushdown", "extension"},
	"wrist":      {"push_up", "press"},
}

// buildWorkoutWeek assembles the weekly split with exercises selected from
// the catalog. Frequency is clamped to [1, 6].
func buildWorkoutWeek(exercises []catalog.Exercise, req PlanRequest) []WorkoutDay {
	frequency := req.ScheduleDays
	if frequency < 1 {
		frequency = 1
	}
	if frequency > 6 {
		frequency = 6
	}

	split := splits[frequency]
	usable := filterExercises(exercises, req.Equipment, req.Injuries)
	weeklySets := weeklySetTarget(req.Experience, req.Goal)
	muscleFrequency := splitMuscleFrequency(split)
	scheme := prescriptionFor(req.Experience, req.Goal)

	days := make([]WorkoutDay, 0, len(split))
	for i, focus := range split {
		day := WorkoutDay{
			Day:   i + 1,
			Focus: focus,
		}
		for _, muscle := range focusMuscles[focus] {
			sets := daySets(weeklySets, muscleFrequency[muscle])
			block := Block{
				Muscle:      muscle,
				Sets:        sets,
				Reps:        fmt.Sprintf("%d–%d", scheme.repsLow, scheme.repsHigh),
				RIR:         scheme.rir,
				Rest:        scheme.rest,
				Progression: scheme.progression,
			}
			if exercise, ok := pickExercise(usable, muscle); ok {
				block.ExerciseID = exercise.ID
				block.ExerciseName = exercise.Name
				block.Muscles = exercise.Muscles
			} else {
				// Thin catalogs still produce a complete plan.
				block.ExerciseID = muscle + "_fallback_exercise"
				block.ExerciseName = strings.ToUpper(muscle[:1]) + muscle[1:] + " fallback exercise"
				block.Muscles = []string{muscle}
			}
			day.Blocks = mergeBlock(day.Blocks, block)
		}
		days = append(days, day)
	}
	return days
}

// weeklySetTarget is the weekly set count per muscle after goal scaling,
// clamped to [6, 22].
func weeklySetTarget(experience Experience, goal Goal) float64 {
	base, ok := weeklySetBaselines[experience]
	if !ok {
		base = weeklySetBaselines[ExperienceNovice]
	}
	switch goal {
	case GoalStrength:
		base *= 0.8
	case GoalFatLoss:
		base *= 0.85
	}
	return clamp(base, minWeeklySets, maxWeeklySets)
}

func daySets(weeklySets float64, frequency int) int {
	if frequency < 1 {
		frequency = 1
	}
	sets := int(math.Round(weeklySets / float64(frequency)))
	if sets < minDaySets {
		sets = minDaySets
	}
	return sets
}

// splitMuscleFrequency counts how many days of the split hit each muscle.
func splitMuscleFrequency(split []string) map[string]int {
	frequency := make(map[string]int)
	for _, focus := range split {
		for _, muscle := range focusMuscles[focus] {
			frequency[muscle]++
		}
	}
	return frequency
}

func prescriptionFor(experience Experience, goal Goal) prescription {
	style := "hypertrophy"
	if goal == GoalStrength {
		style = "strength"
	}
	byStyle, ok := prescriptions[experience]
	if !ok {
		byStyle = prescriptions[ExperienceNovice]
	}
	return byStyle[style]
}

// filterExercises removes exercises the user cannot or should not perform.
func filterExercises(exercises []catalog.Exercise, equipment Equipment, injuries []string) []catalog.Exercise {
	usable := make([]catalog.Exercise, 0, len(exercises))
	for _, exercise := range exercises {
		if !equipmentAllows(equipment, exercise) {
			continue
		}
		if injuryExcludes(injuries, exercise) {
			continue
		}
		usable = append(usable, exercise)
	}
	return usable
}

func equipmentAllows(equipment Equipment, exercise catalog.Exercise) bool {
	allowed, restricted := equipmentTags[equipment]
	if !restricted {
		// Full gym, or unknown equipment treated as unrestricted.
		return true
	}
	for _, tag := range exercise.Equipment {
		for _, want := range allowed {
			if tag == want {
				return true
			}
		}
	}
	return false
}

func injuryExcludes(injuries []string, exercise catalog.Exercise) bool {
	if len(injuries) == 0 {
		return false
	}
	id := strings.ToLower(exercise.ID)
	name := strings.ToLower(exercise.Name)
	for _, injury := range injuries {
		for _, token := range injuryAvoidTokens[strings.ToLower(strings.TrimSpace(injury))] {
			if strings.Contains(id, token) || strings.Contains(name, token) {
				return true
			}
		}
	}
	return false
}

// pickExercise selects the best usable exercise for a muscle: compounds
// before isolations, ties broken alphabetically by name.
func pickExercise(exercises []catalog.Exercise, muscle string) (catalog.Exercise, bool) {
	candidates := make([]catalog.Exercise, 0, 8)
	for _, exercise := range exercises {
		for _, m := range exercise.Muscles {
			if m == muscle {
				candidates = append(candidates, exercise)
				break
			}
		}
	}
	if len(candidates) == 0 {
		return catalog.Exercise{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		ci := candidates[i].Movement == catalog.MovementCompound
		cj := candidates[j].Movement == catalog.MovementCompound
		if ci != cj {
			return ci
		}
		return candidates[i].Name < candidates[j].Name
	})
	return candidates[0], true
}

// mergeBlock appends the block, folding it into an existing block for the
// same exercise so one movement is never prescribed twice in a day.
func mergeBlock(blocks []Block, block Block) []Block {
	for i := range blocks {
		if blocks[i].ExerciseID != block.ExerciseID {
			continue
		}
		if block.Sets > blocks[i].Sets {
			blocks[i].Sets = block.Sets
		}
		blocks[i].Muscles = unionStrings(blocks[i].Muscles, block.Muscles)
		return blocks
	}
	return append(blocks, block)
}

func unionStrings(a, b []string) []string {
	out := append([]string(nil), a...)
	for _, s := range b {
		found := false
		for _, existing := range out {
			if existing == s {
				found = true
				break
			}
		}
		if !found {
			out = append(out, s)
		}
	}
	return out
}
