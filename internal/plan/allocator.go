package plan

import (
	"math"
	"math/rand/v2"
	"sort"
	"strconv"

	"github.com/planfit/planfit/internal/catalog"
)

// AllocatorConfig tunes the meal allocator. The zero value is unusable; use
// DefaultAllocatorConfig.
type AllocatorConfig struct {
	// BeamWidths caps the number of partial combinations kept after each
	// category expansion.
	BeamWidths map[catalog.Category]int
	// MaxItems caps how many distinct ingredients a category may contribute.
	MaxItems map[catalog.Category]int
	// VarietyChance is the probability that a lower-ranked candidate is
	// admitted into the expansion pool ahead of a closer one.
	VarietyChance float64
	// PerturbFraction is the per-macro jitter applied to per-meal targets so
	// meals within a day are not clones of each other.
	PerturbFraction float64
}

// DefaultAllocatorConfig returns the tuning used in production.
func DefaultAllocatorConfig() AllocatorConfig {
	return AllocatorConfig{
		BeamWidths: map[catalog.Category]int{
			catalog.CategoryProtein: 50,
			catalog.CategoryCarb:    50,
			catalog.CategoryVeg:     40,
			catalog.CategoryFat:     60,
		},
		MaxItems: map[catalog.Category]int{
			catalog.CategoryProtein: 2,
			catalog.CategoryCarb:    1,
			catalog.CategoryVeg:     1,
			catalog.CategoryFat:     1,
		},
		VarietyChance:   0.6,
		PerturbFraction: 0.15,
	}
}

// categoryOrder is the beam expansion order. Protein first because it has the
// highest score weight and constrains the rest of the meal the most.
//
//nolint:gochecknoglobals // fixed expansion order.
var categoryOrder = [4]catalog.Category{
	catalog.CategoryProtein,
	catalog.CategoryCarb,
	catalog.CategoryVeg,
	catalog.CategoryFat,
}

// comboLabels maps a category to its display label in the assembled meal.
//
//nolint:gochecknoglobals // fixed lookup table.
var comboLabels = map[catalog.Category]string{
	catalog.CategoryProtein: "Protein",
	catalog.CategoryCarb:    "Carbs",
	catalog.CategoryVeg:     "Vegetables",
	catalog.CategoryFat:     "Fats",
}

// Score weights. Protein accuracy matters most, calories are a light
// tie-breaker on top of the macros that already imply them.
const (
	weightProtein = 1.2
	weightCarbs   = 1.0
	weightFat     = 0.8
	weightKcal    = 0.05

	// negligibleTargetG is the per-meal macro target below which a category
	// miss does not disqualify an otherwise in-tolerance meal.
	negligibleTargetG = 10.0
)

// portioned is one ingredient at a concrete gram amount.
type portioned struct {
	ingredient catalog.Ingredient
	grams      float64
	macros     catalog.Macros
}

// candidate is one way a category can contribute to a meal: one portioned
// ingredient, a pair of them, or nothing at all.
type candidate struct {
	items  []portioned
	macros catalog.Macros
}

type mealTarget struct {
	proteinG float64
	carbsG   float64
	fatG     float64
	kcal     float64
}

// allocateMeals splits the daily targets across meals and runs the beam
// search once per meal. Each meal gets its own sub-seeded generator so the
// result is deterministic for a given seed regardless of evaluation order.
func allocateMeals(ingredients []catalog.Ingredient, targets Targets, meals int, goal Goal, tolerance ToleranceMode, cfg AllocatorConfig, seed uint64) []Meal {
	if meals < 1 {
		meals = 1
	}
	byCategory := groupByCategory(ingredients)

	out := make([]Meal, meals)
	for i := 0; i < meals; i++ {
		rng := rand.New(rand.NewPCG(seed, uint64(i)+1))
		target := perturbTarget(targets, meals, cfg.PerturbFraction, rng)
		out[i] = Meal{
			Index:  i + 1,
			Combos: allocateMeal(byCategory, target, goal, tolerance, cfg, rng),
		}
	}
	return out
}

func groupByCategory(ingredients []catalog.Ingredient) map[catalog.Category][]catalog.Ingredient {
	byCategory := make(map[catalog.Category][]catalog.Ingredient)
	for _, ingredient := range ingredients {
		byCategory[ingredient.Category] = append(byCategory[ingredient.Category], ingredient)
	}
	return byCategory
}

// perturbTarget divides the daily targets evenly and jitters each macro
// independently so the day's meals differ in composition.
func perturbTarget(targets Targets, meals int, fraction float64, rng *rand.Rand) mealTarget {
	jitter := func(v float64) float64 {
		return v * (1 + fraction*(2*rng.Float64()-1))
	}
	per := float64(meals)
	t := mealTarget{
		proteinG: jitter(float64(targets.ProteinG) / per),
		carbsG:   jitter(float64(targets.CarbsG) / per),
		fatG:     jitter(float64(targets.FatG) / per),
	}
	t.kcal = 4*t.proteinG + 4*t.carbsG + 9*t.fatG
	return t
}

// allocateMeal runs the beam search across the category order and returns the
// winning combination grouped per category. Categories with no usable
// ingredients are simply omitted.
func allocateMeal(byCategory map[catalog.Category][]catalog.Ingredient, target mealTarget, goal Goal, tolerance ToleranceMode, cfg AllocatorConfig, rng *rand.Rand) []MealCombo {
	beam := []beamState{{}}
	for _, category := range categoryOrder {
		candidates := categoryCandidates(byCategory[category], category, target, goal, cfg, rng)
		if len(candidates) == 0 {
			continue
		}
		beam = expandBeam(beam, category, candidates, target, cfg.BeamWidths[category])
	}
	if len(beam) == 0 {
		return nil
	}
	best := selectFinal(beam, target, tolerance)
	return best.combos()
}

// beamState is one partial meal during the search.
type beamState struct {
	picks  map[catalog.Category]candidate
	macros catalog.Macros
}

func (s beamState) with(category catalog.Category, c candidate) beamState {
	picks := make(map[catalog.Category]candidate, len(s.picks)+1)
	for k, v := range s.picks {
		picks[k] = v
	}
	picks[category] = c
	return beamState{
		picks: picks,
		macros: catalog.Macros{
			ProteinG: s.macros.ProteinG + c.macros.ProteinG,
			CarbsG:   s.macros.CarbsG + c.macros.CarbsG,
			FatG:     s.macros.FatG + c.macros.FatG,
			Kcal:     s.macros.Kcal + c.macros.Kcal,
		},
	}
}

func (s beamState) itemCount() int {
	count := 0
	for _, pick := range s.picks {
		count += len(pick.items)
	}
	return count
}

func (s beamState) score(target mealTarget) float64 {
	return weightProtein*math.Abs(s.macros.ProteinG-target.proteinG) +
		weightCarbs*math.Abs(s.macros.CarbsG-target.carbsG) +
		weightFat*math.Abs(s.macros.FatG-target.fatG) +
		weightKcal*math.Abs(s.macros.Kcal-target.kcal)
}

// combos renders the picks into labelled per-category groups following the
// fixed category order.
func (s beamState) combos() []MealCombo {
	out := make([]MealCombo, 0, len(s.picks))
	for _, category := range categoryOrder {
		pick, ok := s.picks[category]
		if !ok || len(pick.items) == 0 {
			continue
		}
		combo := MealCombo{
			Label:    comboLabels[category],
			ProteinG: roundTo(pick.macros.ProteinG, 1),
			CarbsG:   roundTo(pick.macros.CarbsG, 1),
			FatG:     roundTo(pick.macros.FatG, 1),
			Kcal:     math.Round(pick.macros.Kcal),
		}
		for _, item := range pick.items {
			combo.Items = append(combo.Items, MealItem{
				IngredientID: item.ingredient.ID,
				Name:         item.ingredient.Name,
				Grams:        item.grams,
				Portion:      describePortion(item),
			})
		}
		out = append(out, combo)
	}
	return out
}

// expandBeam crosses every beam state with every candidate and keeps the best
// width states. Ties prefer fewer items.
func expandBeam(beam []beamState, category catalog.Category, candidates []candidate, target mealTarget, width int) []beamState {
	if width <= 0 {
		width = 50
	}
	expanded := make([]beamState, 0, len(beam)*len(candidates))
	for _, state := range beam {
		for _, c := range candidates {
			expanded = append(expanded, state.with(category, c))
		}
	}
	sort.SliceStable(expanded, func(i, j int) bool {
		si, sj := expanded[i].score(target), expanded[j].score(target)
		if si != sj {
			return si < sj
		}
		return expanded[i].itemCount() < expanded[j].itemCount()
	})
	if len(expanded) > width {
		expanded = expanded[:width]
	}
	return expanded
}

// selectFinal picks the first state whose protein lands in tolerance with
// carbs and fat either in tolerance or negligible, falling back to the global
// best when nothing qualifies. Every meal always produces a result.
func selectFinal(beam []beamState, target mealTarget, tolerance ToleranceMode) beamState {
	fraction := tolerance.Fraction()
	inTolerance := func(actual, want float64) bool {
		return math.Abs(actual-want) <= fraction*want
	}
	negligibleOrInTolerance := func(actual, want float64) bool {
		return want <= negligibleTargetG || inTolerance(actual, want)
	}
	for _, state := range beam {
		if !inTolerance(state.macros.ProteinG, target.proteinG) {
			continue
		}
		if !negligibleOrInTolerance(state.macros.CarbsG, target.carbsG) {
			continue
		}
		if !negligibleOrInTolerance(state.macros.FatG, target.fatG) {
			continue
		}
		return state
	}
	return beam[0]
}

// categoryCandidates builds the candidate pool for one category: single
// portions, pairs where the category allows two items, and for optional
// categories the empty candidate. The pool is ranked by distance to the
// category's share of the target with chance-based admission of lower-ranked
// entries for variety.
func categoryCandidates(ingredients []catalog.Ingredient, category catalog.Category, target mealTarget, goal Goal, cfg AllocatorConfig, rng *rand.Rand) []candidate {
	if len(ingredients) == 0 {
		return nil
	}

	singles := make([]candidate, 0, len(ingredients)*4)
	for _, ingredient := range ingredients {
		for _, p := range portionOptions(ingredient) {
			singles = append(singles, candidate{items: []portioned{p}, macros: p.macros})
		}
	}

	want := categoryShare(category, target)
	sort.SliceStable(singles, func(i, j int) bool {
		return categoryDistance(singles[i].macros, category, want) < categoryDistance(singles[j].macros, category, want)
	})
	singles = admitVaried(singles, cfg.VarietyChance, rng)

	out := singles
	if cfg.MaxItems[category] >= 2 {
		out = append(out, pairCandidates(singles)...)
	}
	if category == catalog.CategoryCarb && goal == GoalFatLoss {
		// Low-carb days may skip the carb side entirely.
		out = append(out, candidate{})
	}
	return out
}

// categoryShare is the slice of the meal target a category is responsible
// for, measured on its dominant macro.
func categoryShare(category catalog.Category, target mealTarget) float64 {
	switch category {
	case catalog.CategoryProtein:
		return target.proteinG
	case catalog.CategoryCarb:
		return target.carbsG
	case catalog.CategoryFat:
		return target.fatG
	default:
		return 0
	}
}

func categoryDistance(macros catalog.Macros, category catalog.Category, want float64) float64 {
	switch category {
	case catalog.CategoryProtein:
		return math.Abs(macros.ProteinG - want)
	case catalog.CategoryCarb:
		return math.Abs(macros.CarbsG - want)
	case catalog.CategoryFat:
		return math.Abs(macros.FatG - want)
	default:
		// Vegetables are picked on calories to keep them light.
		return macros.Kcal
	}
}

// admitVaried walks the ranked pool and keeps each entry with VarietyChance,
// guaranteeing at least the closest entry survives. This trades a little
// accuracy for meals that differ between days.
func admitVaried(ranked []candidate, chance float64, rng *rand.Rand) []candidate {
	if len(ranked) <= 1 {
		return ranked
	}
	out := make([]candidate, 0, len(ranked))
	out = append(out, ranked[0])
	for _, c := range ranked[1:] {
		if rng.Float64() < chance {
			out = append(out, c)
		}
	}
	return out
}

// pairCandidates combines distinct ingredients pairwise. Two portions of the
// same ingredient are never paired; the portion grid already covers scaling a
// single ingredient up.
func pairCandidates(singles []candidate) []candidate {
	pairs := make([]candidate, 0, len(singles))
	for i := 0; i < len(singles); i++ {
		for j := i + 1; j < len(singles); j++ {
			a, b := singles[i].items[0], singles[j].items[0]
			if a.ingredient.ID == b.ingredient.ID {
				continue
			}
			pairs = append(pairs, candidate{
				items: []portioned{a, b},
				macros: catalog.Macros{
					ProteinG: a.macros.ProteinG + b.macros.ProteinG,
					CarbsG:   a.macros.CarbsG + b.macros.CarbsG,
					FatG:     a.macros.FatG + b.macros.FatG,
					Kcal:     a.macros.Kcal + b.macros.Kcal,
				},
			})
		}
	}
	return pairs
}

// portionOptions enumerates realistic portion sizes. Piece-based ingredients
// step through whole pieces; gram-based ones scale the typical portion and
// snap to the step size.
func portionOptions(ingredient catalog.Ingredient) []portioned {
	portion := ingredient.Portion
	if portion.PieceBased {
		step := portion.PieceStep
		if step < 1 {
			step = 1
		}
		out := make([]portioned, 0, 4)
		for pieces := portion.MinPieces; pieces <= portion.MaxPieces; pieces += step {
			grams := float64(pieces) * portion.PieceGrams
			out = append(out, atGrams(ingredient, grams))
		}
		return out
	}

	scales := [4]float64{0.75, 1.0, 1.25, 1.5}
	seen := make(map[float64]bool, len(scales))
	out := make([]portioned, 0, len(scales))
	for _, scale := range scales {
		grams := portion.TypicalG * scale
		if portion.StepG > 0 {
			grams = math.Round(grams/portion.StepG) * portion.StepG
		}
		grams = clamp(grams, portion.MinG, portion.MaxG)
		if seen[grams] {
			continue
		}
		seen[grams] = true
		out = append(out, atGrams(ingredient, grams))
	}
	return out
}

func atGrams(ingredient catalog.Ingredient, grams float64) portioned {
	factor := grams / 100
	return portioned{
		ingredient: ingredient,
		grams:      grams,
		macros: catalog.Macros{
			ProteinG: ingredient.Per100g.ProteinG * factor,
			CarbsG:   ingredient.Per100g.CarbsG * factor,
			FatG:     ingredient.Per100g.FatG * factor,
			Kcal:     ingredient.Per100g.Kcal * factor,
		},
	}
}

func describePortion(p portioned) string {
	portion := p.ingredient.Portion
	if portion.PieceBased && portion.PieceGrams > 0 {
		pieces := int(math.Round(p.grams / portion.PieceGrams))
		if pieces == 1 {
			return "1 piece"
		}
		return strconv.Itoa(pieces) + " pieces"
	}
	return strconv.Itoa(int(math.Round(p.grams))) + " g"
}
