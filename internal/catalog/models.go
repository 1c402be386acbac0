// Package catalog provides read access to the exercise and ingredient
// reference data consumed by the plan engine. The engine treats catalog
// snapshots as immutable; population and refresh are external concerns.
package catalog

import "context"

// Movement classifies an exercise as a compound or isolation movement.
type Movement string

const (
	MovementCompound  Movement = "compound"
	MovementIsolation Movement = "isolation"
)

// Exercise is a single entry in the exercise catalog.
type Exercise struct {
	ID        string
	Name      string
	Muscles   []string
	Equipment []string
	Movement  Movement
}

// Category classifies an ingredient for meal composition.
type Category string

const (
	CategoryProtein Category = "protein"
	CategoryCarb    Category = "carb"
	CategoryVeg     Category = "veg"
	CategoryFat     Category = "fat"
)

// Tier is the budget tier of an ingredient.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Rank orders tiers from cheapest to most expensive. Unknown tiers rank highest
// so they only surface on high-budget requests.
func (t Tier) Rank() int {
	switch t {
	case TierLow:
		return 1
	case TierMedium:
		return 2
	case TierHigh:
		return 3
	default:
		return 3
	}
}

// Macros holds macronutrient amounts in grams plus energy in kcal.
type Macros struct {
	ProteinG float64
	CarbsG   float64
	FatG     float64
	Kcal     float64
}

// Portion describes how an ingredient is portioned. Piece-based ingredients
// (eggs, bread slices) are dosed in whole pieces; everything else in grams
// around a typical portion.
type Portion struct {
	PieceBased bool
	PieceGrams float64
	MinPieces  int
	MaxPieces  int
	PieceStep  int
	TypicalG   float64
	MinG       float64
	MaxG       float64
	StepG      float64
}

// Ingredient is a single entry in the ingredient catalog with macros per 100 g.
type Ingredient struct {
	ID       string
	Name     string
	Category Category
	Tier     Tier
	Per100g  Macros
	Portion  Portion
}

// ExerciseCatalog reads the full exercise catalog.
type ExerciseCatalog interface {
	List(ctx context.Context) ([]Exercise, error)
}

// IngredientCatalog reads ingredients affordable within a budget tier.
// A tier includes all cheaper tiers.
type IngredientCatalog interface {
	ListByTier(ctx context.Context, tier Tier) ([]Ingredient, error)
}
