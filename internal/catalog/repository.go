package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/planfit/planfit/internal/sqlite"
)

// SQLiteExerciseCatalog implements ExerciseCatalog backed by the catalog database.
type SQLiteExerciseCatalog struct {
	db *sqlite.Database
}

// NewSQLiteExerciseCatalog creates a new SQLite exercise catalog.
func NewSQLiteExerciseCatalog(db *sqlite.Database) *SQLiteExerciseCatalog {
	return &SQLiteExerciseCatalog{db: db}
}

// List returns all exercises with their muscles and equipment tags, ordered by
// id for deterministic downstream selection.
func (c *SQLiteExerciseCatalog) List(ctx context.Context) (_ []Exercise, err error) {
	rows, err := c.db.ReadOnly.QueryContext(ctx, `
		SELECT id, name, movement
		FROM exercises
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var exercises []Exercise
	for rows.Next() {
		var exercise Exercise
		if err = rows.Scan(&exercise.ID, &exercise.Name, &exercise.Movement); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		exercises = append(exercises, exercise)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercise rows: %w", err)
	}

	for i := range exercises {
		if exercises[i].Muscles, err = c.fetchTags(ctx, `
			SELECT muscle FROM exercise_muscles WHERE exercise_id = ? ORDER BY muscle`,
			exercises[i].ID); err != nil {
			return nil, fmt.Errorf("fetch muscles for exercise %s: %w", exercises[i].ID, err)
		}
		if exercises[i].Equipment, err = c.fetchTags(ctx, `
			SELECT tag FROM exercise_equipment WHERE exercise_id = ? ORDER BY tag`,
			exercises[i].ID); err != nil {
			return nil, fmt.Errorf("fetch equipment for exercise %s: %w", exercises[i].ID, err)
		}
	}

	return exercises, nil
}

// fetchTags runs a single-column query keyed by exercise id.
func (c *SQLiteExerciseCatalog) fetchTags(ctx context.Context, query, exerciseID string) (_ []string, err error) {
	rows, err := c.db.ReadOnly.QueryContext(ctx, query, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var tags []string
	for rows.Next() {
		var tag string
		if err = rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tag rows: %w", err)
	}
	return tags, nil
}

// SQLiteIngredientCatalog implements IngredientCatalog backed by the catalog database.
type SQLiteIngredientCatalog struct {
	db *sqlite.Database
}

// NewSQLiteIngredientCatalog creates a new SQLite ingredient catalog.
func NewSQLiteIngredientCatalog(db *sqlite.Database) *SQLiteIngredientCatalog {
	return &SQLiteIngredientCatalog{db: db}
}

// ListByTier returns all ingredients affordable within the given budget tier,
// including all cheaper tiers, ordered by id.
func (c *SQLiteIngredientCatalog) ListByTier(ctx context.Context, tier Tier) (_ []Ingredient, err error) {
	tiers := make([]any, 0, 3) //nolint:mnd // at most three tiers.
	for _, t := range []Tier{TierLow, TierMedium, TierHigh} {
		if t.Rank() <= tier.Rank() {
			tiers = append(tiers, string(t))
		}
	}

	query := `
		SELECT id, name, category, budget_tier,
			protein_per_100g, carbs_per_100g, fat_per_100g, kcal_per_100g,
			piece_based, piece_grams, min_pieces, max_pieces, piece_step,
			typical_grams, min_grams, max_grams, step_grams
		FROM ingredients
		WHERE budget_tier IN (?` + repeatPlaceholder(len(tiers)-1) + `)
		ORDER BY id`

	rows, err := c.db.ReadOnly.QueryContext(ctx, query, tiers...)
	if err != nil {
		return nil, fmt.Errorf("query ingredients: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var ingredients []Ingredient
	for rows.Next() {
		var (
			ing        Ingredient
			pieceBased bool
			pieceGrams sql.NullFloat64
			minPieces  sql.NullInt64
			maxPieces  sql.NullInt64
			pieceStep  sql.NullInt64
			typicalG   sql.NullFloat64
			minG       sql.NullFloat64
			maxG       sql.NullFloat64
			stepG      sql.NullFloat64
		)
		if err = rows.Scan(
			&ing.ID, &ing.Name, &ing.Category, &ing.Tier,
			&ing.Per100g.ProteinG, &ing.Per100g.CarbsG, &ing.Per100g.FatG, &ing.Per100g.Kcal,
			&pieceBased, &pieceGrams, &minPieces, &maxPieces, &pieceStep,
			&typicalG, &minG, &maxG, &stepG,
		); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		ing.Portion = Portion{
			PieceBased: pieceBased,
			PieceGrams: pieceGrams.Float64,
			MinPieces:  int(minPieces.Int64),
			MaxPieces:  int(maxPieces.Int64),
			PieceStep:  int(pieceStep.Int64),
			TypicalG:   typicalG.Float64,
			MinG:       minG.Float64,
			MaxG:       maxG.Float64,
			StepG:      stepG.Float64,
		}
		ingredients = append(ingredients, ing)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingredient rows: %w", err)
	}

	return ingredients, nil
}

// repeatPlaceholder returns n copies of ", ?" for IN clauses.
func repeatPlaceholder(n int) string {
	s := ""
	for range n {
		s += ", ?"
	}
	return s
}
