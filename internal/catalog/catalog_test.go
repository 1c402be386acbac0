package catalog_test

import (
	"context"
	"testing"

	"github.com/planfit/planfit/internal/catalog"
	"github.com/planfit/planfit/internal/sqlite"
	"github.com/planfit/planfit/internal/testhelpers"
)

func newTestDatabase(t *testing.T) *sqlite.Database {
	t.Helper()
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close database: %v", err)
		}
	})
	return db
}

func TestSQLiteExerciseCatalog_List(t *testing.T) {
	t.Parallel()
	db := newTestDatabase(t)
	exercises, err := catalog.NewSQLiteExerciseCatalog(db).List(t.Context())
	if err != nil {
		t.Fatalf("list exercises: %v", err)
	}
	if len(exercises) == 0 {
		t.Fatal("expected seeded exercise catalog to be non-empty")
	}
	for _, ex := range exercises {
		if ex.ID == "" || ex.Name == "" {
			t.Errorf("exercise missing id or name: %+v", ex)
		}
		if len(ex.Muscles) == 0 {
			t.Errorf("exercise %s has no muscles", ex.ID)
		}
		if len(ex.Equipment) == 0 {
			t.Errorf("exercise %s has no equipment tags", ex.ID)
		}
		if ex.Movement != catalog.MovementCompound && ex.Movement != catalog.MovementIsolation {
			t.Errorf("exercise %s has unknown movement %q", ex.ID, ex.Movement)
		}
	}
}

func TestSQLiteIngredientCatalog_ListByTier(t *testing.T) {
	t.Parallel()
	db := newTestDatabase(t)
	cat := catalog.NewSQLiteIngredientCatalog(db)
	ctx := t.Context()

	var previousCount int
	for _, tier := range []catalog.Tier{catalog.TierLow, catalog.TierMedium, catalog.TierHigh} {
		ingredients, err := cat.ListByTier(ctx, tier)
		if err != nil {
			t.Fatalf("list ingredients for tier %s: %v", tier, err)
		}
		if len(ingredients) < previousCount {
			t.Errorf("tier %s returned fewer ingredients (%d) than the cheaper tier (%d)",
				tier, len(ingredients), previousCount)
		}
		previousCount = len(ingredients)

		for _, ing := range ingredients {
			if ing.Tier.Rank() > tier.Rank() {
				t.Errorf("tier %s returned ingredient %s from more expensive tier %s", tier, ing.ID, ing.Tier)
			}
		}
	}

	// The allocator needs every category at every tier, otherwise low-budget
	// meals would come back with empty combos.
	lowTier, err := cat.ListByTier(ctx, catalog.TierLow)
	if err != nil {
		t.Fatalf("list low tier ingredients: %v", err)
	}
	seen := map[catalog.Category]bool{}
	for _, ing := range lowTier {
		seen[ing.Category] = true
	}
	for _, category := range []catalog.Category{
		catalog.CategoryProtein, catalog.CategoryCarb, catalog.CategoryVeg, catalog.CategoryFat,
	} {
		if !seen[category] {
			t.Errorf("low budget tier is missing category %s", category)
		}
	}
}

// countingExerciseCatalog counts List calls to observe cache behaviour.
type countingExerciseCatalog struct {
	calls     int
	exercises []catalog.Exercise
}

func (c *countingExerciseCatalog) List(_ context.Context) ([]catalog.Exercise, error) {
	c.calls++
	return c.exercises, nil
}

func TestCachedExerciseCatalog_LoadsOnce(t *testing.T) {
	t.Parallel()
	inner := &countingExerciseCatalog{
		calls: 0,
		exercises: []catalog.Exercise{
			{
				ID:        "push_up",
				Name:      "Push-Up",
				Muscles:   []string{"chest"},
				Equipment: []string{"bodyweight"},
				Movement:  catalog.MovementCompound,
			},
		},
	}
	cached := catalog.NewCachedExerciseCatalog(inner)

	ctx := t.Context()
	for range 3 {
		exercises, err := cached.List(ctx)
		if err != nil {
			t.Fatalf("list exercises: %v", err)
		}
		if len(exercises) != 1 {
			t.Fatalf("expected 1 exercise, got %d", len(exercises))
		}
	}

	if inner.calls != 1 {
		t.Errorf("expected inner catalog to be read once, got %d reads", inner.calls)
	}
}
