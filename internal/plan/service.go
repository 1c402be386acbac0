package plan

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/oklog/ulid/v2"
	"github.com/planfit/planfit/internal/catalog"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMealsPerDay = 3
	maxMealsPerDay     = 6
)

// Service is the engine facade. All operations are safe for concurrent use.
type Service struct {
	exercises   catalog.ExerciseCatalog
	ingredients catalog.IngredientCatalog
	tips        tipGenerator
	logger      *slog.Logger
	cfg         AllocatorConfig
	newSeed     func() uint64
	newID       func() string
}

// Option customises a Service.
type Option func(*Service)

// WithSeed pins the meal allocator's random seed, making plans reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Service) {
		s.newSeed = func() uint64 { return seed }
	}
}

// WithAllocatorConfig overrides the meal allocator tuning.
func WithAllocatorConfig(cfg AllocatorConfig) Option {
	return func(s *Service) {
		s.cfg = cfg
	}
}

// NewService creates the plan engine. With an empty openaiAPIKey the coaching
// tips come from the curated static set.
func NewService(exercises catalog.ExerciseCatalog, ingredients catalog.IngredientCatalog, logger *slog.Logger, openaiAPIKey string, opts ...Option) *Service {
	s := &Service{
		exercises:   exercises,
		ingredients: ingredients,
		tips:        staticTipGenerator{},
		logger:      logger,
		cfg:         DefaultAllocatorConfig(),
		newSeed:     rand.Uint64,
		newID:       func() string { return ulid.Make().String() },
	}
	if openaiAPIKey != "" {
		s.tips = newOpenAITipGenerator(openaiAPIKey, logger)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecalcIndices recomputes the physiological indices for a profile.
// trainingDays drives the activity multiplier behind TDEE.
func (s *Service) RecalcIndices(ctx context.Context, profile Profile, trainingDays int) (IndicesResult, error) {
	var missing []string
	if profile.Sex == "" {
		missing = append(missing, "sex")
	}
	if profile.AgeRange == "" {
		missing = append(missing, "age_range")
	}
	if len(missing) > 0 {
		return IndicesResult{}, &ValidationError{Missing: missing}
	}

	result := computeIndices(profile, trainingDays)
	s.logger.DebugContext(ctx, "recalculated indices",
		slog.String("method", string(result.Indices.Method)),
		slog.String("band", string(result.Accuracy.Band)))
	return result, nil
}

// GeneratePlan builds a complete plan: indices, targets, the weekly workout
// split, and the day's meals. The workout and the meals are built
// concurrently since they only share the computed targets.
func (s *Service) GeneratePlan(ctx context.Context, req PlanRequest) (Plan, error) {
	if err := validatePlanRequest(req); err != nil {
		return Plan{}, err
	}

	var warnings []string
	if req.ScheduleDays > 6 {
		req.ScheduleDays = 6
		warnings = append(warnings,
			"schedule capped at 6 training days per week; use the seventh day for walking and recovery")
	}
	meals := req.MealsPerDay
	if meals < 1 {
		meals = defaultMealsPerDay
	}
	if meals > maxMealsPerDay {
		meals = maxMealsPerDay
	}

	indices := computeIndices(req.Profile, req.ScheduleDays)
	warnings = append(warnings, indices.Warnings...)

	tdee := 0
	if indices.Indices.TDEE != nil {
		tdee = *indices.Indices.TDEE
	} else {
		// Not enough biometrics for a BMR; run targets off a conservative
		// baseline and tell the user what to add.
		tdee = int(math.Round(fallbackBMR * activityMultiplier(req.ScheduleDays)))
		warnings = append(warnings, fmt.Sprintf(
			"energy needs estimated from a %d kcal baseline; add %s for an accurate number",
			fallbackBMR, indices.Accuracy.NextBestInput))
	}
	targets := computeTargets(tdee, req.Goal, req.Profile.WeightKg)

	plan := Plan{
		ID:       s.newID(),
		Indices:  indices.Indices,
		Accuracy: indices.Accuracy,
		Targets:  targets,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		exercises, err := s.exercises.List(gctx)
		if err != nil {
			return fmt.Errorf("list exercises: %w", err)
		}
		plan.Days = buildWorkoutWeek(exercises, req)
		return nil
	})
	g.Go(func() error {
		ingredients, err := s.ingredients.ListByTier(gctx, req.BudgetTier)
		if err != nil {
			return fmt.Errorf("list ingredients: %w", err)
		}
		plan.Meals = allocateMeals(ingredients, targets, meals, req.Goal, req.Tolerance, s.cfg, s.newSeed())
		return nil
	})
	if err := g.Wait(); err != nil {
		return Plan{}, err
	}

	plan.Tips = s.tips.GenerateTips(ctx, req, targets)
	plan.Warnings = warnings

	s.logger.InfoContext(ctx, "generated plan",
		slog.String("id", plan.ID),
		slog.String("goal", string(req.Goal)),
		slog.Int("days", len(plan.Days)),
		slog.Int("meals", len(plan.Meals)))
	return plan, nil
}

// AdaptPlan applies the readiness rules to an existing plan and returns the
// patched copy together with a human-readable change log.
func (s *Service) AdaptPlan(ctx context.Context, req AdaptRequest) (AdaptResult, error) {
	var missing []string
	if req.Plan == nil {
		missing = append(missing, "current_plan")
	}
	if req.Readiness == nil {
		missing = append(missing, "readiness")
	}
	if len(missing) > 0 {
		return AdaptResult{}, &ValidationError{Missing: missing}
	}

	result := adaptPlan(req)
	s.logger.InfoContext(ctx, "adapted plan",
		slog.String("id", result.Plan.ID),
		slog.Int("changes", len(result.ChangeLog)))
	return result, nil
}

func validatePlanRequest(req PlanRequest) error {
	var missing []string
	if req.Profile.Sex == "" {
		missing = append(missing, "sex")
	}
	if req.Profile.AgeRange == "" {
		missing = append(missing, "age_range")
	}
	if req.ScheduleDays < 1 {
		missing = append(missing, "schedule_days")
	}
	if req.Equipment == "" {
		missing = append(missing, "equipment")
	}
	if req.Experience == "" {
		missing = append(missing, "experience")
	}
	if req.Goal == "" {
		missing = append(missing, "goal")
	}
	if req.BudgetTier == "" {
		missing = append(missing, "budget_tier")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
