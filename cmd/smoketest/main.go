// Command smoketest verifies a deployed API instance end to end: health
// check, index recalculation, and plan generation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/planfit/planfit/internal/e2etest"
	"github.com/planfit/planfit/internal/logging"
	"github.com/planfit/planfit/internal/plan"
	"github.com/planfit/planfit/internal/ptr"
	"github.com/planfit/planfit/internal/testhelpers"
)

const requestTimeout = 10 * time.Second

func testIndices(client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var result plan.IndicesResult
	status, err := client.PostJSON(ctx, "/api/indices/recalc", map[string]any{
		"profile": map[string]any{
			"sex":       "male",
			"age_range": "25-34",
			"height_cm": 180,
			"weight_kg": 80,
		},
		"schedule_days": 3,
	}, &result)
	if err != nil {
		return fmt.Errorf("recalc indices: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("recalc indices: unexpected status %d", status)
	}
	if result.Indices.BMR == nil {
		return fmt.Errorf("recalc indices: no BMR in response")
	}
	return nil
}

func testGenerate(client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var generated plan.Plan
	status, err := client.PostJSON(ctx, "/api/plans", plan.PlanRequest{
		Profile: plan.Profile{
			Sex:      plan.SexMale,
			AgeRange: "25-34",
			HeightCm: ptr.Ref(180.0),
			WeightKg: ptr.Ref(80.0),
		},
		Goal:         plan.GoalHypertrophy,
		ScheduleDays: 3,
		Equipment:    plan.EquipmentFullGym,
		Experience:   plan.ExperienceNovice,
		BudgetTier:   "low",
	}, &generated)
	if err != nil {
		return fmt.Errorf("generate plan: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("generate plan: unexpected status %d", status)
	}
	if generated.ID == "" || len(generated.Days) == 0 || len(generated.Meals) == 0 {
		return fmt.Errorf("generate plan: incomplete plan %+v", generated)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		err      error
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	client := e2etest.NewClient(url)

	readyCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	if err = client.WaitForReady(readyCtx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready", slog.Any("error", err))
		os.Exit(1)
	}
	if err = testIndices(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "indices smoke test failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err = testGenerate(client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "plan smoke test failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "smoke test passed", slog.Duration("duration", time.Since(start)))
}
