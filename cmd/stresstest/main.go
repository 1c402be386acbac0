// Command stresstest hammers a running API instance with concurrent plan
// generations and reports the success rate.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/planfit/planfit/internal/e2etest"
	"github.com/planfit/planfit/internal/logging"
	"github.com/planfit/planfit/internal/plan"
	"github.com/planfit/planfit/internal/ptr"
	"github.com/planfit/planfit/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	concurrentWorkers    = 20
	requestsPerWorker    = 25
	requestTimeout       = 10 * time.Second
	successRateThreshold = 95.0
	expectedArgsCount    = 2
	percentageMultiplier = 100
)

// requestVariants cycles goals and schedules so the server sees varied work.
//
//nolint:gochecknoglobals // fixed scenario table.
var requestVariants = []struct {
	goal plan.Goal
	days int
}{
	{goal: plan.GoalFatLoss, days: 3},
	{goal: plan.GoalHypertrophy, days: 4},
	{goal: plan.GoalStrength, days: 5},
	{goal: plan.GoalRecomp, days: 2},
}

func generateOnce(ctx context.Context, client *e2etest.Client, variant int) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	v := requestVariants[variant%len(requestVariants)]

	var generated plan.Plan
	status, err := client.PostJSON(ctx, "/api/plans", plan.PlanRequest{
		Profile: plan.Profile{
			Sex:      plan.SexFemale,
			AgeRange: "25-34",
			HeightCm: ptr.Ref(175.0),
			WeightKg: ptr.Ref(70.0 + float64(variant%20)),
		},
		Goal:         v.goal,
		ScheduleDays: v.days,
		Equipment:    plan.EquipmentFullGym,
		Experience:   plan.ExperienceIntermediate,
		BudgetTier:   "medium",
	}, &generated)
	if err != nil {
		return fmt.Errorf("post plan request: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status %d", status)
	}
	if generated.ID == "" || len(generated.Days) != v.days {
		return fmt.Errorf("incomplete plan: id=%q days=%d", generated.ID, len(generated.Days))
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <url>")
		os.Exit(1)
	}

	url := os.Args[1]
	ctx = logging.WithAttrs(ctx, slog.String("url", url))
	client := e2etest.NewClient(url)

	readyCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	if err := client.WaitForReady(readyCtx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready", slog.Any("error", err))
		os.Exit(1)
	}

	var (
		succeeded atomic.Int64
		failed    atomic.Int64
		start     = time.Now()
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrentWorkers)
	for i := range concurrentWorkers * requestsPerWorker {
		g.Go(func() error {
			if err := generateOnce(gctx, client, i); err != nil {
				failed.Add(1)
				logger.LogAttrs(gctx, slog.LevelWarn, "request failed", slog.Any("error", err))
				return nil // keep hammering, rate is judged at the end
			}
			succeeded.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	total := succeeded.Load() + failed.Load()
	successRate := float64(succeeded.Load()) / float64(total) * percentageMultiplier
	logger.LogAttrs(ctx, slog.LevelInfo, "stress test finished",
		slog.Int64("total", total),
		slog.Int64("succeeded", succeeded.Load()),
		slog.Int64("failed", failed.Load()),
		slog.String("success_rate", fmt.Sprintf("%.1f%%", successRate)),
		slog.Duration("duration", time.Since(start)))

	if successRate < successRateThreshold {
		logger.LogAttrs(ctx, slog.LevelError, "success rate below threshold",
			slog.Float64("threshold", successRateThreshold))
		os.Exit(1)
	}
}
