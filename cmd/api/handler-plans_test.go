package main

import (
	"net/http"
	"testing"

	"github.com/planfit/planfit/internal/catalog"
	"github.com/planfit/planfit/internal/e2etest"
	"github.com/planfit/planfit/internal/plan"
	"github.com/planfit/planfit/internal/ptr"
	"github.com/planfit/planfit/internal/testhelpers"
)

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "PLANFIT_SQLITE_URL":
		return ":memory:", true
	case "PLANFIT_ADDR":
		return "localhost:0", true
	default:
		return "", false
	}
}

func startTestServer(t *testing.T) *e2etest.Server {
	t.Helper()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("start server: %v", err)
	}
	return server
}

func validPlanRequest() plan.PlanRequest {
	return plan.PlanRequest{
		Profile: plan.Profile{
			Sex:      plan.SexMale,
			AgeRange: "25-34",
			HeightCm: ptr.Ref(175.0),
			WeightKg: ptr.Ref(75.0),
		},
		Goal:         plan.GoalFatLoss,
		ScheduleDays: 3,
		Equipment:    plan.EquipmentFullGym,
		Experience:   plan.ExperienceNovice,
		BudgetTier:   catalog.TierLow,
	}
}

func Test_application_plans(t *testing.T) {
	server := startTestServer(t)
	client := server.Client()
	ctx := t.Context()

	t.Run("generates a plan", func(t *testing.T) {
		var generated plan.Plan
		status, err := client.PostJSON(ctx, "/api/plans", validPlanRequest(), &generated)
		if err != nil {
			t.Fatalf("post plan request: %v", err)
		}
		if status != http.StatusOK {
			t.Fatalf("status = %d, want %d", status, http.StatusOK)
		}
		if generated.ID == "" {
			t.Error("plan has no id")
		}
		if len(generated.Days) != 3 {
			t.Errorf("got %d workout days, want 3", len(generated.Days))
		}
		if len(generated.Meals) == 0 {
			t.Error("plan has no meals")
		}
	})

	t.Run("lists all missing fields", func(t *testing.T) {
		var errResponse struct {
			Error         string   `json:"error"`
			MissingFields []string `json:"missing_fields"`
		}
		status, err := client.PostJSON(ctx, "/api/plans", plan.PlanRequest{}, &errResponse)
		if err != nil {
			t.Fatalf("post plan request: %v", err)
		}
		if status != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want %d", status, http.StatusUnprocessableEntity)
		}
		if len(errResponse.MissingFields) != 7 {
			t.Errorf("missing fields = %v, want all seven", errResponse.MissingFields)
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		status, err := client.PostJSON(ctx, "/api/plans", "not an object", nil)
		if err != nil {
			t.Fatalf("post plan request: %v", err)
		}
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", status, http.StatusBadRequest)
		}
	})

	t.Run("recalculates indices", func(t *testing.T) {
		var result plan.IndicesResult
		req := map[string]any{
			"profile": map[string]any{
				"sex":       "male",
				"age_range": "25-34",
				"height_cm": 175,
				"weight_kg": 75,
			},
			"schedule_days": 4,
		}
		status, err := client.PostJSON(ctx, "/api/indices/recalc", req, &result)
		if err != nil {
			t.Fatalf("post indices request: %v", err)
		}
		if status != http.StatusOK {
			t.Fatalf("status = %d, want %d", status, http.StatusOK)
		}
		if result.Indices.BMR == nil || *result.Indices.BMR != 1704 {
			t.Errorf("BMR = %v, want 1704", result.Indices.BMR)
		}
		if result.Accuracy.Band != plan.BandMed {
			t.Errorf("band = %q, want med", result.Accuracy.Band)
		}
	})

	t.Run("adapts a plan", func(t *testing.T) {
		var generated plan.Plan
		if _, err := client.PostJSON(ctx, "/api/plans", validPlanRequest(), &generated); err != nil {
			t.Fatalf("generate plan: %v", err)
		}

		adherence := 40.0
		var result plan.AdaptResult
		status, err := client.PostJSON(ctx, "/api/plans/adapt", plan.AdaptRequest{
			Plan:         &generated,
			Readiness:    &plan.ReadinessSignal{Stress: 5, Motivation: 1},
			AdherencePct: &adherence,
		}, &result)
		if err != nil {
			t.Fatalf("post adapt request: %v", err)
		}
		if status != http.StatusOK {
			t.Fatalf("status = %d, want %d", status, http.StatusOK)
		}
		if len(result.ChangeLog) == 0 {
			t.Error("expected change log entries")
		}
	})
}
