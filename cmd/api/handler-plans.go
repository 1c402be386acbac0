package main

import (
	"errors"
	"net/http"

	"github.com/planfit/planfit/internal/plan"
)

// plansPOST generates a complete plan from the request.
func (app *application) plansPOST(w http.ResponseWriter, r *http.Request) {
	var req plan.PlanRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}

	generated, err := app.planService.GeneratePlan(r.Context(), req)
	if err != nil {
		var validationErr *plan.ValidationError
		if errors.As(err, &validationErr) {
			app.validationError(w, r, validationErr.Missing)
			return
		}
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, generated)
}

// plansAdaptPOST patches an existing plan with readiness signals.
func (app *application) plansAdaptPOST(w http.ResponseWriter, r *http.Request) {
	var req plan.AdaptRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}

	result, err := app.planService.AdaptPlan(r.Context(), req)
	if err != nil {
		var validationErr *plan.ValidationError
		if errors.As(err, &validationErr) {
			app.validationError(w, r, validationErr.Missing)
			return
		}
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, result)
}
