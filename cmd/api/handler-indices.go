package main

import (
	"errors"
	"net/http"

	"github.com/planfit/planfit/internal/plan"
)

type indicesRecalcRequest struct {
	Profile      plan.Profile `json:"profile"`
	ScheduleDays int          `json:"schedule_days,omitempty"`
}

// indicesRecalcPOST recomputes the physiological indices for a profile.
func (app *application) indicesRecalcPOST(w http.ResponseWriter, r *http.Request) {
	var req indicesRecalcRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}

	result, err := app.planService.RecalcIndices(r.Context(), req.Profile, req.ScheduleDays)
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
