package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/planfit/planfit/internal/errors"
)

// maxRequestBodyBytes caps request bodies; plans are small JSON documents.
const maxRequestBodyBytes = 1 << 20

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.writeJSON(w, r, http.StatusInternalServerError, map[string]string{
		"error": http.StatusText(http.StatusInternalServerError),
	})
}

func (app *application) validationError(w http.ResponseWriter, r *http.Request, missing []string) {
	app.writeJSON(w, r, http.StatusUnprocessableEntity, map[string]any{
		"error":          "missing required fields",
		"missing_fields": missing,
	})
}

func (app *application) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelDebug, "bad request", errors.SlogError(err))
	app.writeJSON(w, r, http.StatusBadRequest, map[string]string{
		"error": "malformed request body",
	})
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode response", errors.SlogError(err))
	}
}

// decodeJSON reads the request body into dst, responding with 400 on failure.
func (app *application) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		app.badRequest(w, r, errors.Wrap(err, "decode request body"))
		return false
	}
	return true
}
