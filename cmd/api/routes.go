package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func (app *application) routes(cfg config) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/api/indices/recalc", app.indicesRecalcPOST).Methods(http.MethodPost)
	router.HandleFunc("/api/plans", app.plansPOST).Methods(http.MethodPost)
	router.HandleFunc("/api/plans/adapt", app.plansAdaptPOST).Methods(http.MethodPost)
	router.HandleFunc("/api/healthy", app.healthy).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{cfg.CORSAllowedOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})

	return app.recoverPanic(app.logRequest(c.Handler(router)))
}
