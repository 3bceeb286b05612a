package app

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Router wires the dashboard API with CORS, access logging and panic recovery.
func (g *Gateway) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", g.HandleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", g.HandleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dashboard", g.HandleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/readings", g.HandleReadings).Methods(http.MethodGet)
	api.HandleFunc("/readings/latest", g.HandleLatest).Methods(http.MethodGet)
	api.HandleFunc("/readings/chart", g.HandleChart).Methods(http.MethodGet)
	api.HandleFunc("/readings/refresh", g.HandleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/auto", g.HandleGetAuto).Methods(http.MethodGet)
	api.HandleFunc("/auto", g.HandleSetAuto).Methods(http.MethodPut, http.MethodPost)
	api.HandleFunc("/assessment", g.HandleAssessment).Methods(http.MethodPost)
	api.HandleFunc("/assessment/latest", g.HandleLatestInsight).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: g.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders: []string{"Content-Type"},
	})

	var h http.Handler = c.Handler(r)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(g.cfg.Logger))(h)
	return handlers.LoggingHandler(g.cfg.Logger.Writer(), h)
}
