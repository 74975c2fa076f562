package api

import (
	"github.com/gorilla/mux"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/champs"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/config"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/scheduler"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/storage"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/tba"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, client *tba.Client, resolver *champs.Resolver, sched *scheduler.Scheduler, store storage.Store) *mux.Router {
	router := mux.NewRouter()

	handler := NewHandler(cfg, client, resolver, sched, store)

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Health & Status
	api.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	api.HandleFunc("/status", handler.GetStatus).Methods("GET")
	api.HandleFunc("/years", handler.GetYears).Methods("GET")

	// Events and championship resolution
	api.HandleFunc("/events", handler.GetEvents).Methods("GET")
	api.HandleFunc("/events/{eventKey}", handler.GetEvent).Methods("GET")
	api.HandleFunc("/events/{eventKey}/teams", handler.GetEventTeams).Methods("GET")
	api.HandleFunc("/search/events", handler.SearchEvents).Methods("GET")

	// Team storyboard
	api.HandleFunc("/teams/{teamNumber}/achievements/{year}", handler.GetTeamAchievements).Methods("GET")

	// Schedule configuration
	api.HandleFunc("/schedule/config", handler.GetScheduleConfig).Methods("GET")
	api.HandleFunc("/schedule/config", handler.UpdateScheduleConfig).Methods("PUT")

	// Cache maintenance
	api.HandleFunc("/cache/warm", handler.WarmCache).Methods("POST")

	// Middleware
	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	return router
}
