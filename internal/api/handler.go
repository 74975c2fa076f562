package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/champs"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/config"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/models"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/scheduler"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/storage"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/tba"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/pkg/logger"
	"go.uber.org/zap"
)

const Version = "1.0.0"

var yearPattern = regexp.MustCompile(`^\d{4}$`)

type Handler struct {
	config    *config.Config
	client    *tba.Client
	resolver  *champs.Resolver
	scheduler *scheduler.Scheduler
	store     storage.Store
}

func NewHandler(cfg *config.Config, client *tba.Client, resolver *champs.Resolver, sched *scheduler.Scheduler, store storage.Store) *Handler {
	return &Handler{
		config:    cfg,
		client:    client,
		resolver:  resolver,
		scheduler: sched,
		store:     store,
	}
}

// HealthCheck returns the health status of the service
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   Version,
	}

	respondJSON(w, http.StatusOK, response)
}

// GetStatus returns cache, rate-limiter and scheduler state
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	response := models.StatusResponse{
		NextWarmRun:        h.scheduler.GetNextRun(),
		IsWarming:          h.scheduler.IsRunning(),
		ScheduleEnabled:    h.config.Scheduler.Enabled,
		CronExpression:     h.config.Scheduler.CronExpression,
		CacheEntries:       h.store.CacheEntries(),
		RequestsThisWindow: h.client.RequestsThisWindow(),
		RateLimitRequests:  h.config.TBA.RateLimitRequests,
		AuthKeyConfigured:  h.config.TBA.AuthKey != "",
	}

	respondJSON(w, http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Status retrieved successfully",
		Data:    response,
	})
}

// GetYears returns the current year and the four before it
func (h *Handler) GetYears(w http.ResponseWriter, r *http.Request) {
	currentYear := time.Now().Year()
	years := make([]int, 0, 5)
	for i := 0; i <= 4; i++ {
		years = append(years, currentYear-i)
	}

	respondJSON(w, http.StatusOK, years)
}

// GetEvents returns all events for a year, sorted by start date then name
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	year, ok := h.parseYear(w, r.URL.Query().Get("year"))
	if !ok {
		return
	}

	events, err := h.client.EventsByYear(r.Context(), year)
	if err != nil {
		h.respondError(w, "Failed to fetch events", err)
		return
	}

	// Entries with no name or date are unusable in the event selector.
	filtered := make([]tba.Event, 0, len(events))
	for _, event := range events {
		if event.Name != "" && event.StartDate != "" {
			filtered = append(filtered, event)
		}
	}

	sortEvents(filtered)

	respondJSON(w, http.StatusOK, filtered)
}

// GetEvent returns detail for a single event
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventKey := mux.Vars(r)["eventKey"]

	event, err := h.client.GetEvent(r.Context(), eventKey)
	if err != nil {
		h.respondError(w, "Failed to fetch event details", err)
		return
	}

	respondJSON(w, http.StatusOK, event)
}

// GetEventTeams returns the event's roster with championship qualification
// status resolved for every team
func (h *Handler) GetEventTeams(w http.ResponseWriter, r *http.Request) {
	eventKey := mux.Vars(r)["eventKey"]

	event, err := h.client.GetEvent(r.Context(), eventKey)
	if err != nil {
		h.respondError(w, "Failed to fetch event details", err)
		return
	}

	statuses, err := h.resolver.ResolveEvent(r.Context(), eventKey, event.Year)
	if err != nil {
		h.respondError(w, "Failed to fetch teams with championship status", err)
		return
	}

	respondJSON(w, http.StatusOK, statuses)
}

// SearchEvents filters a year's events by free text and event type
func (h *Handler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	year, ok := h.parseYear(w, r.URL.Query().Get("year"))
	if !ok {
		return
	}

	events, err := h.client.EventsByYear(r.Context(), year)
	if err != nil {
		h.respondError(w, "Failed to search events", err)
		return
	}

	query := strings.ToLower(r.URL.Query().Get("query"))
	if query != "" {
		matched := make([]tba.Event, 0, len(events))
		for _, event := range events {
			if strings.Contains(strings.ToLower(event.Name), query) ||
				strings.Contains(strings.ToLower(event.ShortName), query) ||
				strings.Contains(strings.ToLower(event.City), query) ||
				strings.Contains(strings.ToLower(event.StateProv), query) {
				matched = append(matched, event)
			}
		}
		events = matched
	}

	if eventType := r.URL.Query().Get("eventType"); eventType != "" && eventType != "all" {
		var typeCode int
		known := true
		switch eventType {
		case "regional":
			typeCode = champs.EventTypeRegional
		case "district":
			typeCode = champs.EventTypeDistrict
		case "championship":
			typeCode = champs.EventTypeChampionshipDivision
		default:
			known = false
		}

		if known {
			matched := make([]tba.Event, 0, len(events))
			for _, event := range events {
				if event.EventType == typeCode {
					matched = append(matched, event)
				}
			}
			events = matched
		}
	}

	sortEvents(events)

	respondJSON(w, http.StatusOK, events)
}

// GetTeamAchievements returns a team's storyboard for a season
func (h *Handler) GetTeamAchievements(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	teamNumber, err := strconv.Atoi(vars["teamNumber"])
	if err != nil || teamNumber <= 0 {
		respondJSON(w, http.StatusBadRequest, models.APIResponse{
			Success: false,
			Error:   "Invalid team number",
		})
		return
	}

	year, ok := h.parseYear(w, vars["year"])
	if !ok {
		return
	}

	story, err := h.resolver.TeamStory(r.Context(), teamNumber, year)
	if err != nil {
		h.respondError(w, "Failed to fetch team achievements", err)
		return
	}

	respondJSON(w, http.StatusOK, story)
}

// GetScheduleConfig returns the cache warmer's current schedule
func (h *Handler) GetScheduleConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Schedule config retrieved successfully",
		Data: models.ScheduleConfig{
			CronExpr: h.config.Scheduler.CronExpression,
			Enabled:  h.config.Scheduler.Enabled,
		},
	})
}

// UpdateScheduleConfig replaces the cache warmer's schedule at runtime
func (h *Handler) UpdateScheduleConfig(w http.ResponseWriter, r *http.Request) {
	var input models.ScheduleConfig
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, models.APIResponse{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if err := h.scheduler.UpdateSchedule(input.CronExpr); err != nil {
		respondJSON(w, http.StatusBadRequest, models.APIResponse{
			Success: false,
			Error:   "Invalid cron expression",
		})
		return
	}

	h.config.Scheduler.CronExpression = input.CronExpr
	h.config.Scheduler.Enabled = input.Enabled

	logger.Info("Cache warm schedule updated", zap.String("schedule", input.CronExpr))

	respondJSON(w, http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Schedule config updated successfully",
		Data:    input,
	})
}

// WarmCache triggers the cache warmer outside its schedule
func (h *Handler) WarmCache(w http.ResponseWriter, r *http.Request) {
	logger.Info("Manual cache warm triggered")

	go h.scheduler.RunNow()

	respondJSON(w, http.StatusAccepted, models.APIResponse{
		Success: true,
		Message: "Cache warm started",
	})
}

// parseYear validates a 4-digit year parameter, defaulting to the current
// year when empty. Writes the error response itself on bad input.
func (h *Handler) parseYear(w http.ResponseWriter, raw string) (int, bool) {
	if raw == "" {
		return time.Now().Year(), true
	}

	if !yearPattern.MatchString(raw) {
		respondJSON(w, http.StatusBadRequest, models.APIResponse{
			Success: false,
			Error:   "Year must be a 4-digit number",
		})
		return 0, false
	}

	year, _ := strconv.Atoi(raw)
	return year, true
}

// respondError translates the client's error taxonomy into an HTTP status
// and the structured JSON error envelope.
func (h *Handler) respondError(w http.ResponseWriter, message string, err error) {
	logger.Error(message, zap.Error(err))

	status := http.StatusInternalServerError

	var apiErr *tba.APIError
	var unavailableErr *tba.UnavailableError
	switch {
	case errors.Is(err, tba.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.As(err, &apiErr):
		status = http.StatusBadGateway
	case errors.As(err, &unavailableErr):
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, models.APIResponse{
		Success: false,
		Message: message,
		Error:   err.Error(),
	})
}

func sortEvents(events []tba.Event) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].StartDate != events[j].StartDate {
			return events[i].StartDate < events[j].StartDate
		}
		return events[i].Name < events[j].Name
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
