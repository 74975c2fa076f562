package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/champs"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/config"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/models"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/scheduler"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/storage"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/tba"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/pkg/logger"
)

func TestMain(m *testing.M) {
	_ = logger.InitLogger("error", "test")
	m.Run()
}

func newTestRouter(t *testing.T, upstream http.Handler) http.Handler {
	t.Helper()

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", Environment: "test"},
		TBA: config.TBAConfig{
			BaseURL:           server.URL,
			AuthKey:           "test-key",
			RequestTimeout:    5 * time.Second,
			RateLimitRequests: 25,
			RateLimitWindow:   time.Minute,
			CacheTTL:          time.Minute,
		},
		Scheduler: config.SchedulerConfig{CronExpression: "0 6 * * *"},
	}

	store := storage.NewMemStore()
	client := tba.NewClient(cfg.TBA, store)
	resolver := champs.NewResolver(client)
	sched := scheduler.NewScheduler(cfg, client)

	return NewRouter(cfg, client, resolver, sched, store)
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, http.NotFoundHandler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var health models.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if health.Status != "healthy" {
		t.Fatalf("unexpected health status %q", health.Status)
	}
}

func TestGetYears(t *testing.T) {
	router := newTestRouter(t, http.NotFoundHandler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/years", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var years []int
	if err := json.Unmarshal(rec.Body.Bytes(), &years); err != nil {
		t.Fatalf("decoding years: %v", err)
	}
	if len(years) != 5 || years[0] != time.Now().Year() {
		t.Fatalf("unexpected years list: %v", years)
	}
}

func TestGetEventsSortsAndFilters(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"key":"2025bbb","name":"Later","start_date":"2025-04-01","event_type":0,"year":2025},
			{"key":"2025aaa","name":"Earlier","start_date":"2025-03-01","event_type":0,"year":2025},
			{"key":"2025nodate","name":"No Date","event_type":0,"year":2025}
		]`)
	})
	router := newTestRouter(t, upstream)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events?year=2025", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var events []tba.Event
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("decoding events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected undated event filtered out, got %d events", len(events))
	}
	if events[0].Key != "2025aaa" || events[1].Key != "2025bbb" {
		t.Fatalf("events not sorted by start date: %s, %s", events[0].Key, events[1].Key)
	}
}

func TestGetEventsRejectsBadYear(t *testing.T) {
	router := newTestRouter(t, http.NotFoundHandler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events?year=25", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpstreamErrorMapsToBadGateway(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	router := newTestRouter(t, upstream)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events?year=2025", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	var envelope models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding error envelope: %v", err)
	}
	if envelope.Success || envelope.Error == "" {
		t.Fatalf("unexpected error envelope: %+v", envelope)
	}
}

func TestUpstreamRateLimitMapsTo429(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	router := newTestRouter(t, upstream)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events?year=2025", nil))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestSearchEventsFiltersByQueryAndType(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"key":"2025one","name":"Glacier Peak Regional","city":"Everett","start_date":"2025-03-01","event_type":0,"year":2025},
			{"key":"2025two","name":"Houston District","city":"Houston","start_date":"2025-03-08","event_type":1,"year":2025},
			{"key":"2025new","name":"Newton Division","city":"Houston","start_date":"2025-04-16","event_type":3,"year":2025}
		]`)
	})
	router := newTestRouter(t, upstream)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/search/events?year=2025&query=houston&eventType=championship", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var events []tba.Event
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("decoding events: %v", err)
	}
	if len(events) != 1 || events[0].Key != "2025new" {
		t.Fatalf("unexpected search result: %+v", events)
	}
}

func TestScheduleConfigRoundTrip(t *testing.T) {
	router := newTestRouter(t, http.NotFoundHandler())

	body := strings.NewReader(`{"cron_expr":"30 4 * * *","enabled":true}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/schedule/config", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/schedule/config", nil))

	var envelope struct {
		Success bool                  `json:"success"`
		Data    models.ScheduleConfig `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding schedule config: %v", err)
	}
	if !envelope.Success || envelope.Data.CronExpr != "30 4 * * *" || !envelope.Data.Enabled {
		t.Fatalf("unexpected schedule config: %+v", envelope)
	}
}

func TestUpdateScheduleConfigRejectsBadCron(t *testing.T) {
	router := newTestRouter(t, http.NotFoundHandler())

	body := strings.NewReader(`{"cron_expr":"not a cron","enabled":true}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/schedule/config", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetTeamAchievementsRejectsBadTeamNumber(t *testing.T) {
	router := newTestRouter(t, http.NotFoundHandler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/teams/abc/achievements/2025", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
