package models

import (
	"time"

	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/tba"
)

// TeamChampionshipStatus is the resolver's synthesized result for one team
// at the queried event. Consumers treat it as an immutable snapshot.
type TeamChampionshipStatus struct {
	Team tba.Team `json:"team"`

	IsQualified bool `json:"isQualified"`

	// WaitlistPosition is a heuristic estimate, not upstream data: 1 means
	// "likely waitlisted", 0 means "not qualified". Present only when the
	// team is not qualified.
	WaitlistPosition *int `json:"waitlistPosition,omitempty"`

	ChampionshipLocation string `json:"championshipLocation"`
	ChampionshipEventKey string `json:"championshipEventKey"`
	Division             string `json:"division"`
	DivisionEventKey     string `json:"divisionEventKey"`

	// Division-level qualification performance, absent if unavailable.
	ChampionshipRank   *int        `json:"championshipRank,omitempty"`
	ChampionshipRecord *string     `json:"championshipRecord,omitempty"`
	DivisionTotalTeams int         `json:"divisionTotalTeams"`
	ChampionshipAwards []tba.Award `json:"championshipAwards"`

	// Championship finals (alliance/playoff round) presence.
	FinalEventKey string  `json:"finalEventKey"`
	FinalRank     *string `json:"finalRank,omitempty"`
	FinalRecord   *string `json:"finalRecord,omitempty"`

	// Performance at the originally-queried event, independent of
	// qualification status.
	Rank       *int    `json:"rank,omitempty"`
	Record     *string `json:"record,omitempty"`
	TotalTeams int     `json:"totalTeams"`

	// Pre-rendered status fragments passed through from upstream. Finals
	// status strings override division-level ones.
	OverallStatusStr  string `json:"overall_status_str,omitempty"`
	AllianceStatusStr string `json:"alliance_status_str,omitempty"`
}

// AchievementEvent is the event header shown on a storyboard entry.
type AchievementEvent struct {
	Key             string `json:"key"`
	Name            string `json:"name"`
	ShortName       string `json:"short_name,omitempty"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	EventType       int    `json:"eventType"`
	EventTypeString string `json:"eventTypeString"`
	City            string `json:"city,omitempty"`
	StateProv       string `json:"stateProv,omitempty"`
	Country         string `json:"country,omitempty"`
}

// AchievementPerformance is the team's rank and combined record at one event.
type AchievementPerformance struct {
	Rank       int    `json:"rank"`
	TotalTeams int    `json:"totalTeams"`
	Record     string `json:"record"`
}

// Achievement is one event's entry in a team storyboard. A fetch failure for
// a single event sets Error instead of failing the whole storyboard.
type Achievement struct {
	Event              AchievementEvent        `json:"event"`
	Performance        *AchievementPerformance `json:"performance,omitempty"`
	Awards             []tba.Award             `json:"awards"`
	OverallStatusHtml  string                  `json:"overallStatusHtml"`
	AllianceStatusHtml string                  `json:"allianceStatusHtml"`
	Error              string                  `json:"error,omitempty"`
}

// TeamStory is the per-team achievements view across one season.
type TeamStory struct {
	TeamKey      string        `json:"teamKey"`
	TeamNumber   int           `json:"teamNumber"`
	TeamName     string        `json:"teamName"`
	TeamNickname string        `json:"teamNickname,omitempty"`
	RookieYear   *int          `json:"rookieYear,omitempty"`
	Year         int           `json:"year"`
	Achievements []Achievement `json:"achievements"`
}

// API Response structures
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// ScheduleConfig is the cache warmer's schedule as exposed over the API.
type ScheduleConfig struct {
	CronExpr string `json:"cron_expr"`
	Enabled  bool   `json:"enabled"`
}

type StatusResponse struct {
	NextWarmRun        *time.Time `json:"next_warm_run,omitempty"`
	IsWarming          bool       `json:"is_warming"`
	ScheduleEnabled    bool       `json:"schedule_enabled"`
	CronExpression     string     `json:"cron_expression"`
	CacheEntries       int64      `json:"cache_entries"`
	RequestsThisWindow int        `json:"requests_this_window"`
	RateLimitRequests  int        `json:"rate_limit_requests"`
	AuthKeyConfigured  bool       `json:"auth_key_configured"`
}
