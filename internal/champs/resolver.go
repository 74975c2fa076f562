package champs

import (
	"context"
	"fmt"
	"time"

	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/models"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/tba"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/pkg/logger"
	"go.uber.org/zap"
)

// rookieWindowYears and waitlistRankCutoff drive the waitlist estimate for
// non-qualified teams. Young programs and top seeds at the queried event are
// the ones historically offered late championship slots.
const (
	rookieWindowYears  = 3
	waitlistRankCutoff = 8
)

// EventSource is the slice of the TBA client the resolver consumes.
// *tba.Client satisfies it; tests substitute a stub.
type EventSource interface {
	EventsByYear(ctx context.Context, year int) ([]tba.Event, error)
	GetEvent(ctx context.Context, eventKey string) (*tba.Event, error)
	EventTeams(ctx context.Context, eventKey string) ([]tba.Team, error)
	EventRankings(ctx context.Context, eventKey string) (*tba.Rankings, error)
	EventTeamStatuses(ctx context.Context, eventKey string) (map[string]*tba.TeamEventStatus, error)
	EventAwards(ctx context.Context, eventKey string) ([]tba.Award, error)
	GetTeam(ctx context.Context, teamKey string) (*tba.Team, error)
	TeamEventsByYear(ctx context.Context, teamKey string, year int) ([]tba.Event, error)
	TeamEventStatus(ctx context.Context, teamKey, eventKey string) (*tba.TeamEventStatus, error)
	TeamEventAwards(ctx context.Context, teamKey, eventKey string) ([]tba.Award, error)
}

// Resolver cross-references a target event's roster against the season's
// championship division and finals feeds to decide, per team, whether it is
// qualified, where it landed, and how it performed there.
type Resolver struct {
	src EventSource
}

// NewResolver creates a resolver over the given event source.
func NewResolver(src EventSource) *Resolver {
	return &Resolver{src: src}
}

// eventRank is a team's rank and combined record at the queried event.
type eventRank struct {
	rank       int
	record     tba.WLTRecord
	totalTeams int
}

// ResolveEvent determines championship qualification status for every team
// on the roster of eventKey, in roster order. Failures fetching the target
// event's own roster or rankings abort the call; a failure fetching any one
// division's or finals event's data only degrades that event to empty.
func (r *Resolver) ResolveEvent(ctx context.Context, eventKey string, year int) ([]models.TeamChampionshipStatus, error) {
	logger.Info("Resolving championship status",
		zap.String("event", eventKey),
		zap.Int("year", year))

	allEvents, err := r.src.EventsByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("fetching event list for %d: %w", year, err)
	}

	finals, divisions := Classify(allEvents)
	logger.Info("Classified championship events",
		zap.Int("finals", len(finals)),
		zap.Int("divisions", len(divisions)))

	teams, err := r.src.EventTeams(ctx, eventKey)
	if err != nil {
		return nil, fmt.Errorf("fetching roster for %s: %w", eventKey, err)
	}

	ranks, err := r.targetEventRanks(ctx, eventKey)
	if err != nil {
		return nil, fmt.Errorf("fetching rankings for %s: %w", eventKey, err)
	}

	// Batch prefetch: one status map per championship event rather than one
	// status call per team per event. Anything else blows the rate budget
	// at 70+ teams times ~10 divisions.
	divisionStatuses := r.prefetchStatuses(ctx, divisions)
	finalsStatuses := r.prefetchStatuses(ctx, finals)
	divisionAwards := r.prefetchAwards(ctx, divisions)

	statuses := make([]models.TeamChampionshipStatus, 0, len(teams))
	for _, team := range teams {
		statuses = append(statuses, r.resolveTeam(
			team, finals, divisions,
			divisionStatuses, finalsStatuses, divisionAwards, ranks,
		))
	}

	logger.Info("Resolved team statuses",
		zap.String("event", eventKey),
		zap.Int("teams", len(statuses)))

	return statuses, nil
}

// targetEventRanks builds team key -> rank/combined record/total teams for
// the queried event. The combined record folds in playoff results from the
// event's status map when that map is available.
func (r *Resolver) targetEventRanks(ctx context.Context, eventKey string) (map[string]eventRank, error) {
	rankData, err := r.src.EventRankings(ctx, eventKey)
	if err != nil {
		return nil, err
	}

	playoffRecords := make(map[string]tba.WLTRecord)
	eventStatuses, err := r.src.EventTeamStatuses(ctx, eventKey)
	if err != nil {
		logger.Warn("No playoff records for target event, using qualification records only",
			zap.String("event", eventKey),
			zap.Error(err))
	} else {
		for teamKey, status := range eventStatuses {
			if status != nil && status.Playoff != nil && status.Playoff.Record != nil {
				playoffRecords[teamKey] = *status.Playoff.Record
			}
		}
	}

	ranks := make(map[string]eventRank, len(rankData.Rankings))
	for _, entry := range rankData.Rankings {
		combined := tba.WLTRecord{}
		if entry.Record != nil {
			combined = combined.Add(*entry.Record)
		}
		if playoff, ok := playoffRecords[entry.TeamKey]; ok {
			combined = combined.Add(playoff)
		}
		ranks[entry.TeamKey] = eventRank{
			rank:       entry.Rank,
			record:     combined,
			totalTeams: len(rankData.Rankings),
		}
	}
	return ranks, nil
}

// prefetchStatuses fetches the full status map for each event. A failed
// event contributes an empty map so other teams' resolutions are unaffected.
func (r *Resolver) prefetchStatuses(ctx context.Context, events []tba.Event) map[string]map[string]*tba.TeamEventStatus {
	statuses := make(map[string]map[string]*tba.TeamEventStatus, len(events))
	for _, event := range events {
		m, err := r.src.EventTeamStatuses(ctx, event.Key)
		if err != nil {
			logger.Warn("Failed to fetch team statuses, treating event as empty",
				zap.String("event", event.Key),
				zap.Error(err))
			statuses[event.Key] = map[string]*tba.TeamEventStatus{}
			continue
		}
		statuses[event.Key] = m
		logger.Debug("Prefetched team statuses",
			zap.String("event", event.Key),
			zap.Int("teams", len(m)))
	}
	return statuses
}

// prefetchAwards fetches each division's award list, tolerating failure.
func (r *Resolver) prefetchAwards(ctx context.Context, events []tba.Event) map[string][]tba.Award {
	awards := make(map[string][]tba.Award, len(events))
	for _, event := range events {
		list, err := r.src.EventAwards(ctx, event.Key)
		if err != nil {
			logger.Warn("Failed to fetch awards, treating event as empty",
				zap.String("event", event.Key),
				zap.Error(err))
			awards[event.Key] = nil
			continue
		}
		awards[event.Key] = list
	}
	return awards
}

// resolveTeam computes one team's championship status from the prefetched
// maps. Pure computation; no network.
func (r *Resolver) resolveTeam(
	team tba.Team,
	finals, divisions []tba.Event,
	divisionStatuses, finalsStatuses map[string]map[string]*tba.TeamEventStatus,
	divisionAwards map[string][]tba.Award,
	ranks map[string]eventRank,
) models.TeamChampionshipStatus {
	status := models.TeamChampionshipStatus{
		Team:               team,
		ChampionshipAwards: []tba.Award{},
	}

	// Division scan: first match wins. A team belongs to at most one
	// division, so scanning on after a hit only costs rate budget.
	var divStatus *tba.TeamEventStatus
	for _, div := range divisions {
		ts, ok := divisionStatuses[div.Key][team.Key]
		if !ok || ts == nil {
			continue
		}

		status.IsQualified = true
		status.DivisionEventKey = div.Key
		status.Division = DivisionDisplayName(div.Key, div.Name)
		status.ChampionshipAwards = awardsForTeam(divisionAwards[div.Key], team.Key)

		// The championship this division rolls up into is the finals event
		// of the same season.
		for _, fin := range finals {
			if sameYearPrefix(fin.Key, div.Key) {
				status.ChampionshipEventKey = fin.Key
				status.ChampionshipLocation = eventLocation(fin)
				break
			}
		}

		if ts.Qual != nil && ts.Qual.Ranking != nil {
			rank := ts.Qual.Ranking.Rank
			record := ts.CombinedRecord().String()
			status.ChampionshipRank = &rank
			status.ChampionshipRecord = &record
			status.DivisionTotalTeams = ts.Qual.NumTeams
		}

		divStatus = ts
		break
	}

	// Finals scan runs regardless of the division result: a team can be
	// division-qualified without alliance data yet, or vice versa.
	var finStatus *tba.TeamEventStatus
	for _, fin := range finals {
		ts, ok := finalsStatuses[fin.Key][team.Key]
		if !ok || ts == nil {
			continue
		}

		status.IsQualified = true
		if status.ChampionshipEventKey == "" {
			status.ChampionshipEventKey = fin.Key
			status.ChampionshipLocation = eventLocation(fin)
		}

		if ts.Alliance != nil {
			status.FinalEventKey = fin.Key
			if ts.Playoff != nil && ts.Playoff.Status != "" {
				playoffStatus := ts.Playoff.Status
				status.FinalRank = &playoffStatus
			}
			record := ts.CombinedRecord().String()
			status.FinalRecord = &record
		}

		finStatus = ts
		break
	}

	if status.IsQualified && status.Division == "" {
		logger.Warn("Qualified team has no division assignment; upstream data gap",
			zap.String("team", team.Key))
	}

	// Finals status strings are the more specific, more current state once
	// a team advances; they override division-level strings.
	if divStatus != nil {
		status.OverallStatusStr = divStatus.OverallStatusStr
		status.AllianceStatusStr = divStatus.AllianceStatusStr
	}
	if finStatus != nil {
		if finStatus.OverallStatusStr != "" {
			status.OverallStatusStr = finStatus.OverallStatusStr
		}
		if finStatus.AllianceStatusStr != "" {
			status.AllianceStatusStr = finStatus.AllianceStatusStr
		}
	}

	if rankInfo, ok := ranks[team.Key]; ok {
		rank := rankInfo.rank
		record := rankInfo.record.String()
		status.Rank = &rank
		status.Record = &record
		status.TotalTeams = rankInfo.totalTeams
	}

	if !status.IsQualified {
		status.WaitlistPosition = estimateWaitlist(team, status.Rank)
	}

	return status
}

// estimateWaitlist substitutes for waitlist data the upstream does not
// expose: 1 means "likely waitlisted", 0 means "not qualified". An estimate
// only, never ground truth.
func estimateWaitlist(team tba.Team, targetRank *int) *int {
	position := 0
	if team.RookieYear != nil && time.Now().Year()-*team.RookieYear < rookieWindowYears {
		position = 1
	} else if targetRank != nil && *targetRank <= waitlistRankCutoff {
		position = 1
	}
	return &position
}

// awardsForTeam filters an event's award list to those naming teamKey.
func awardsForTeam(awards []tba.Award, teamKey string) []tba.Award {
	matched := []tba.Award{}
	for _, award := range awards {
		for _, recipient := range award.RecipientList {
			if recipient.TeamKey == teamKey {
				matched = append(matched, award)
				break
			}
		}
	}
	return matched
}

// sameYearPrefix reports whether two event keys belong to the same season.
func sameYearPrefix(a, b string) bool {
	return len(a) >= 4 && len(b) >= 4 && a[:4] == b[:4]
}

// eventLocation is the display location of a championship: city when known,
// otherwise the event name.
func eventLocation(event tba.Event) string {
	if event.City != "" {
		return event.City
	}
	return event.Name
}
