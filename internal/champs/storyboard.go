package champs

import (
	"context"
	"fmt"
	"sort"

	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/models"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/tba"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/pkg/logger"
	"go.uber.org/zap"
)

// TeamStory resolves a team's achievements across every event it attended in
// a season, without running the full championship cross-reference. One
// event's fetch failure becomes an error sub-record on that entry; the rest
// of the storyboard is unaffected.
func (r *Resolver) TeamStory(ctx context.Context, teamNumber, year int) (*models.TeamStory, error) {
	teamKey := fmt.Sprintf("frc%d", teamNumber)

	team, err := r.src.GetTeam(ctx, teamKey)
	if err != nil {
		return nil, fmt.Errorf("fetching team %s: %w", teamKey, err)
	}

	events, err := r.src.TeamEventsByYear(ctx, teamKey, year)
	if err != nil {
		return nil, fmt.Errorf("fetching events for %s in %d: %w", teamKey, year, err)
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].StartDate != events[j].StartDate {
			return events[i].StartDate < events[j].StartDate
		}
		return events[i].Name < events[j].Name
	})

	story := &models.TeamStory{
		TeamKey:      team.Key,
		TeamNumber:   team.TeamNumber,
		TeamName:     team.Name,
		TeamNickname: team.Nickname,
		RookieYear:   team.RookieYear,
		Year:         year,
		Achievements: make([]models.Achievement, 0, len(events)),
	}

	for _, event := range events {
		story.Achievements = append(story.Achievements, r.eventAchievement(ctx, teamKey, event))
	}

	logger.Info("Built team storyboard",
		zap.String("team", teamKey),
		zap.Int("year", year),
		zap.Int("events", len(story.Achievements)))

	return story, nil
}

// eventAchievement builds one storyboard entry from the event's rankings,
// the team's status there, and the team's awards there.
func (r *Resolver) eventAchievement(ctx context.Context, teamKey string, event tba.Event) models.Achievement {
	achievement := models.Achievement{
		Event: models.AchievementEvent{
			Key:             event.Key,
			Name:            event.Name,
			ShortName:       event.ShortName,
			StartDate:       event.StartDate,
			EndDate:         event.EndDate,
			EventType:       event.EventType,
			EventTypeString: event.EventTypeString,
			City:            event.City,
			StateProv:       event.StateProv,
			Country:         event.Country,
		},
		Awards: []tba.Award{},
	}

	status, err := r.src.TeamEventStatus(ctx, teamKey, event.Key)
	if err != nil {
		logger.Warn("Failed to fetch team event status for storyboard",
			zap.String("team", teamKey),
			zap.String("event", event.Key),
			zap.Error(err))
		achievement.Error = "event data unavailable"
		return achievement
	}

	if status != nil {
		achievement.OverallStatusHtml = status.OverallStatusStr
		achievement.AllianceStatusHtml = status.AllianceStatusStr
	}

	if rankings, err := r.src.EventRankings(ctx, event.Key); err != nil {
		logger.Warn("No rankings for storyboard event",
			zap.String("event", event.Key),
			zap.Error(err))
	} else {
		for _, entry := range rankings.Rankings {
			if entry.TeamKey != teamKey {
				continue
			}
			record := tba.WLTRecord{}
			if entry.Record != nil {
				record = record.Add(*entry.Record)
			}
			if status != nil && status.Playoff != nil && status.Playoff.Record != nil {
				record = record.Add(*status.Playoff.Record)
			}
			achievement.Performance = &models.AchievementPerformance{
				Rank:       entry.Rank,
				TotalTeams: len(rankings.Rankings),
				Record:     record.String(),
			}
			break
		}
	}

	if awards, err := r.src.TeamEventAwards(ctx, teamKey, event.Key); err != nil {
		logger.Warn("No awards for storyboard event",
			zap.String("team", teamKey),
			zap.String("event", event.Key),
			zap.Error(err))
	} else {
		achievement.Awards = awards
	}

	return achievement
}
