package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/config"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/internal/tba"
	"github.com/mattspradley/FRC-Event-to-Championship-Journey/pkg/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const warmTimeout = 5 * time.Minute

// Scheduler periodically re-warms the current season's event list so
// dashboard requests land on a fresh cache instead of spending rate budget.
type Scheduler struct {
	cron      *cron.Cron
	config    *config.Config
	client    *tba.Client
	isRunning bool
	mu        sync.RWMutex
	entryID   cron.EntryID
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, client *tba.Client) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		config: cfg,
		client: client,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.config.Scheduler.Enabled {
		logger.Info("Cache warm scheduler is disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.config.Scheduler.CronExpression, func() {
		logger.Info("Starting scheduled cache warm")
		s.runWarmJob()
	})
	if err != nil {
		return err
	}

	s.entryID = entryID
	s.cron.Start()

	logger.Info("Cache warm scheduler started",
		zap.String("schedule", s.config.Scheduler.CronExpression))

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		s.cron.Stop()
		logger.Info("Cache warm scheduler stopped")
	}
}

// UpdateSchedule replaces the cron schedule in place.
func (s *Scheduler) UpdateSchedule(cronExpr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
	}

	entryID, err := s.cron.AddFunc(cronExpr, func() {
		logger.Info("Starting scheduled cache warm")
		s.runWarmJob()
	})
	if err != nil {
		return err
	}

	s.entryID = entryID
	logger.Info("Cache warm schedule updated", zap.String("new_schedule", cronExpr))

	return nil
}

// RunNow triggers a cache warm outside the schedule
func (s *Scheduler) RunNow() {
	s.runWarmJob()
}

// IsRunning returns whether a warm job is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the next scheduled run time
func (s *Scheduler) GetNextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.entryID == 0 {
		return nil
	}

	entry := s.cron.Entry(s.entryID)
	nextRun := entry.Next
	return &nextRun
}

// runWarmJob fetches the current season's event list through the client so
// the response lands in the cache.
func (s *Scheduler) runWarmJob() {
	s.mu.Lock()
	if s.isRunning {
		logger.Warn("Cache warm already running, skipping this execution")
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
	defer cancel()

	year := time.Now().Year()
	events, err := s.client.EventsByYear(ctx, year)
	if err != nil {
		logger.Error("Cache warm failed", zap.Int("year", year), zap.Error(err))
		return
	}

	logger.Info("Cache warm completed",
		zap.Int("year", year),
		zap.Int("events", len(events)))
}
