package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/courtwatch/stattracker/internal/models"
)

// FantasySyncer runs one fantasy league pull.
type FantasySyncer interface {
	Sync(ctx context.Context) models.SyncResult
}

// ReportBuilder produces the daily merged report for a date.
type ReportBuilder interface {
	DailyReport(date string) (models.DailyReport, error)
}

// SchedulerService runs the recurring background jobs: the fantasy league
// sync and the daily merged report.
type SchedulerService struct {
	syncer         FantasySyncer
	reporter       ReportBuilder
	logger         *logrus.Logger
	cron           *cron.Cron
	syncSchedule   string
	reportSchedule string
	mu             sync.Mutex
	isRunning      bool
}

func NewSchedulerService(syncer FantasySyncer, reporter ReportBuilder, syncSchedule, reportSchedule string, logger *logrus.Logger) *SchedulerService {
	return &SchedulerService{
		syncer:         syncer,
		reporter:       reporter,
		logger:         logger,
		cron:           cron.New(),
		syncSchedule:   syncSchedule,
		reportSchedule: reportSchedule,
	}
}

// Start registers and launches the cron jobs. A nil syncer (no fantasy
// credentials) skips the fantasy jobs entirely.
func (s *SchedulerService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if s.syncer == nil {
		s.logger.Info("Fantasy credentials not configured, background jobs disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.syncSchedule, s.runFantasySync); err != nil {
		return fmt.Errorf("failed to schedule fantasy sync: %w", err)
	}

	if s.reporter != nil {
		if _, err := s.cron.AddFunc(s.reportSchedule, s.runDailyReport); err != nil {
			return fmt.Errorf("failed to schedule daily report: %w", err)
		}
	}

	s.cron.Start()
	s.isRunning = true

	// Warm the in-memory snapshot so the fantasy endpoints work right away.
	go s.runFantasySync()

	s.logger.Info("Background scheduler started")
	return nil
}

// Stop halts the cron jobs and waits for any in-flight run to finish.
func (s *SchedulerService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Background scheduler stopped")
}

func (s *SchedulerService) runFantasySync() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s.logger.Info("Starting scheduled fantasy sync")
	result := s.syncer.Sync(ctx)
	if result.Status == "failed" {
		s.logger.Errorf("Scheduled fantasy sync failed: %v", result.Errors)
		return
	}
	s.logger.Infof("Scheduled fantasy sync finished with status %s", result.Status)
}

func (s *SchedulerService) runDailyReport() {
	s.logger.Info("Building scheduled daily report")
	report, err := s.reporter.DailyReport("")
	if err != nil {
		s.logger.Errorf("Scheduled daily report failed: %v", err)
		return
	}
	s.logger.Infof("Daily report for %s: %d top performers, %d injured",
		report.Date, len(report.TopPerformers), len(report.InjuredPlayers))
}
