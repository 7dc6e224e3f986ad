package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yourusername/owl-tennis/internal/service"
)

// Rebuilder runs a full ratings rebuild over the stored match history.
type Rebuilder interface {
	Rebuild(ctx context.Context) error
}

// Scheduler manages the recurring data sync and ratings rebuild jobs
type Scheduler struct {
	cron            *cron.Cron
	syncSvc         *service.SyncService
	rebuilder       Rebuilder
	logger          *log.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(syncSvc *service.SyncService, rebuilder Rebuilder, logger *log.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		syncSvc:         syncSvc,
		rebuilder:       rebuilder,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleSync schedules the incremental fixture and odds sync. Each run
// covers the trailing lookbackDays so a failed night self-heals on the next.
func (s *Scheduler) ScheduleSync(cronExpression string, lookbackDays int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if lookbackDays <= 0 {
		lookbackDays = 3
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
		defer cancel()

		endDate := time.Now().UTC()
		startDate := endDate.AddDate(0, 0, -lookbackDays)

		s.logger.Printf("Starting scheduled sync for %s to %s",
			startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

		stats, err := s.syncSvc.Sync(ctx, startDate, endDate)
		if err != nil {
			s.logger.Printf("Error during scheduled sync: %v", err)
			return
		}
		s.logger.Printf("Scheduled sync completed: %d fixtures, %d odds, %d validation errors",
			stats.FixturesStored, stats.OddsStored, stats.ValidationErrors)
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add sync job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Printf("Scheduled sync job with cron expression: %s", cronExpression)
	return nil
}

// ScheduleRebuild schedules the full ratings rebuild. A rebuild replays the
// entire stored history, so it runs far less often than the sync.
func (s *Scheduler) ScheduleRebuild(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Hour)
		defer cancel()

		s.logger.Printf("Starting scheduled ratings rebuild")
		if err := s.rebuilder.Rebuild(ctx); err != nil {
			s.logger.Printf("Error during scheduled rebuild: %v", err)
			return
		}
		s.logger.Printf("Scheduled ratings rebuild completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add rebuild job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Printf("Scheduled rebuild job with cron expression: %s", cronExpression)
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Printf("Scheduler started with %d jobs", len(s.jobIDs))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs up to the
// graceful timeout.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(s.gracefulTimeout):
		s.logger.Printf("Scheduler stop timed out after %v", s.gracefulTimeout)
	}

	s.isRunning = false
	s.logger.Printf("Scheduler stopped")
	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}
	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}
	return entries
}
