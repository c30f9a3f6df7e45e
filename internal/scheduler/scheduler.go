package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"real-estate-catalog/internal/cleanup"
	"real-estate-catalog/internal/config"
)

// Job names accepted by RunNow
const (
	JobOrphanCleanup = "orphan_cleanup"
	JobReindex       = "reindex"
)

// OrphanCleaner detaches contacts from deleted properties
type OrphanCleaner interface {
	CleanupOrphanedContacts(ctx context.Context, dryRun bool) (*cleanup.CleanupResult, error)
}

// Reindexer rebuilds the search index
type Reindexer interface {
	Reindex(ctx context.Context) (int, error)
}

// Scheduler runs periodic maintenance jobs
type Scheduler struct {
	cron      *cron.Cron
	cleaner   OrphanCleaner
	reindexer Reindexer
	config    config.SchedulerConfig
	logger    *slog.Logger

	mu        sync.Mutex
	isRunning bool
	running   map[string]bool
}

// NewScheduler creates a new scheduler. reindexer may be nil when search is disabled.
func NewScheduler(cfg config.SchedulerConfig, cleaner OrphanCleaner, reindexer Reindexer, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		cleaner:   cleaner,
		reindexer: reindexer,
		config:    cfg,
		logger:    logger.With("component", "scheduler"),
		running:   make(map[string]bool),
	}
}

// Start registers the configured jobs and starts the cron loop
func (s *Scheduler) Start() error {
	if !s.config.Enabled {
		s.logger.Info("scheduler disabled in configuration")
		return nil
	}

	if s.config.OrphanCleanupCron != "" {
		if _, err := s.cron.AddFunc(s.config.OrphanCleanupCron, s.job(JobOrphanCleanup)); err != nil {
			return fmt.Errorf("invalid orphan_cleanup_cron %q: %w", s.config.OrphanCleanupCron, err)
		}
	}
	if s.reindexer != nil && s.config.ReindexCron != "" {
		if _, err := s.cron.AddFunc(s.config.ReindexCron, s.job(JobReindex)); err != nil {
			return fmt.Errorf("invalid reindex_cron %q: %w", s.config.ReindexCron, err)
		}
	}

	s.cron.Start()
	s.mu.Lock()
	s.isRunning = true
	s.mu.Unlock()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	s.mu.Lock()
	wasRunning := s.isRunning
	s.isRunning = false
	s.mu.Unlock()

	if wasRunning {
		<-s.cron.Stop().Done()
		s.logger.Info("scheduler stopped")
	}
}

func (s *Scheduler) job(name string) func() {
	return func() {
		if err := s.RunNow(context.Background(), name); err != nil {
			s.logger.Error("scheduled job failed", "job", name, "error", err)
		}
	}
}

// RunNow executes a job immediately. A job already in progress is not started twice.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	if s.running[name] {
		s.mu.Unlock()
		s.logger.Warn("job already running, skipping", "job", name)
		return nil
	}
	s.running[name] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.running, name)
		s.mu.Unlock()
	}()

	switch name {
	case JobOrphanCleanup:
		result, err := s.cleaner.CleanupOrphanedContacts(ctx, false)
		if err != nil {
			return err
		}
		s.logger.Info("orphan cleanup finished", "updated", result.UpdatedCount)
	case JobReindex:
		if s.reindexer == nil {
			return fmt.Errorf("reindex job unavailable: search is disabled")
		}
		n, err := s.reindexer.Reindex(ctx)
		if err != nil {
			return err
		}
		s.logger.Info("reindex finished", "indexed", n)
	default:
		return fmt.Errorf("unknown job %q", name)
	}
	return nil
}
