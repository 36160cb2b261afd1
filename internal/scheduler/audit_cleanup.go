package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/account-manager/internal/config"
	"github.com/mrlokans/account-manager/internal/tasks"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// AuditCleanupScheduler periodically purges old audit events. With a task
// client the work is enqueued on the cleanup_audit_events queue; without one
// it runs inline on the cron goroutine.
type AuditCleanupScheduler struct {
	schedule      string
	retentionDays int
	taskClient    *tasks.Client
	cleaner       tasks.AuditEventCleaner

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// NewAuditCleanupScheduler creates a new scheduler instance. taskClient may
// be nil.
func NewAuditCleanupScheduler(cfg config.Audit, taskClient *tasks.Client, cleaner tasks.AuditEventCleaner) *AuditCleanupScheduler {
	return &AuditCleanupScheduler{
		schedule:      cfg.CleanupSchedule,
		retentionDays: cfg.RetentionDays,
		taskClient:    taskClient,
		cleaner:       cleaner,
		cron:          cron.New(cron.WithParser(cronParser)),
	}
}

// Start registers the cleanup job. An empty schedule disables it.
func (s *AuditCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" {
		log.Printf("Audit cleanup scheduler: disabled")
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	s.ctx, s.cancelFunc = context.WithCancel(ctx)
	runCtx := s.ctx

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.run(runCtx)
	})
	if err != nil {
		s.cancelFunc()
		return fmt.Errorf("failed to schedule audit cleanup: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	log.Printf("Audit cleanup scheduler: started with schedule '%s', retention %d days. Next run: %v",
		s.schedule, s.retentionDays, s.cron.Entry(entryID).Next)

	go func() {
		<-runCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job to complete.
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	stopped := s.cron.Stop()
	<-stopped.Done()

	s.cron.Remove(s.entryID)
	s.isRunning = false
	s.cancelFunc()
	s.cancelFunc = nil

	log.Printf("Audit cleanup scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *AuditCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next cleanup will occur.
func (s *AuditCleanupScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

// RunNow performs one cleanup immediately.
func (s *AuditCleanupScheduler) RunNow(ctx context.Context) error {
	return s.trigger(ctx)
}

func (s *AuditCleanupScheduler) run(ctx context.Context) {
	if err := s.trigger(ctx); err != nil {
		log.Printf("Audit cleanup: %v", err)
	}
}

func (s *AuditCleanupScheduler) trigger(ctx context.Context) error {
	task := tasks.CleanupAuditEventsTask{RetentionDays: s.retentionDays}

	if s.taskClient == nil {
		return tasks.CleanupAuditEvents(ctx, s.cleaner, task)
	}

	id, err := s.taskClient.EnqueueAuditCleanup(task.RetentionDays)
	if err != nil {
		return err
	}
	log.Printf("Audit cleanup: enqueued task %s", id)
	return nil
}
