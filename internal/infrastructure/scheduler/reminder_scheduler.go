package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/estatecrm/backend/internal/domain/crm"
	"github.com/estatecrm/backend/internal/domain/notification"
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/estatecrm/backend/internal/domain/task"
)

// OverdueTaskSource provides the open tasks whose due date has passed and
// persists the status change once they are flagged.
type OverdueTaskSource interface {
	FindOverdue(ctx context.Context, before time.Time, filter shared.Filter) ([]task.Task, error)
	SaveWithLock(ctx context.Context, t *task.Task) error
}

// FollowUpSource provides the open leads whose scheduled follow-up falls
// inside a sweep window.
type FollowUpSource interface {
	FindWithFollowUpDue(ctx context.Context, from, to time.Time, limit int) ([]crm.Lead, error)
}

// Notifier delivers reminder notifications best-effort.
type Notifier interface {
	Dispatch(ctx context.Context, notifications ...*notification.Notification)
}

// DedupeStore suppresses repeat reminders for the same key. Optional; with
// a nil store every sweep that sees an item reminds again.
type DedupeStore interface {
	MarkDone(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// ReminderSchedulerConfig holds configuration for the reminder sweep
type ReminderSchedulerConfig struct {
	// SweepInterval is how often the scheduler scans for due work
	SweepInterval time.Duration

	// BatchSize caps how many items a single sweep processes per query
	BatchSize int

	// DedupeTTL is how long a sent reminder suppresses repeats
	DedupeTTL time.Duration
}

// DefaultReminderSchedulerConfig returns default reminder scheduler configuration
func DefaultReminderSchedulerConfig() ReminderSchedulerConfig {
	return ReminderSchedulerConfig{
		SweepInterval: time.Minute,
		BatchSize:     200,
		DedupeTTL:     24 * time.Hour,
	}
}

// ReminderScheduler periodically flags tasks whose due date has passed and
// notifies assignees about due lead follow-ups. Both sweeps are best-effort:
// a failed item is logged and retried on the next tick.
type ReminderScheduler struct {
	config    ReminderSchedulerConfig
	tasks     OverdueTaskSource
	followUps FollowUpSource
	notifier  Notifier
	dedupe    DedupeStore
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	lastSweep time.Time
}

// NewReminderScheduler creates a new reminder scheduler. dedupe may be nil.
func NewReminderScheduler(
	config ReminderSchedulerConfig,
	tasks OverdueTaskSource,
	followUps FollowUpSource,
	notifier Notifier,
	dedupe DedupeStore,
	logger *zap.Logger,
) *ReminderScheduler {
	if config.SweepInterval <= 0 {
		config.SweepInterval = time.Minute
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 200
	}
	if config.DedupeTTL <= 0 {
		config.DedupeTTL = 24 * time.Hour
	}
	return &ReminderScheduler{
		config:    config,
		tasks:     tasks,
		followUps: followUps,
		notifier:  notifier,
		dedupe:    dedupe,
		logger:    logger,
	}
}

// Start begins the sweep loop. Calling Start on a running scheduler is a
// no-op.
func (s *ReminderScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.lastSweep = time.Now()

	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("reminder scheduler started",
		zap.Duration("sweep_interval", s.config.SweepInterval),
	)
}

// Stop cancels the sweep loop and waits for an in-flight sweep to finish.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()

	s.logger.Info("reminder scheduler stopped")
}

func (s *ReminderScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs both reminder passes once. It is called from the loop on every
// tick and is exported so a deployment can trigger an immediate pass.
func (s *ReminderScheduler) Sweep(ctx context.Context) {
	now := time.Now()

	s.mu.Lock()
	from := s.lastSweep
	s.lastSweep = now
	s.mu.Unlock()

	s.sweepOverdueTasks(ctx, now)
	s.sweepFollowUps(ctx, from, now)
}

// sweepOverdueTasks flags open tasks past their due date and notifies the
// assignee. Tasks already flagged are skipped; marking is what keeps a task
// out of the next sweep, so the save must succeed before any reminder goes
// out.
func (s *ReminderScheduler) sweepOverdueTasks(ctx context.Context, now time.Time) {
	filter := shared.Filter{Page: 1, PageSize: s.config.BatchSize, OrderBy: "due_at", OrderDir: "asc"}
	overdue, err := s.tasks.FindOverdue(ctx, now, filter)
	if err != nil {
		s.logger.Error("overdue task sweep failed", zap.Error(err))
		return
	}

	for i := range overdue {
		t := &overdue[i]
		if t.Status == task.TaskStatusOverdue {
			continue
		}
		if err := t.MarkOverdue(); err != nil {
			continue
		}
		if err := s.tasks.SaveWithLock(ctx, t); err != nil {
			s.logger.Warn("failed to flag overdue task",
				zap.String("task_id", t.ID.String()),
				zap.Error(err),
			)
			continue
		}

		if t.AssigneeID == nil {
			continue
		}
		if !s.markDone(ctx, "task_overdue:"+t.ID.String()) {
			continue
		}

		n, err := notification.NewNotification(
			*t.AssigneeID,
			notification.TypeTaskOverdue,
			"Task overdue",
			fmt.Sprintf("Task %q is past its due date", t.Title),
		)
		if err != nil {
			continue
		}
		s.notifier.Dispatch(ctx, n.About("task", t.ID))
	}
}

// sweepFollowUps notifies assignees about leads whose next follow-up came
// due inside the window (from, now]. The window bounds keep a reminder from
// repeating on every tick without touching the lead row.
func (s *ReminderScheduler) sweepFollowUps(ctx context.Context, from, now time.Time) {
	leads, err := s.followUps.FindWithFollowUpDue(ctx, from, now, s.config.BatchSize)
	if err != nil {
		s.logger.Error("follow-up sweep failed", zap.Error(err))
		return
	}

	for i := range leads {
		lead := &leads[i]
		if lead.AssigneeID == nil || lead.NextFollowUpAt == nil {
			continue
		}

		key := fmt.Sprintf("follow_up:%s:%d", lead.ID, lead.NextFollowUpAt.Unix())
		if !s.markDone(ctx, key) {
			continue
		}

		n, err := notification.NewNotification(
			*lead.AssigneeID,
			notification.TypeFollowUpDue,
			"Follow-up due",
			fmt.Sprintf("Lead %q is due for a follow-up", lead.Name),
		)
		if err != nil {
			continue
		}
		s.notifier.Dispatch(ctx, n.About("lead", lead.ID))
	}
}

// markDone reports whether the reminder keyed by key should be sent. A
// dedupe failure counts as sendable: a duplicate reminder beats a silently
// dropped one.
func (s *ReminderScheduler) markDone(ctx context.Context, key string) bool {
	if s.dedupe == nil {
		return true
	}
	fresh, err := s.dedupe.MarkDone(ctx, key, s.config.DedupeTTL)
	if err != nil {
		s.logger.Warn("reminder dedupe check failed", zap.String("key", key), zap.Error(err))
		return true
	}
	return fresh
}
