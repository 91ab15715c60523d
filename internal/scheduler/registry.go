// Package scheduler implements the per-reminder state machine (runner),
// its delay arithmetic, and the registry that tracks one runner per live
// reminder. The registry never persists anything itself: callers are
// expected to pair it with a reminder.Store for durability across restarts.
package scheduler

import (
	"context"
	"sync"
	"time"

	"remindbot-api/internal/common"
	"remindbot-api/internal/delivery"
	"remindbot-api/internal/reminder"

	"go.uber.org/zap"
)

// Config carries the registry's tunables, sourced from config.SchedulerConfig.
type Config struct {
	NaggingAttempts            int
	NaggingTimeoutSeconds      int
	ConfirmationAttempts       int
	ConfirmationTimeoutSeconds int
	MailboxCapacity            int
	ReclaimIntervalSeconds     int
	ShutdownGraceSeconds       int
}

func (c Config) runnerConfig() RunnerConfig {
	return RunnerConfig{
		NaggingAttempts:      c.NaggingAttempts,
		NaggingTimeout:       time.Duration(c.NaggingTimeoutSeconds) * time.Second,
		ConfirmationAttempts: c.ConfirmationAttempts,
		ConfirmationTimeout:  time.Duration(c.ConfirmationTimeoutSeconds) * time.Second,
		MailboxCapacity:      c.MailboxCapacity,
	}
}

// Registry is the scheduler's top-level handle: one goroutine (runner) per
// live reminder, reachable by ID under a single RWMutex. It holds no
// persisted state of its own; reminder.Store is the source of truth that
// Start and the reclaim loop read from.
type Registry struct {
	cfg    Config
	sink   delivery.Sink
	store  reminder.Store
	clock  common.Clock
	logger *zap.Logger

	metrics *RegistryMetrics

	mu      sync.RWMutex
	runners map[reminder.ID]*runner

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRegistry constructs a Registry. Start must be called before any
// reminder is scheduled.
func NewRegistry(cfg Config, store reminder.Store, sink delivery.Sink, clock common.Clock, logger *zap.Logger) *Registry {
	return &Registry{
		cfg:     cfg,
		sink:    sink,
		store:   store,
		clock:   clock,
		logger:  logger,
		metrics: NewRegistryMetrics(),
		runners: make(map[reminder.ID]*runner),
	}
}

// Metrics returns a point-in-time snapshot of registry health.
func (reg *Registry) Metrics() RegistryMetrics {
	return reg.metrics.Snapshot()
}

// Start boots the registry: it replays every reminder reminder.Store
// reports as scheduled, then launches the reclaim loop. Replaying a
// reminder that is already running is a programmer error (boot only runs
// once), so it is logged rather than surfaced.
func (reg *Registry) Start(ctx context.Context) error {
	reg.ctx, reg.cancel = context.WithCancel(ctx)

	scheduled, err := reg.store.ListScheduled(reg.ctx)
	if err != nil {
		return err
	}
	for _, r := range scheduled {
		if err := reg.ScheduleReminder(r); err != nil {
			reg.logger.Warn("failed to replay reminder at startup",
				zap.Int64("reminder_id", int64(r.ID)), zap.Error(err))
		}
	}

	if reg.cfg.ReclaimIntervalSeconds > 0 {
		reg.wg.Add(1)
		go reg.reclaimLoop()
	}

	return nil
}

// reclaimLoop periodically removes entries whose runner goroutine has
// exited, then re-schedules any reminder the store lists that has no entry
// (for example one cancelled while it is still persisted).
func (reg *Registry) reclaimLoop() {
	defer reg.wg.Done()

	interval := time.Duration(reg.cfg.ReclaimIntervalSeconds) * time.Second
	for {
		select {
		case <-reg.ctx.Done():
			return
		case <-reg.clock.After(interval):
			reg.reclaim()
		}
	}
}

func (reg *Registry) reclaim() {
	reg.mu.Lock()
	for id, rn := range reg.runners {
		select {
		case <-rn.done:
			delete(reg.runners, id)
		default:
		}
	}
	reg.mu.Unlock()

	scheduled, err := reg.store.ListScheduled(reg.ctx)
	if err != nil {
		reg.logger.Warn("reclaim: failed to list scheduled reminders", zap.Error(err))
		return
	}

	reclaimed := 0
	for _, r := range scheduled {
		reg.mu.RLock()
		_, live := reg.runners[r.ID]
		reg.mu.RUnlock()
		if live {
			continue
		}
		if err := reg.ScheduleReminder(r); err != nil {
			continue
		}
		reclaimed++
		reg.logger.Info("reclaimed orphaned reminder", zap.Int64("reminder_id", int64(r.ID)))
	}
	if reclaimed > 0 {
		reg.metrics.recordReclaim(reclaimed)
	}
}

// ScheduleReminder starts a runner for r. It fails with
// AlreadyScheduledError if r.ID already has a live runner.
func (reg *Registry) ScheduleReminder(r reminder.Reminder) error {
	if err := r.Validate(); err != nil {
		return err
	}

	reg.mu.Lock()
	if _, exists := reg.runners[r.ID]; exists {
		reg.mu.Unlock()
		return NewAlreadyScheduledError(int64(r.ID))
	}

	rn := newRunner(r, reg.cfg.runnerConfig(), reg.sink, reg.clock, reg.logger, reg.metrics.recordDeliveryError)
	reg.runners[r.ID] = rn
	reg.mu.Unlock()

	rn.start(reg.ctx)
	reg.metrics.recordScheduled()
	return nil
}

// CancelReminder stops r's runner and removes it from the registry. It
// fails with NoSuchReminderError if r has no live runner.
func (reg *Registry) CancelReminder(id reminder.ID) error {
	reg.mu.Lock()
	rn, exists := reg.runners[id]
	if !exists {
		reg.mu.Unlock()
		return NewNoSuchReminderError(int64(id))
	}
	delete(reg.runners, id)
	reg.mu.Unlock()

	rn.stop()
	reg.metrics.recordCancelled()
	return nil
}

// AcknowledgeReminder forwards an Acknowledge event to id's runner. A
// missing runner is a silent no-op: an acknowledgement racing the runner's
// own timeout is expected, not an error.
func (reg *Registry) AcknowledgeReminder(id reminder.ID) {
	reg.forward(id, reminder.EventAcknowledge)
}

// ConfirmReminder forwards a Confirm event to id's runner. Same silent
// no-op semantics as AcknowledgeReminder.
func (reg *Registry) ConfirmReminder(id reminder.ID) {
	reg.forward(id, reminder.EventConfirm)
}

func (reg *Registry) forward(id reminder.ID, event reminder.Event) {
	reg.mu.RLock()
	rn, exists := reg.runners[id]
	reg.mu.RUnlock()
	if !exists {
		return
	}
	rn.send(event)
}

// Close stops every runner and waits for them to drain, up to
// ShutdownGraceSeconds. It returns ShutdownTimeoutError if runners have not
// drained by the deadline.
func (reg *Registry) Close() error {
	if reg.cancel != nil {
		reg.cancel()
	}

	reg.mu.Lock()
	runners := make([]*runner, 0, len(reg.runners))
	for id, rn := range reg.runners {
		runners = append(runners, rn)
		delete(reg.runners, id)
	}
	reg.mu.Unlock()

	for _, rn := range runners {
		rn.stop()
	}

	done := make(chan struct{})
	go func() {
		for _, rn := range runners {
			rn.wait()
		}
		reg.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(time.Duration(reg.cfg.ShutdownGraceSeconds) * time.Second):
		return NewShutdownTimeoutError(reg.cfg.ShutdownGraceSeconds)
	}
}
