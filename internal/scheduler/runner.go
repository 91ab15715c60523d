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

// RunnerConfig parameterizes the per-reminder state machine, pulled from
// config.SchedulerConfig at registry construction time.
type RunnerConfig struct {
	NaggingAttempts      int
	NaggingTimeout       time.Duration
	ConfirmationAttempts int
	ConfirmationTimeout  time.Duration
	MailboxCapacity      int
}

// runner owns one reminder's lifecycle: a goroutine reading its mailbox,
// applying the (phase, event) state transition, emitting a notification
// through the sink, and arming whatever timer the new phase needs.
type runner struct {
	reminder reminder.Reminder
	state    reminder.State
	cfg      RunnerConfig
	sink     delivery.Sink
	clock    common.Clock
	logger   *zap.Logger

	mailbox chan reminder.Event
	done    chan struct{}

	onDeliveryError func()

	wg sync.WaitGroup
}

func newRunner(r reminder.Reminder, cfg RunnerConfig, sink delivery.Sink, clock common.Clock, logger *zap.Logger, onDeliveryError func()) *runner {
	return &runner{
		reminder:        r,
		state:           reminder.Pending(),
		cfg:             cfg,
		sink:            sink,
		clock:           clock,
		logger:          logger.With(zap.Int64("reminder_id", int64(r.ID))),
		mailbox:         make(chan reminder.Event, cfg.MailboxCapacity),
		done:            make(chan struct{}),
		onDeliveryError: onDeliveryError,
	}
}

// start launches the runner's goroutine and immediately queues the initial
// Schedule event.
func (rn *runner) start(ctx context.Context) {
	rn.wg.Add(1)
	go rn.loop(ctx)
	rn.send(reminder.EventSchedule)
}

// send enqueues an event without blocking the caller; a full mailbox drops
// the event, matching the scheduler's best-effort delivery of its own timer
// callbacks.
func (rn *runner) send(event reminder.Event) {
	select {
	case rn.mailbox <- event:
	case <-rn.done:
	default:
		rn.logger.Warn("mailbox full, dropping event", zap.String("event", string(event)))
	}
}

// loop drains the mailbox until an EventStop is processed. Shutdown goes
// through stop(), not ctx cancellation: Close cancels ctx only to interrupt
// in-flight sink deliveries, and still relies on stop() to unwind every
// runner so its final MessageStopped notification is never skipped by a
// race against ctx.Done().
func (rn *runner) loop(ctx context.Context) {
	defer rn.wg.Done()
	defer close(rn.done)

	for event := range rn.mailbox {
		rn.state = rn.transition(ctx, event)
		if event == reminder.EventStop {
			return
		}
	}
}

// stop requests the runner terminate. It is idempotent and safe to call
// more than once.
func (rn *runner) stop() {
	rn.send(reminder.EventStop)
}

// wait blocks until the runner's goroutine has exited.
func (rn *runner) wait() {
	rn.wg.Wait()
}

func (rn *runner) deliver(ctx context.Context, msg reminder.MessageType) {
	if err := rn.sink.SendReminderNotification(ctx, rn.reminder, msg); err != nil {
		rn.logger.Warn("failed to deliver reminder notification",
			zap.String("message_type", string(msg)),
			zap.Error(err))
		if rn.onDeliveryError != nil {
			rn.onDeliveryError()
		}
	}
}

// armTimer starts a detached goroutine that sleeps for d then best-effort
// delivers a Trigger event. It does not hold any runner lock: by the time it
// fires, the runner may already have moved past the phase that armed it. A
// stale Trigger that reaches Pending is absorbed by transition's default
// case; a stale nagging Trigger that reaches Confirming is handled as a
// Confirming Trigger and sends a Confirmation before ConfirmationTimeout.
func (rn *runner) armTimer(d time.Duration, event reminder.Event) {
	go func() {
		select {
		case <-rn.clock.After(d):
			rn.send(event)
		case <-rn.done:
		}
	}()
}

// transition applies the (phase, event) pair and returns the resulting
// state. Unknown combinations are a no-op save for a warning log, mirroring
// a stale timer firing after the runner already moved on.
func (rn *runner) transition(ctx context.Context, event reminder.Event) reminder.State {
	phase := rn.state.Phase

	switch {
	case phase == reminder.PhasePending && event == reminder.EventSchedule:
		delay := DelayUntilNext(rn.reminder.FireAt, rn.clock.Now())
		rn.deliver(ctx, reminder.MessageScheduled)
		rn.armTimer(delay, reminder.EventTrigger)
		return reminder.State{Phase: reminder.PhaseScheduled}

	case phase == reminder.PhaseScheduled && event == reminder.EventTrigger:
		rn.deliver(ctx, reminder.MessageFired)
		rn.armTimer(rn.cfg.NaggingTimeout, reminder.EventTrigger)
		return reminder.State{Phase: reminder.PhaseNagging, AttemptsLeft: rn.cfg.NaggingAttempts}

	case phase == reminder.PhaseNagging && event == reminder.EventTrigger:
		if rn.state.AttemptsLeft == 0 {
			rn.deliver(ctx, reminder.MessageTimeout)
			return reminder.Pending()
		}
		rn.deliver(ctx, reminder.MessageNag)
		rn.armTimer(rn.cfg.NaggingTimeout, reminder.EventTrigger)
		return reminder.State{Phase: reminder.PhaseNagging, AttemptsLeft: rn.state.AttemptsLeft - 1}

	case phase == reminder.PhaseNagging && event == reminder.EventAcknowledge:
		rn.deliver(ctx, reminder.MessageAcknowledge)
		rn.armTimer(rn.cfg.ConfirmationTimeout, reminder.EventTrigger)
		return reminder.State{Phase: reminder.PhaseConfirming, AttemptsLeft: rn.cfg.ConfirmationAttempts}

	case phase == reminder.PhaseConfirming && event == reminder.EventTrigger:
		if rn.state.AttemptsLeft == 0 {
			rn.deliver(ctx, reminder.MessageTimeout)
			return reminder.Pending()
		}
		rn.deliver(ctx, reminder.MessageConfirmation)
		rn.armTimer(rn.cfg.ConfirmationTimeout, reminder.EventTrigger)
		return reminder.State{Phase: reminder.PhaseConfirming, AttemptsLeft: rn.state.AttemptsLeft - 1}

	case phase == reminder.PhaseConfirming && event == reminder.EventConfirm:
		rn.deliver(ctx, reminder.MessageFinished)
		return reminder.Pending()

	case event == reminder.EventStop:
		rn.deliver(ctx, reminder.MessageStopped)
		return reminder.Pending()

	default:
		rn.logger.Warn("unknown state/event combination, ignoring",
			zap.String("phase", string(phase)),
			zap.String("event", string(event)))
		return rn.state
	}
}
