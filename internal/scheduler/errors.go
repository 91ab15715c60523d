package scheduler

import "fmt"

// SchedulerError defines the interface for registry-specific errors.
type SchedulerError interface {
	error
	Code() string
	Message() string
	Temporary() bool
}

type schedulerError struct {
	code      string
	message   string
	temporary bool
}

func (e *schedulerError) Error() string {
	return fmt.Sprintf("scheduler error [%s]: %s", e.code, e.message)
}

func (e *schedulerError) Code() string    { return e.code }
func (e *schedulerError) Message() string { return e.message }
func (e *schedulerError) Temporary() bool { return e.temporary }

const (
	ErrAlreadyScheduled = "already_scheduled"
	ErrNoSuchReminder   = "no_such_reminder"
	ErrShutdownTimeout  = "shutdown_timeout"
)

// AlreadyScheduledError is returned by ScheduleReminder when the given
// reminder ID already has a live runner.
type AlreadyScheduledError struct {
	schedulerError
	ReminderID int64
}

// NoSuchReminderError is returned by CancelReminder when the given reminder
// ID has no live runner. Acknowledge/Confirm never return this: an absent
// runner for those operations is a silent no-op, since a stale button press
// arriving after the runner already finished is not an error condition.
type NoSuchReminderError struct {
	schedulerError
	ReminderID int64
}

// ShutdownTimeoutError is returned by Close when runners do not drain
// within the configured grace period.
type ShutdownTimeoutError struct {
	schedulerError
	TimeoutSeconds int
}

func NewAlreadyScheduledError(reminderID int64) error {
	return &AlreadyScheduledError{
		schedulerError: schedulerError{
			code:      ErrAlreadyScheduled,
			message:   fmt.Sprintf("reminder %d is already scheduled", reminderID),
			temporary: false,
		},
		ReminderID: reminderID,
	}
}

func NewNoSuchReminderError(reminderID int64) error {
	return &NoSuchReminderError{
		schedulerError: schedulerError{
			code:      ErrNoSuchReminder,
			message:   fmt.Sprintf("no scheduled reminder with id %d", reminderID),
			temporary: false,
		},
		ReminderID: reminderID,
	}
}

func NewShutdownTimeoutError(timeoutSeconds int) error {
	return &ShutdownTimeoutError{
		schedulerError: schedulerError{
			code:      ErrShutdownTimeout,
			message:   fmt.Sprintf("runners did not drain within %ds", timeoutSeconds),
			temporary: true,
		},
		TimeoutSeconds: timeoutSeconds,
	}
}

// IsAlreadyScheduledError reports whether err is an AlreadyScheduledError.
func IsAlreadyScheduledError(err error) bool {
	_, ok := err.(*AlreadyScheduledError)
	return ok
}

// IsNoSuchReminderError reports whether err is a NoSuchReminderError.
func IsNoSuchReminderError(err error) bool {
	_, ok := err.(*NoSuchReminderError)
	return ok
}

// IsTemporaryError reports whether err, if it is a SchedulerError, is
// marked temporary.
func IsTemporaryError(err error) bool {
	if schedErr, ok := err.(SchedulerError); ok {
		return schedErr.Temporary()
	}
	return false
}
