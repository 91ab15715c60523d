// Package reminder holds the data model consumed and produced by the
// scheduler: the reminder record itself, its state-machine vocabulary
// (phases, events, notification types), and the time-of-day arithmetic
// the delay calculator is built on.
package reminder

import (
	"fmt"
	"time"

	"remindbot-api/internal/common"
)

// ID is the reminder's stable integer identity, unique within the process.
type ID int64

// TimeOfDay is a UTC wall-clock time at second precision: 0 ≤ Hour < 24,
// 0 ≤ Minute < 60, 0 ≤ Second < 60. Nanoseconds are always truncated to 0.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// NewTimeOfDay validates and constructs a TimeOfDay.
func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	t := TimeOfDay{Hour: hour, Minute: minute, Second: second}
	if err := t.Validate(); err != nil {
		return TimeOfDay{}, err
	}
	return t, nil
}

// TimeOfDayFromTime truncates t to its UTC time-of-day at second precision.
func TimeOfDayFromTime(t time.Time) TimeOfDay {
	u := t.UTC()
	return TimeOfDay{Hour: u.Hour(), Minute: u.Minute(), Second: u.Second()}
}

// Validate checks the invariant 0≤h<24 ∧ 0≤m<60 ∧ 0≤s<60.
func (t TimeOfDay) Validate() error {
	if t.Hour < 0 || t.Hour >= 24 {
		return NewValidationError("hour", t.Hour, "must be in [0, 24)")
	}
	if t.Minute < 0 || t.Minute >= 60 {
		return NewValidationError("minute", t.Minute, "must be in [0, 60)")
	}
	if t.Second < 0 || t.Second >= 60 {
		return NewValidationError("second", t.Second, "must be in [0, 60)")
	}
	return nil
}

// String renders the time-of-day as "HH:MM:SS".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// ParseTimeOfDay parses the "HH:MM:SS" format produced by String.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%02d:%02d:%02d", &h, &m, &sec); err != nil {
		return TimeOfDay{}, NewValidationError("time_of_day", s, "must be formatted as HH:MM:SS")
	}
	return NewTimeOfDay(h, m, sec)
}

// OnDate returns the UTC instant obtained by combining date's year/month/day
// with this time-of-day.
func (t TimeOfDay) OnDate(date time.Time) time.Time {
	d := date.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour, t.Minute, t.Second, 0, time.UTC)
}

// userIDFromString wraps a stored string as a common.UserID without
// re-validating it; the store trusts its own column.
func userIDFromString(s string) common.UserID {
	return common.UserID(common.ID(s))
}

// Reminder is the opaque identity carrier the scheduler runs on. State is
// not part of the record: it lives exclusively inside the runner while the
// reminder is scheduled.
type Reminder struct {
	ID     ID
	FireAt TimeOfDay
	Text   string
	UserID common.UserID
}

// Validate checks the invariants a Reminder must satisfy before scheduling.
func (r Reminder) Validate() error {
	if r.ID == 0 {
		return NewValidationError("id", r.ID, "must be non-zero")
	}
	return r.FireAt.Validate()
}

// Phase is the tag of the ReminderState sum type.
type Phase string

const (
	PhasePending    Phase = "pending"
	PhaseScheduled  Phase = "scheduled"
	PhaseNagging    Phase = "nagging"
	PhaseConfirming Phase = "confirming"
)

// State is the authoritative reminder state, held by the runner.
// AttemptsLeft is meaningful only in PhaseNagging/PhaseConfirming.
type State struct {
	Phase        Phase
	AttemptsLeft int
}

// Pending is the zero/initial state of every runner.
func Pending() State { return State{Phase: PhasePending} }

// Event is the runner's input vocabulary.
type Event string

const (
	EventSchedule    Event = "schedule"
	EventTrigger     Event = "trigger"
	EventAcknowledge Event = "acknowledge"
	EventConfirm     Event = "confirm"
	EventStop        Event = "stop"
)

// MessageType is the runner's output vocabulary, delivered to the sink on
// every state transition.
type MessageType string

const (
	MessageScheduled    MessageType = "scheduled"
	MessageFired        MessageType = "fired"
	MessageNag          MessageType = "nag"
	MessageAcknowledge  MessageType = "acknowledge"
	MessageConfirmation MessageType = "confirmation"
	MessageTimeout      MessageType = "timeout"
	MessageFinished     MessageType = "finished"
	MessageStopped      MessageType = "stopped"
)
