package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the envelope every published payload embeds, carrying a
// correlation id for tracing a notification across the bus and the sink.
type Event struct {
	CorrelationID string    `json:"correlation_id" validate:"required"`
	Timestamp     time.Time `json:"timestamp" validate:"required"`
}

// NewEvent creates a base Event with a generated correlation id.
func NewEvent() Event {
	return Event{
		CorrelationID: uuid.New().String(),
		Timestamp:     time.Now(),
	}
}

// ReminderNotification is published by delivery.EventBusSink for each
// notification the scheduler runner sends through it; any subscriber on
// TopicReminderNotification receives it.
type ReminderNotification struct {
	Event
	ReminderID  int64  `json:"reminder_id" validate:"required"`
	UserID      string `json:"user_id" validate:"required"`
	MessageType string `json:"message_type" validate:"required"`
	Text        string `json:"text"`
}

// TopicReminderNotification is the bus topic ReminderNotification events are
// published and subscribed on.
const TopicReminderNotification = "reminder.notification"
