package delivery

import (
	"context"

	"remindbot-api/internal/events"
	"remindbot-api/internal/reminder"

	"go.uber.org/zap"
)

// EventBusSink publishes each notification as an events.ReminderNotification
// instead of delivering it directly, letting any number of downstream
// subscribers (chat delivery, metrics, audit logging) react independently.
type EventBusSink struct {
	bus    events.EventBus
	logger *zap.Logger
}

// NewEventBusSink creates an EventBusSink over an existing bus.
func NewEventBusSink(bus events.EventBus, logger *zap.Logger) *EventBusSink {
	return &EventBusSink{bus: bus, logger: logger}
}

func (s *EventBusSink) SendReminderNotification(_ context.Context, r reminder.Reminder, msg reminder.MessageType) error {
	notif := events.ReminderNotification{
		Event:       events.NewEvent(),
		ReminderID:  int64(r.ID),
		UserID:      string(r.UserID),
		MessageType: string(msg),
		Text:        r.Text,
	}

	if err := s.bus.Publish(events.TopicReminderNotification, notif); err != nil {
		s.logger.Error("failed to publish reminder notification",
			zap.Int64("reminder_id", notif.ReminderID),
			zap.String("message_type", notif.MessageType),
			zap.Error(err))
		return NewSendError("eventbus", err)
	}

	s.logger.Debug("published reminder notification",
		zap.Int64("reminder_id", notif.ReminderID),
		zap.String("message_type", notif.MessageType))
	return nil
}
