package events

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// EventFlowValidator exercises the bus end-to-end for integration tests: it
// publishes a notification and waits for whatever handler is expected to
// observe it.
type EventFlowValidator struct {
	eventBus EventBus
	logger   *zap.Logger
	timeout  time.Duration
}

// NewEventFlowValidator creates a new EventFlowValidator instance.
func NewEventFlowValidator(eventBus EventBus, logger *zap.Logger) *EventFlowValidator {
	return &EventFlowValidator{
		eventBus: eventBus,
		logger:   logger,
		timeout:  30 * time.Second,
	}
}

// ValidateReminderNotificationFlow publishes a ReminderNotification and
// confirms a subscriber observes it, exercising the same path the delivery
// sink relies on in production.
func (v *EventFlowValidator) ValidateReminderNotificationFlow(reminderID int64, userID, messageType string) error {
	v.logger.Info("validating reminder notification flow",
		zap.Int64("reminder_id", reminderID),
		zap.String("user_id", userID))

	notif := ReminderNotification{
		Event:       NewEvent(),
		ReminderID:  reminderID,
		UserID:      userID,
		MessageType: messageType,
	}

	received := make(chan ReminderNotification, 1)
	err := v.eventBus.Subscribe(TopicReminderNotification, func(event ReminderNotification) {
		if event.ReminderID == reminderID {
			received <- event
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to reminder notifications: %w", err)
	}

	if err := v.eventBus.Publish(TopicReminderNotification, notif); err != nil {
		return fmt.Errorf("failed to publish reminder notification: %w", err)
	}

	select {
	case <-received:
		v.logger.Info("reminder notification flow validation successful")
		return nil
	case <-time.After(v.timeout):
		return fmt.Errorf("timeout waiting for reminder notification")
	}
}
