// Package delivery implements the "Notification Sink" boundary from spec
// §6: the scheduler runner produces a reminder.MessageType on every state
// transition, and a Sink is responsible for getting it in front of the
// user however the deployment wants that done.
package delivery

import (
	"context"

	"remindbot-api/internal/reminder"
)

// Sink delivers a single reminder notification to its user. Implementations
// must be safe for concurrent use: the scheduler calls Sink from every
// runner goroutine.
type Sink interface {
	SendReminderNotification(ctx context.Context, r reminder.Reminder, msg reminder.MessageType) error
}
