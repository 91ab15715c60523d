package delivery

import (
	"context"
	"errors"
	"testing"

	"remindbot-api/internal/reminder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type flakySink struct {
	failures int
	sent     int
}

func (f *flakySink) SendReminderNotification(_ context.Context, _ reminder.Reminder, _ reminder.MessageType) error {
	if f.failures > 0 {
		f.failures--
		return SendError{Sink: "flaky", Cause: errors.New("transient")}
	}
	f.sent++
	return nil
}

func TestRetryingSink_RetriesTemporaryErrors(t *testing.T) {
	inner := &flakySink{failures: 2}
	sink := NewRetryingSink(inner, zaptest.NewLogger(t), 5)

	err := sink.SendReminderNotification(context.Background(), reminder.Reminder{ID: 1, UserID: "u1"}, reminder.MessageFired)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.sent)
}

type permanentFailSink struct{}

func (permanentFailSink) SendReminderNotification(_ context.Context, _ reminder.Reminder, _ reminder.MessageType) error {
	return errors.New("not classified as delivery error, treated as permanent")
}

func TestRetryingSink_StopsOnNonTemporaryError(t *testing.T) {
	sink := NewRetryingSink(permanentFailSink{}, zaptest.NewLogger(t), 5)

	err := sink.SendReminderNotification(context.Background(), reminder.Reminder{ID: 1, UserID: "u1"}, reminder.MessageFired)
	require.Error(t, err)
}
