package delivery

import (
	"context"
	"testing"
	"time"

	"remindbot-api/internal/events"
	"remindbot-api/internal/reminder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestEventBusSink_PublishesNotification(t *testing.T) {
	bus := events.NewMockEventBus()
	bus.SetSynchronousMode(true)
	sink := NewEventBusSink(bus, zaptest.NewLogger(t))

	r := reminder.Reminder{ID: 1, Text: "stretch", UserID: "u1"}
	err := sink.SendReminderNotification(context.Background(), r, reminder.MessageFired)
	require.NoError(t, err)

	published := bus.GetPublishedEvents(events.TopicReminderNotification)
	require.Len(t, published, 1)

	notif, ok := published[0].(events.ReminderNotification)
	require.True(t, ok)
	assert.Equal(t, int64(1), notif.ReminderID)
	assert.Equal(t, "u1", notif.UserID)
	assert.Equal(t, string(reminder.MessageFired), notif.MessageType)
}

func TestEventBusSink_ClosedBusReturnsSendError(t *testing.T) {
	logger := zaptest.NewLogger(t)
	bus := events.NewEventBus(logger.Named("bus"))
	require.NoError(t, bus.Close())

	sink := NewEventBusSink(bus, logger)
	err := sink.SendReminderNotification(context.Background(), reminder.Reminder{ID: 1, UserID: "u1"}, reminder.MessageFired)
	require.Error(t, err)

	var de DeliveryError
	require.ErrorAs(t, err, &de)
	assert.True(t, de.Temporary())
}

func TestMockSink_FailNextThenSucceeds(t *testing.T) {
	sink := NewMockSink()
	sink.FailNext(assert.AnError)

	r := reminder.Reminder{ID: 1, UserID: "u1"}

	err := sink.SendReminderNotification(context.Background(), r, reminder.MessageFired)
	require.Error(t, err)

	err = sink.SendReminderNotification(context.Background(), r, reminder.MessageFired)
	require.NoError(t, err)

	msgs := sink.MessagesFor(1)
	require.Len(t, msgs, 1)
	assert.Equal(t, reminder.MessageFired, msgs[0])
}

func TestMockSink_Concurrency(t *testing.T) {
	sink := NewMockSink()
	const n = 50

	done := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			_ = sink.SendReminderNotification(context.Background(), reminder.Reminder{ID: reminder.ID(i), UserID: "u"}, reminder.MessageFired)
			done <- struct{}{}
		}(i)
	}

	for i := 0; i < n; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for concurrent sends")
		}
	}

	assert.Len(t, sink.Sent(), n)
}
