package scheduler

import (
	"context"
	"testing"
	"time"

	"remindbot-api/internal/common"
	"remindbot-api/internal/delivery"
	"remindbot-api/internal/reminder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testRegistryConfig() Config {
	return Config{
		NaggingAttempts:            2,
		NaggingTimeoutSeconds:      60,
		ConfirmationAttempts:       2,
		ConfirmationTimeoutSeconds: 60,
		MailboxCapacity:            10,
		ReclaimIntervalSeconds:     0,
		ShutdownGraceSeconds:       2,
	}
}

func newTestRegistry(t *testing.T, store reminder.Store) (*Registry, *delivery.MockSink, *common.MockClock) {
	t.Helper()
	clock := common.NewMockClock(time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC))
	sink := delivery.NewMockSink()
	logger := zaptest.NewLogger(t)
	reg := NewRegistry(testRegistryConfig(), store, sink, clock, logger)
	require.NoError(t, reg.Start(context.Background()))
	return reg, sink, clock
}

func TestRegistry_ScheduleReminderRejectsDuplicate(t *testing.T) {
	store := reminder.NewMemoryStore()
	reg, _, _ := newTestRegistry(t, store)
	defer reg.Close()

	r := reminder.Reminder{ID: 1, UserID: "u1", FireAt: reminder.TimeOfDay{Hour: 9, Minute: 1}}
	require.NoError(t, reg.ScheduleReminder(r))

	err := reg.ScheduleReminder(r)
	require.Error(t, err)
	assert.True(t, IsAlreadyScheduledError(err))
}

func TestRegistry_CancelUnknownReminderErrors(t *testing.T) {
	store := reminder.NewMemoryStore()
	reg, _, _ := newTestRegistry(t, store)
	defer reg.Close()

	err := reg.CancelReminder(99)
	require.Error(t, err)
	assert.True(t, IsNoSuchReminderError(err))
}

func TestRegistry_AcknowledgeAndConfirmAreSilentNoOpsForUnknownID(t *testing.T) {
	store := reminder.NewMemoryStore()
	reg, _, _ := newTestRegistry(t, store)
	defer reg.Close()

	assert.NotPanics(t, func() {
		reg.AcknowledgeReminder(123)
		reg.ConfirmReminder(123)
	})
}

func TestRegistry_CancelStopsRunnerAndAllowsRescheduling(t *testing.T) {
	store := reminder.NewMemoryStore()
	reg, sink, _ := newTestRegistry(t, store)
	defer reg.Close()

	r := reminder.Reminder{ID: 7, UserID: "u1", FireAt: reminder.TimeOfDay{Hour: 9, Minute: 1}}
	require.NoError(t, reg.ScheduleReminder(r))
	waitForMessages(t, sink, 7, 1)

	require.NoError(t, reg.CancelReminder(7))

	deadline := time.After(2 * time.Second)
	for {
		msgs := sink.MessagesFor(7)
		if len(msgs) > 0 && msgs[len(msgs)-1] == reminder.MessageStopped {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for stopped message")
		case <-time.After(time.Millisecond):
		}
	}

	require.NoError(t, reg.ScheduleReminder(r))
}

func TestRegistry_StartReplaysPersistedReminders(t *testing.T) {
	store := reminder.NewMemoryStore()
	require.NoError(t, store.Create(context.Background(), reminder.Reminder{
		ID: 10, UserID: "u1", FireAt: reminder.TimeOfDay{Hour: 9, Minute: 1},
	}))

	reg, sink, _ := newTestRegistry(t, store)
	defer reg.Close()

	waitForMessages(t, sink, 10, 1)
}

func TestRegistry_CloseDrainsRunners(t *testing.T) {
	store := reminder.NewMemoryStore()
	reg, sink, _ := newTestRegistry(t, store)

	r := reminder.Reminder{ID: 11, UserID: "u1", FireAt: reminder.TimeOfDay{Hour: 9, Minute: 1}}
	require.NoError(t, reg.ScheduleReminder(r))
	waitForMessages(t, sink, 11, 1)

	require.NoError(t, reg.Close())

	msgs := sink.MessagesFor(11)
	assert.Equal(t, reminder.MessageStopped, msgs[len(msgs)-1])
}

func TestRegistry_ReclaimReschedulesOrphanedReminder(t *testing.T) {
	store := reminder.NewMemoryStore()
	require.NoError(t, store.Create(context.Background(), reminder.Reminder{
		ID: 20, UserID: "u1", FireAt: reminder.TimeOfDay{Hour: 9, Minute: 1},
	}))

	clock := common.NewMockClock(time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC))
	sink := delivery.NewMockSink()
	logger := zaptest.NewLogger(t)

	cfg := testRegistryConfig()
	cfg.ReclaimIntervalSeconds = 300
	reg := NewRegistry(cfg, store, sink, clock, logger)
	require.NoError(t, reg.Start(context.Background()))
	defer reg.Close()

	waitForMessages(t, sink, 20, 1)

	require.NoError(t, reg.CancelReminder(20))

	clock.Advance(300 * time.Second)
	waitForMessages(t, sink, 20, 3) // stopped, then re-scheduled

	snap := reg.Metrics()
	assert.Equal(t, int64(1), snap.RemindersReclaimed)
}
