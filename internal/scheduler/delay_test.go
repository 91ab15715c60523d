package scheduler

import (
	"testing"
	"time"

	"remindbot-api/internal/reminder"

	"github.com/stretchr/testify/assert"
)

func TestDelayUntilNext_LaterToday(t *testing.T) {
	now := time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC)
	fireAt := reminder.TimeOfDay{Hour: 9, Minute: 30, Second: 0}

	d := DelayUntilNext(fireAt, now)
	assert.Equal(t, 30*time.Minute, d)
}

func TestDelayUntilNext_AlreadyPassed(t *testing.T) {
	now := time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC)
	fireAt := reminder.TimeOfDay{Hour: 8, Minute: 0, Second: 0}

	d := DelayUntilNext(fireAt, now)
	assert.Equal(t, 23*time.Hour, d)
}

func TestDelayUntilNext_WithinGraceWindow(t *testing.T) {
	now := time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC)
	fireAt := reminder.TimeOfDay{Hour: 9, Minute: 0, Second: 5}

	d := DelayUntilNext(fireAt, now)
	assert.Equal(t, 24*time.Hour+5*time.Second, d)
}

func TestDelayUntilNext_ExactlyAtGraceWindowBoundary(t *testing.T) {
	now := time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC)
	fireAt := reminder.TimeOfDay{Hour: 9, Minute: 0, Second: 10}

	d := DelayUntilNext(fireAt, now)
	assert.Equal(t, 24*time.Hour+10*time.Second, d)
}

func TestDelayUntilNext_JustOutsideGraceWindow(t *testing.T) {
	now := time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC)
	fireAt := reminder.TimeOfDay{Hour: 9, Minute: 0, Second: 11}

	d := DelayUntilNext(fireAt, now)
	assert.Equal(t, 11*time.Second, d)
}

func TestDelayUntilNext_Midnight(t *testing.T) {
	now := time.Date(2026, 7, 30, 23, 59, 0, 0, time.UTC)
	fireAt := reminder.TimeOfDay{Hour: 0, Minute: 0, Second: 0}

	d := DelayUntilNext(fireAt, now)
	assert.Equal(t, time.Minute, d)
}
