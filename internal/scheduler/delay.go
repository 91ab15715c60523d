package scheduler

import (
	"time"

	"remindbot-api/internal/reminder"
)

// graceWindow is how close to "now" a fire time has to be before it is
// treated as already passed and pushed to the next day. Without it, a
// reminder whose fire time is a few seconds away would schedule for now and
// then immediately re-fire once the registry reclaims it after a restart.
const graceWindow = 10 * time.Second

// DelayUntilNext returns how long to wait, from now, before fireAt should
// next trigger. If fireAt is more than graceWindow away later today, it
// targets today; otherwise (already passed, or within the grace window) it
// targets tomorrow.
func DelayUntilNext(fireAt reminder.TimeOfDay, now time.Time) time.Duration {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	delta := fireAt.OnDate(today).Sub(now)

	targetDate := today
	if delta <= graceWindow {
		targetDate = today.AddDate(0, 0, 1)
	}

	target := fireAt.OnDate(targetDate)
	return target.Sub(now)
}
