package scheduler

import (
	"sync"
	"time"
)

// RegistryMetrics tracks the registry's operational health: how many
// runners are live, how many reminders have been scheduled/cancelled over
// the process lifetime, and whether the reclaim loop is keeping up.
type RegistryMetrics struct {
	mu sync.RWMutex

	ActiveRunners     int64
	RemindersScheduled int64
	RemindersCancelled int64
	RemindersReclaimed int64
	DeliveryErrors     int64
	LastReclaimAt      time.Time
}

// NewRegistryMetrics creates a zeroed metrics instance.
func NewRegistryMetrics() *RegistryMetrics {
	return &RegistryMetrics{}
}

func (m *RegistryMetrics) recordScheduled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ActiveRunners++
	m.RemindersScheduled++
}

func (m *RegistryMetrics) recordCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ActiveRunners > 0 {
		m.ActiveRunners--
	}
	m.RemindersCancelled++
}

func (m *RegistryMetrics) recordReclaim(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemindersReclaimed += int64(count)
	m.LastReclaimAt = time.Now()
}

func (m *RegistryMetrics) recordDeliveryError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeliveryErrors++
}

// Snapshot returns a point-in-time copy safe to read without further
// synchronization.
func (m *RegistryMetrics) Snapshot() RegistryMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return RegistryMetrics{
		ActiveRunners:      m.ActiveRunners,
		RemindersScheduled: m.RemindersScheduled,
		RemindersCancelled: m.RemindersCancelled,
		RemindersReclaimed: m.RemindersReclaimed,
		DeliveryErrors:     m.DeliveryErrors,
		LastReclaimAt:      m.LastReclaimAt,
	}
}
