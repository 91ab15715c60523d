package delivery

import (
	"context"
	"sync"

	"remindbot-api/internal/reminder"
)

//go:generate mockgen -source=sink.go -destination=mock_sink_gen.go -package=delivery

// sentNotification records a single SendReminderNotification call, for test
// assertions.
type sentNotification struct {
	Reminder reminder.Reminder
	Message  reminder.MessageType
}

// MockSink is a handwritten, concurrency-safe Sink fake for tests.
type MockSink struct {
	mu        sync.Mutex
	sent      []sentNotification
	failNext  error
	failAlways error
}

// NewMockSink creates an empty MockSink.
func NewMockSink() *MockSink {
	return &MockSink{}
}

func (m *MockSink) SendReminderNotification(_ context.Context, r reminder.Reminder, msg reminder.MessageType) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAlways != nil {
		return m.failAlways
	}
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}

	m.sent = append(m.sent, sentNotification{Reminder: r, Message: msg})
	return nil
}

// FailNext makes the next SendReminderNotification call return err.
func (m *MockSink) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// FailAlways makes every subsequent SendReminderNotification call return err.
func (m *MockSink) FailAlways(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAlways = err
}

// Sent returns a copy of every notification delivered so far.
func (m *MockSink) Sent() []sentNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentNotification, len(m.sent))
	copy(out, m.sent)
	return out
}

// MessagesFor returns, in order, the message types sent for a given
// reminder id.
func (m *MockSink) MessagesFor(id reminder.ID) []reminder.MessageType {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []reminder.MessageType
	for _, s := range m.sent {
		if s.Reminder.ID == id {
			out = append(out, s.Message)
		}
	}
	return out
}
