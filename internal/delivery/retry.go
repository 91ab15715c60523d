package delivery

import (
	"context"
	"time"

	"remindbot-api/internal/reminder"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// RetryingSink wraps a Sink with exponential backoff retry, retrying only
// errors the inner sink classifies as temporary.
type RetryingSink struct {
	inner      Sink
	logger     *zap.Logger
	maxRetries uint64
}

// NewRetryingSink wraps inner with a default exponential backoff policy.
func NewRetryingSink(inner Sink, logger *zap.Logger, maxRetries uint64) *RetryingSink {
	return &RetryingSink{inner: inner, logger: logger, maxRetries: maxRetries}
}

func (s *RetryingSink) SendReminderNotification(ctx context.Context, r reminder.Reminder, msg reminder.MessageType) error {
	strategy := backoff.NewExponentialBackOff()
	strategy.InitialInterval = 500 * time.Millisecond
	strategy.MaxInterval = 10 * time.Second
	strategy.MaxElapsedTime = time.Minute
	strategy.Multiplier = 2.0

	policy := backoff.WithContext(backoff.WithMaxRetries(strategy, s.maxRetries), ctx)

	attempt := 0
	operation := func() error {
		attempt++
		err := s.inner.SendReminderNotification(ctx, r, msg)
		if err != nil && !IsTemporary(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	err := backoff.RetryNotify(operation, policy, func(err error, wait time.Duration) {
		s.logger.Warn("retrying reminder delivery",
			zap.Int64("reminder_id", int64(r.ID)),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
	})
	if err != nil {
		return NewSendError("retry", err)
	}
	return nil
}
