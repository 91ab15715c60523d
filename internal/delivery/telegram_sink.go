package delivery

import (
	"context"
	"fmt"
	"strconv"

	"remindbot-api/internal/config"
	"remindbot-api/internal/reminder"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// telegramMessages maps each reminder.MessageType to the text template sent
// to the user. %s is replaced with the reminder text where present.
var telegramMessages = map[reminder.MessageType]string{
	reminder.MessageScheduled:    "Reminder scheduled: %s",
	reminder.MessageFired:        "⏰ %s",
	reminder.MessageNag:          "⏰ Still waiting: %s",
	reminder.MessageAcknowledge:  "Got it, confirming: %s",
	reminder.MessageConfirmation: "Did you do it? %s",
	reminder.MessageTimeout:      "No response received for: %s",
	reminder.MessageFinished:     "Done: %s",
	reminder.MessageStopped:      "Reminder stopped: %s",
}

// TelegramSink delivers reminder notifications as Telegram chat messages.
// The reminder's UserID is the chat id the library expects, stored as its
// decimal string form.
type TelegramSink struct {
	bot    *tgbotapi.BotAPI
	logger *zap.Logger
}

// NewTelegramSink creates a new TelegramSink using config.ChatbotConfig.
func NewTelegramSink(cfg config.ChatbotConfig, logger *zap.Logger) (*TelegramSink, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	if _, err := bot.GetMe(); err != nil {
		return nil, fmt.Errorf("failed to validate bot token: %w", err)
	}

	logger.Info("telegram sink initialized", zap.String("username", bot.Self.UserName))

	return &TelegramSink{bot: bot, logger: logger}, nil
}

func (s *TelegramSink) SendReminderNotification(_ context.Context, r reminder.Reminder, msg reminder.MessageType) error {
	chatID, err := strconv.ParseInt(string(r.UserID), 10, 64)
	if err != nil {
		return NewSendError("telegram", fmt.Errorf("user id %q is not a telegram chat id: %w", r.UserID, err))
	}

	template, ok := telegramMessages[msg]
	if !ok {
		template = "%s"
	}
	text := fmt.Sprintf(template, r.Text)

	s.logger.Debug("sending telegram reminder notification",
		zap.Int64("chat_id", chatID),
		zap.String("message_type", string(msg)))

	tgMsg := tgbotapi.NewMessage(chatID, text)
	tgMsg.ParseMode = tgbotapi.ModeHTML

	if _, err := s.bot.Send(tgMsg); err != nil {
		s.logger.Error("failed to send telegram message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		return NewSendError("telegram", err)
	}

	return nil
}
