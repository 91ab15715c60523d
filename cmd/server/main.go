package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"remindbot-api/internal/common"
	"remindbot-api/internal/config"
	"remindbot-api/internal/database"
	"remindbot-api/internal/delivery"
	"remindbot-api/internal/events"
	"remindbot-api/internal/reminder"
	"remindbot-api/internal/scheduler"
	"remindbot-api/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	log := logger.New()
	defer log.Sync()

	zapLogger := log.SugaredLogger.Desugar()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", "error", err)
	}

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}

	store, err := reminder.NewGormStore(db, zapLogger.Named("store"))
	if err != nil {
		log.Fatal("failed to initialize reminder store", "error", err)
	}

	eventBus := events.NewEventBus(zapLogger.Named("eventbus"))

	sink, err := buildSink(cfg.Chatbot, eventBus, zapLogger)
	if err != nil {
		log.Fatal("failed to initialize delivery sink", "error", err)
	}

	registry := scheduler.NewRegistry(schedulerConfig(cfg.Scheduler), store, sink, common.NewRealClock(), zapLogger.Named("scheduler"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := registry.Start(ctx); err != nil {
		log.Fatal("failed to start scheduler registry", "error", err)
	}

	log.Info("scheduler started", "nagging_attempts", cfg.Scheduler.NaggingAttempts)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	cancel()

	if err := registry.Close(); err != nil {
		log.Error("scheduler registry did not shut down cleanly", "error", err)
	}

	if err := eventBus.Close(); err != nil {
		log.Error("failed to close event bus", "error", err)
	}

	log.Info("shutdown complete")
}

// buildSink prefers a retrying Telegram sink when a bot token is configured;
// without one it falls back to the event-bus sink, so the registry always
// has somewhere to deliver notifications during local development.
func buildSink(cfg config.ChatbotConfig, bus events.EventBus, zapLogger *zap.Logger) (delivery.Sink, error) {
	if cfg.Token == "" {
		zapLogger.Warn("no telegram token configured, delivering notifications via event bus only")
		return delivery.NewEventBusSink(bus, zapLogger.Named("eventbus_sink")), nil
	}

	telegram, err := delivery.NewTelegramSink(cfg, zapLogger.Named("telegram_sink"))
	if err != nil {
		return nil, err
	}

	return delivery.NewRetryingSink(telegram, zapLogger.Named("retry"), 5), nil
}

func schedulerConfig(c config.SchedulerConfig) scheduler.Config {
	return scheduler.Config{
		NaggingAttempts:            c.NaggingAttempts,
		NaggingTimeoutSeconds:      c.NaggingTimeoutSeconds,
		ConfirmationAttempts:       c.ConfirmationAttempts,
		ConfirmationTimeoutSeconds: c.ConfirmationTimeoutSeconds,
		MailboxCapacity:            c.MailboxCapacity,
		ReclaimIntervalSeconds:     c.ReclaimIntervalSeconds,
		ShutdownGraceSeconds:       c.ShutdownGraceSeconds,
	}
}
