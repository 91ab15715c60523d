package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Chatbot   ChatbotConfig   `mapstructure:"chatbot"`
	Events    EventsConfig    `mapstructure:"events"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Environment  string `mapstructure:"environment"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// ChatbotConfig configures the Telegram delivery sink.
type ChatbotConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Token      string `mapstructure:"token"`
	Timeout    int    `mapstructure:"timeout"`
}

type EventsConfig struct {
	BufferSize      int `mapstructure:"buffer_size"`
	WorkerCount     int `mapstructure:"worker_count"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout"`
}

// SchedulerConfig parameterizes the per-reminder runner and registry.
// Attempts/timeouts default to the values the runner is specified against;
// operators can still override them for local testing.
type SchedulerConfig struct {
	NaggingAttempts            int  `mapstructure:"nagging_attempts"`
	NaggingTimeoutSeconds      int  `mapstructure:"nagging_timeout_seconds"`
	ConfirmationAttempts       int  `mapstructure:"confirmation_attempts"`
	ConfirmationTimeoutSeconds int  `mapstructure:"confirmation_timeout_seconds"`
	MailboxCapacity            int  `mapstructure:"mailbox_capacity"`
	ReclaimIntervalSeconds     int  `mapstructure:"reclaim_interval_seconds"`
	ShutdownGraceSeconds       int  `mapstructure:"shutdown_grace_seconds"`
	Enabled                    bool `mapstructure:"enabled"`
}

func Load() (*Config, error) {
	viper.Reset()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.environment", "development")
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "remindbot")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 300)

	viper.SetDefault("chatbot.webhook_url", "/webhook")
	viper.SetDefault("chatbot.token", "")
	viper.SetDefault("chatbot.timeout", 30)

	viper.SetDefault("events.buffer_size", 1000)
	viper.SetDefault("events.worker_count", 4)
	viper.SetDefault("events.shutdown_timeout", 30)

	viper.SetDefault("scheduler.nagging_attempts", 10)
	viper.SetDefault("scheduler.nagging_timeout_seconds", 30)
	viper.SetDefault("scheduler.confirmation_attempts", 10)
	viper.SetDefault("scheduler.confirmation_timeout_seconds", 120)
	viper.SetDefault("scheduler.mailbox_capacity", 10)
	viper.SetDefault("scheduler.reclaim_interval_seconds", 300)
	viper.SetDefault("scheduler.shutdown_grace_seconds", 30)
	viper.SetDefault("scheduler.enabled", true)
}
