// Package config manages application configuration from a YAML file,
// INITINFO_* environment variables and default values.
package config

import "time"

// Config defines the application configuration. It is loaded once at startup
// and treated as read-only afterwards.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Bulk      BulkConfig      `mapstructure:"bulk"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls the slog handler.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the Bot API credentials and polling behaviour.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`
	// APIServerURL points the client at a self-hosted Bot API server.
	APIServerURL       string `mapstructure:"api_server_url" validate:"omitempty,url"`
	BotName            string `mapstructure:"bot_name"       validate:"required"`
	DropPendingUpdates bool   `mapstructure:"drop_pending_updates"`
}

// DatabaseConfig holds the SQLite connection string.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// BulkConfig controls /removeall and /updateall.
type BulkConfig struct {
	// Delay is slept after every per-chat platform call.
	Delay time.Duration `mapstructure:"delay" validate:"gte=0,lte=10s"`
}

// SchedulerConfig lists the maintenance tasks by registry name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig enables a task and gives its cron schedule (with seconds field).
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// MessagesConfig holds the fixed replies that are not built from chat data.
type MessagesConfig struct {
	RemoveAllAck   string `mapstructure:"remove_all_ack"   validate:"required"`
	UpdateAllAck   string `mapstructure:"update_all_ack"   validate:"required"`
	UpdateAllDone  string `mapstructure:"update_all_done"  validate:"required"`
	NoChats        string `mapstructure:"no_chats"         validate:"required"`
	InvalidCommand string `mapstructure:"invalid_command"  validate:"required"`
	ListChatsError string `mapstructure:"list_chats_error" validate:"required"`
}
