package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values for configuration
const (
	DefaultConfigPath = "./config.yaml"
	EnvPrefix         = "INITINFO"

	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	DefaultBotName            = "Telegram Bot"
	DefaultDropPendingUpdates = true // Clean start on bot launch

	DefaultDBPath = "storage.db"

	DefaultBulkDelay = 300 * time.Millisecond // Stay under the Bot API flood limits
)

// Default bot messages
var DefaultMessages = MessagesConfig{
	RemoveAllAck:   "Processing your request... Please wait.",
	UpdateAllAck:   "Fetching new reports... This might take a moment.",
	UpdateAllDone:  "All chat reports have been sent successfully. ✅",
	NoChats:        "You haven't added the bot to any chats yet.",
	InvalidCommand: "Invalid command. 🤷‍♂️\nUse `/help` to see the list of available commands.",
	ListChatsError: "❌ Could not load your chats. Please try again later.",
}

// Default maintenance tasks
var DefaultTasks = map[string]TaskConfig{
	"sql_maintenance": {Enabled: true, Schedule: "0 0 4 * * 0"}, // Sundays 04:00
	"store_stats":     {Enabled: true, Schedule: "0 0 * * * *"}, // hourly
}

// setDefaults registers every key on v so environment overrides apply even
// when the key is absent from the config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", DefaultLogJSON)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.api_server_url", "")
	v.SetDefault("telegram.bot_name", DefaultBotName)
	v.SetDefault("telegram.drop_pending_updates", DefaultDropPendingUpdates)

	v.SetDefault("database.path", DefaultDBPath)

	v.SetDefault("bulk.delay", DefaultBulkDelay)

	for name, task := range DefaultTasks {
		v.SetDefault("scheduler.tasks."+name+".enabled", task.Enabled)
		v.SetDefault("scheduler.tasks."+name+".schedule", task.Schedule)
	}

	v.SetDefault("messages.remove_all_ack", DefaultMessages.RemoveAllAck)
	v.SetDefault("messages.update_all_ack", DefaultMessages.UpdateAllAck)
	v.SetDefault("messages.update_all_done", DefaultMessages.UpdateAllDone)
	v.SetDefault("messages.no_chats", DefaultMessages.NoChats)
	v.SetDefault("messages.invalid_command", DefaultMessages.InvalidCommand)
	v.SetDefault("messages.list_chats_error", DefaultMessages.ListChatsError)
}
