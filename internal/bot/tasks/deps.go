// Package tasks implements the scheduled maintenance tasks of the bot.
package tasks

import (
	"log/slog"

	"github.com/botiran/initinfobot/internal/database"
)

// TaskDeps contains the dependencies shared by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
}
