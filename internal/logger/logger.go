// Package logger provides structured logging for the bot.
// It uses Go's slog package with configurable levels and formats.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewLogger creates a new slog Logger writing to stdout with the specified level and format.
// If jsonOutput is true, logs will be formatted as JSON, otherwise as text.
func NewLogger(levelStr string, jsonOutput bool) *slog.Logger {
	logger := newLogger(os.Stdout, levelStr, jsonOutput)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, levelStr string, jsonOutput bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(levelStr),
	}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// ParseLevel maps a config level name to a slog level, defaulting to info.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Middleware creates a logging middleware for the Telegram bot.
// It logs every incoming update with its kind and identifiers, and the time taken to handle it.
func Middleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			startTime := time.Now()

			logEntry := log.With(append([]any{"update_id", update.ID}, updateAttrs(update)...)...)
			logEntry.DebugContext(ctx, "Processing update")

			next(ctx, b, update)

			logEntry.InfoContext(ctx, "Finished processing update", "duration", time.Since(startTime))
		}
	}
}

// updateAttrs describes an update as slog key/value pairs.
func updateAttrs(update *models.Update) []any {
	switch {
	case update.Message != nil:
		attrs := []any{
			"update_type", "message",
			"message_id", update.Message.ID,
			"chat_id", update.Message.Chat.ID,
			"text_preview", truncateString(update.Message.Text, 50),
		}
		if update.Message.From != nil {
			attrs = append(attrs, "user_id", update.Message.From.ID)
		}
		return attrs

	case update.MyChatMember != nil:
		return []any{
			"update_type", "my_chat_member",
			"chat_id", update.MyChatMember.Chat.ID,
			"chat_type", update.MyChatMember.Chat.Type,
			"user_id", update.MyChatMember.From.ID,
			"old_status", update.MyChatMember.OldChatMember.Type,
			"new_status", update.MyChatMember.NewChatMember.Type,
		}

	case update.CallbackQuery != nil:
		return []any{
			"update_type", "callback_query",
			"user_id", update.CallbackQuery.From.ID,
		}

	default:
		return []any{"update_type", "other"}
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}
