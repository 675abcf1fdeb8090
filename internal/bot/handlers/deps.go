package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/botiran/initinfobot/internal/config"
	"github.com/botiran/initinfobot/internal/database"
)

// Platform is the subset of the Bot API the handlers call. telegram.Client implements it.
type Platform interface {
	SendMessage(ctx context.Context, chatID int64, text string, parseMode models.ParseMode) error
	GetChat(ctx context.Context, chatID int64) (*models.ChatFullInfo, error)
	GetChatMemberCount(ctx context.Context, chatID int64) (int, error)
	ExportChatInviteLink(ctx context.Context, chatID int64) (string, error)
	LeaveChat(ctx context.Context, chatID int64) error
}

// Store is the subset of database.Store the handlers use.
type Store interface {
	UpsertUser(ctx context.Context, user *database.User) error
	UpsertChat(ctx context.Context, chat *database.Chat) error
	ListChatsByOwner(ctx context.Context, userID int64) ([]database.Chat, error)
	DeleteChat(ctx context.Context, chatID int64) error
}

// HandlerDeps provides dependencies for the update dispatcher and command handlers.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Store    Store
	Platform Platform
	// BotUsername lets "/help@BotUsername" route like "/help".
	BotUsername string
	// Now defaults to time.Now.
	Now func() time.Time
}

func (d HandlerDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
