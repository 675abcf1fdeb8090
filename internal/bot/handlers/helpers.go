package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/botiran/initinfobot/internal/database"
)

// markdownEscaper escapes the Markdown (v1) entity characters outside code spans.
var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// boldMarkdown wraps s in a Markdown (v1) bold entity. Text inside an entity is
// taken literally, so nothing is escaped there; a "*" in s ends the entity, is
// written escaped, and the rest of s opens a new one.
func boldMarkdown(s string) string {
	parts := strings.Split(s, "*")
	for i, part := range parts {
		if part != "" {
			parts[i] = "*" + part + "*"
		}
	}
	return strings.Join(parts, "\\*")
}

// reply sends text to chatID. An empty parseMode sends plain text.
func reply(ctx context.Context, deps HandlerDeps, chatID int64, text string, parseMode models.ParseMode) error {
	if err := deps.Platform.SendMessage(ctx, chatID, text, parseMode); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

// recordUser saves the user on a best-effort basis: a failure is logged and
// swallowed so the reply to the user still goes out.
func recordUser(ctx context.Context, deps HandlerDeps, user *database.User) {
	if err := deps.Store.UpsertUser(ctx, user); err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to save user", "user_id", user.ID, "error", err)
	}
}

// recordChat saves the chat on a best-effort basis, like recordUser.
func recordChat(ctx context.Context, deps HandlerDeps, chat *database.Chat) {
	if err := deps.Store.UpsertChat(ctx, chat); err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to save chat", "chat_id", chat.ID, "error", err)
	}
}

// listOwnedChats returns the chats added by userID. On failure the user is told
// the lookup failed and the error is returned to the caller.
func listOwnedChats(ctx context.Context, deps HandlerDeps, userID int64) ([]database.Chat, error) {
	chats, err := deps.Store.ListChatsByOwner(ctx, userID)
	if err != nil {
		if sendErr := reply(ctx, deps, userID, deps.Config.Messages.ListChatsError, ""); sendErr != nil {
			deps.Logger.ErrorContext(ctx, "Failed to send list failure message", "user_id", userID, "error", sendErr)
		}
		return nil, fmt.Errorf("failed to list chats of user %d: %w", userID, err)
	}
	return chats, nil
}

// sleepContext waits d between bulk platform calls, returning early with the
// context error if ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func userFromPlatform(from *models.User, startDate time.Time) *database.User {
	return &database.User{
		ID:        from.ID,
		FirstName: from.FirstName,
		LastName:  database.NullString(from.LastName),
		Username:  database.NullString(from.Username),
		StartDate: startDate,
	}
}
