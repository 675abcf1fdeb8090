package handlers

import (
	"context"

	"github.com/go-telegram/bot/models"

	"github.com/botiran/initinfobot/internal/database"
)

// titleFallback is stored when the platform sends a chat without a title.
const titleFallback = "N/A"

// NewChatMemberHandler returns the handler for changes of the bot's own membership.
func NewChatMemberHandler(deps HandlerDeps) func(ctx context.Context, upd *models.ChatMemberUpdated) error {
	return chatMemberHandler{deps}.Handle
}

type chatMemberHandler struct {
	deps HandlerDeps
}

// Handle reacts only when the bot becomes a member or administrator: it records
// the user who added it and the chat, then sends that user a chat report.
// Leaving, being kicked or restricted changes nothing; records are only removed by /removeall.
func (h chatMemberHandler) Handle(ctx context.Context, upd *models.ChatMemberUpdated) error {
	log := h.deps.Logger.With("handler", "chat_member", "chat_id", upd.Chat.ID, "user_id", upd.From.ID)

	status := upd.NewChatMember.Type
	if !botAdded(status) {
		log.DebugContext(ctx, "Ignoring membership change", "new_status", status)
		return nil
	}

	log.InfoContext(ctx, "Bot added to chat", "new_status", status, "chat_type", upd.Chat.Type)

	now := h.deps.now().UTC()
	recordUser(ctx, h.deps, userFromPlatform(&upd.From, now))

	title := upd.Chat.Title
	if title == "" {
		title = titleFallback
	}
	recordChat(ctx, h.deps, &database.Chat{
		ID:            upd.Chat.ID,
		Title:         title,
		Type:          string(upd.Chat.Type),
		Username:      database.NullString(upd.Chat.Username),
		AddedByUserID: upd.From.ID,
		DateAdded:     now,
	})

	return sendChatReport(ctx, h.deps, upd.From.ID, upd.Chat.ID)
}

func botAdded(status models.ChatMemberType) bool {
	return status == models.ChatMemberTypeMember || status == models.ChatMemberTypeAdministrator
}
