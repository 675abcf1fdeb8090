package handlers

import (
	"context"

	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// NewUpdateAllHandler returns a handler for the /updateall command.
func NewUpdateAllHandler(deps HandlerDeps) CommandFunc {
	return updateAllHandler{deps}.Handle
}

// updateAllHandler sends a fresh chat report for every chat the user added the bot to.
type updateAllHandler struct {
	deps HandlerDeps
}

func (h updateAllHandler) Handle(ctx context.Context, from *models.User) error {
	log := h.deps.Logger.With("handler", "updateall", "user_id", from.ID, "op_id", uuid.NewString())
	log.InfoContext(ctx, "Handling /updateall command")

	msgs := h.deps.Config.Messages
	if err := reply(ctx, h.deps, from.ID, msgs.UpdateAllAck, ""); err != nil {
		return err
	}

	chats, err := listOwnedChats(ctx, h.deps, from.ID)
	if err != nil {
		return err
	}
	if len(chats) == 0 {
		log.InfoContext(ctx, "No chats to report")
		return reply(ctx, h.deps, from.ID, msgs.NoChats, "")
	}

	failed := 0
	for _, chat := range chats {
		if err := sendChatReport(ctx, h.deps, from.ID, chat.ID); err != nil {
			log.WarnContext(ctx, "Failed to deliver chat report", "chat_id", chat.ID, "error", err)
			failed++
		}

		if err := sleepContext(ctx, h.deps.Config.Bulk.Delay); err != nil {
			log.WarnContext(ctx, "Update all interrupted", "error", err)
			return err
		}
	}

	log.InfoContext(ctx, "Update all finished", "total", len(chats), "failed", failed)
	return reply(ctx, h.deps, from.ID, msgs.UpdateAllDone, "")
}
