package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
)

// NewRemoveAllHandler returns a handler for the /removeall command.
func NewRemoveAllHandler(deps HandlerDeps) CommandFunc {
	return removeAllHandler{deps}.Handle
}

// removeAllHandler makes the bot leave every chat the user added it to and
// forgets those chats.
type removeAllHandler struct {
	deps HandlerDeps
}

func (h removeAllHandler) Handle(ctx context.Context, from *models.User) error {
	log := h.deps.Logger.With("handler", "removeall", "user_id", from.ID, "op_id", uuid.NewString())
	log.InfoContext(ctx, "Handling /removeall command")

	if err := reply(ctx, h.deps, from.ID, h.deps.Config.Messages.RemoveAllAck, ""); err != nil {
		return err
	}

	chats, err := listOwnedChats(ctx, h.deps, from.ID)
	if err != nil {
		return err
	}

	var left, failed int
	for _, chat := range chats {
		if err := h.leave(ctx, chat.ID); err != nil {
			log.WarnContext(ctx, "Failed to leave chat", "chat_id", chat.ID, "error", err)
			failed++
		} else {
			log.DebugContext(ctx, "Left chat", "chat_id", chat.ID)
			left++
		}

		if err := sleepContext(ctx, h.deps.Config.Bulk.Delay); err != nil {
			log.WarnContext(ctx, "Remove all interrupted", "left", left, "failed", failed, "error", err)
			return err
		}
	}

	log.InfoContext(ctx, "Remove all finished", "total", len(chats), "left", left, "failed", failed)
	return reply(ctx, h.deps, from.ID, removeAllSummary(left, failed), "")
}

// leave succeeds only when the bot left the chat and its record is gone.
func (h removeAllHandler) leave(ctx context.Context, chatID int64) error {
	if err := h.deps.Platform.LeaveChat(ctx, chatID); err != nil {
		return err
	}
	return h.deps.Store.DeleteChat(ctx, chatID)
}

func removeAllSummary(left, failed int) string {
	return fmt.Sprintf("Operation complete. ✅\nSuccessfully left: %d chats\nFailed to leave: %d chats", left, failed)
}
