package handlers

import (
	"context"

	"github.com/go-telegram/bot/models"
)

// NewUnknownHandler returns the handler for any text that is not a known command.
func NewUnknownHandler(deps HandlerDeps) CommandFunc {
	return unknownHandler{deps}.Handle
}

type unknownHandler struct {
	deps HandlerDeps
}

func (h unknownHandler) Handle(ctx context.Context, from *models.User) error {
	h.deps.Logger.DebugContext(ctx, "Unknown command", "handler", "unknown", "user_id", from.ID)
	return reply(ctx, h.deps, from.ID, h.deps.Config.Messages.InvalidCommand, "")
}
