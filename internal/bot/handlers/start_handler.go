package handlers

import (
	"context"

	"github.com/go-telegram/bot/models"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) CommandFunc {
	return startHandler{deps}.Handle
}

// startHandler records the user and then sends the help text.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, from *models.User) error {
	log := h.deps.Logger.With("handler", "start")
	log.InfoContext(ctx, "Handling /start command", "user_id", from.ID)

	recordUser(ctx, h.deps, userFromPlatform(from, h.deps.now().UTC()))

	return helpHandler(h).Handle(ctx, from)
}
