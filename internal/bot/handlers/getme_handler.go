package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"
)

// NewGetMeHandler returns a handler for the /getme command.
func NewGetMeHandler(deps HandlerDeps) CommandFunc {
	return getMeHandler{deps}.Handle
}

type getMeHandler struct {
	deps HandlerDeps
}

func (h getMeHandler) Handle(ctx context.Context, from *models.User) error {
	log := h.deps.Logger.With("handler", "getme")
	log.InfoContext(ctx, "Handling /getme command", "user_id", from.ID)

	return reply(ctx, h.deps, from.ID, userInfoText(from), models.ParseModeMarkdownV1)
}

// userInfoText renders the user's fields. Last name and username lines are
// omitted when the field is empty.
func userInfoText(from *models.User) string {
	lines := []string{
		"📄 *Your User Information:*",
		fmt.Sprintf("ID: %d", from.ID),
		"First Name: " + escapeMarkdown(from.FirstName),
	}
	if from.LastName != "" {
		lines = append(lines, "Last Name: "+escapeMarkdown(from.LastName))
	}
	if from.Username != "" {
		lines = append(lines, "Username: @"+escapeMarkdown(from.Username))
	}
	return strings.Join(lines, "\n")
}
