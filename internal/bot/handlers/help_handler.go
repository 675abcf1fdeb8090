package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"
)

// NewHelpHandler returns a handler for the /help command.
func NewHelpHandler(deps HandlerDeps) CommandFunc {
	return helpHandler{deps}.Handle
}

// helpHandler sends the static usage text.
type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, from *models.User) error {
	log := h.deps.Logger.With("handler", "help")
	log.InfoContext(ctx, "Handling /help command", "user_id", from.ID)

	if err := reply(ctx, h.deps, from.ID, helpText(h.deps.Config.Telegram.BotName), models.ParseModeMarkdownV1); err != nil {
		return err
	}
	log.DebugContext(ctx, "Successfully sent help message", "user_id", from.ID)
	return nil
}

func helpText(botName string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🤖 Welcome to %s!\n\n", boldMarkdown(botName))
	sb.WriteString("This bot helps you easily get information about the groups and channels where you are an admin.\n\n")
	sb.WriteString("Available commands:\n")
	sb.WriteString("`/start` - Displays the welcome message and guide.\n")
	sb.WriteString("`/help` - Shows this help message.\n")
	sb.WriteString("`/getme` - Displays your Telegram user information.\n")
	sb.WriteString("`/updateall` - Fetches an updated report for all your chats.\n")
	sb.WriteString("`/removeall` - Makes the bot leave all chats you've added it to.")
	return sb.String()
}
