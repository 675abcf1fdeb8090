package handlers

import (
	"context"

	"github.com/go-telegram/bot/models"
)

// Command tokens, matched after lowercasing the first word of a message.
const (
	CommandStart     = "/start"
	CommandHelp      = "/help"
	CommandGetMe     = "/getme"
	CommandRemoveAll = "/removeall"
	CommandUpdateAll = "/updateall"
)

// CommandFunc handles one command for the user who sent it. Replies go to the
// user's private chat. A returned error is logged at the dispatcher boundary.
type CommandFunc func(ctx context.Context, from *models.User) error

// RegisterAllCommands initializes and returns the command table keyed by command token.
func RegisterAllCommands(deps HandlerDeps) map[string]CommandFunc {
	return map[string]CommandFunc{
		CommandStart:     NewStartHandler(deps),
		CommandHelp:      NewHelpHandler(deps),
		CommandGetMe:     NewGetMeHandler(deps),
		CommandRemoveAll: NewRemoveAllHandler(deps),
		CommandUpdateAll: NewUpdateAllHandler(deps),
	}
}
