// Package handlers routes incoming updates to the command and membership
// handlers of the bot.
package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/botiran/initinfobot/internal/telegram"
)

// EventKind is the routing class of an update.
type EventKind int

const (
	EventIgnored EventKind = iota
	EventMessage
	EventBotMembership
)

func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventBotMembership:
		return "bot_membership"
	default:
		return "ignored"
	}
}

// Event is an update reduced to what the handlers need.
type Event struct {
	Kind       EventKind
	Message    *models.Message
	Membership *models.ChatMemberUpdated
}

// ClassifyUpdate maps an update to an Event. Messages without a sender or
// without text are ignored, as is every update type the bot does not handle.
// Whitespace-only text is still a message and routes to the unknown command.
func ClassifyUpdate(update *models.Update) Event {
	switch {
	case update == nil:
		return Event{Kind: EventIgnored}
	case update.Message != nil:
		if update.Message.From == nil || update.Message.Text == "" {
			return Event{Kind: EventIgnored}
		}
		return Event{Kind: EventMessage, Message: update.Message}
	case update.MyChatMember != nil:
		return Event{Kind: EventBotMembership, Membership: update.MyChatMember}
	default:
		return Event{Kind: EventIgnored}
	}
}

// CommandToken returns the lowercased first word of text. A "@name" suffix is
// removed when name is botUsername, compared case-insensitively.
func CommandToken(text, botUsername string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	token := strings.ToLower(fields[0])
	if botUsername == "" {
		return token
	}
	if cmd, target, ok := strings.Cut(token, "@"); ok && target == strings.ToLower(botUsername) {
		return cmd
	}
	return token
}

// Dispatcher holds the command table. It is registered as the default handler
// of the Bot API client and handles one update at a time.
type Dispatcher struct {
	deps       HandlerDeps
	commands   map[string]CommandFunc
	unknown    CommandFunc
	membership func(ctx context.Context, upd *models.ChatMemberUpdated) error
}

// NewDispatcher builds the dispatcher with all commands registered.
func NewDispatcher(deps HandlerDeps) *Dispatcher {
	deps.Logger = deps.Logger.With("component", "dispatcher")
	return &Dispatcher{
		deps:       deps,
		commands:   RegisterAllCommands(deps),
		unknown:    NewUnknownHandler(deps),
		membership: NewChatMemberHandler(deps),
	}
}

// Dispatch routes one update. A panic in a handler is recovered and returned as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, update *models.Update) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic on update %d: %v", update.ID, r)
		}
	}()

	event := ClassifyUpdate(update)
	switch event.Kind {
	case EventMessage:
		token := CommandToken(event.Message.Text, d.deps.BotUsername)
		handler, ok := d.commands[token]
		if !ok {
			handler = d.unknown
		}
		return handler(ctx, event.Message.From)
	case EventBotMembership:
		return d.membership(ctx, event.Membership)
	default:
		if update != nil {
			d.deps.Logger.DebugContext(ctx, "Ignoring update", "update_id", update.ID)
		}
		return nil
	}
}

// Handle adapts Dispatch to the go-telegram/bot handler signature. Errors are
// logged through the same path as polling errors and never stop the receive loop.
func (d *Dispatcher) Handle(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if err := d.Dispatch(ctx, update); err != nil {
		telegram.LogError(ctx, d.deps.Logger, "dispatch", err)
	}
}
