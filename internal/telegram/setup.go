// Package telegram wraps the go-telegram/bot client behind the small set of
// Bot API calls the bot needs, and classifies their failures.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/botiran/initinfobot/internal/config"
)

// AllowedUpdates is sent with every getUpdates call. Telegram keeps the last
// filter a token used, so it is always sent explicitly.
var AllowedUpdates = bot.AllowedUpdates{"message", "my_chat_member"}

// Client is constructed once at startup and shared read-only by the worker
// loop and the update handlers.
type Client struct {
	bot    *bot.Bot
	logger *slog.Logger
}

// NewClient creates the underlying go-telegram/bot instance. Handlers run one
// at a time in the polling goroutine, and polling errors go to NewErrorsHandler.
// The bot identity is not fetched here; the worker loop calls GetMe on start.
func NewClient(cfg config.TelegramConfig, logger *slog.Logger, opts ...bot.Option) (*Client, error) {
	if cfg.Token == "" {
		return nil, errors.New("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_bot")

	botOpts := []bot.Option{
		bot.WithSkipGetMe(),
		bot.WithNotAsyncHandlers(),
		bot.WithErrorsHandler(NewErrorsHandler(log)),
		bot.WithAllowedUpdates(AllowedUpdates),
	}
	if cfg.APIServerURL != "" {
		botOpts = append(botOpts, bot.WithServerURL(cfg.APIServerURL))
	}
	botOpts = append(botOpts, opts...)

	b, err := bot.New(cfg.Token, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot instance created successfully",
		"token_prefix", tokenPrefix(cfg.Token),
		"server_url", cfg.APIServerURL)
	return &Client{bot: b, logger: log}, nil
}

// Handle routes every update, whatever its type, to h.
func (c *Client) Handle(h bot.HandlerFunc) {
	c.bot.RegisterHandlerMatchFunc(func(*models.Update) bool { return true }, h)
}

// Start runs the long-poll loop until ctx is cancelled.
func (c *Client) Start(ctx context.Context) {
	c.bot.Start(ctx)
}

// GetMe returns the bot's own user.
func (c *Client) GetMe(ctx context.Context) (*models.User, error) {
	me, err := c.bot.GetMe(ctx)
	return me, wrapError("getMe", err)
}

// DropPendingUpdates discards updates queued on the server while the bot was offline.
func (c *Client) DropPendingUpdates(ctx context.Context) error {
	_, err := c.bot.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true})
	return wrapError("deleteWebhook", err)
}

// SendMessage sends text to chatID. An empty parseMode sends plain text.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, parseMode models.ParseMode) error {
	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: parseMode,
	})
	return wrapError("sendMessage", err)
}

func (c *Client) GetChat(ctx context.Context, chatID int64) (*models.ChatFullInfo, error) {
	chat, err := c.bot.GetChat(ctx, &bot.GetChatParams{ChatID: chatID})
	return chat, wrapError("getChat", err)
}

func (c *Client) GetChatMemberCount(ctx context.Context, chatID int64) (int, error) {
	count, err := c.bot.GetChatMemberCount(ctx, &bot.GetChatMemberCountParams{ChatID: chatID})
	return count, wrapError("getChatMemberCount", err)
}

func (c *Client) ExportChatInviteLink(ctx context.Context, chatID int64) (string, error) {
	link, err := c.bot.ExportChatInviteLink(ctx, &bot.ExportChatInviteLinkParams{ChatID: chatID})
	return link, wrapError("exportChatInviteLink", err)
}

func (c *Client) LeaveChat(ctx context.Context, chatID int64) error {
	_, err := c.bot.LeaveChat(ctx, &bot.LeaveChatParams{ChatID: chatID})
	return wrapError("leaveChat", err)
}

func tokenPrefix(token string) string {
	if len(token) <= 8 {
		return "..."
	}
	return token[:8] + "..."
}
