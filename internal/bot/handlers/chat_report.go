package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"
)

// sendChatReport sends userID a report on chatID: title, id, member count and,
// for non-private chats, an invite link. A missing invite link (usually the bot
// lacks the right to create one) just omits the line. If the chat or its member
// count cannot be fetched, the user gets a one-line failure notice instead and
// the error stops here. Only a failure to deliver the message is returned.
func sendChatReport(ctx context.Context, deps HandlerDeps, userID, chatID int64) error {
	log := deps.Logger.With("handler", "chat_report", "user_id", userID, "chat_id", chatID)

	chat, err := deps.Platform.GetChat(ctx, chatID)
	if err != nil {
		return reportFailure(ctx, deps, userID, chatID, fmt.Errorf("failed to get chat: %w", err))
	}
	memberCount, err := deps.Platform.GetChatMemberCount(ctx, chatID)
	if err != nil {
		return reportFailure(ctx, deps, userID, chatID, fmt.Errorf("failed to get member count: %w", err))
	}

	inviteLink := ""
	if chat.Type != models.ChatTypePrivate {
		link, err := deps.Platform.ExportChatInviteLink(ctx, chatID)
		if err != nil {
			log.DebugContext(ctx, "Invite link unavailable", "error", err)
		} else {
			inviteLink = link
		}
	}

	if err := reply(ctx, deps, userID, chatReportText(chat, memberCount, inviteLink), models.ParseModeMarkdownV1); err != nil {
		return err
	}
	log.DebugContext(ctx, "Sent chat report", "member_count", memberCount, "has_invite_link", inviteLink != "")
	return nil
}

func reportFailure(ctx context.Context, deps HandlerDeps, userID, chatID int64, cause error) error {
	deps.Logger.ErrorContext(ctx, "Failed to send detailed info for chat", "chat_id", chatID, "user_id", userID, "error", cause)
	return reply(ctx, deps, userID, fmt.Sprintf("❌ Failed to retrieve information for chat `%d`.", chatID), "")
}

func chatReportText(chat *models.ChatFullInfo, memberCount int, inviteLink string) string {
	lines := []string{
		"Chat Report: " + boldMarkdown(chatTitle(chat)),
		"-----------------------------------",
		fmt.Sprintf("ID: %d", chat.ID),
		fmt.Sprintf("Members: %d", memberCount),
	}
	if inviteLink != "" {
		lines = append(lines, "Invite Link: "+escapeMarkdown(inviteLink))
	}
	return strings.Join(lines, "\n")
}

// chatTitle falls back to the user's name for private chats, which have no title.
func chatTitle(chat *models.ChatFullInfo) string {
	if chat.Title != "" {
		return chat.Title
	}
	if name := strings.TrimSpace(chat.FirstName + " " + chat.LastName); name != "" {
		return name
	}
	return "N/A"
}
