package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/botiran/initinfobot/internal/config"
	"github.com/botiran/initinfobot/internal/database"
)

var errPlatform = errors.New("platform failure")

type sentMessage struct {
	ChatID    int64
	Text      string
	ParseMode models.ParseMode
}

// fakePlatform records outgoing messages and serves chats from a map.
// Per-chat failures are injected through the fail* sets.
type fakePlatform struct {
	mu sync.Mutex

	chats       map[int64]*models.ChatFullInfo
	memberCount map[int64]int
	inviteLinks map[int64]string

	failGetChat     map[int64]bool
	failMemberCount map[int64]bool
	failLeave       map[int64]bool

	sent []sentMessage
	left []int64
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		chats:           map[int64]*models.ChatFullInfo{},
		memberCount:     map[int64]int{},
		inviteLinks:     map[int64]string{},
		failGetChat:     map[int64]bool{},
		failMemberCount: map[int64]bool{},
		failLeave:       map[int64]bool{},
	}
}

func (p *fakePlatform) addChat(chat *models.ChatFullInfo, members int, inviteLink string) {
	p.chats[chat.ID] = chat
	p.memberCount[chat.ID] = members
	if inviteLink != "" {
		p.inviteLinks[chat.ID] = inviteLink
	}
}

func (p *fakePlatform) SendMessage(_ context.Context, chatID int64, text string, parseMode models.ParseMode) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, sentMessage{ChatID: chatID, Text: text, ParseMode: parseMode})
	return nil
}

func (p *fakePlatform) GetChat(_ context.Context, chatID int64) (*models.ChatFullInfo, error) {
	if p.failGetChat[chatID] {
		return nil, errPlatform
	}
	chat, ok := p.chats[chatID]
	if !ok {
		return nil, errPlatform
	}
	return chat, nil
}

func (p *fakePlatform) GetChatMemberCount(_ context.Context, chatID int64) (int, error) {
	if p.failMemberCount[chatID] {
		return 0, errPlatform
	}
	return p.memberCount[chatID], nil
}

func (p *fakePlatform) ExportChatInviteLink(_ context.Context, chatID int64) (string, error) {
	link, ok := p.inviteLinks[chatID]
	if !ok {
		return "", errPlatform
	}
	return link, nil
}

func (p *fakePlatform) LeaveChat(_ context.Context, chatID int64) error {
	if p.failLeave[chatID] {
		return errPlatform
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.left = append(p.left, chatID)
	return nil
}

func (p *fakePlatform) texts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.sent))
	for i, m := range p.sent {
		out[i] = m.Text
	}
	return out
}

// failingStore fails every call. It stands in for a broken database.
type failingStore struct{}

var errStore = errors.New("store failure")

func (failingStore) UpsertUser(context.Context, *database.User) error { return errStore }
func (failingStore) UpsertChat(context.Context, *database.Chat) error { return errStore }
func (failingStore) ListChatsByOwner(context.Context, int64) ([]database.Chat, error) {
	return nil, errStore
}
func (failingStore) DeleteChat(context.Context, int64) error { return errStore }

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func timeStep(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func testConfig() *config.Config {
	return &config.Config{
		Telegram: config.TelegramConfig{BotName: "Init Info"},
		Bulk:     config.BulkConfig{Delay: 0},
		Messages: config.DefaultMessages,
	}
}

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "handlers.db"))
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func newTestDeps(store Store, platform Platform) HandlerDeps {
	return HandlerDeps{
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:      testConfig(),
		Store:       store,
		Platform:    platform,
		BotUsername: "InitInfoBot",
		Now:         func() time.Time { return fixedNow },
	}
}

func messageUpdate(id int64, from *models.User, text string) *models.Update {
	return &models.Update{
		ID: id,
		Message: &models.Message{
			ID:   int(id),
			From: from,
			Chat: models.Chat{ID: from.ID, Type: models.ChatTypePrivate},
			Text: text,
		},
	}
}

func addedToChatUpdate(id int64, from models.User, chat models.Chat, status models.ChatMemberType) *models.Update {
	return &models.Update{
		ID: id,
		MyChatMember: &models.ChatMemberUpdated{
			Chat:          chat,
			From:          from,
			OldChatMember: models.ChatMember{Type: models.ChatMemberTypeLeft},
			NewChatMember: models.ChatMember{Type: status},
		},
	}
}
