package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for database operations.
// Every method runs as a single statement on its own pooled connection; no
// transaction spans two calls.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// UpsertUser inserts a user or, if the ID exists, updates FirstName, LastName and Username.
	UpsertUser(ctx context.Context, user *User) error

	// UpsertChat inserts a chat or, if the ID exists, updates Title, Username and Type.
	UpsertChat(ctx context.Context, chat *Chat) error

	// ListChatsByOwner returns every chat added by userID. The slice is empty, not nil, when there are none.
	ListChatsByOwner(ctx context.Context, userID int64) ([]Chat, error)

	// DeleteChat removes a chat record. Deleting a missing chat is not an error.
	DeleteChat(ctx context.Context, chatID int64) error

	// GetUser retrieves a user by ID. Returns nil, nil if not found.
	GetUser(ctx context.Context, userID int64) (*User, error)

	// GetChat retrieves a chat by ID. Returns nil, nil if not found.
	GetChat(ctx context.Context, chatID int64) (*Chat, error)

	// Stats returns the number of stored users and chats.
	Stats(ctx context.Context) (Stats, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) UpsertUser(ctx context.Context, user *User) error {
	if user == nil {
		return errors.New("cannot save nil user")
	}
	if user.ID == 0 {
		return errors.New("user must have a non-zero id")
	}
	if user.FirstName == "" {
		return fmt.Errorf("user %d must have a first name", user.ID)
	}
	if user.StartDate.IsZero() {
		return fmt.Errorf("user %d must have a start date", user.ID)
	}
	user.StartDate = user.StartDate.UTC()

	query := `
        INSERT INTO Users (Id, FirstName, LastName, Username, StartDate)
        VALUES (:Id, :FirstName, :LastName, :Username, :StartDate)
        ON CONFLICT(Id) DO UPDATE SET
            FirstName = excluded.FirstName,
            LastName = excluded.LastName,
            Username = excluded.Username;
    `

	if _, err := s.db.NamedExecContext(ctx, query, user); err != nil {
		s.logger.ErrorContext(ctx, "Error saving user", "user_id", user.ID, "error", err)
		return fmt.Errorf("failed to save user %d: %w", user.ID, err)
	}

	s.logger.InfoContext(ctx, "User saved to database", "user_id", user.ID, "username", usernameOrNA(user.Username))
	return nil
}

func (s *sqlxStore) UpsertChat(ctx context.Context, chat *Chat) error {
	if chat == nil {
		return errors.New("cannot save nil chat")
	}
	if chat.ID == 0 {
		return errors.New("chat must have a non-zero id")
	}
	if chat.Title == "" {
		return fmt.Errorf("chat %d must have a title", chat.ID)
	}
	if chat.AddedByUserID == 0 {
		return fmt.Errorf("chat %d must have a non-zero added_by_user_id", chat.ID)
	}
	if chat.DateAdded.IsZero() {
		return fmt.Errorf("chat %d must have a date added", chat.ID)
	}
	chat.DateAdded = chat.DateAdded.UTC()

	query := `
        INSERT INTO Chats (Id, Title, Type, Username, AddedByUserId, DateAdded)
        VALUES (:Id, :Title, :Type, :Username, :AddedByUserId, :DateAdded)
        ON CONFLICT(Id) DO UPDATE SET
            Title = excluded.Title,
            Username = excluded.Username,
            Type = excluded.Type;
    `

	if _, err := s.db.NamedExecContext(ctx, query, chat); err != nil {
		s.logger.ErrorContext(ctx, "Error saving chat", "chat_id", chat.ID, "error", err)
		return fmt.Errorf("failed to save chat %d: %w", chat.ID, err)
	}

	s.logger.InfoContext(ctx, "Chat saved to database", "chat_id", chat.ID, "title", chat.Title)
	return nil
}

func (s *sqlxStore) ListChatsByOwner(ctx context.Context, userID int64) ([]Chat, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	chats := []Chat{}
	query := `
        SELECT Id, Title, Type, Username, AddedByUserId, DateAdded
        FROM Chats
        WHERE AddedByUserId = ?
        ORDER BY DateAdded ASC, Id ASC;
    `

	err := s.db.SelectContext(ctx, &chats, query, userID)

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while listing chats", "user_id", userID, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error listing chats by owner", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list chats for user %d: %w", userID, err)
	}

	s.logger.DebugContext(ctx, "Listed chats by owner", "user_id", userID, "count", len(chats))
	return chats, nil
}

func (s *sqlxStore) DeleteChat(ctx context.Context, chatID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM Chats WHERE Id = ?`, chatID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting chat", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to delete chat %d: %w", chatID, err)
	}

	count, _ := result.RowsAffected()
	s.logger.DebugContext(ctx, "Deleted chat", "chat_id", chatID, "rows", count)
	return nil
}

func (s *sqlxStore) GetUser(ctx context.Context, userID int64) (*User, error) {
	var user User
	err := s.db.GetContext(ctx, &user,
		`SELECT Id, FirstName, LastName, Username, StartDate FROM Users WHERE Id = ?`, userID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting user by ID", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	return &user, nil
}

func (s *sqlxStore) GetChat(ctx context.Context, chatID int64) (*Chat, error) {
	var chat Chat
	err := s.db.GetContext(ctx, &chat,
		`SELECT Id, Title, Type, Username, AddedByUserId, DateAdded FROM Chats WHERE Id = ?`, chatID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting chat by ID", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to get chat %d: %w", chatID, err)
	}
	return &chat, nil
}

func (s *sqlxStore) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.db.GetContext(ctx, &stats,
		`SELECT (SELECT COUNT(*) FROM Users) AS users, (SELECT COUNT(*) FROM Chats) AS chats`)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count users and chats: %w", err)
	}
	return stats, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM cannot run inside a transaction
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}

func usernameOrNA(s sql.NullString) string {
	if !s.Valid || s.String == "" {
		return "N/A"
	}
	return s.String
}
