package database

import (
	"context"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

func newTestStore(t *testing.T) Store {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { CloseDB(db) })

	return NewStore(db, nil)
}

func mustUpsertUser(t *testing.T, s Store, u *User) {
	t.Helper()
	if err := s.UpsertUser(context.Background(), u); err != nil {
		t.Fatalf("UpsertUser(%d) error = %v", u.ID, err)
	}
}

func mustUpsertChat(t *testing.T, s Store, c *Chat) {
	t.Helper()
	if err := s.UpsertChat(context.Background(), c); err != nil {
		t.Fatalf("UpsertChat(%d) error = %v", c.ID, err)
	}
}

func TestNewDB_ReappliesSchemaIdempotently(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reopen.db")
	for i := 0; i < 2; i++ {
		db, err := NewDB(path)
		if err != nil {
			t.Fatalf("NewDB() attempt %d error = %v", i+1, err)
		}
		CloseDB(db)
	}
}

func TestNewDB_FileURI(t *testing.T) {
	t.Parallel()

	uri := "file:" + filepath.Join(t.TempDir(), "uri.db") + "?mode=rwc"
	for i := 0; i < 2; i++ {
		db, err := NewDB(uri)
		if err != nil {
			t.Fatalf("NewDB(%q) attempt %d error = %v", uri, i+1, err)
		}
		store := NewStore(db, nil)
		if err := store.Ping(context.Background()); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
		CloseDB(db)
	}
}

func TestNewDB_EmptyPath(t *testing.T) {
	t.Parallel()

	if _, err := NewDB("  "); err == nil {
		t.Fatal("NewDB(\"  \") expected error, got nil")
	}
}

func TestUpsertUser_KeepsStartDate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mustUpsertUser(t, s, &User{ID: 42, FirstName: "Alice", Username: NullString("alice"), StartDate: t0})
	mustUpsertUser(t, s, &User{
		ID:        42,
		FirstName: "Alicia",
		LastName:  NullString("Smith"),
		Username:  NullString("alicia"),
		StartDate: t0.Add(48 * time.Hour),
	})

	got, err := s.GetUser(ctx, 42)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetUser() returned nil user")
	}
	if got.FirstName != "Alicia" || got.LastName.String != "Smith" || got.Username.String != "alicia" {
		t.Errorf("mutable fields not updated: %+v", got)
	}
	if !got.StartDate.Equal(t0) {
		t.Errorf("StartDate = %v, want %v", got.StartDate, t0)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Users != 1 {
		t.Errorf("Stats().Users = %d, want 1", stats.Users)
	}
}

func TestUpsertUser_ClearsOptionalFields(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	now := time.Now()
	mustUpsertUser(t, s, &User{ID: 7, FirstName: "Bob", LastName: NullString("Stone"), Username: NullString("bob"), StartDate: now})
	mustUpsertUser(t, s, &User{ID: 7, FirstName: "Bob", StartDate: now})

	got, err := s.GetUser(context.Background(), 7)
	if err != nil || got == nil {
		t.Fatalf("GetUser() = %v, %v", got, err)
	}
	if got.LastName.Valid || got.Username.Valid {
		t.Errorf("optional fields should be NULL, got last=%v username=%v", got.LastName, got.Username)
	}
}

func TestUpsertUser_Validation(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	tests := []struct {
		name string
		user *User
	}{
		{name: "nil user", user: nil},
		{name: "zero id", user: &User{FirstName: "A", StartDate: time.Now()}},
		{name: "missing first name", user: &User{ID: 1, StartDate: time.Now()}},
		{name: "missing start date", user: &User{ID: 1, FirstName: "A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.UpsertUser(context.Background(), tt.user); err == nil {
				t.Error("UpsertUser() expected error, got nil")
			}
		})
	}
}

func TestUpsertChat_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	added := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	mustUpsertUser(t, s, &User{ID: 42, FirstName: "Alice", StartDate: added})

	chat := Chat{ID: -100, Title: "Team", Type: "group", AddedByUserID: 42, DateAdded: added}
	first, second := chat, chat
	mustUpsertChat(t, s, &first)
	mustUpsertChat(t, s, &second)

	chats, err := s.ListChatsByOwner(ctx, 42)
	if err != nil {
		t.Fatalf("ListChatsByOwner() error = %v", err)
	}
	if len(chats) != 1 {
		t.Fatalf("ListChatsByOwner() returned %d chats, want 1", len(chats))
	}
	got := chats[0]
	if got.ID != chat.ID || got.Title != chat.Title || got.Type != chat.Type || got.AddedByUserID != 42 || got.Username.Valid {
		t.Errorf("stored chat = %+v, want %+v", got, chat)
	}
	if !got.DateAdded.Equal(added) {
		t.Errorf("DateAdded = %v, want %v", got.DateAdded, added)
	}
}

func TestUpsertChat_UpdatesOnlyMutableFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	added := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	mustUpsertUser(t, s, &User{ID: 1, FirstName: "Owner", StartDate: added})
	mustUpsertUser(t, s, &User{ID: 2, FirstName: "Other", StartDate: added})

	mustUpsertChat(t, s, &Chat{ID: -200, Title: "Old", Type: "group", AddedByUserID: 1, DateAdded: added})
	mustUpsertChat(t, s, &Chat{
		ID:            -200,
		Title:         "New",
		Type:          "supergroup",
		Username:      NullString("newhandle"),
		AddedByUserID: 2,
		DateAdded:     added.Add(time.Hour),
	})

	got, err := s.GetChat(ctx, -200)
	if err != nil || got == nil {
		t.Fatalf("GetChat() = %v, %v", got, err)
	}
	if got.Title != "New" || got.Type != "supergroup" || got.Username.String != "newhandle" {
		t.Errorf("mutable fields not updated: %+v", got)
	}
	if got.AddedByUserID != 1 {
		t.Errorf("AddedByUserID = %d, want 1", got.AddedByUserID)
	}
	if !got.DateAdded.Equal(added) {
		t.Errorf("DateAdded = %v, want %v", got.DateAdded, added)
	}
}

func TestUpsertChat_RequiresExistingOwner(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	err := s.UpsertChat(context.Background(), &Chat{
		ID: -300, Title: "Orphan", Type: "group", AddedByUserID: 999, DateAdded: time.Now(),
	})
	if err == nil {
		t.Fatal("UpsertChat() with unknown owner expected foreign key error, got nil")
	}
}

func TestListChatsByOwner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	now := time.Now()
	mustUpsertUser(t, s, &User{ID: 1, FirstName: "One", StartDate: now})
	mustUpsertUser(t, s, &User{ID: 2, FirstName: "Two", StartDate: now})
	mustUpsertUser(t, s, &User{ID: 3, FirstName: "Three", StartDate: now})

	owners := map[int64]int64{-10: 1, -11: 1, -12: 2, -13: 1}
	for chatID, owner := range owners {
		mustUpsertChat(t, s, &Chat{ID: chatID, Title: "chat", Type: "group", AddedByUserID: owner, DateAdded: now})
	}

	tests := []struct {
		name  string
		owner int64
		want  []int64
	}{
		{name: "owner with several chats", owner: 1, want: []int64{-13, -11, -10}},
		{name: "owner with one chat", owner: 2, want: []int64{-12}},
		{name: "owner with none", owner: 3, want: []int64{}},
		{name: "unknown owner", owner: 404, want: []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chats, err := s.ListChatsByOwner(ctx, tt.owner)
			if err != nil {
				t.Fatalf("ListChatsByOwner() error = %v", err)
			}
			if chats == nil {
				t.Fatal("ListChatsByOwner() returned nil slice")
			}
			got := make([]int64, 0, len(chats))
			for _, c := range chats {
				if c.AddedByUserID != tt.owner {
					t.Errorf("chat %d has owner %d, want %d", c.ID, c.AddedByUserID, tt.owner)
				}
				got = append(got, c.ID)
			}
			sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
			if len(got) != len(tt.want) {
				t.Fatalf("got chats %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got chats %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestDeleteChat(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	now := time.Now()
	mustUpsertUser(t, s, &User{ID: 5, FirstName: "Five", StartDate: now})
	mustUpsertChat(t, s, &Chat{ID: -50, Title: "Keep", Type: "group", AddedByUserID: 5, DateAdded: now})
	mustUpsertChat(t, s, &Chat{ID: -51, Title: "Drop", Type: "channel", AddedByUserID: 5, DateAdded: now})

	if err := s.DeleteChat(ctx, -51); err != nil {
		t.Fatalf("DeleteChat(-51) error = %v", err)
	}
	if err := s.DeleteChat(ctx, -51); err != nil {
		t.Fatalf("second DeleteChat(-51) error = %v", err)
	}
	if err := s.DeleteChat(ctx, 123456); err != nil {
		t.Fatalf("DeleteChat(missing) error = %v", err)
	}

	if got, err := s.GetChat(ctx, -51); err != nil || got != nil {
		t.Errorf("GetChat(-51) = %v, %v, want nil, nil", got, err)
	}
	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Chats != 1 || stats.Users != 1 {
		t.Errorf("Stats() = %+v, want 1 user and 1 chat", stats)
	}
}

func TestRunSQLMaintenance(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	if err := s.RunSQLMaintenance(context.Background()); err != nil {
		t.Fatalf("RunSQLMaintenance() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.RunSQLMaintenance(ctx); err == nil {
		t.Error("RunSQLMaintenance() with cancelled context expected error, got nil")
	}
}

func TestWithPragmas(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain path",
			in:   "storage.db",
			want: "storage.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		},
		{
			name: "uri with query",
			in:   "file:storage.db?mode=rwc",
			want: "file:storage.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		},
		{
			name: "pragma already set",
			in:   "storage.db?_pragma=busy_timeout(100)",
			want: "storage.db?_pragma=busy_timeout(100)&_pragma=foreign_keys(1)",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := withPragmas(tt.in); got != tt.want {
				t.Errorf("withPragmas(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
