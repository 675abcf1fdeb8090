package database

import (
	"database/sql"
	"time"
)

// User is a person who has interacted with the bot, either through /start or by
// adding the bot to a chat. StartDate is written once, on first insert.
type User struct {
	ID        int64          `db:"Id"`
	FirstName string         `db:"FirstName"`
	LastName  sql.NullString `db:"LastName"`
	Username  sql.NullString `db:"Username"`
	StartDate time.Time      `db:"StartDate"`
}

// Chat is a group, supergroup, channel or private conversation the bot was added to.
// AddedByUserID and DateAdded are written once, on first insert.
type Chat struct {
	ID            int64          `db:"Id"`
	Title         string         `db:"Title"`
	Type          string         `db:"Type"`
	Username      sql.NullString `db:"Username"`
	AddedByUserID int64          `db:"AddedByUserId"`
	DateAdded     time.Time      `db:"DateAdded"`
}

// Stats holds row counts of the two tables.
type Stats struct {
	Users int64 `db:"users"`
	Chats int64 `db:"chats"`
}

// NullString converts an optional platform field into a nullable column value.
// Empty strings are stored as NULL.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
