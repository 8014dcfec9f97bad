package dbi

import (
	"fmt"
	"net"

	"github.com/google/uuid"
)

// sampleSchema is the DDL of the sample database, in dependency order.
var sampleSchema = []string{
	`CREATE TABLE users (
    id INTEGER PRIMARY KEY,
    name VARCHAR(40) NOT NULL,
    email VARCHAR(80) UNIQUE,
    bio TEXT,
    ip VARBINARY(16),
    created_at DATETIME
)`,
	`CREATE TABLE posts (
    id INTEGER PRIMARY KEY,
    ref CHAR(36) NOT NULL UNIQUE,
    user_id INTEGER NOT NULL REFERENCES users(id),
    title VARCHAR(120) NOT NULL,
    body TEXT,
    score REAL
)`,
	`CREATE INDEX idx_posts_user ON posts(user_id)`,
}

// sampleUser is one seeded users row.
type sampleUser struct {
	name, email, bio, ip, created string
}

var sampleUsers = []sampleUser{
	{"Al\\ice", "alice@example.com", "", "192.168.0.10", "2024-01-15 09:30:00"},
	{"Bob", "bob@example.com", "line1\nline2", "2001:db8::1", "2024-02-01 12:00:00"},
	{"Carol \"CJ\"", "", "likes tables", "", "2024-03-10 18:45:00"},
}

// Seed creates the sample users and posts tables in db and fills them.
// Seeding is idempotent: it does nothing when a users table exists.
func (b *Backend) Seed(db string) error {
	tables, err := b.Tables(db)
	if err != nil {
		return err
	}
	for _, t := range tables {
		if t == "users" {
			return nil
		}
	}

	h, err := b.handle(db)
	if err != nil {
		return err
	}
	tx, err := h.Begin()
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, ddl := range sampleSchema {
		if _, err := tx.Exec(ddl); err != nil {
			return fmt.Errorf("creating sample schema: %w", err)
		}
	}

	for i, u := range sampleUsers {
		id := i + 1
		_, err := tx.Exec(
			"INSERT INTO users (id, name, email, bio, ip, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			id, u.name, nullable(u.email), nullable(u.bio), packIP(u.ip), u.created,
		)
		if err != nil {
			return fmt.Errorf("seeding user %s: %w", u.name, err)
		}

		ref, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generating post UUID: %w", err)
		}
		_, err = tx.Exec(
			"INSERT INTO posts (ref, user_id, title, body, score) VALUES (?, ?, ?, ?, ?)",
			ref.String(), id, fmt.Sprintf("Hello from %s", u.name), nil, float64(id)*1.5,
		)
		if err != nil {
			return fmt.Errorf("seeding post for %s: %w", u.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed transaction: %w", err)
	}
	return nil
}

// nullable maps the empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// packIP returns the 4- or 16-byte binary form of a textual address, or
// NULL for the empty string.
func packIP(s string) any {
	ip := net.ParseIP(s)
	if ip == nil {
		return nil
	}
	if v4 := ip.To4(); v4 != nil {
		return []byte(v4)
	}
	return []byte(ip.To16())
}
