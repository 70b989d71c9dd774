// Package session persists the signed-in user of the terminal client in a
// local SQLite file so a login survives restarts.
package session

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Session struct {
	Token    string
	Username string
	Email    string
	SavedAt  time.Time
}

// Store holds at most one session.
type Store struct {
	db  *sql.DB
	Now func() time.Time
}

func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, Now: time.Now}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("migrate session db: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Set replaces the stored session.
func (s *Store) Set(ctx context.Context, sess Session) error {
	if sess.Token == "" {
		return errors.New("session token is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (id, token, username, email, saved_at) VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			username = excluded.username,
			email = excluded.email,
			saved_at = excluded.saved_at
	`, sess.Token, sess.Username, sess.Email, s.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Current returns the stored session; ok is false when nobody is signed in.
func (s *Store) Current(ctx context.Context) (Session, bool, error) {
	var (
		sess    Session
		savedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT token, username, email, saved_at FROM session WHERE id = 1`,
	).Scan(&sess.Token, &sess.Username, &sess.Email, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("load session: %w", err)
	}
	if parsed, err := time.Parse(time.RFC3339Nano, savedAt); err == nil {
		sess.SavedAt = parsed
	}
	return sess, true, nil
}

func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
