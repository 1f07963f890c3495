package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/PabloGalante/compass-agent/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_states (
	user_id    TEXT PRIMARY KEY,
	state      TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

const upsertState = `
INSERT INTO user_states (user_id, state, created_at, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
	state = excluded.state,
	updated_at = excluded.updated_at`

// Store keeps snapshots in a single SQLite file, as JSON text.
type Store struct {
	db *sql.DB
}

// Open creates the database file and schema if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) GetState(ctx context.Context, userID domain.UserID) (*domain.StateRecord, error) {
	var (
		raw                  string
		createdAt, updatedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT state, created_at, updated_at FROM user_states WHERE user_id = ?`,
		string(userID),
	).Scan(&raw, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite GetState: %w", err)
	}

	var state domain.AppState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("sqlite GetState decode: %w", err)
	}
	if state.Chat == nil {
		state.Chat = []domain.ChatMessage{}
	}

	return &domain.StateRecord{
		UserID:    userID,
		State:     state,
		CreatedAt: time.Unix(0, createdAt).UTC(),
		UpdatedAt: time.Unix(0, updatedAt).UTC(),
	}, nil
}

func (s *Store) UpsertState(ctx context.Context, userID domain.UserID, state domain.AppState, now time.Time) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("sqlite UpsertState encode: %w", err)
	}

	ts := now.UnixNano()
	if _, err := s.db.ExecContext(ctx, upsertState, string(userID), string(raw), ts, ts); err != nil {
		return fmt.Errorf("sqlite UpsertState: %w", err)
	}
	return nil
}
