// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/harbor-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotFound    = errors.New("conversation not found")
	ErrInvalidPath = errors.New("invalid database path")
)

// =============================================================================
// SCHEMA
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	title         TEXT NOT NULL,
	model         TEXT NOT NULL DEFAULT '',
	system_prompt TEXT NOT NULL DEFAULT '',
	messages      TEXT NOT NULL DEFAULT '[]',
	timestamp     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_conversations_timestamp
	ON conversations(timestamp DESC);
`

// =============================================================================
// STORE
// =============================================================================

// Store is the SQLite-backed conversation store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the conversation database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}

	// Create database directory if needed
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Debug().Str("path", path).Msg("conversation store opened")
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// =============================================================================
// READS
// =============================================================================

// GetByID returns the conversation with the given ID, message payload
// included.
func (s *Store) GetByID(ctx context.Context, id int64) (model.Conversation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, model, system_prompt, messages, timestamp
		FROM conversations WHERE id = ?`, id)

	var c model.Conversation
	err := row.Scan(&c.ID, &c.Title, &c.Model, &c.SystemPrompt, &c.Messages, &c.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Conversation{}, ErrNotFound
	}
	if err != nil {
		return model.Conversation{}, fmt.Errorf("failed to load conversation %d: %w", id, err)
	}
	return c, nil
}

// ListRecent returns up to limit conversations, newest first. The message
// payload is replaced by the empty placeholder in the query itself so large
// transcripts never leave the database.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]model.Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, model, system_prompt, ?, timestamp
		FROM conversations
		ORDER BY timestamp DESC
		LIMIT ?`, model.EmptyMessagesPayload, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	return scanConversations(rows)
}

// SearchByTitle returns the conversations whose title contains query,
// case-insensitively, preserving newest-first order. An empty or
// whitespace-only query matches everything. Matching uses Unicode case
// folding, not ASCII lowering.
func (s *Store) SearchByTitle(ctx context.Context, query string, limit int) ([]model.Conversation, error) {
	all, err := s.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return all, nil
	}

	// UNICODE: fold both sides so "STRASSE" matches "straße".
	folder := cases.Fold()
	needle := folder.String(query)

	matched := make([]model.Conversation, 0, len(all))
	for _, c := range all {
		if strings.Contains(folder.String(c.Title), needle) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func scanConversations(rows *sql.Rows) ([]model.Conversation, error) {
	var out []model.Conversation
	for rows.Next() {
		var c model.Conversation
		if err := rows.Scan(&c.ID, &c.Title, &c.Model, &c.SystemPrompt, &c.Messages, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan conversation row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversation rows: %w", err)
	}
	return out, nil
}

// =============================================================================
// WRITES
// =============================================================================

// Create inserts a new conversation and returns it with its assigned ID.
func (s *Store) Create(ctx context.Context, c model.Conversation) (model.Conversation, error) {
	if c.Title == "" {
		c.Title = model.DefaultTitle
	}
	if c.Messages == "" {
		c.Messages = model.EmptyMessagesPayload
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (title, model, system_prompt, messages, timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		c.Title, c.Model, c.SystemPrompt, c.Messages, c.Timestamp)
	if err != nil {
		return model.Conversation{}, fmt.Errorf("failed to create conversation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Conversation{}, fmt.Errorf("failed to read inserted id: %w", err)
	}
	c.ID = id
	return c, nil
}

// Rename updates the title of an existing conversation. It returns
// ErrNotFound when no row with that ID exists.
func (s *Store) Rename(ctx context.Context, id int64, title string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET title = ? WHERE id = ?`, title, id)
	if err != nil {
		return fmt.Errorf("failed to rename conversation %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateMessages replaces the message payload and bumps the activity
// timestamp. It returns ErrNotFound when no row with that ID exists.
func (s *Store) UpdateMessages(ctx context.Context, id int64, messages string, timestamp int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET messages = ?, timestamp = ? WHERE id = ?`,
		messages, timestamp, id)
	if err != nil {
		return fmt.Errorf("failed to update conversation %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a conversation. Deleting an absent ID is not an error; the
// end state is the same either way.
func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete conversation %d: %w", id, err)
	}
	return nil
}
