// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists completed newsletter runs in a local SQLite
// database. The pipeline itself stays stateless; archiving happens after
// a run returns and is optional.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/newsletter-engine/pkg/types"
)

const defaultMaxResults = 20

// Run is one archived newsletter run.
type Run struct {
	ID        string               `json:"id"`
	Topic     string               `json:"topic"`
	Model     string               `json:"model"`
	CreatedAt time.Time            `json:"created_at"`
	Result    types.PipelineResult `json:"result"`
}

// Store manages the newsletter archive database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the archive database at cfg.Path, creating
// the schema if needed.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = "newsletters.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening archive database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating archive schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			model TEXT,
			created_at TEXT NOT NULL,
			research TEXT NOT NULL,
			insights TEXT NOT NULL,
			draft TEXT NOT NULL,
			final TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save archives one completed run and returns its assigned ID.
func (s *Store) Save(ctx context.Context, topic, model string, result types.PipelineResult) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, topic, model, created_at, research, insights, draft, final)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, topic, model, time.Now().UTC().Format(time.RFC3339),
		result.Research, result.Insights, result.Draft, result.Final,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// List returns the most recent runs, newest first, without stage texts.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, model, created_at FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &r.Topic, &r.Model, &created); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, created); parseErr == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get returns one archived run with its full stage texts. An ID prefix is
// accepted when it is unambiguous.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, model, created_at, research, insights, draft, final
		 FROM runs WHERE id = ? OR id LIKE ? LIMIT 2`, id, id+"%")
	if err != nil {
		return Run{}, fmt.Errorf("querying run: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &r.Topic, &r.Model, &created,
			&r.Result.Research, &r.Result.Insights, &r.Result.Draft, &r.Result.Final); err != nil {
			return Run{}, fmt.Errorf("scanning run: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, created); parseErr == nil {
			r.CreatedAt = t
		}
		matches = append(matches, r)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}

	switch len(matches) {
	case 0:
		return Run{}, fmt.Errorf("run %s not found", id)
	case 1:
		return matches[0], nil
	default:
		return Run{}, fmt.Errorf("run ID %s is ambiguous", id)
	}
}
