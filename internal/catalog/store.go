// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog keeps the past-papers catalog: one SQLite row per
// question with its syllabus classification, imported from spreadsheets
// and narrowed with cascading filters.
package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/paperclean/pkg/types"
)

// DefaultDBPath is used when the configuration names no database.
const DefaultDBPath = "past_papers.db"

// Store manages the catalog database.
type Store struct {
	db  *sqlx.DB
	log *zap.Logger
}

// Open opens or creates the catalog at cfg.DBPath and ensures the schema.
func Open(cfg types.CatalogConfig, log *zap.Logger) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = DefaultDBPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	// One writer; sqlite serializes anyway.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, log: log}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	log.Debug("catalog opened", zap.String("path", path))
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS past_papers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			subject_name TEXT NOT NULL DEFAULT '',
			subject_code TEXT NOT NULL DEFAULT '',
			topic TEXT NOT NULL DEFAULT '',
			sub_topic TEXT NOT NULL DEFAULT '',
			paper_number TEXT NOT NULL DEFAULT '',
			paper_variant TEXT NOT NULL DEFAULT '',
			variant TEXT NOT NULL DEFAULT '',
			difficulty TEXT NOT NULL DEFAULT '',
			year TEXT NOT NULL DEFAULT '',
			marks INTEGER NOT NULL DEFAULT 0,
			question_number TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_past_papers_subject ON past_papers(subject_name, topic)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Insert adds records in one transaction and returns the number inserted.
// Record IDs are assigned by the database.
func (s *Store) Insert(ctx context.Context, records []types.PaperRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx,
		`INSERT INTO past_papers (subject_name, subject_code, topic, sub_topic, paper_number,
			paper_variant, variant, difficulty, year, marks, question_number)
		 VALUES (:subject_name, :subject_code, :topic, :sub_topic, :paper_number,
			:paper_variant, :variant, :difficulty, :year, :marks, :question_number)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, r); err != nil {
			return 0, fmt.Errorf("inserting record %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return len(records), nil
}

// Count returns the number of catalog rows.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT count(*) FROM past_papers`); err != nil {
		return 0, fmt.Errorf("counting rows: %w", err)
	}
	return n, nil
}
