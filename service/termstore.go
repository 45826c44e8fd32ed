package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yyonggg2/MechMentorApp/model"
	_ "modernc.org/sqlite"
)

// ErrDuplicateTerm is returned when a term string already exists in the table.
var ErrDuplicateTerm = errors.New("term already exists")

const termsSchema = `
CREATE TABLE IF NOT EXISTS terms (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	term TEXT NOT NULL UNIQUE,
	analysis TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_terms_term ON terms(term);
`

// TermStore persists user-confirmed terms in a SQLite table. Terms are only
// ever inserted and listed; there is no update or delete.
type TermStore struct {
	db *sql.DB
}

// NewTermStore opens (or creates) the SQLite database at path and ensures
// the schema exists.
func NewTermStore(path string) (*TermStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(termsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &TermStore{db: db}, nil
}

// Create inserts a term record with a server-assigned creation timestamp and
// returns it. Returns ErrDuplicateTerm when the term string is already taken.
func (s *TermStore) Create(ctx context.Context, term, analysis string) (*model.Term, error) {
	createdAt := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO terms (term, analysis, created_at) VALUES (?, ?, ?)`,
		term, analysis, createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateTerm
		}
		return nil, fmt.Errorf("insert term: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return &model.Term{
		ID:        id,
		Term:      term,
		Analysis:  analysis,
		CreatedAt: createdAt,
	}, nil
}

// List returns terms ordered by id, skipping skip rows and returning at most
// limit rows.
func (s *TermStore) List(ctx context.Context, skip, limit int) ([]model.Term, error) {
	if limit <= 0 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, term, analysis, created_at FROM terms ORDER BY id LIMIT ? OFFSET ?`,
		limit, skip,
	)
	if err != nil {
		return nil, fmt.Errorf("query terms: %w", err)
	}
	defer rows.Close()

	terms := make([]model.Term, 0)
	for rows.Next() {
		var t model.Term
		if err := rows.Scan(&t.ID, &t.Term, &t.Analysis, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan term: %w", err)
		}
		terms = append(terms, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate terms: %w", err)
	}
	return terms, nil
}

// Close closes the underlying database.
func (s *TermStore) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
