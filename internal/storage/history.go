// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var (
	// ErrNotFound means no record matches the id.
	ErrNotFound = errors.New("storage: record not found")

	// ErrAmbiguous means an id prefix matches more than one record.
	ErrAmbiguous = errors.New("storage: id prefix is ambiguous")
)

// =============================================================================
// HISTORY STORE
// =============================================================================

// HistoryStore persists solve records in SQLite.
type HistoryStore struct {
	db         *sql.DB
	path       string
	maxEntries int
}

// Option configures a HistoryStore.
type Option func(*HistoryStore)

// WithMaxEntries keeps only the newest n records after each Save. 0 keeps
// everything.
func WithMaxEntries(n int) Option {
	return func(s *HistoryStore) {
		if n >= 0 {
			s.maxEntries = n
		}
	}
}

// Open opens or creates the database at path.
func Open(path string, opts ...Option) (*HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &HistoryStore{db: db, path: path}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *HistoryStore) initSchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return err
	}
	_, err := s.db.Exec(InitMetadata)
	return err
}

// Path returns the database file path.
func (s *HistoryStore) Path() string { return s.path }

// Close closes the database.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// Save inserts rec, assigning an id and timestamp when missing, then prunes
// old records beyond the configured maximum.
func (s *HistoryStore) Save(ctx context.Context, rec *Record) error {
	if rec == nil {
		return errors.New("storage: nil record")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	input, err := json.Marshal(rec.Cells)
	if err != nil {
		return fmt.Errorf("encode cells: %w", err)
	}
	trace, err := json.Marshal(rec.Trace)
	if err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}
	var solution, errText sql.NullString
	if rec.OK() {
		data, err := json.Marshal(rec.Solution)
		if err != nil {
			return fmt.Errorf("encode solution: %w", err)
		}
		solution = sql.NullString{String: string(data), Valid: true}
	} else {
		errText = sql.NullString{String: rec.Error, Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO solves (id, session_id, size, input_json, solution_json, trace_json, residual, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.Size, string(input), solution, string(trace),
		rec.Residual, errText, rec.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	if s.maxEntries > 0 {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM solves WHERE id NOT IN (
			     SELECT id FROM solves ORDER BY created_at DESC, rowid DESC LIMIT ?
			 )`, s.maxEntries)
		if err != nil {
			return fmt.Errorf("prune history: %w", err)
		}
	}
	return tx.Commit()
}

// Delete removes the record matching id or a unique id prefix.
func (s *HistoryStore) Delete(ctx context.Context, id string) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM solves WHERE id = ?`, rec.ID); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// Clear removes every record and returns how many were deleted.
func (s *HistoryStore) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM solves`)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

const selectColumns = `SELECT id, session_id, size, input_json, solution_json, trace_json, residual, error, created_at FROM solves`

// Get returns the record whose id equals id or, failing that, the single
// record whose id starts with id.
func (s *HistoryStore) Get(ctx context.Context, id string) (*Record, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	rec, err := scanRecord(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE id LIKE ? || '%' LIMIT 2`, id)
	if err != nil {
		return nil, fmt.Errorf("query record: %w", err)
	}
	defer rows.Close()

	var found []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query record: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, id)
	}
}

// List returns up to limit records, newest first. limit <= 0 returns all.
func (s *HistoryStore) List(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *HistoryStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM solves`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec       Record
		input     string
		solution  sql.NullString
		trace     sql.NullString
		residual  sql.NullFloat64
		errText   sql.NullString
		createdAt int64
	)
	err := row.Scan(&rec.ID, &rec.SessionID, &rec.Size, &input, &solution, &trace, &residual, &errText, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan record: %w", err)
	}

	if err := json.Unmarshal([]byte(input), &rec.Cells); err != nil {
		return nil, fmt.Errorf("decode cells of %s: %w", rec.ID, err)
	}
	if solution.Valid {
		if err := json.Unmarshal([]byte(solution.String), &rec.Solution); err != nil {
			return nil, fmt.Errorf("decode solution of %s: %w", rec.ID, err)
		}
	}
	if trace.Valid && trace.String != "" {
		if err := json.Unmarshal([]byte(trace.String), &rec.Trace); err != nil {
			return nil, fmt.Errorf("decode trace of %s: %w", rec.ID, err)
		}
	}
	rec.Residual = residual.Float64
	rec.Error = errText.String
	rec.CreatedAt = time.Unix(0, createdAt)
	return &rec, nil
}
