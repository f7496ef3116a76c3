package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS analyses (
	id         TEXT PRIMARY KEY,
	input      TEXT NOT NULL,
	report     TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// OpenSQLite opens the database file with WAL and a busy timeout. SQLite
// allows a single writer, so the pool holds one connection.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

type SQLiteAnalysisRepository struct {
	db *sql.DB
}

// NewSQLiteAnalysisRepository creates the analyses table when missing.
func NewSQLiteAnalysisRepository(ctx context.Context, db *sql.DB) (*SQLiteAnalysisRepository, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("create analyses table: %w", err)
	}
	return &SQLiteAnalysisRepository{db: db}, nil
}

func (r *SQLiteAnalysisRepository) Save(ctx context.Context, rec AnalysisRecord) error {
	input, report, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO analyses (id, input, report, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			input = excluded.input,
			report = excluded.report,
			updated_at = excluded.updated_at`,
		rec.ID, input, report,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		rec.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save analysis %s: %w", rec.ID, err)
	}
	return nil
}

func (r *SQLiteAnalysisRepository) Get(ctx context.Context, id string) (AnalysisRecord, error) {
	var (
		input, report        string
		createdAt, updatedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT input, report, created_at, updated_at FROM analyses WHERE id = ?`, id,
	).Scan(&input, &report, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return AnalysisRecord{}, ErrNotFound
	}
	if err != nil {
		return AnalysisRecord{}, fmt.Errorf("load analysis %s: %w", id, err)
	}

	rec := AnalysisRecord{ID: id}
	if err := decodeRecord(&rec, []byte(input), []byte(report)); err != nil {
		return AnalysisRecord{}, err
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return AnalysisRecord{}, fmt.Errorf("decode analysis %s created_at: %w", id, err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return AnalysisRecord{}, fmt.Errorf("decode analysis %s updated_at: %w", id, err)
	}
	return rec, nil
}

func encodeRecord(rec AnalysisRecord) (input, report []byte, err error) {
	input, err = json.Marshal(rec.Input)
	if err != nil {
		return nil, nil, fmt.Errorf("encode analysis input: %w", err)
	}
	report, err = json.Marshal(rec.Report)
	if err != nil {
		return nil, nil, fmt.Errorf("encode analysis report: %w", err)
	}
	return input, report, nil
}

func decodeRecord(rec *AnalysisRecord, input, report []byte) error {
	if err := json.Unmarshal(input, &rec.Input); err != nil {
		return fmt.Errorf("decode analysis input: %w", err)
	}
	if err := json.Unmarshal(report, &rec.Report); err != nil {
		return fmt.Errorf("decode analysis report: %w", err)
	}
	return nil
}
