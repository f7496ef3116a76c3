package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS analyses (
	id         TEXT PRIMARY KEY,
	input      JSONB NOT NULL,
	report     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

type PostgresAnalysisRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPool connects to databaseURL and verifies the connection.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

func NewPostgresAnalysisRepository(ctx context.Context, pool *pgxpool.Pool) (*PostgresAnalysisRepository, error) {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("create analyses table: %w", err)
	}
	return &PostgresAnalysisRepository{pool: pool}, nil
}

func (r *PostgresAnalysisRepository) Save(ctx context.Context, rec AnalysisRecord) error {
	input, report, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO analyses (id, input, report, created_at, updated_at)
		VALUES ($1, $2::jsonb, $3::jsonb, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			input = EXCLUDED.input,
			report = EXCLUDED.report,
			updated_at = EXCLUDED.updated_at`,
		rec.ID, string(input), string(report), rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save analysis %s: %w", rec.ID, err)
	}
	return nil
}

func (r *PostgresAnalysisRepository) Get(ctx context.Context, id string) (AnalysisRecord, error) {
	var (
		input, report        []byte
		createdAt, updatedAt time.Time
	)
	err := r.pool.QueryRow(ctx,
		`SELECT input, report, created_at, updated_at FROM analyses WHERE id = $1`, id,
	).Scan(&input, &report, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return AnalysisRecord{}, ErrNotFound
	}
	if err != nil {
		return AnalysisRecord{}, fmt.Errorf("load analysis %s: %w", id, err)
	}

	rec := AnalysisRecord{ID: id, CreatedAt: createdAt, UpdatedAt: updatedAt}
	if err := decodeRecord(&rec, input, report); err != nil {
		return AnalysisRecord{}, err
	}
	return rec, nil
}
