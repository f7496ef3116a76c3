package repository

import (
	"context"
	"errors"
	"time"

	"loan-advisor/domain"
)

var ErrNotFound = errors.New("analysis not found")

// AnalysisRecord is what gets persisted per analysis: the raw input, so the
// report can be recomputed, and the last report assembled from it.
type AnalysisRecord struct {
	ID        string
	Input     domain.AnalysisInput
	Report    domain.Report
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AnalysisRepository loads and stores analyses by their opaque ID. Save
// replaces an existing record but keeps its CreatedAt.
type AnalysisRepository interface {
	Save(ctx context.Context, rec AnalysisRecord) error
	Get(ctx context.Context, id string) (AnalysisRecord, error)
}
