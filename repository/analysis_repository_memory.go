package repository

import (
	"context"
	"encoding/json"
	"sync"
)

// AnalysisRepositoryMemory keeps analyses in a map. Records are stored as
// JSON so callers never share memory with the stored copy.
type AnalysisRepositoryMemory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewAnalysisRepositoryMemory() *AnalysisRepositoryMemory {
	return &AnalysisRepositoryMemory{data: make(map[string][]byte)}
}

func (r *AnalysisRepositoryMemory) Save(_ context.Context, rec AnalysisRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if raw, ok := r.data[rec.ID]; ok {
		var existing AnalysisRecord
		if err := json.Unmarshal(raw, &existing); err == nil {
			rec.CreatedAt = existing.CreatedAt
		}
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	r.data[rec.ID] = raw
	return nil
}

func (r *AnalysisRepositoryMemory) Get(_ context.Context, id string) (AnalysisRecord, error) {
	r.mu.RLock()
	raw, ok := r.data[id]
	r.mu.RUnlock()

	if !ok {
		return AnalysisRecord{}, ErrNotFound
	}
	var rec AnalysisRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return AnalysisRecord{}, err
	}
	return rec, nil
}
