package repository

import "context"

// CacheRepository stores serialized reports. A miss and a backend failure
// look the same to callers: both return false.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// AnalysisCacheKey is the cache key of an analysis report.
func AnalysisCacheKey(id string) string {
	return "analysis:" + id
}
