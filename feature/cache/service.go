package cache

import (
	"context"

	"go.uber.org/zap"

	"media-mirror/core/blobcache"
)

// Service handles content cache operations.
type Service struct {
	cache  *blobcache.Cache
	logger *zap.Logger
}

// NewService creates a new cache service.
func NewService(cache *blobcache.Cache, logger *zap.Logger) *Service {
	return &Service{cache: cache, logger: logger}
}

// Stats returns a snapshot of the cache state.
func (s *Service) Stats() (blobcache.Stats, error) {
	return s.cache.Stats()
}

// Evict removes least-recently-used blobs until the cache size is at or
// below targetBytes. It returns the number of bytes freed.
func (s *Service) Evict(ctx context.Context, targetBytes int64) (int64, error) {
	freed, err := s.cache.EvictLRU(ctx, targetBytes)
	if err != nil {
		return freed, err
	}
	s.logger.Info("Cache eviction completed",
		zap.Int64("target_bytes", targetBytes),
		zap.Int64("freed_bytes", freed))
	return freed, nil
}

// Clear removes every cached blob.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("Cache cleared")
	return nil
}
