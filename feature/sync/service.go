package sync

import (
	"context"

	"go.uber.org/zap"

	"media-mirror/core/syncer"
)

// Service exposes the sync engine to the HTTP layer.
type Service struct {
	engine *syncer.Engine
	logger *zap.Logger
}

// NewService creates a new sync service.
func NewService(engine *syncer.Engine, logger *zap.Logger) *Service {
	return &Service{engine: engine, logger: logger}
}

// SyncProvider runs one provider sync.
func (s *Service) SyncProvider(ctx context.Context, providerID string, opts syncer.Options) syncer.Result {
	return s.engine.SyncProvider(ctx, providerID, opts)
}

// SyncAll syncs every enabled provider.
func (s *Service) SyncAll(ctx context.Context, opts syncer.Options) ([]syncer.Result, error) {
	return s.engine.SyncAll(ctx, opts)
}

// Status snapshots the provider's active run.
func (s *Service) Status(providerID string) syncer.Status {
	return s.engine.Status(providerID)
}

// Cancel aborts the provider's active run.
func (s *Service) Cancel(providerID string) bool {
	return s.engine.Cancel(providerID)
}

// Scan previews a sync without mutating the catalog.
func (s *Service) Scan(ctx context.Context, providerID string, opts syncer.Options) syncer.ScanResult {
	return s.engine.Scan(ctx, providerID, opts)
}
