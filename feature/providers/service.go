package providers

import (
	"context"

	"go.uber.org/zap"

	"media-mirror/core/backend"
	"media-mirror/core/catalog"
)

// Service handles provider operations.
type Service struct {
	store    *catalog.Store
	registry *backend.Registry
	logger   *zap.Logger
}

// NewService creates a new providers service.
func NewService(store *catalog.Store, registry *backend.Registry, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		registry: registry,
		logger:   logger,
	}
}

// List returns every configured provider record.
func (s *Service) List(ctx context.Context) ([]catalog.Provider, error) {
	return s.store.ListProviders(ctx)
}

// Test resolves the provider's backend and probes it.
func (s *Service) Test(ctx context.Context, providerID string) (bool, error) {
	b, err := s.registry.GetBackend(ctx, providerID)
	if err != nil {
		return false, err
	}
	return b.TestConnection(ctx), nil
}

// Refresh drops every cached backend instance so the next request
// re-reads provider configs from the catalog.
func (s *Service) Refresh() {
	s.registry.ClearCache()
	s.logger.Info("Backend cache cleared")
}
