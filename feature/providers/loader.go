package providers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"media-mirror/core/backend"
	"media-mirror/core/catalog"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Providers feature.
func NewFeature(store *catalog.Store, registry *backend.Registry, logger *zap.Logger) *Feature {
	svc := NewService(store, registry, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "providers"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
