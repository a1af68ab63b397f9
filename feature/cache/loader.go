package cache

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"media-mirror/core/blobcache"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Cache feature.
func NewFeature(cache *blobcache.Cache, logger *zap.Logger) *Feature {
	svc := NewService(cache, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "cache"
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
