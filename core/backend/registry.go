package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"media-mirror/core/blobcache"
	"media-mirror/core/catalog"
)

// ProviderSource is the catalog view the registry needs.
type ProviderSource interface {
	GetProvider(ctx context.Context, id string) (*catalog.Provider, error)
	ListEnabledProviders(ctx context.Context) ([]catalog.Provider, error)
	ListProvidersByKind(ctx context.Context, kind string) ([]catalog.Provider, error)
	CreateProvider(ctx context.Context, p *catalog.Provider) error
}

// Deps carries the collaborators backend variants are built with.
type Deps struct {
	Logger *zap.Logger
	// Cache is the blob cache remote variants store fetched bytes in.
	Cache *blobcache.Cache
	// Catalog is the media file view used by the picker variant.
	Catalog PickerCatalog
	// Fetcher overrides the picker's HTTP fetcher, used by tests.
	Fetcher Fetcher
	// ObjectClient overrides the S3 client construction, used by tests.
	ObjectClient ObjectClient
	// Defaults are the global backend defaults from the configuration.
	Defaults Config
}

// Registry resolves provider ids to initialized backend instances.
// Instances are created once and cached: repeated lookups return the same
// instance until the cache is invalidated. Config edits on provider rows do
// not reach live instances, whoever mutates a row must invalidate here.
type Registry struct {
	providers ProviderSource
	deps      Deps
	logger    *zap.Logger

	mu        sync.RWMutex
	instances map[string]Backend

	// Collapses concurrent instantiations of the same provider so all
	// callers share one instance.
	group singleflight.Group
}

// NewRegistry creates a Registry over the given provider source.
func NewRegistry(providers ProviderSource, deps Deps) *Registry {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		providers: providers,
		deps:      deps,
		logger:    logger,
		instances: make(map[string]Backend),
	}
}

// GetBackend returns the initialized backend for a provider id.
// Unknown ids yield ErrProviderNotFound, disabled rows ErrProviderDisabled.
func (r *Registry) GetBackend(ctx context.Context, providerID string) (Backend, error) {
	r.mu.RLock()
	if b, ok := r.instances[providerID]; ok {
		r.mu.RUnlock()
		return b, nil
	}
	r.mu.RUnlock()

	v, err, _ := r.group.Do(providerID, func() (any, error) {
		// Another flight may have won between the fast path and here.
		r.mu.RLock()
		if b, ok := r.instances[providerID]; ok {
			r.mu.RUnlock()
			return b, nil
		}
		r.mu.RUnlock()

		p, err := r.providers.GetProvider(ctx, providerID)
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrProviderNotFound, providerID)
		}
		if err != nil {
			return nil, err
		}
		if !p.Enabled {
			return nil, fmt.Errorf("%w: %q", ErrProviderDisabled, providerID)
		}

		b, err := r.build(p)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.instances[providerID] = b
		r.mu.Unlock()

		r.logger.Debug("Instantiated backend",
			zap.String("provider", p.ID),
			zap.String("kind", p.Kind))
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Backend), nil
}

func (r *Registry) build(p *catalog.Provider) (Backend, error) {
	kind, err := ParseKind(p.Kind)
	if err != nil {
		return nil, err
	}

	b, err := r.CreateBackend(kind)
	if err != nil {
		return nil, err
	}
	if err := b.Initialize(p.ID, p.Name, p.Config); err != nil {
		return nil, fmt.Errorf("failed to initialize %s backend for provider %s: %w", kind, p.ID, err)
	}
	return b, nil
}

// CreateBackend constructs a fresh, uninitialized variant for a kind.
// Declared kinds without an implementation resolve to the Unimplemented
// variant, undeclared kinds are an error.
func (r *Registry) CreateBackend(kind Kind) (Backend, error) {
	switch kind {
	case KindLocal:
		return newLocalBackend(r.deps.Defaults.DefaultLocalRoot, r.logger), nil
	case KindPicker:
		return newPickerBackend(r.deps.Catalog, r.deps.Cache, r.deps.Fetcher, r.deps.Defaults.PickerTimeoutSeconds, r.logger), nil
	case KindS3:
		return newS3Backend(r.deps.ObjectClient, r.logger), nil
	case KindWebDAV:
		return NewUnimplemented(KindWebDAV), nil
	default:
		return nil, fmt.Errorf("unsupported backend kind %q", kind)
	}
}

// GetAllBackends resolves every enabled provider. Providers that fail to
// instantiate are logged and skipped so one broken row does not hide the
// rest.
func (r *Registry) GetAllBackends(ctx context.Context) ([]Backend, error) {
	providers, err := r.providers.ListEnabledProviders(ctx)
	if err != nil {
		return nil, err
	}

	backends := make([]Backend, 0, len(providers))
	for _, p := range providers {
		b, err := r.GetBackend(ctx, p.ID)
		if err != nil {
			r.logger.Warn("Skipping provider",
				zap.String("provider", p.ID),
				zap.String("kind", p.Kind),
				zap.Error(err))
			continue
		}
		backends = append(backends, b)
	}
	return backends, nil
}

// GetBackendsByKind resolves the enabled providers of one kind.
func (r *Registry) GetBackendsByKind(ctx context.Context, kind Kind) ([]Backend, error) {
	providers, err := r.providers.ListProvidersByKind(ctx, string(kind))
	if err != nil {
		return nil, err
	}

	backends := make([]Backend, 0, len(providers))
	for _, p := range providers {
		b, err := r.GetBackend(ctx, p.ID)
		if err != nil {
			r.logger.Warn("Skipping provider",
				zap.String("provider", p.ID),
				zap.String("kind", p.Kind),
				zap.Error(err))
			continue
		}
		backends = append(backends, b)
	}
	return backends, nil
}

// GetOrCreateDefaultLocal returns the first enabled local provider's
// backend, creating the provider row with the configured default root when
// none exists. It returns the backend together with its provider id.
func (r *Registry) GetOrCreateDefaultLocal(ctx context.Context) (Backend, string, error) {
	providers, err := r.providers.ListProvidersByKind(ctx, string(KindLocal))
	if err != nil {
		return nil, "", err
	}
	if len(providers) > 0 {
		b, err := r.GetBackend(ctx, providers[0].ID)
		return b, providers[0].ID, err
	}

	cfg, err := json.Marshal(map[string]any{"rootPath": r.deps.Defaults.DefaultLocalRoot})
	if err != nil {
		return nil, "", err
	}

	p := &catalog.Provider{
		ID:      uuid.NewString(),
		Name:    "Local Media",
		Kind:    string(KindLocal),
		Enabled: true,
		Config:  cfg,
	}
	if err := r.providers.CreateProvider(ctx, p); err != nil {
		return nil, "", fmt.Errorf("failed to create default local provider: %w", err)
	}

	r.logger.Info("Created default local provider",
		zap.String("provider", p.ID),
		zap.String("root", r.deps.Defaults.DefaultLocalRoot))

	b, err := r.GetBackend(ctx, p.ID)
	return b, p.ID, err
}

// ClearCache drops every cached instance. The next lookup re-reads the
// provider rows and rebuilds the backends.
func (r *Registry) ClearCache() {
	r.mu.Lock()
	r.instances = make(map[string]Backend)
	r.mu.Unlock()
}

// Invalidate drops the cached instance of a single provider.
func (r *Registry) Invalidate(providerID string) {
	r.mu.Lock()
	delete(r.instances, providerID)
	r.mu.Unlock()
}
