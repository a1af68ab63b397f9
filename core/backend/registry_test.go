package backend

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"media-mirror/core/catalog"
)

// fakeProviderSource is an in-memory ProviderSource mirroring the catalog
// store semantics the registry relies on.
type fakeProviderSource struct {
	mu       sync.Mutex
	rows     map[string]*catalog.Provider
	order    []string
	getCalls int
	getDelay time.Duration
}

func newFakeProviderSource(rows ...*catalog.Provider) *fakeProviderSource {
	f := &fakeProviderSource{rows: make(map[string]*catalog.Provider)}
	for _, p := range rows {
		f.rows[p.ID] = p
		f.order = append(f.order, p.ID)
	}
	return f
}

func (f *fakeProviderSource) GetProvider(ctx context.Context, id string) (*catalog.Provider, error) {
	f.mu.Lock()
	f.getCalls++
	delay := f.getDelay
	p, ok := f.rows[id]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProviderSource) ListEnabledProviders(ctx context.Context) ([]catalog.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []catalog.Provider
	for _, id := range f.order {
		if p := f.rows[id]; p.Enabled {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProviderSource) ListProvidersByKind(ctx context.Context, kind string) ([]catalog.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []catalog.Provider
	for _, id := range f.order {
		if p := f.rows[id]; p.Enabled && p.Kind == kind {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProviderSource) CreateProvider(ctx context.Context, p *catalog.Provider) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := *p
	f.rows[p.ID] = &cp
	f.order = append(f.order, p.ID)
	return nil
}

func localProviderRow(t *testing.T, id string) *catalog.Provider {
	t.Helper()

	cfg, err := json.Marshal(map[string]any{"rootPath": t.TempDir()})
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	return &catalog.Provider{ID: id, Name: "Local " + id, Kind: string(KindLocal), Enabled: true, Config: cfg}
}

func newTestRegistry(t *testing.T, rows ...*catalog.Provider) (*Registry, *fakeProviderSource) {
	t.Helper()

	source := newFakeProviderSource(rows...)
	reg := NewRegistry(source, Deps{
		Defaults: Config{DefaultLocalRoot: t.TempDir(), PickerTimeoutSeconds: 5},
	})
	return reg, source
}

func TestRegistry_GetBackend_CachesInstance(t *testing.T) {
	reg, source := newTestRegistry(t, localProviderRow(t, "p1"))
	ctx := context.Background()

	b1, err := reg.GetBackend(ctx, "p1")
	assert.NoError(t, err)
	assert.Equal(t, KindLocal, b1.Kind())

	b2, err := reg.GetBackend(ctx, "p1")
	assert.NoError(t, err)
	assert.Same(t, b1, b2)
	assert.Equal(t, 1, source.getCalls)
}

func TestRegistry_GetBackend_UnknownProvider(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.GetBackend(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrProviderNotFound)
	assert.NotErrorIs(t, err, ErrProviderDisabled)
}

func TestRegistry_GetBackend_DisabledProvider(t *testing.T) {
	row := localProviderRow(t, "p1")
	row.Enabled = false
	reg, _ := newTestRegistry(t, row)

	_, err := reg.GetBackend(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrProviderDisabled)
	assert.NotErrorIs(t, err, ErrProviderNotFound)
}

func TestRegistry_GetBackend_UnknownKind(t *testing.T) {
	reg, _ := newTestRegistry(t, &catalog.Provider{ID: "p1", Kind: "tape", Enabled: true})

	_, err := reg.GetBackend(context.Background(), "p1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend kind")
}

func TestRegistry_CreateBackend(t *testing.T) {
	reg, _ := newTestRegistry(t)

	b, err := reg.CreateBackend(KindLocal)
	assert.NoError(t, err)
	assert.IsType(t, &Local{}, b)

	b, err = reg.CreateBackend(KindPicker)
	assert.NoError(t, err)
	assert.IsType(t, &Picker{}, b)

	b, err = reg.CreateBackend(KindS3)
	assert.NoError(t, err)
	assert.IsType(t, &S3{}, b)

	b, err = reg.CreateBackend(KindWebDAV)
	assert.NoError(t, err)
	assert.IsType(t, &Unimplemented{}, b)

	_, err = reg.CreateBackend(Kind("tape"))
	assert.Error(t, err)
}

func TestRegistry_WebDAVResolvesButFailsOnUse(t *testing.T) {
	reg, _ := newTestRegistry(t, &catalog.Provider{ID: "dav", Name: "Shelf", Kind: string(KindWebDAV), Enabled: true})
	ctx := context.Background()

	b, err := reg.GetBackend(ctx, "dav")
	assert.NoError(t, err)
	assert.Equal(t, KindWebDAV, b.Kind())
	assert.False(t, b.TestConnection(ctx))

	_, err = b.ListFiles(ctx, ListOptions{})
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.NotErrorIs(t, err, ErrNotSupported)

	_, err = b.OpenRead(ctx, "x")
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestRegistry_InvalidateDropsSingleInstance(t *testing.T) {
	reg, _ := newTestRegistry(t, localProviderRow(t, "p1"), localProviderRow(t, "p2"))
	ctx := context.Background()

	b1, err := reg.GetBackend(ctx, "p1")
	assert.NoError(t, err)
	b2, err := reg.GetBackend(ctx, "p2")
	assert.NoError(t, err)

	reg.Invalidate("p1")

	b1again, err := reg.GetBackend(ctx, "p1")
	assert.NoError(t, err)
	assert.NotSame(t, b1, b1again)

	b2again, err := reg.GetBackend(ctx, "p2")
	assert.NoError(t, err)
	assert.Same(t, b2, b2again)
}

func TestRegistry_ClearCacheDropsAllInstances(t *testing.T) {
	reg, _ := newTestRegistry(t, localProviderRow(t, "p1"))
	ctx := context.Background()

	b1, err := reg.GetBackend(ctx, "p1")
	assert.NoError(t, err)

	reg.ClearCache()

	b2, err := reg.GetBackend(ctx, "p1")
	assert.NoError(t, err)
	assert.NotSame(t, b1, b2)
}

func TestRegistry_GetAllBackends_SkipsBrokenRows(t *testing.T) {
	reg, _ := newTestRegistry(t,
		localProviderRow(t, "good"),
		&catalog.Provider{ID: "broken", Kind: "tape", Enabled: true},
	)

	backends, err := reg.GetAllBackends(context.Background())
	assert.NoError(t, err)
	assert.Len(t, backends, 1)
	assert.Equal(t, KindLocal, backends[0].Kind())
}

func TestRegistry_GetBackendsByKind(t *testing.T) {
	disabled := localProviderRow(t, "off")
	disabled.Enabled = false

	reg, _ := newTestRegistry(t,
		localProviderRow(t, "l1"),
		localProviderRow(t, "l2"),
		disabled,
		&catalog.Provider{ID: "dav", Kind: string(KindWebDAV), Enabled: true},
	)

	backends, err := reg.GetBackendsByKind(context.Background(), KindLocal)
	assert.NoError(t, err)
	assert.Len(t, backends, 2)
	for _, b := range backends {
		assert.Equal(t, KindLocal, b.Kind())
	}
}

func TestRegistry_GetOrCreateDefaultLocal(t *testing.T) {
	reg, source := newTestRegistry(t)
	ctx := context.Background()

	b, id, err := reg.GetOrCreateDefaultLocal(ctx)
	assert.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, KindLocal, b.Kind())

	created, err := source.GetProvider(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, "Local Media", created.Name)
	assert.True(t, created.Enabled)

	// A second call reuses the created provider instead of adding another.
	b2, id2, err := reg.GetOrCreateDefaultLocal(ctx)
	assert.NoError(t, err)
	assert.Equal(t, id, id2)
	assert.Same(t, b, b2)
	assert.Len(t, source.order, 1)
}

func TestRegistry_ConcurrentGetBackend(t *testing.T) {
	reg, source := newTestRegistry(t, localProviderRow(t, "p1"))
	source.getDelay = 10 * time.Millisecond

	var wg sync.WaitGroup
	results := make([]Backend, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := reg.GetBackend(context.Background(), "p1")
			assert.NoError(t, err)
			results[i] = b
		}(i)
	}
	wg.Wait()

	for _, b := range results[1:] {
		assert.Same(t, results[0], b)
	}
	assert.Equal(t, 1, source.getCalls)
}
