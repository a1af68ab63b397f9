package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"media-mirror/core/backend"
	"media-mirror/core/catalog"
	"media-mirror/core/metrics"
)

// BackendSource resolves provider ids to ready backends.
type BackendSource interface {
	GetBackend(ctx context.Context, providerID string) (backend.Backend, error)
}

// Catalog is the media file view the engine diffs against.
type Catalog interface {
	ListMediaFiles(ctx context.Context, providerID string) ([]catalog.MediaFile, error)
	GetMediaFile(ctx context.Context, providerID, remoteID string) (*catalog.MediaFile, error)
	UpsertMediaFile(ctx context.Context, f *catalog.MediaFile) error
	DeleteMediaFilesByRemoteIDs(ctx context.Context, providerID string, remoteIDs []string) (int64, error)
}

// Providers is the provider row view.
type Providers interface {
	GetProvider(ctx context.Context, id string) (*catalog.Provider, error)
	ListEnabledProviders(ctx context.Context) ([]catalog.Provider, error)
	TouchLastSync(ctx context.Context, id string, at time.Time) error
}

// run tracks one in-flight sync. Entries live in Engine.runs from
// registration to the deferred release, nothing else creates or removes
// them.
type run struct {
	cancel    context.CancelFunc
	startedAt time.Time

	mu        sync.Mutex
	currentOp string
	processed int
	total     int
}

func (r *run) setOp(op string) {
	r.mu.Lock()
	r.currentOp = op
	r.mu.Unlock()
}

func (r *run) setTotal(n int) {
	r.mu.Lock()
	r.total = n
	r.mu.Unlock()
}

func (r *run) advance() {
	r.mu.Lock()
	r.processed++
	r.mu.Unlock()
}

// Engine reconciles backend listings against the catalog. At most one sync
// per provider runs at a time, concurrent requests for the same provider
// fail fast instead of queueing.
type Engine struct {
	backends  BackendSource
	catalog   Catalog
	providers Providers
	logger    *zap.Logger
	cfg       Config

	mu   sync.Mutex
	runs map[string]*run
}

// NewEngine creates an Engine over the given collaborators.
func NewEngine(backends BackendSource, cat Catalog, providers Providers, cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Parallel <= 0 {
		cfg.Parallel = 2
	}
	return &Engine{
		backends:  backends,
		catalog:   cat,
		providers: providers,
		logger:    logger,
		cfg:       cfg,
		runs:      make(map[string]*run),
	}
}

// register claims the provider's run slot. It returns false when a sync is
// already in flight.
func (e *Engine) register(providerID string, cancel context.CancelFunc) (*run, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.runs[providerID]; exists {
		return nil, false
	}
	r := &run{cancel: cancel, startedAt: time.Now(), currentOp: "starting"}
	e.runs[providerID] = r
	return r, true
}

func (e *Engine) release(providerID string) {
	e.mu.Lock()
	delete(e.runs, providerID)
	e.mu.Unlock()
}

// SyncProvider reconciles one provider. Failures are reported through the
// Result, the method never returns an error value.
func (e *Engine) SyncProvider(ctx context.Context, providerID string, opts Options) Result {
	res := Result{ProviderID: providerID, StartTime: time.Now()}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r, claimed := e.register(providerID, cancel)
	if !claimed {
		res.ErrorMessage = fmt.Sprintf("sync already in progress for provider %s", providerID)
		e.logger.Warn("Rejected concurrent sync", zap.String("provider", providerID))
		return res
	}
	defer e.release(providerID)

	b, err := e.backends.GetBackend(ctx, providerID)
	if err != nil {
		switch {
		case errors.Is(err, backend.ErrProviderNotFound):
			return e.fail(&res, r, fmt.Sprintf("provider %s not found", providerID))
		case errors.Is(err, backend.ErrProviderDisabled):
			return e.fail(&res, r, fmt.Sprintf("provider %s is disabled", providerID))
		case e.cancelled(ctx, err):
			return e.fail(&res, r, "sync cancelled")
		default:
			return e.fail(&res, r, fmt.Sprintf("failed to resolve backend: %v", err))
		}
	}

	p, err := e.providers.GetProvider(ctx, providerID)
	if err != nil {
		if e.cancelled(ctx, err) {
			return e.fail(&res, r, "sync cancelled")
		}
		return e.fail(&res, r, fmt.Sprintf("failed to load provider: %v", err))
	}
	res.ProviderName = p.Name

	r.setOp("listing files")
	files, err := b.ListFiles(ctx, backend.ListOptions{FolderID: opts.FolderID, Recursive: opts.Recursive})
	if err != nil {
		if e.cancelled(ctx, err) {
			return e.fail(&res, r, "sync cancelled")
		}
		return e.fail(&res, r, fmt.Sprintf("failed to list files: %v", err))
	}
	res.TotalFilesFound = len(files)
	r.setTotal(len(files))

	r.setOp("processing files")
	var adds []backend.FileDescriptor
	for _, fd := range files {
		if ctx.Err() != nil {
			return e.fail(&res, r, "sync cancelled")
		}

		existing, err := e.catalog.GetMediaFile(ctx, providerID, fd.RemoteID)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			adds = append(adds, fd)

		case err != nil:
			if e.cancelled(ctx, err) {
				return e.fail(&res, r, "sync cancelled")
			}
			return e.fail(&res, r, fmt.Sprintf("failed to look up %s: %v", fd.RemoteID, err))

		// Known files are skipped outright when SkipExisting is set.
		// Without it the row is compared and refreshed on a size change.
		// FullSync refreshes unconditionally.
		case opts.FullSync || (!opts.SkipExisting && existing.Size != fd.Size):
			if err := e.catalog.UpsertMediaFile(ctx, rowFrom(providerID, fd)); err != nil {
				if e.cancelled(ctx, err) {
					return e.fail(&res, r, "sync cancelled")
				}
				return e.fail(&res, r, fmt.Sprintf("failed to update %s: %v", fd.RemoteID, err))
			}
			res.FilesUpdated++
			r.advance()

		default:
			res.FilesSkipped++
			r.advance()
		}
	}

	// Adds beyond the cap stay unpersisted and uncounted.
	limit := len(adds)
	if opts.MaxFiles > 0 && opts.MaxFiles < limit {
		limit = opts.MaxFiles
		e.logger.Info("File cap reached",
			zap.String("provider", providerID),
			zap.Int("staged", len(adds)),
			zap.Int("applied", limit))
	}
	for _, fd := range adds[:limit] {
		if ctx.Err() != nil {
			return e.fail(&res, r, "sync cancelled")
		}
		if err := e.catalog.UpsertMediaFile(ctx, rowFrom(providerID, fd)); err != nil {
			if e.cancelled(ctx, err) {
				return e.fail(&res, r, "sync cancelled")
			}
			return e.fail(&res, r, fmt.Sprintf("failed to add %s: %v", fd.RemoteID, err))
		}
		res.FilesAdded++
		r.advance()
	}

	if opts.RemoveDeleted {
		r.setOp("removing deleted files")

		seen := make(map[string]struct{}, len(files))
		for _, fd := range files {
			seen[fd.RemoteID] = struct{}{}
		}

		rows, err := e.catalog.ListMediaFiles(ctx, providerID)
		if err != nil {
			if e.cancelled(ctx, err) {
				return e.fail(&res, r, "sync cancelled")
			}
			return e.fail(&res, r, fmt.Sprintf("failed to load catalog rows: %v", err))
		}

		var stale []string
		for _, row := range rows {
			if _, ok := seen[row.RemoteID]; !ok {
				stale = append(stale, row.RemoteID)
			}
		}
		if len(stale) > 0 {
			removed, err := e.catalog.DeleteMediaFilesByRemoteIDs(ctx, providerID, stale)
			if err != nil {
				if e.cancelled(ctx, err) {
					return e.fail(&res, r, "sync cancelled")
				}
				return e.fail(&res, r, fmt.Sprintf("failed to remove deleted files: %v", err))
			}
			res.FilesRemoved = int(removed)
		}
	}

	if err := e.providers.TouchLastSync(ctx, providerID, time.Now()); err != nil {
		// The files are already reconciled, a stale timestamp is not
		// worth failing the run over.
		e.logger.Warn("Failed to record last sync time",
			zap.String("provider", providerID),
			zap.Error(err))
	}

	res.Success = true
	res.Duration = time.Since(res.StartTime)
	res.TotalFilesProcessed = res.FilesAdded + res.FilesUpdated + res.FilesRemoved + res.FilesSkipped

	metrics.RecordSyncRun(true, res.Duration)
	metrics.RecordSyncFiles(res.FilesAdded, res.FilesUpdated, res.FilesRemoved, res.FilesSkipped)
	e.logger.Info("Sync finished",
		zap.String("provider", providerID),
		zap.Int("added", res.FilesAdded),
		zap.Int("updated", res.FilesUpdated),
		zap.Int("removed", res.FilesRemoved),
		zap.Int("skipped", res.FilesSkipped),
		zap.Duration("duration", res.Duration))
	return res
}

// fail finalizes a Result with partial counters and the failure reason.
func (e *Engine) fail(res *Result, r *run, msg string) Result {
	res.Success = false
	res.ErrorMessage = msg
	res.Duration = time.Since(res.StartTime)
	res.TotalFilesProcessed = res.FilesAdded + res.FilesUpdated + res.FilesRemoved + res.FilesSkipped

	metrics.RecordSyncRun(false, res.Duration)
	e.logger.Warn("Sync failed",
		zap.String("provider", res.ProviderID),
		zap.String("reason", msg),
		zap.Duration("duration", res.Duration))
	return *res
}

// cancelled reports whether the error or context indicates cancellation.
func (e *Engine) cancelled(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func rowFrom(providerID string, fd backend.FileDescriptor) *catalog.MediaFile {
	return &catalog.MediaFile{
		ProviderID: &providerID,
		RemoteID:   fd.RemoteID,
		Name:       fd.Name,
		LocalPath:  fd.Path,
		Size:       fd.Size,
		MediaKind:  fd.MediaKind,
		FolderID:   fd.FolderID,
	}
}

// SyncAll syncs every enabled provider with bounded parallelism. Individual
// failures land in their Result and never abort the batch.
func (e *Engine) SyncAll(ctx context.Context, opts Options) ([]Result, error) {
	providers, err := e.providers.ListEnabledProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}

	results := make([]Result, len(providers))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Parallel)
	for i, p := range providers {
		i, p := i, p
		g.Go(func() error {
			results[i] = e.SyncProvider(ctx, p.ID, opts)
			return nil
		})
	}
	g.Wait()
	return results, nil
}

// Status reports a snapshot of the provider's active run, or a zero status
// when nothing is running.
func (e *Engine) Status(providerID string) Status {
	e.mu.Lock()
	r := e.runs[providerID]
	e.mu.Unlock()

	if r == nil {
		return Status{ProviderID: providerID}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var percent float64
	if r.total > 0 {
		percent = float64(r.processed) / float64(r.total) * 100
	}
	return Status{
		ProviderID:       providerID,
		InProgress:       true,
		ProgressPercent:  percent,
		CurrentOperation: r.currentOp,
		FilesProcessed:   r.processed,
		TotalFiles:       r.total,
		StartTime:        r.startedAt,
	}
}

// Cancel aborts the provider's active run. It reports whether a run was
// found, the run itself still finishes with a cancelled Result.
func (e *Engine) Cancel(providerID string) bool {
	e.mu.Lock()
	r := e.runs[providerID]
	e.mu.Unlock()

	if r == nil {
		return false
	}
	r.cancel()
	e.logger.Info("Cancelled sync", zap.String("provider", providerID))
	return true
}
