package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"media-mirror/core/blobcache"
	"media-mirror/core/catalog"
)

// PickerCatalog is the catalog view the picker backend needs: the rows a
// user has imported for its provider.
type PickerCatalog interface {
	ListMediaFiles(ctx context.Context, providerID string) ([]catalog.MediaFile, error)
	GetMediaFile(ctx context.Context, providerID, remoteID string) (*catalog.MediaFile, error)
	SetContentHash(ctx context.Context, id uint, hash string) error
}

// Fetcher retrieves picked media from the remote service. The picker's
// download URLs expire, so fetched bytes always go through the blob cache.
type Fetcher interface {
	// Fetch returns the content and content type of a remote item.
	Fetch(ctx context.Context, remoteID string) (io.ReadCloser, string, error)
	// Ping checks that the remote service is reachable.
	Ping(ctx context.Context) error
}

type pickerConfig struct {
	BaseURL               string `json:"baseUrl"`
	RequestTimeoutSeconds int    `json:"requestTimeoutSeconds"`
}

// Picker is the read-only variant backed by a remote picking service.
// Listing reports the catalog rows already imported for the provider, the
// remote API has no listable drive. Content reads are served from the blob
// cache and fall back to a remote fetch on miss.
type Picker struct {
	providerID string
	name       string
	catalog    PickerCatalog
	cache      *blobcache.Cache
	fetcher    Fetcher
	logger     *zap.Logger

	baseURL string
	timeout time.Duration
}

func newPickerBackend(cat PickerCatalog, cache *blobcache.Cache, fetcher Fetcher, timeoutSeconds int, logger *zap.Logger) *Picker {
	timeout := 30 * time.Second
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return &Picker{
		catalog: cat,
		cache:   cache,
		fetcher: fetcher,
		timeout: timeout,
		logger:  logger,
	}
}

func (p *Picker) Kind() Kind {
	return KindPicker
}

func (p *Picker) Initialize(providerID, name string, config json.RawMessage) error {
	p.providerID = providerID
	p.name = name

	var cfg pickerConfig
	if len(config) > 0 {
		if err := json.Unmarshal(config, &cfg); err != nil {
			p.logger.Warn("Invalid picker backend config, using defaults",
				zap.String("provider", providerID),
				zap.Error(err))
			cfg = pickerConfig{}
		}
	}

	p.baseURL = cfg.BaseURL
	if cfg.RequestTimeoutSeconds > 0 {
		p.timeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	}
	if p.fetcher == nil {
		p.fetcher = newHTTPFetcher(p.baseURL, p.timeout)
	}
	return nil
}

func (p *Picker) ListFiles(ctx context.Context, opts ListOptions) ([]FileDescriptor, error) {
	// FolderID and Recursive have no meaning here, imported items are flat.
	rows, err := p.catalog.ListMediaFiles(ctx, p.providerID)
	if err != nil {
		return nil, err
	}

	files := make([]FileDescriptor, 0, len(rows))
	for _, row := range rows {
		files = append(files, FileDescriptor{
			RemoteID:   row.RemoteID,
			Name:       row.Name,
			Size:       row.Size,
			MediaKind:  row.MediaKind,
			FolderID:   row.FolderID,
			Path:       row.LocalPath,
			ModifiedAt: row.LastSeenAt,
		})
	}
	return files, nil
}

// OpenRead serves an imported item. Cached content is returned directly,
// otherwise the item is fetched once, cached under its content hash and the
// hash is recorded on the catalog row for future hits.
func (p *Picker) OpenRead(ctx context.Context, remoteID string) (io.ReadCloser, error) {
	row, err := p.catalog.GetMediaFile(ctx, p.providerID, remoteID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, remoteID)
	}
	if err != nil {
		return nil, err
	}

	if row.ContentHash != "" {
		rc, err := p.cache.Open(ctx, row.ContentHash)
		if err == nil {
			return rc, nil
		}
		if !errors.Is(err, blobcache.ErrNotFound) {
			return nil, err
		}
		// Evicted since the hash was recorded, fetch again below.
	}

	rc, contentType, err := p.fetcher.Fetch(ctx, remoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", remoteID, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read remote item %s: %w", remoteID, err)
	}

	hash := blobcache.HashBytes(data)
	if err := p.cache.CacheFile(ctx, hash, bytes.NewReader(data), remoteID, p.providerID, contentType); err != nil {
		// Serve the fetched bytes anyway, the next read fetches again.
		p.logger.Warn("Failed to cache remote item",
			zap.String("provider", p.providerID),
			zap.String("remote_id", remoteID),
			zap.Error(err))
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	if err := p.catalog.SetContentHash(ctx, row.ID, hash); err != nil {
		p.logger.Warn("Failed to record content hash",
			zap.String("provider", p.providerID),
			zap.String("remote_id", remoteID),
			zap.Error(err))
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func (p *Picker) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (*FileDescriptor, error) {
	return nil, fmt.Errorf("%w: picker backend is read-only", ErrNotSupported)
}

func (p *Picker) Delete(ctx context.Context, remoteID string) error {
	return fmt.Errorf("%w: picker backend is read-only", ErrNotSupported)
}

func (p *Picker) TestConnection(ctx context.Context) bool {
	if p.fetcher == nil {
		return false
	}
	return p.fetcher.Ping(ctx) == nil
}

func (p *Picker) SupportsUpload() bool { return false }

func (p *Picker) SupportsWatch() bool { return false }

type httpFetcher struct {
	baseURL string
	client  *http.Client
}

func newHTTPFetcher(baseURL string, timeout time.Duration) *httpFetcher {
	return &httpFetcher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (f *httpFetcher) Fetch(ctx context.Context, remoteID string) (io.ReadCloser, string, error) {
	if f.baseURL == "" {
		return nil, "", errors.New("picker base url is not configured")
	}

	endpoint := fmt.Sprintf("%s/media/%s", f.baseURL, url.PathEscape(remoteID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, "", fmt.Errorf("%w: %q", ErrNotFound, remoteID)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", fmt.Errorf("remote returned status %d for %s", resp.StatusCode, remoteID)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func (f *httpFetcher) Ping(ctx context.Context) error {
	if f.baseURL == "" {
		return errors.New("picker base url is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("remote returned status %d", resp.StatusCode)
	}
	return nil
}
