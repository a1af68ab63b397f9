package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

type localConfig struct {
	RootPath            string `json:"rootPath"`
	WatchForChanges     bool   `json:"watchForChanges"`
	ScanIntervalSeconds int    `json:"scanIntervalSeconds"`
}

// Local serves media from a directory tree. Every remote id is a
// slash-separated path relative to the configured root and is strictly
// confined to it.
type Local struct {
	providerID string
	name       string
	root       string
	watch      bool
	interval   time.Duration
	logger     *zap.Logger
}

func newLocalBackend(defaultRoot string, logger *zap.Logger) *Local {
	return &Local{
		root:     defaultRoot,
		watch:    true,
		interval: 30 * time.Second,
		logger:   logger,
	}
}

func (l *Local) Kind() Kind {
	return KindLocal
}

// Initialize applies the provider's config blob. Malformed blobs keep the
// defaults so a broken provider row degrades instead of failing hard.
func (l *Local) Initialize(providerID, name string, config json.RawMessage) error {
	l.providerID = providerID
	l.name = name

	cfg := localConfig{WatchForChanges: true, ScanIntervalSeconds: 30}
	if len(config) > 0 {
		if err := json.Unmarshal(config, &cfg); err != nil {
			l.logger.Warn("Invalid local backend config, using defaults",
				zap.String("provider", providerID),
				zap.Error(err))
			cfg = localConfig{WatchForChanges: true, ScanIntervalSeconds: 30}
		}
	}

	if cfg.RootPath != "" {
		l.root = cfg.RootPath
	}
	abs, err := filepath.Abs(l.root)
	if err != nil {
		return fmt.Errorf("failed to resolve root path %s: %w", l.root, err)
	}
	l.root = abs

	l.watch = cfg.WatchForChanges
	if cfg.ScanIntervalSeconds > 0 {
		l.interval = time.Duration(cfg.ScanIntervalSeconds) * time.Second
	}
	return nil
}

// resolve maps a remote id to an absolute path under the root. Absolute
// paths and any traversal, in either separator style, are rejected with
// ErrAccessDenied before touching the filesystem.
func (l *Local) resolve(remoteID string) (string, error) {
	normalized := strings.ReplaceAll(remoteID, "\\", "/")

	if normalized == "" || strings.HasPrefix(normalized, "/") || strings.Contains(normalized, ":") {
		return "", fmt.Errorf("%w: %q", ErrAccessDenied, remoteID)
	}

	cleaned := path.Clean(normalized)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrAccessDenied, remoteID)
	}

	full := filepath.Join(l.root, filepath.FromSlash(cleaned))

	// Join cleans again, double-check the result stayed inside the root.
	rel, err := filepath.Rel(l.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrAccessDenied, remoteID)
	}
	return full, nil
}

func (l *Local) ListFiles(ctx context.Context, opts ListOptions) ([]FileDescriptor, error) {
	start := l.root
	if opts.FolderID != "" {
		resolved, err := l.resolve(opts.FolderID)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(resolved)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%w: folder %q", ErrNotFound, opts.FolderID)
		}
		start = resolved
	}

	var files []FileDescriptor
	err := filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if p != start && !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		kind := MediaKindOf(d.Name())
		if kind == "" {
			return nil
		}

		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		remoteID := filepath.ToSlash(rel)

		folderID := path.Dir(remoteID)
		if folderID == "." {
			folderID = ""
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		files = append(files, FileDescriptor{
			RemoteID:   remoteID,
			Name:       d.Name(),
			Size:       info.Size(),
			MediaKind:  kind,
			FolderID:   folderID,
			Path:       p,
			ModifiedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", l.root, err)
	}
	return files, nil
}

func (l *Local) OpenRead(ctx context.Context, remoteID string) (io.ReadCloser, error) {
	full, err := l.resolve(remoteID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(full)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, remoteID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", remoteID, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", remoteID, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %q is a directory", ErrNotFound, remoteID)
	}
	return f, nil
}

// Upload writes the stream to a temporary file in the target directory and
// renames it into place, so readers never observe partial content.
func (l *Local) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (*FileDescriptor, error) {
	full, err := l.resolve(name)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return nil, fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("failed to store %s: %w", name, err)
	}

	rel, err := filepath.Rel(l.root, full)
	if err != nil {
		return nil, err
	}
	remoteID := filepath.ToSlash(rel)

	folderID := path.Dir(remoteID)
	if folderID == "." {
		folderID = ""
	}

	return &FileDescriptor{
		RemoteID:   remoteID,
		Name:       filepath.Base(full),
		Size:       written,
		MediaKind:  MediaKindOf(full),
		FolderID:   folderID,
		Path:       full,
		ModifiedAt: time.Now(),
	}, nil
}

func (l *Local) Delete(ctx context.Context, remoteID string) error {
	full, err := l.resolve(remoteID)
	if err != nil {
		return err
	}

	err = os.Remove(full)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %q", ErrNotFound, remoteID)
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", remoteID, err)
	}
	return nil
}

func (l *Local) TestConnection(ctx context.Context) bool {
	info, err := os.Stat(l.root)
	return err == nil && info.IsDir()
}

func (l *Local) SupportsUpload() bool { return true }

func (l *Local) SupportsWatch() bool { return l.watch }

type fileState struct {
	size    int64
	modTime time.Time
}

// Watch polls the tree and emits change events until the context is
// cancelled. The returned channel is closed when the watcher stops.
func (l *Local) Watch(ctx context.Context) (<-chan WatchEvent, error) {
	if !l.watch {
		return nil, fmt.Errorf("%w: watching disabled for provider %s", ErrNotSupported, l.providerID)
	}
	if _, err := os.Stat(l.root); err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", l.root, err)
	}

	// The baseline is taken before Watch returns, changes made afterwards
	// are always reported.
	prev, err := l.snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", l.root, err)
	}

	events := make(chan WatchEvent, 64)

	go func() {
		defer close(events)

		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			cur, err := l.snapshot(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Warn("Watch snapshot failed", zap.Error(err))
				continue
			}

			for id, state := range cur {
				old, ok := prev[id]
				switch {
				case !ok:
					events <- WatchEvent{Op: "added", RemoteID: id}
				case old.size != state.size || !old.modTime.Equal(state.modTime):
					events <- WatchEvent{Op: "modified", RemoteID: id}
				}
			}
			for id := range prev {
				if _, ok := cur[id]; !ok {
					events <- WatchEvent{Op: "removed", RemoteID: id}
				}
			}
			prev = cur
		}
	}()

	return events, nil
}

func (l *Local) snapshot(ctx context.Context) (map[string]fileState, error) {
	files, err := l.ListFiles(ctx, ListOptions{Recursive: true})
	if err != nil {
		return nil, err
	}

	state := make(map[string]fileState, len(files))
	for _, f := range files {
		state[f.RemoteID] = fileState{size: f.Size, modTime: f.ModifiedAt}
	}
	return state, nil
}
