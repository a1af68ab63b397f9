package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// Kind identifies a storage backend implementation.
type Kind string

const (
	KindLocal  Kind = "local"
	KindPicker Kind = "picker"
	KindS3     Kind = "s3"
	// KindWebDAV is declared but has no implementation yet. Providers of
	// this kind resolve to the Unimplemented variant.
	KindWebDAV Kind = "webdav"
)

// ParseKind maps a stored discriminator to a Kind. Unknown strings are an
// error so typos in provider rows surface instead of silently resolving.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(s)) {
	case KindLocal:
		return KindLocal, nil
	case KindPicker:
		return KindPicker, nil
	case KindS3:
		return KindS3, nil
	case KindWebDAV:
		return KindWebDAV, nil
	default:
		return "", fmt.Errorf("unsupported backend kind %q", s)
	}
}

// FileDescriptor is one file as reported by a backend listing.
type FileDescriptor struct {
	// RemoteID is the backend-scoped stable identifier of the file.
	RemoteID string `json:"remoteId"`
	// Name is the display name, usually the base file name.
	Name string `json:"name"`
	// Size in bytes.
	Size int64 `json:"size"`
	// MediaKind is photo or video.
	MediaKind string `json:"mediaKind"`
	// FolderID identifies the containing folder, empty for the root.
	FolderID string `json:"folderId,omitempty"`
	// Path is the absolute local path for filesystem-backed backends,
	// empty otherwise.
	Path string `json:"-"`
	// ModifiedAt is the backend's modification timestamp if it has one.
	ModifiedAt time.Time `json:"modifiedAt,omitempty"`
}

// ListOptions narrows a backend listing.
type ListOptions struct {
	// FolderID restricts the listing to one folder, empty means the root.
	FolderID string
	// Recursive descends into subfolders.
	Recursive bool
}

// WatchEvent is a change notice emitted by watch-capable backends.
type WatchEvent struct {
	// Op is added, removed or modified.
	Op string `json:"op"`
	// RemoteID identifies the affected file.
	RemoteID string `json:"remoteId"`
}

// Backend is the capability contract every storage variant implements.
// Read-only variants return ErrNotSupported from the mutating operations,
// declared-but-unbuilt variants return ErrNotImplemented from everything.
type Backend interface {
	// Kind returns the variant discriminator.
	Kind() Kind
	// Initialize binds the backend to a provider. The config blob is
	// variant specific JSON; a nil, empty or malformed blob falls back to
	// defaults with a logged warning instead of failing.
	Initialize(providerID, name string, config json.RawMessage) error
	// ListFiles enumerates the media files visible to this backend.
	ListFiles(ctx context.Context, opts ListOptions) ([]FileDescriptor, error)
	// OpenRead opens the content of a file. Unknown ids return ErrNotFound.
	OpenRead(ctx context.Context, remoteID string) (io.ReadCloser, error)
	// Upload stores a new file and returns its descriptor.
	Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (*FileDescriptor, error)
	// Delete removes a file.
	Delete(ctx context.Context, remoteID string) error
	// TestConnection reports reachability. Ordinary connectivity or
	// credential failures yield false, never an error.
	TestConnection(ctx context.Context) bool
	// SupportsUpload reports whether Upload and Delete are available.
	SupportsUpload() bool
	// SupportsWatch reports whether the backend also satisfies Watcher.
	SupportsWatch() bool
}

// Watcher is the optional change-notification capability. Callers discover
// it with a type assertion after checking SupportsWatch.
type Watcher interface {
	Watch(ctx context.Context) (<-chan WatchEvent, error)
}

// Download reads a whole file through OpenRead.
func Download(ctx context.Context, b Backend, remoteID string) ([]byte, error) {
	rc, err := b.OpenRead(ctx, remoteID)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", remoteID, err)
	}
	return data, nil
}

var photoExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
	".bmp": {}, ".heic": {}, ".heif": {}, ".tif": {}, ".tiff": {},
}

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".mkv": {}, ".avi": {}, ".webm": {},
	".m4v": {}, ".mpg": {}, ".mpeg": {}, ".wmv": {},
}

// MediaKindOf classifies a file name by extension. Non-media files
// return an empty string and are excluded from listings.
func MediaKindOf(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if _, ok := photoExtensions[ext]; ok {
		return "photo"
	}
	if _, ok := videoExtensions[ext]; ok {
		return "video"
	}
	return ""
}
