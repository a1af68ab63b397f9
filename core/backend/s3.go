package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"media-mirror/core/metrics"
)

// S3 mirrors media from an S3-compatible bucket, optionally below a key
// prefix. Remote ids are object keys relative to that prefix.
type S3 struct {
	providerID string
	name       string
	client     ObjectClient
	bucket     string
	prefix     string
	logger     *zap.Logger
}

func newS3Backend(client ObjectClient, logger *zap.Logger) *S3 {
	return &S3{client: client, logger: logger}
}

func (s *S3) Kind() Kind {
	return KindS3
}

func (s *S3) Initialize(providerID, name string, config json.RawMessage) error {
	s.providerID = providerID
	s.name = name

	var cfg s3Config
	if len(config) > 0 {
		if err := json.Unmarshal(config, &cfg); err != nil {
			s.logger.Warn("Invalid s3 backend config, using defaults",
				zap.String("provider", providerID),
				zap.Error(err))
			cfg = s3Config{}
		}
	}

	s.bucket = cfg.Bucket
	s.prefix = strings.Trim(cfg.Prefix, "/")

	if s.client == nil {
		client, err := newObjectClient(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize s3 backend for provider %s: %w", providerID, err)
		}
		s.client = client
	}
	return nil
}

// key maps a remote id to the full object key under the configured prefix.
func (s *S3) key(remoteID string) string {
	if s.prefix == "" {
		return remoteID
	}
	return s.prefix + "/" + remoteID
}

// remoteID maps an object key back to the prefix-relative id.
func (s *S3) remoteID(key string) string {
	if s.prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, s.prefix+"/")
}

func (s *S3) ListFiles(ctx context.Context, opts ListOptions) ([]FileDescriptor, error) {
	start := time.Now()

	prefix := s.prefix
	if prefix != "" {
		prefix += "/"
	}
	if opts.FolderID != "" {
		prefix += strings.Trim(opts.FolderID, "/") + "/"
	}

	var files []FileDescriptor
	var listErr error
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: opts.Recursive,
	}) {
		if obj.Err != nil {
			listErr = fmt.Errorf("failed to list bucket %s: %w", s.bucket, obj.Err)
			break
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue // common-prefix pseudo directories
		}

		kind := MediaKindOf(obj.Key)
		if kind == "" {
			continue
		}

		id := s.remoteID(obj.Key)
		folderID := path.Dir(id)
		if folderID == "." {
			folderID = ""
		}

		files = append(files, FileDescriptor{
			RemoteID:   id,
			Name:       path.Base(obj.Key),
			Size:       obj.Size,
			MediaKind:  kind,
			FolderID:   folderID,
			ModifiedAt: obj.LastModified,
		})
	}

	metrics.RecordBackendOperation(string(KindS3), "list", time.Since(start), listErr)
	if listErr != nil {
		return nil, listErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return files, nil
}

func (s *S3) OpenRead(ctx context.Context, remoteID string) (io.ReadCloser, error) {
	start := time.Now()

	key := s.key(remoteID)
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		metrics.RecordBackendOperation(string(KindS3), "stat", time.Since(start), err)
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, remoteID)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", remoteID, err)
	}

	rc, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	metrics.RecordBackendOperation(string(KindS3), "get", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", remoteID, err)
	}
	return rc, nil
}

func (s *S3) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (*FileDescriptor, error) {
	start := time.Now()

	key := s.key(name)
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	metrics.RecordBackendOperation(string(KindS3), "put", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", name, err)
	}

	id := s.remoteID(key)
	folderID := path.Dir(id)
	if folderID == "." {
		folderID = ""
	}

	return &FileDescriptor{
		RemoteID:   id,
		Name:       path.Base(key),
		Size:       info.Size,
		MediaKind:  MediaKindOf(key),
		FolderID:   folderID,
		ModifiedAt: time.Now(),
	}, nil
}

func (s *S3) Delete(ctx context.Context, remoteID string) error {
	start := time.Now()

	key := s.key(remoteID)
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		metrics.RecordBackendOperation(string(KindS3), "stat", time.Since(start), err)
		if isNoSuchKey(err) {
			return fmt.Errorf("%w: %q", ErrNotFound, remoteID)
		}
		return fmt.Errorf("failed to stat %s: %w", remoteID, err)
	}

	err = s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	metrics.RecordBackendOperation(string(KindS3), "remove", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", remoteID, err)
	}
	return nil
}

func (s *S3) TestConnection(ctx context.Context) bool {
	if s.client == nil || s.bucket == "" {
		return false
	}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	return err == nil && exists
}

func (s *S3) SupportsUpload() bool { return true }

func (s *S3) SupportsWatch() bool { return false }

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == 404
}
