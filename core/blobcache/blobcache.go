package blobcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"media-mirror/core/metrics"
)

// ErrNotFound is returned when a hash is not present in the cache.
var ErrNotFound = errors.New("blobcache: not found")

var bucketBlobs = []byte("blobs")

const lockStripes = 64

// Entry is the index record kept per cached blob.
type Entry struct {
	Hash        string    `json:"hash"`
	Size        int64     `json:"size"`
	Origin      string    `json:"origin,omitempty"`
	ProviderID  string    `json:"providerId,omitempty"`
	ContentType string    `json:"contentType,omitempty"`
	CachedAt    time.Time `json:"cachedAt"`
	LastAccess  time.Time `json:"lastAccess"`
}

// Stats summarizes the cache state for status endpoints and the CLI.
type Stats struct {
	Dir       string `json:"dir"`
	Count     int64  `json:"count"`
	SizeBytes int64  `json:"sizeBytes"`
	MaxBytes  int64  `json:"maxBytes"`
}

// Cache is a content-addressed, disk-backed byte store with LRU eviction.
// Blobs live as files keyed by their hash, the index database tracks sizes
// and access times for eviction decisions.
type Cache struct {
	dir      string
	maxBytes int64
	db       *bolt.DB
	logger   *zap.Logger
	size     atomic.Int64

	// Striped by hash so concurrent writes of the same blob collapse while
	// distinct blobs do not serialize.
	locks [lockStripes]sync.Mutex
}

// New opens (or creates) a blob cache in cfg.Dir.
func New(cfg Config, logger *zap.Logger) (*Cache, error) {
	if err := os.MkdirAll(filepath.Join(cfg.Dir, "blobs"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bolt.Open(filepath.Join(cfg.Dir, "index.db"), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache index: %w", err)
	}

	c := &Cache{
		dir:      cfg.Dir,
		maxBytes: cfg.MaxBytes(),
		db:       db,
		logger:   logger,
	}

	var total int64
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketBlobs)
		if err != nil {
			return err
		}
		return b.ForEach(func(_, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return nil // skip unreadable rows, the blob stays orphaned
			}
			total += e.Size
			return nil
		})
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache index: %w", err)
	}

	c.size.Store(total)
	metrics.SetCacheSize(total)
	return c, nil
}

// Close releases the index database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// ComputeHash hashes the full stream with SHA-256 and seeks back to the
// start so the caller can consume the stream again.
func ComputeHash(r io.ReadSeeker) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to hash stream: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind stream: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashBytes returns the SHA-256 hex digest of the given bytes.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (c *Cache) stripe(hash string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(hash))
	return &c.locks[h.Sum32()%lockStripes]
}

func (c *Cache) blobPath(hash string) (string, error) {
	if len(hash) < 3 {
		return "", fmt.Errorf("invalid blob hash %q", hash)
	}
	return filepath.Join(c.dir, "blobs", hash[:2], hash), nil
}

func (c *Cache) getEntry(hash string) (*Entry, error) {
	var e *Entry
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketBlobs).Get([]byte(hash))
		if v == nil {
			return nil
		}
		var entry Entry
		if err := json.Unmarshal(v, &entry); err != nil {
			return fmt.Errorf("failed to decode cache entry %s: %w", hash, err)
		}
		e = &entry
		return nil
	})
	return e, err
}

func (c *Cache) putEntry(e *Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", e.Hash, err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBlobs).Put([]byte(e.Hash), data)
	})
}

func (c *Cache) deleteEntry(hash string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBlobs).Delete([]byte(hash))
	})
}

// Contains reports whether a blob for the hash is present.
func (c *Cache) Contains(hash string) bool {
	e, err := c.getEntry(hash)
	return err == nil && e != nil
}

// CacheFile stores the stream under the given hash. Storing a hash that is
// already present is a no-op: the stream is not consumed and no bytes are
// written, the cache keeps a single copy per hash.
func (c *Cache) CacheFile(ctx context.Context, hash string, r io.Reader, origin, providerID, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := c.blobPath(hash)
	if err != nil {
		return err
	}

	mu := c.stripe(hash)
	mu.Lock()
	defer mu.Unlock()

	if e, err := c.getEntry(hash); err != nil {
		return err
	} else if e != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return nil
		}
		// Index row without a blob file, rewrite below.
		c.size.Add(-e.Size)
	}

	tmp, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp blob: %w", err)
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write blob %s: %w", hash, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync blob %s: %w", hash, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close blob %s: %w", hash, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to create blob shard: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to store blob %s: %w", hash, err)
	}

	now := time.Now()
	entry := &Entry{
		Hash:        hash,
		Size:        written,
		Origin:      origin,
		ProviderID:  providerID,
		ContentType: contentType,
		CachedAt:    now,
		LastAccess:  now,
	}
	if err := c.putEntry(entry); err != nil {
		os.Remove(path)
		return err
	}

	total := c.size.Add(written)
	metrics.SetCacheSize(total)

	if c.maxBytes > 0 && total > c.maxBytes {
		if _, err := c.EvictLRU(ctx, c.maxBytes); err != nil {
			c.logger.Warn("Cache eviction after insert failed", zap.Error(err))
		}
	}
	return nil
}

// Open returns a reader for the cached blob and refreshes its access time.
// A missing hash returns ErrNotFound.
func (c *Cache) Open(ctx context.Context, hash string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, err := c.getEntry(hash)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		metrics.RecordCacheMiss()
		return nil, ErrNotFound
	}

	path, err := c.blobPath(hash)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		// The index outlived the blob file, drop the stale row.
		if delErr := c.deleteEntry(hash); delErr == nil {
			total := c.size.Add(-entry.Size)
			metrics.SetCacheSize(total)
		}
		metrics.RecordCacheMiss()
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open blob %s: %w", hash, err)
	}

	entry.LastAccess = time.Now()
	if err := c.putEntry(entry); err != nil {
		c.logger.Warn("Failed to touch cache entry", zap.String("hash", hash), zap.Error(err))
	}

	metrics.RecordCacheHit()
	return f, nil
}

// EvictLRU removes least-recently-accessed blobs until the cache size is at
// or below targetBytes. It returns the number of bytes freed.
func (c *Cache) EvictLRU(ctx context.Context, targetBytes int64) (int64, error) {
	var freed int64
	evicted := 0

	for c.size.Load() > targetBytes {
		if err := ctx.Err(); err != nil {
			return freed, err
		}

		oldest, err := c.oldestEntry()
		if err != nil {
			return freed, err
		}
		if oldest == nil {
			break
		}

		path, err := c.blobPath(oldest.Hash)
		if err != nil {
			return freed, err
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return freed, fmt.Errorf("failed to evict blob %s: %w", oldest.Hash, err)
		}
		if err := c.deleteEntry(oldest.Hash); err != nil {
			return freed, err
		}

		total := c.size.Add(-oldest.Size)
		metrics.SetCacheSize(total)
		freed += oldest.Size
		evicted++

		c.logger.Debug("Evicted blob",
			zap.String("hash", oldest.Hash),
			zap.Int64("size", oldest.Size),
			zap.Time("last_access", oldest.LastAccess))
	}

	if evicted > 0 {
		metrics.RecordCacheEvictions(evicted)
		c.logger.Info("Cache eviction finished",
			zap.Int("evicted", evicted),
			zap.Int64("freed_bytes", freed),
			zap.Int64("size_bytes", c.size.Load()))
	}
	return freed, nil
}

func (c *Cache) oldestEntry() (*Entry, error) {
	var oldest *Entry
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBlobs).ForEach(func(_, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return nil
			}
			if oldest == nil || e.LastAccess.Before(oldest.LastAccess) {
				entry := e
				oldest = &entry
			}
			return nil
		})
	})
	return oldest, err
}

// Clear removes every blob and resets the index.
func (c *Cache) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketBlobs); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketBlobs)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to reset cache index: %w", err)
	}

	blobsDir := filepath.Join(c.dir, "blobs")
	if err := os.RemoveAll(blobsDir); err != nil {
		return fmt.Errorf("failed to remove blob files: %w", err)
	}
	if err := os.MkdirAll(blobsDir, 0755); err != nil {
		return fmt.Errorf("failed to recreate blob directory: %w", err)
	}

	c.size.Store(0)
	metrics.SetCacheSize(0)
	return nil
}

// Size returns the current total size of all cached blobs in bytes.
func (c *Cache) Size() int64 {
	return c.size.Load()
}

// Count returns the number of cached blobs.
func (c *Cache) Count() (int64, error) {
	var count int64
	err := c.db.View(func(tx *bolt.Tx) error {
		count = int64(tx.Bucket(bucketBlobs).Stats().KeyN)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return count, nil
}

// Stats returns a snapshot of the cache state.
func (c *Cache) Stats() (Stats, error) {
	count, err := c.Count()
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Dir:       c.dir,
		Count:     count,
		SizeBytes: c.size.Load(),
		MaxBytes:  c.maxBytes,
	}, nil
}
