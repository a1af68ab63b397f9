// Package blobcache implements the content-addressed byte store for remote media.
//
// Remote backends whose download URLs are ephemeral or rate-limited store the
// fetched bytes here, keyed by the SHA-256 of the content. Identical content
// is kept once regardless of how many catalog entries reference it.
//
// # Layout
//
// Blobs are plain files under <dir>/blobs/<hh>/<hash> where <hh> is the first
// two hex digits of the hash. An embedded bbolt database (<dir>/index.db)
// tracks per-blob metadata: size, origin, content type and access times.
//
// # Eviction
//
// The cache enforces a byte budget with LRU eviction: when an insert pushes
// the total over Config.MaxSizeMB, the least recently accessed blobs are
// removed until the cache fits. EvictLRU can also be invoked explicitly with
// an arbitrary target.
//
// # Concurrency
//
// Writers of the same hash are serialized on a striped lock and collapse to
// a single stored copy. Writers of distinct hashes proceed in parallel.
// Reads touch the access time but otherwise only open the blob file.
package blobcache
