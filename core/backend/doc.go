// Package backend defines the storage backend contract and its variants.
//
// A Backend adapts one external storage system to the capability contract
// the sync engine consumes: listing media files, reading content, optional
// uploads and deletes, and a connectivity probe. Variants differ in what
// they support and signal refusals with typed errors rather than surprises
// at call time.
//
// # Variants
//
//   - Local: serves a directory tree. Remote ids are root-relative paths
//     and are strictly sandboxed, traversal attempts in any separator style
//     return ErrAccessDenied. Supports uploads, deletes and change watching.
//   - Picker: read-only view over a remote picking service. Listings report
//     the catalog rows already imported for the provider, content reads are
//     served through the blob cache because remote URLs expire.
//   - S3: mirrors an S3-compatible bucket below an optional key prefix via
//     the Minio client.
//   - Unimplemented: placeholder for declared kinds without an
//     implementation, every operation returns ErrNotImplemented.
//
// # Registry
//
// The Registry resolves provider ids to initialized backend instances. An
// instance is created once per provider and cached, concurrent first
// lookups are collapsed with singleflight so every caller shares the same
// instance. Provider config changes require an explicit Invalidate or
// ClearCache, live instances never re-read their rows.
//
// # Usage
//
//	registry := backend.NewRegistry(store, backend.Deps{Logger: log, Cache: cache, Catalog: store})
//	b, err := registry.GetBackend(ctx, providerID)
//	if err != nil { ... }
//	files, err := b.ListFiles(ctx, backend.ListOptions{Recursive: true})
package backend
