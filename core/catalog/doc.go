// Package catalog provides the persistence layer for providers and media files.
//
// It defines the GORM models for the two catalog tables and a Store with the
// query and mutation operations the sync engine and the backend registry need.
//
// # Models
//
//   - Provider: one row per configured storage backend instance, carrying the
//     backend kind discriminator and an opaque JSON configuration blob.
//   - MediaFile: one row per catalogued file, unique per (provider, remote id).
//     The provider reference is nullable so rows can outlive their provider.
//
// # Store
//
// All Store methods take a context and return wrapped errors. Missing records
// are reported as ErrNotFound so callers can distinguish absence from driver
// failures.
//
// # Usage
//
//	store := catalog.NewStore(db)
//	if err := catalog.AutoMigrate(db); err != nil { ... }
//	p, err := store.GetProvider(ctx, providerID)
package catalog
