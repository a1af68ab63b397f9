package catalog_test

import (
	"context"
	"testing"
	"time"

	"media-mirror/core/catalog"
	"media-mirror/core/database"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *catalog.Store {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open sqlite db: %v", err)
	}
	if err := catalog.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}
	return catalog.NewStore(db)
}

func strPtr(s string) *string { return &s }

func TestStore_ProviderLifecycle(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	p := &catalog.Provider{
		ID:      "prov-1",
		Name:    "Local Media",
		Kind:    catalog.KindLocal,
		Enabled: true,
		Config:  []byte(`{"rootPath":"/media"}`),
	}
	assert.NoError(t, store.CreateProvider(ctx, p))

	got, err := store.GetProvider(ctx, "prov-1")
	assert.NoError(t, err)
	assert.Equal(t, "Local Media", got.Name)
	assert.Equal(t, catalog.KindLocal, got.Kind)
	assert.True(t, got.Enabled)
	assert.Nil(t, got.LastSync)

	_, err = store.GetProvider(ctx, "missing")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	// Disabled providers drop out of the enabled listing.
	assert.NoError(t, store.CreateProvider(ctx, &catalog.Provider{
		ID: "prov-2", Name: "Picker", Kind: catalog.KindPicker, Enabled: false,
	}))

	enabled, err := store.ListEnabledProviders(ctx)
	assert.NoError(t, err)
	assert.Len(t, enabled, 1)
	assert.Equal(t, "prov-1", enabled[0].ID)

	all, err := store.ListProviders(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	assert.NoError(t, store.SetProviderEnabled(ctx, "prov-2", true))
	enabled, err = store.ListEnabledProviders(ctx)
	assert.NoError(t, err)
	assert.Len(t, enabled, 2)

	byKind, err := store.ListProvidersByKind(ctx, catalog.KindPicker)
	assert.NoError(t, err)
	assert.Len(t, byKind, 1)
	assert.Equal(t, "prov-2", byKind[0].ID)

	now := time.Now().UTC().Truncate(time.Second)
	assert.NoError(t, store.TouchLastSync(ctx, "prov-1", now))
	got, err = store.GetProvider(ctx, "prov-1")
	assert.NoError(t, err)
	assert.NotNil(t, got.LastSync)

	assert.ErrorIs(t, store.TouchLastSync(ctx, "missing", now), catalog.ErrNotFound)
	assert.ErrorIs(t, store.SetProviderEnabled(ctx, "missing", true), catalog.ErrNotFound)
}

func TestStore_UpsertMediaFile(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	f := &catalog.MediaFile{
		ProviderID: strPtr("prov-1"),
		RemoteID:   "photos/a.jpg",
		Name:       "a.jpg",
		Size:       100,
		MediaKind:  "photo",
	}
	assert.NoError(t, store.UpsertMediaFile(ctx, f))
	assert.NotZero(t, f.ID)
	assert.False(t, f.FirstSeenAt.IsZero())

	got, err := store.GetMediaFile(ctx, "prov-1", "photos/a.jpg")
	assert.NoError(t, err)
	assert.Equal(t, int64(100), got.Size)
	firstSeen := got.FirstSeenAt

	// Second upsert updates the same row instead of inserting.
	update := &catalog.MediaFile{
		ProviderID: strPtr("prov-1"),
		RemoteID:   "photos/a.jpg",
		Name:       "a.jpg",
		Size:       250,
		MediaKind:  "photo",
	}
	assert.NoError(t, store.UpsertMediaFile(ctx, update))
	assert.Equal(t, got.ID, update.ID)

	got, err = store.GetMediaFile(ctx, "prov-1", "photos/a.jpg")
	assert.NoError(t, err)
	assert.Equal(t, int64(250), got.Size)
	assert.Equal(t, firstSeen.Unix(), got.FirstSeenAt.Unix())

	count, err := store.CountMediaFiles(ctx, "prov-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Upsert without a provider is a programming error.
	assert.Error(t, store.UpsertMediaFile(ctx, &catalog.MediaFile{RemoteID: "x"}))
}

func TestStore_UpsertKeepsContentHash(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	f := &catalog.MediaFile{
		ProviderID:  strPtr("prov-1"),
		RemoteID:    "item-1",
		Name:        "item-1.jpg",
		Size:        10,
		ContentHash: "abc123",
	}
	assert.NoError(t, store.UpsertMediaFile(ctx, f))

	// A re-sync upsert without hash knowledge must not wipe the stored hash.
	assert.NoError(t, store.UpsertMediaFile(ctx, &catalog.MediaFile{
		ProviderID: strPtr("prov-1"),
		RemoteID:   "item-1",
		Name:       "item-1.jpg",
		Size:       12,
	}))

	got, err := store.GetMediaFile(ctx, "prov-1", "item-1")
	assert.NoError(t, err)
	assert.Equal(t, "abc123", got.ContentHash)
	assert.Equal(t, int64(12), got.Size)
}

func TestStore_DeleteByRemoteIDs(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		assert.NoError(t, store.UpsertMediaFile(ctx, &catalog.MediaFile{
			ProviderID: strPtr("prov-1"),
			RemoteID:   id,
			Name:       id,
		}))
	}
	// A second provider's rows must not be touched.
	assert.NoError(t, store.UpsertMediaFile(ctx, &catalog.MediaFile{
		ProviderID: strPtr("prov-2"),
		RemoteID:   "a",
		Name:       "a",
	}))

	deleted, err := store.DeleteMediaFilesByRemoteIDs(ctx, "prov-1", []string{"a", "c"})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	files, err := store.ListMediaFiles(ctx, "prov-1")
	assert.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "b", files[0].RemoteID)

	count, err := store.CountMediaFiles(ctx, "prov-2")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Empty set is a no-op, not a full delete.
	deleted, err = store.DeleteMediaFilesByRemoteIDs(ctx, "prov-1", nil)
	assert.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestStore_SetContentHash(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	f := &catalog.MediaFile{
		ProviderID: strPtr("prov-1"),
		RemoteID:   "item-9",
		Name:       "item-9.mp4",
		MediaKind:  "video",
	}
	assert.NoError(t, store.UpsertMediaFile(ctx, f))

	assert.NoError(t, store.SetContentHash(ctx, f.ID, "deadbeef"))

	got, err := store.GetMediaFile(ctx, "prov-1", "item-9")
	assert.NoError(t, err)
	assert.Equal(t, "deadbeef", got.ContentHash)

	assert.ErrorIs(t, store.SetContentHash(ctx, 99999, "x"), catalog.ErrNotFound)
}

func TestAutoMigrate_CreatesUniqueIndex(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)
	assert.NoError(t, catalog.AutoMigrate(db))

	// Direct inserts bypassing the store must hit the unique constraint.
	pid := "prov-1"
	assert.NoError(t, db.Create(&catalog.MediaFile{ProviderID: &pid, RemoteID: "dup", FirstSeenAt: time.Now(), LastSeenAt: time.Now()}).Error)
	err = db.Create(&catalog.MediaFile{ProviderID: &pid, RemoteID: "dup", FirstSeenAt: time.Now(), LastSeenAt: time.Now()}).Error
	assert.Error(t, err)
	assert.NotErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAutoMigrate_Schema(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)
	assert.NoError(t, catalog.AutoMigrate(db))

	fields := func(table string) []string {
		cols, err := database.GetTableColumns(db, table)
		assert.NoError(t, err)
		names := make([]string, 0, len(cols))
		for _, c := range cols {
			names = append(names, c.Field)
		}
		return names
	}

	providerCols := fields("providers")
	for _, want := range []string{"id", "name", "kind", "enabled", "config", "last_sync", "created_at", "updated_at"} {
		assert.Contains(t, providerCols, want)
	}

	fileCols := fields("media_files")
	for _, want := range []string{"id", "provider_id", "remote_id", "name", "local_path", "content_hash", "size", "media_kind", "folder_id", "first_seen_at", "last_seen_at"} {
		assert.Contains(t, fileCols, want)
	}
}
