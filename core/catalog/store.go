package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a provider or media file does not exist.
var ErrNotFound = errors.New("catalog: record not found")

// Store provides catalog persistence on top of GORM.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store bound to the given database connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the catalog tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Provider{}, &MediaFile{}); err != nil {
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	return nil
}

// GetProvider fetches a single provider by id.
func (s *Store) GetProvider(ctx context.Context, id string) (*Provider, error) {
	var p Provider
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load provider %s: %w", id, err)
	}
	return &p, nil
}

// ListProviders returns all provider records.
func (s *Store) ListProviders(ctx context.Context) ([]Provider, error) {
	var providers []Provider
	if err := s.db.WithContext(ctx).Order("created_at").Find(&providers).Error; err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	return providers, nil
}

// ListEnabledProviders returns all providers with Enabled set.
func (s *Store) ListEnabledProviders(ctx context.Context) ([]Provider, error) {
	var providers []Provider
	if err := s.db.WithContext(ctx).Where("enabled = ?", true).Order("created_at").Find(&providers).Error; err != nil {
		return nil, fmt.Errorf("failed to list enabled providers: %w", err)
	}
	return providers, nil
}

// ListProvidersByKind returns enabled providers of the given backend kind.
func (s *Store) ListProvidersByKind(ctx context.Context, kind string) ([]Provider, error) {
	var providers []Provider
	if err := s.db.WithContext(ctx).Where("enabled = ? AND kind = ?", true, kind).Order("created_at").Find(&providers).Error; err != nil {
		return nil, fmt.Errorf("failed to list providers of kind %s: %w", kind, err)
	}
	return providers, nil
}

// CreateProvider inserts a new provider record.
func (s *Store) CreateProvider(ctx context.Context, p *Provider) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create provider %s: %w", p.ID, err)
	}
	return nil
}

// UpdateProviderConfig replaces the configuration blob of a provider.
// Callers that hold a backend registry must invalidate it afterwards,
// live instances keep their old configuration otherwise.
func (s *Store) UpdateProviderConfig(ctx context.Context, id string, config []byte) error {
	res := s.db.WithContext(ctx).Model(&Provider{}).Where("id = ?", id).Update("config", config)
	if res.Error != nil {
		return fmt.Errorf("failed to update provider %s config: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetProviderEnabled flips the enabled flag of a provider.
func (s *Store) SetProviderEnabled(ctx context.Context, id string, enabled bool) error {
	res := s.db.WithContext(ctx).Model(&Provider{}).Where("id = ?", id).Update("enabled", enabled)
	if res.Error != nil {
		return fmt.Errorf("failed to set provider %s enabled=%t: %w", id, enabled, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastSync records the completion time of the latest sync run.
func (s *Store) TouchLastSync(ctx context.Context, id string, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&Provider{}).Where("id = ?", id).Update("last_sync", at)
	if res.Error != nil {
		return fmt.Errorf("failed to touch last sync for provider %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetMediaFile fetches a media file by its (provider, remote id) pair.
func (s *Store) GetMediaFile(ctx context.Context, providerID, remoteID string) (*MediaFile, error) {
	var f MediaFile
	err := s.db.WithContext(ctx).Where("provider_id = ? AND remote_id = ?", providerID, remoteID).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load media file %s/%s: %w", providerID, remoteID, err)
	}
	return &f, nil
}

// ListMediaFiles returns all media files owned by a provider.
func (s *Store) ListMediaFiles(ctx context.Context, providerID string) ([]MediaFile, error) {
	var files []MediaFile
	if err := s.db.WithContext(ctx).Where("provider_id = ?", providerID).Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to list media files for provider %s: %w", providerID, err)
	}
	return files, nil
}

// UpsertMediaFile inserts the file or updates the existing row for the same
// (provider, remote id) pair. Sync runs are serialized per provider, so the
// read-then-write here does not race with itself.
func (s *Store) UpsertMediaFile(ctx context.Context, f *MediaFile) error {
	if f.ProviderID == nil {
		return fmt.Errorf("media file %s has no provider", f.RemoteID)
	}

	existing, err := s.GetMediaFile(ctx, *f.ProviderID, f.RemoteID)
	if errors.Is(err, ErrNotFound) {
		now := time.Now()
		if f.FirstSeenAt.IsZero() {
			f.FirstSeenAt = now
		}
		if f.LastSeenAt.IsZero() {
			f.LastSeenAt = now
		}
		if err := s.db.WithContext(ctx).Create(f).Error; err != nil {
			return fmt.Errorf("failed to insert media file %s: %w", f.RemoteID, err)
		}
		return nil
	}
	if err != nil {
		return err
	}

	f.ID = existing.ID
	f.FirstSeenAt = existing.FirstSeenAt
	f.LastSeenAt = time.Now()
	if f.ContentHash == "" {
		f.ContentHash = existing.ContentHash
	}
	if err := s.db.WithContext(ctx).Save(f).Error; err != nil {
		return fmt.Errorf("failed to update media file %s: %w", f.RemoteID, err)
	}
	return nil
}

// DeleteMediaFile removes a single media file row.
func (s *Store) DeleteMediaFile(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&MediaFile{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete media file %d: %w", id, err)
	}
	return nil
}

// DeleteMediaFilesByRemoteIDs removes all rows of a provider whose remote id
// is in the given set. Used by the removal step of a sync run.
func (s *Store) DeleteMediaFilesByRemoteIDs(ctx context.Context, providerID string, remoteIDs []string) (int64, error) {
	if len(remoteIDs) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Where("provider_id = ? AND remote_id IN ?", providerID, remoteIDs).Delete(&MediaFile{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete media files for provider %s: %w", providerID, res.Error)
	}
	return res.RowsAffected, nil
}

// CountMediaFiles returns the number of catalogued files for a provider.
func (s *Store) CountMediaFiles(ctx context.Context, providerID string) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&MediaFile{}).Where("provider_id = ?", providerID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count media files for provider %s: %w", providerID, err)
	}
	return count, nil
}

// SetContentHash stores the content hash computed for a media file,
// typically after a remote backend cached its bytes.
func (s *Store) SetContentHash(ctx context.Context, id uint, hash string) error {
	res := s.db.WithContext(ctx).Model(&MediaFile{}).Where("id = ?", id).Update("content_hash", hash)
	if res.Error != nil {
		return fmt.Errorf("failed to set content hash for media file %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
