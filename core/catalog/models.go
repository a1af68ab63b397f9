package catalog

import (
	"encoding/json"
	"time"
)

// Backend kinds a provider record can carry. The backend package owns the
// implementations, the catalog only stores the discriminator.
const (
	KindLocal  = "local"
	KindPicker = "picker"
	KindS3     = "s3"
	KindWebDAV = "webdav"
)

// Provider represents the 'providers' table: one row per configured
// storage backend instance.
type Provider struct {
	ID        string          `gorm:"column:id;primaryKey" json:"id"`
	Name      string          `gorm:"column:name" json:"name"`
	Kind      string          `gorm:"column:kind" json:"kind"`
	Enabled   bool            `gorm:"column:enabled" json:"enabled"`
	Config    json.RawMessage `gorm:"column:config;type:text" json:"-"`
	LastSync  *time.Time      `gorm:"column:last_sync" json:"lastSync,omitempty"`
	CreatedAt time.Time       `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time       `gorm:"column:updated_at" json:"updatedAt"`
}

// TableName overrides the table name used by GORM.
func (Provider) TableName() string {
	return "providers"
}

// MediaFile represents the 'media_files' table: one row per catalogued file.
// ProviderID is nullable so rows can outlive a deleted provider.
type MediaFile struct {
	ID          uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProviderID  *string    `gorm:"column:provider_id;index:idx_provider_remote,unique" json:"providerId,omitempty"`
	RemoteID    string     `gorm:"column:remote_id;index:idx_provider_remote,unique" json:"remoteId"`
	Name        string     `gorm:"column:name" json:"name"`
	LocalPath   string     `gorm:"column:local_path" json:"localPath"`
	ContentHash string     `gorm:"column:content_hash" json:"contentHash,omitempty"`
	Size        int64      `gorm:"column:size" json:"size"`
	MediaKind   string     `gorm:"column:media_kind" json:"mediaKind"`
	FolderID    string     `gorm:"column:folder_id" json:"folderId,omitempty"`
	FirstSeenAt time.Time  `gorm:"column:first_seen_at" json:"firstSeenAt"`
	LastSeenAt  time.Time  `gorm:"column:last_seen_at" json:"lastSeenAt"`
}

// TableName overrides the table name used by GORM.
func (MediaFile) TableName() string {
	return "media_files"
}
