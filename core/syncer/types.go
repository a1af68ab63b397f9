package syncer

import "time"

// Options control a single sync or scan run.
type Options struct {
	// FullSync re-processes files even when they look unchanged.
	FullSync bool `json:"fullSync"`
	// RemoveDeleted removes catalog rows whose file vanished from the
	// backend.
	RemoveDeleted bool `json:"removeDeleted"`
	// SkipExisting leaves known files alone without comparing them.
	// When unset, known files are compared by size and refreshed on a
	// change.
	SkipExisting bool `json:"skipExisting"`
	// MaxFiles caps how many new files one run may add, 0 is unlimited.
	MaxFiles int `json:"maxFiles"`
	// FolderID restricts the run to one backend folder.
	FolderID string `json:"folderId"`
	// Recursive descends into subfolders.
	Recursive bool `json:"recursive"`
}

// DefaultOptions returns the options used when a request leaves them unset.
func DefaultOptions() Options {
	return Options{
		RemoveDeleted: true,
		SkipExisting:  true,
		Recursive:     true,
	}
}

// Result reports the outcome of one provider sync.
type Result struct {
	Success             bool          `json:"success"`
	ProviderID          string        `json:"providerId"`
	ProviderName        string        `json:"providerName,omitempty"`
	FilesAdded          int           `json:"filesAdded"`
	FilesUpdated        int           `json:"filesUpdated"`
	FilesRemoved        int           `json:"filesRemoved"`
	FilesSkipped        int           `json:"filesSkipped"`
	TotalFilesFound     int           `json:"totalFilesFound"`
	TotalFilesProcessed int           `json:"totalFilesProcessed"`
	StartTime           time.Time     `json:"startTime"`
	Duration            time.Duration `json:"duration"`
	ErrorMessage        string        `json:"errorMessage,omitempty"`
}

// Status is a point-in-time snapshot of a provider's running sync. A
// provider with no active run reports InProgress false and zero counters.
type Status struct {
	ProviderID       string    `json:"providerId"`
	InProgress       bool      `json:"inProgress"`
	ProgressPercent  float64   `json:"progressPercent"`
	CurrentOperation string    `json:"currentOperation,omitempty"`
	FilesProcessed   int       `json:"filesProcessed"`
	TotalFiles       int       `json:"totalFiles"`
	StartTime        time.Time `json:"startTime,omitempty"`
}

// ScanResult is the read-only preview of what a sync would do.
type ScanResult struct {
	ProviderID         string   `json:"providerId"`
	Success            bool     `json:"success"`
	TotalFilesFound    int      `json:"totalFilesFound"`
	NewFilesCount      int      `json:"newFilesCount"`
	ExistingFilesCount int      `json:"existingFilesCount"`
	NewFilesTotalSize  int64    `json:"newFilesTotalSize"`
	SampleNewFiles     []string `json:"sampleNewFiles,omitempty"`
	ErrorMessage       string   `json:"errorMessage,omitempty"`
}
