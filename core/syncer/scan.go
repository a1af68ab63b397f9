package syncer

import (
	"context"
	"errors"
	"fmt"

	"media-mirror/core/backend"
	"media-mirror/core/catalog"
)

// sampleSize caps how many new file names a scan reports.
const sampleSize = 10

// Scan previews what a sync would do without mutating anything. Scans do
// not claim the provider's run slot, so they may overlap a running sync.
func (e *Engine) Scan(ctx context.Context, providerID string, opts Options) ScanResult {
	res := ScanResult{ProviderID: providerID}

	b, err := e.backends.GetBackend(ctx, providerID)
	if err != nil {
		switch {
		case errors.Is(err, backend.ErrProviderNotFound):
			res.ErrorMessage = fmt.Sprintf("provider %s not found", providerID)
		case errors.Is(err, backend.ErrProviderDisabled):
			res.ErrorMessage = fmt.Sprintf("provider %s is disabled", providerID)
		case e.cancelled(ctx, err):
			res.ErrorMessage = "scan cancelled"
		default:
			res.ErrorMessage = fmt.Sprintf("failed to resolve backend: %v", err)
		}
		return res
	}

	files, err := b.ListFiles(ctx, backend.ListOptions{FolderID: opts.FolderID, Recursive: opts.Recursive})
	if err != nil {
		if e.cancelled(ctx, err) {
			res.ErrorMessage = "scan cancelled"
		} else {
			res.ErrorMessage = fmt.Sprintf("failed to list files: %v", err)
		}
		return res
	}
	res.TotalFilesFound = len(files)

	for _, fd := range files {
		if ctx.Err() != nil {
			res.ErrorMessage = "scan cancelled"
			return res
		}

		_, err := e.catalog.GetMediaFile(ctx, providerID, fd.RemoteID)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			res.NewFilesCount++
			res.NewFilesTotalSize += fd.Size
			if len(res.SampleNewFiles) < sampleSize {
				res.SampleNewFiles = append(res.SampleNewFiles, fd.Name)
			}

		case err != nil:
			if e.cancelled(ctx, err) {
				res.ErrorMessage = "scan cancelled"
			} else {
				res.ErrorMessage = fmt.Sprintf("failed to look up %s: %v", fd.RemoteID, err)
			}
			return res

		default:
			res.ExistingFilesCount++
		}
	}

	res.Success = true
	return res
}
