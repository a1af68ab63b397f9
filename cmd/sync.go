package cmd

import (
	"context"
	"fmt"

	"media-mirror/core/backend"
	"media-mirror/core/catalog"
	"media-mirror/core/config"
	"media-mirror/core/database"
	"media-mirror/core/logger"
	"media-mirror/core/syncer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	syncAll      bool
	syncFull     bool
	syncMaxFiles int
	syncFolder   string
	syncNoRemove bool
	syncNoSkip   bool
	syncFlat     bool
)

// syncCmd reconciles provider listings into the catalog.
var syncCmd = &cobra.Command{
	Use:   "sync [provider-id]",
	Short: "Sync provider listings into the catalog",
	Long: `Sync lists the files of a storage provider and reconciles the catalog
against that listing: new files are added, changed files updated, and files
that disappeared from the provider are removed.

Examples:
  # Sync one provider
  media-mirror sync 1e8f21c0

  # Sync every enabled provider
  media-mirror sync --all

  # Refresh all rows even when they look unchanged
  media-mirror sync 1e8f21c0 --full

  # Sync only one folder, keeping rows of files outside it
  media-mirror sync 1e8f21c0 --folder albums --no-remove`,
	Args: func(cmd *cobra.Command, args []string) error {
		if syncAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncAll, "all", false, "Sync every enabled provider")
	syncCmd.Flags().BoolVar(&syncFull, "full", false, "Update rows even when size is unchanged")
	syncCmd.Flags().IntVar(&syncMaxFiles, "max-files", 0, "Cap on newly added files (0 = no cap)")
	syncCmd.Flags().StringVar(&syncFolder, "folder", "", "Restrict the sync to one folder")
	syncCmd.Flags().BoolVar(&syncNoRemove, "no-remove", false, "Keep rows of files missing from the listing")
	syncCmd.Flags().BoolVar(&syncNoSkip, "no-skip", false, "Compare known rows and update the changed ones")
	syncCmd.Flags().BoolVar(&syncFlat, "flat", false, "Do not descend into subfolders")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	l, engine, err := buildEngine()
	if err != nil {
		return err
	}

	opts := syncer.DefaultOptions()
	opts.FullSync = syncFull
	opts.MaxFiles = syncMaxFiles
	opts.FolderID = syncFolder
	if syncNoRemove {
		opts.RemoveDeleted = false
	}
	if syncNoSkip {
		opts.SkipExisting = false
	}
	if syncFlat {
		opts.Recursive = false
	}

	if syncAll {
		results, err := engine.SyncAll(ctx, opts)
		if err != nil {
			return fmt.Errorf("failed to sync providers: %w", err)
		}

		failed := 0
		for _, res := range results {
			printSyncResult(l, res)
			if !res.Success {
				failed++
			}
		}
		l.Info("Sync run finished",
			zap.Int("providers", len(results)),
			zap.Int("failed", failed))
		if failed > 0 {
			return fmt.Errorf("%d of %d providers failed to sync", failed, len(results))
		}
		return nil
	}

	res := engine.SyncProvider(ctx, args[0], opts)
	printSyncResult(l, res)
	if !res.Success {
		return fmt.Errorf("sync failed: %s", res.ErrorMessage)
	}
	return nil
}

// buildEngine wires the catalog, registry and engine for CLI commands.
func buildEngine() (*zap.Logger, *syncer.Engine, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := catalog.AutoMigrate(db); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	store := catalog.NewStore(db)

	// Listing-only commands never open cached content, so the registry is
	// built without the blob cache.
	registry := backend.NewRegistry(store, backend.Deps{
		Logger:   l,
		Catalog:  store,
		Defaults: cfg.Backend,
	})

	return l, syncer.NewEngine(registry, store, store, cfg.Sync, l), nil
}

func printSyncResult(l *zap.Logger, res syncer.Result) {
	if !res.Success {
		l.Error("Sync failed",
			zap.String("provider", res.ProviderID),
			zap.String("error", res.ErrorMessage))
		return
	}

	l.Info("Sync succeeded",
		zap.String("provider", res.ProviderID),
		zap.String("name", res.ProviderName),
		zap.Int("added", res.FilesAdded),
		zap.Int("updated", res.FilesUpdated),
		zap.Int("removed", res.FilesRemoved),
		zap.Int("skipped", res.FilesSkipped),
		zap.Int("found", res.TotalFilesFound),
		zap.Duration("duration", res.Duration),
	)
}
