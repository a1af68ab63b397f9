package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"media-mirror/core/backend"
	"media-mirror/core/catalog"
	"media-mirror/core/config"
	"media-mirror/core/database"
	"media-mirror/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// watchCmd streams change events from a watch-capable provider.
var watchCmd = &cobra.Command{
	Use:   "watch <provider-id>",
	Short: "Stream change events from a provider",
	Long: `Watch subscribes to a provider's change events and prints them until
interrupted. Only backends that support watching (currently local
directories) can be watched.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	providerID := args[0]

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := catalog.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	store := catalog.NewStore(db)

	registry := backend.NewRegistry(store, backend.Deps{
		Logger:   l,
		Catalog:  store,
		Defaults: cfg.Backend,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b, err := registry.GetBackend(ctx, providerID)
	if err != nil {
		return fmt.Errorf("failed to resolve provider %s: %w", providerID, err)
	}

	w, ok := b.(backend.Watcher)
	if !ok || !b.SupportsWatch() {
		return fmt.Errorf("provider %s does not support watching", providerID)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		l.Info("Stopping watch")
		cancel()
	}()

	events, err := w.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watching: %w", err)
	}

	l.Info("Watching provider", zap.String("provider", providerID))
	for ev := range events {
		l.Info("Change detected",
			zap.String("op", ev.Op),
			zap.String("file", ev.RemoteID))
	}
	return nil
}
