package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"media-mirror/core/blobcache"
	"media-mirror/core/config"
	"media-mirror/core/logger"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for cache subcommands
	cacheTargetMB int64
	cacheYes      bool
)

// cacheCmd is the parent command for content cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the content cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size, blob count and the configured limit",
	RunE:  runCacheStats,
}

var cacheEvictCmd = &cobra.Command{
	Use:   "evict",
	Short: "Evict least-recently-used blobs down to a target size",
	RunE:  runCacheEvict,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached blob",
	RunE:  runCacheClear,
}

func init() {
	cacheEvictCmd.Flags().Int64Var(&cacheTargetMB, "target-mb", -1, "Target size in MiB (default: the configured limit)")
	cacheClearCmd.Flags().BoolVar(&cacheYes, "yes", false, "Auto-confirm (non-interactive)")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheEvictCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	RootCmd.AddCommand(cacheCmd)
}

// openCache wires config, logger and the blob cache for CLI use.
func openCache() (*zap.Logger, *blobcache.Cache, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cache, err := blobcache.New(cfg.Cache, l)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open content cache: %w", err)
	}
	return l, cache, nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	l, cache, err := openCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	stats, err := cache.Stats()
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}

	l.Info("Cache stats",
		zap.String("dir", stats.Dir),
		zap.Int64("blobs", stats.Count),
		zap.String("size", humanize.IBytes(uint64(stats.SizeBytes))),
		zap.String("limit", humanize.IBytes(uint64(stats.MaxBytes))),
	)
	return nil
}

func runCacheEvict(cmd *cobra.Command, args []string) error {
	l, cache, err := openCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	stats, err := cache.Stats()
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}

	target := stats.MaxBytes
	if cacheTargetMB >= 0 {
		target = cacheTargetMB << 20
	}

	freed, err := cache.EvictLRU(context.Background(), target)
	if err != nil {
		return fmt.Errorf("failed to evict cache: %w", err)
	}

	l.Info("Eviction finished",
		zap.String("target", humanize.IBytes(uint64(target))),
		zap.String("freed", humanize.IBytes(uint64(freed))),
		zap.String("size", humanize.IBytes(uint64(cache.Size()))),
	)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	l, cache, err := openCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	stats, err := cache.Stats()
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}
	if stats.Count == 0 {
		l.Info("Cache is already empty")
		return nil
	}

	l.Info("About to remove all cached content",
		zap.Int64("blobs", stats.Count),
		zap.String("size", humanize.IBytes(uint64(stats.SizeBytes))))

	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	if err := cache.Clear(context.Background()); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	l.Info("Cache cleared", zap.Int64("removed", stats.Count))
	return nil
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if cacheYes {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
