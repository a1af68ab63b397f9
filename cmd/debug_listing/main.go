package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"media-mirror/core/backend"
	"media-mirror/core/catalog"
	"media-mirror/core/config"
	"media-mirror/core/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: debug_listing <provider-id>")
	}
	providerID := os.Args[1]

	// Load config
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	// Connect to DB
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	store := catalog.NewStore(db)

	registry := backend.NewRegistry(store, backend.Deps{
		Catalog:  store,
		Defaults: cfg.Backend,
	})
	ctx := context.Background()

	b, err := registry.GetBackend(ctx, providerID)
	if err != nil {
		log.Fatal(err)
	}

	// Test 1: What does the backend report?
	fmt.Println("=== TEST 1: Backend Listing ===")
	files, err := b.ListFiles(ctx, backend.ListOptions{Recursive: true})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Total files listed: %d\n", len(files))

	listed := make(map[string]int64, len(files))
	for _, f := range files {
		listed[f.RemoteID] = f.Size
	}

	// Test 2: What does the catalog hold?
	fmt.Println("\n=== TEST 2: Catalog Rows ===")
	rows, err := store.ListMediaFiles(ctx, providerID)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Total catalog rows: %d\n", len(rows))

	known := make(map[string]int64, len(rows))
	for _, r := range rows {
		known[r.RemoteID] = r.Size
	}

	// Test 3: Where do they disagree?
	fmt.Println("\n=== TEST 3: Diff ===")
	newCount, changed := 0, 0
	for id, size := range listed {
		if knownSize, ok := known[id]; !ok {
			newCount++
		} else if knownSize != size {
			changed++
			fmt.Printf("SIZE MISMATCH: id=%s catalog=%d backend=%d\n", id, knownSize, size)
		}
	}
	stale := 0
	for id := range known {
		if _, ok := listed[id]; !ok {
			stale++
			fmt.Printf("STALE ROW: id=%s (not in listing)\n", id)
		}
	}
	fmt.Printf("new=%d changed=%d stale=%d\n", newCount, changed, stale)

	// Save detailed output
	output := map[string]interface{}{
		"listed_count":  len(files),
		"catalog_count": len(rows),
		"new_count":     newCount,
		"changed_count": changed,
		"stale_count":   stale,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	os.WriteFile("debug_listing.json", data, 0644)

	fmt.Println("\nDebug complete. Check debug_listing.json for details.")
}
