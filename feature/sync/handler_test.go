package sync_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"media-mirror/core/backend"
	"media-mirror/core/catalog"
	"media-mirror/core/database"
	"media-mirror/core/syncer"
	syncfeature "media-mirror/feature/sync"
)

func setupApp(t *testing.T) (*fiber.App, *catalog.Store, string) {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)
	assert.NoError(t, catalog.AutoMigrate(db))
	store := catalog.NewStore(db)

	root := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(root, "a.jpg"), []byte("aaa"), 0644))
	assert.NoError(t, os.MkdirAll(filepath.Join(root, "albums"), 0755))
	assert.NoError(t, os.WriteFile(filepath.Join(root, "albums", "b.mp4"), []byte("bbbbb"), 0644))

	cfg, err := json.Marshal(map[string]any{"rootPath": root})
	assert.NoError(t, err)
	err = store.CreateProvider(context.Background(), &catalog.Provider{
		ID:      "p1",
		Name:    "Local Media",
		Kind:    "local",
		Enabled: true,
		Config:  cfg,
	})
	assert.NoError(t, err)

	registry := backend.NewRegistry(store, backend.Deps{
		Defaults: backend.Config{DefaultLocalRoot: root, PickerTimeoutSeconds: 5},
	})
	engine := syncer.NewEngine(registry, store, store, syncer.Config{Parallel: 2}, zap.NewNop())

	app := fiber.New()
	feature := syncfeature.NewFeature(engine, zap.NewNop())
	assert.NoError(t, feature.Load(app))
	return app, store, root
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()

	data, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.NoError(t, json.Unmarshal(data, v))
}

func TestHandleSyncProvider(t *testing.T) {
	app, store, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/sync/p1", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res syncer.Result
	decodeBody(t, resp, &res)
	assert.True(t, res.Success)
	assert.Equal(t, "p1", res.ProviderID)
	assert.Equal(t, "Local Media", res.ProviderName)
	assert.Equal(t, 2, res.FilesAdded)
	assert.Equal(t, 2, res.TotalFilesFound)

	count, err := store.CountMediaFiles(context.Background(), "p1")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestHandleSyncProvider_OptionsInBody(t *testing.T) {
	app, store, _ := setupApp(t)

	body := strings.NewReader(`{"maxFiles": 1, "removeDeleted": false}`)
	req := httptest.NewRequest("POST", "/sync/p1", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res syncer.Result
	decodeBody(t, resp, &res)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.FilesAdded)
	assert.Equal(t, 2, res.TotalFilesFound)

	count, err := store.CountMediaFiles(context.Background(), "p1")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestHandleSyncProvider_UnknownProvider(t *testing.T) {
	app, _, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/sync/ghost", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var res syncer.Result
	decodeBody(t, resp, &res)
	assert.False(t, res.Success)
	assert.Contains(t, res.ErrorMessage, "not found")
}

func TestHandleSyncProvider_InvalidBody(t *testing.T) {
	app, _, _ := setupApp(t)

	req := httptest.NewRequest("POST", "/sync/p1", strings.NewReader(`{"maxFiles": "many"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleSyncAll(t *testing.T) {
	app, _, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/sync", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var results []syncer.Result
	decodeBody(t, resp, &results)
	assert.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Equal(t, 2, results[0].FilesAdded)
}

func TestHandleStatus_Idle(t *testing.T) {
	app, _, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/p1/status", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var st syncer.Status
	decodeBody(t, resp, &st)
	assert.Equal(t, "p1", st.ProviderID)
	assert.False(t, st.InProgress)
}

func TestHandleScan(t *testing.T) {
	app, _, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/p1/scan", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res syncer.ScanResult
	decodeBody(t, resp, &res)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.NewFilesCount)
	assert.Equal(t, 0, res.ExistingFilesCount)
	assert.Equal(t, int64(8), res.NewFilesTotalSize)

	// After a sync the same scan reports nothing new.
	_, err = app.Test(httptest.NewRequest("POST", "/sync/p1", nil))
	assert.NoError(t, err)

	resp, err = app.Test(httptest.NewRequest("GET", "/sync/p1/scan", nil))
	assert.NoError(t, err)
	decodeBody(t, resp, &res)
	assert.Equal(t, 0, res.NewFilesCount)
	assert.Equal(t, 2, res.ExistingFilesCount)
}

func TestHandleScan_UnknownProvider(t *testing.T) {
	app, _, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/ghost/scan", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleCancel_NoActiveRun(t *testing.T) {
	app, _, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/sync/p1", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleSyncProvider_RemovesDeletedFiles(t *testing.T) {
	app, store, root := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/sync/p1", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.NoError(t, os.Remove(filepath.Join(root, "a.jpg")))

	resp, err = app.Test(httptest.NewRequest("POST", "/sync/p1", nil))
	assert.NoError(t, err)

	var res syncer.Result
	decodeBody(t, resp, &res)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.FilesRemoved)
	assert.Equal(t, 1, res.FilesSkipped)

	count, err := store.CountMediaFiles(context.Background(), "p1")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
