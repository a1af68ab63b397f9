package cache_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"media-mirror/core/blobcache"
	cachefeature "media-mirror/feature/cache"
)

func setupApp(t *testing.T, blobs ...string) (*fiber.App, *blobcache.Cache) {
	t.Helper()

	store, err := blobcache.New(blobcache.Config{Dir: t.TempDir(), MaxSizeMB: 1}, zap.NewNop())
	assert.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	for _, blob := range blobs {
		data := []byte(blob)
		hash := blobcache.HashBytes(data)
		err := store.CacheFile(context.Background(), hash, bytes.NewReader(data), "test", "p1", "text/plain")
		assert.NoError(t, err)
	}

	app := fiber.New()
	feature := cachefeature.NewFeature(store, zap.NewNop())
	assert.NoError(t, feature.Load(app))
	return app, store
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()

	data, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.NoError(t, json.Unmarshal(data, v))
}

type statsBody struct {
	Count     int64  `json:"count"`
	SizeBytes int64  `json:"sizeBytes"`
	MaxBytes  int64  `json:"maxBytes"`
	SizeHuman string `json:"sizeHuman"`
	MaxHuman  string `json:"maxHuman"`
}

type evictBody struct {
	TargetBytes int64  `json:"targetBytes"`
	FreedBytes  int64  `json:"freedBytes"`
	FreedHuman  string `json:"freedHuman"`
}

func TestHandleStats(t *testing.T) {
	app, _ := setupApp(t, "aaa", "bbbbb")

	resp, err := app.Test(httptest.NewRequest("GET", "/cache/stats", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stats statsBody
	decodeBody(t, resp, &stats)
	assert.Equal(t, int64(2), stats.Count)
	assert.Equal(t, int64(8), stats.SizeBytes)
	assert.Equal(t, int64(1<<20), stats.MaxBytes)
	assert.Equal(t, "8 B", stats.SizeHuman)
	assert.Equal(t, "1.0 MiB", stats.MaxHuman)
}

func TestHandleEvict_DefaultTarget(t *testing.T) {
	app, store := setupApp(t, "aaa")

	resp, err := app.Test(httptest.NewRequest("POST", "/cache/evict", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The cache is far below its limit, nothing should go.
	var report evictBody
	decodeBody(t, resp, &report)
	assert.Equal(t, int64(1<<20), report.TargetBytes)
	assert.Equal(t, int64(0), report.FreedBytes)
	assert.Equal(t, int64(3), store.Size())
}

func TestHandleEvict_TargetZero(t *testing.T) {
	app, store := setupApp(t, "aaa", "bbbbb")

	req := httptest.NewRequest("POST", "/cache/evict", strings.NewReader(`{"targetBytes": 0}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var report evictBody
	decodeBody(t, resp, &report)
	assert.Equal(t, int64(8), report.FreedBytes)
	assert.Equal(t, int64(0), store.Size())

	count, err := store.Count()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestHandleEvict_NegativeTarget(t *testing.T) {
	app, _ := setupApp(t, "aaa")

	req := httptest.NewRequest("POST", "/cache/evict", strings.NewReader(`{"targetBytes": -5}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleClear(t *testing.T) {
	app, store := setupApp(t, "aaa", "bbbbb")

	resp, err := app.Test(httptest.NewRequest("DELETE", "/cache", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var report map[string]any
	decodeBody(t, resp, &report)
	assert.Equal(t, true, report["cleared"])

	count, err := store.Count()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, int64(0), store.Size())
}
