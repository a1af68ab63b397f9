package cache

import (
	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"media-mirror/core/blobcache"
	"media-mirror/core/logger"
)

// Handler handles HTTP requests for the content cache.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the cache routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/cache")
	group.Get("/stats", h.HandleStats)
	group.Post("/evict", h.HandleEvict)
	group.Delete("/", h.HandleClear)
}

// statsResponse adds humanized sizes to the raw cache stats.
type statsResponse struct {
	blobcache.Stats
	SizeHuman string `json:"sizeHuman"`
	MaxHuman  string `json:"maxHuman"`
}

// evictRequest is the optional request body. A missing target evicts down
// to the configured size limit.
type evictRequest struct {
	TargetBytes *int64 `json:"targetBytes"`
}

// HandleStats returns the cache state.
// @Summary Cache Stats
// @Description Returns blob count, on-disk size and the configured limit of the content cache.
// @Tags cache
// @Accept json
// @Produce json
// @Success 200 {object} statsResponse "Cache Stats"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /cache/stats [get]
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	stats, err := h.service.Stats()
	if err != nil {
		l.Error("Cache stats failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(statsResponse{
		Stats:     stats,
		SizeHuman: humanize.IBytes(uint64(stats.SizeBytes)),
		MaxHuman:  humanize.IBytes(uint64(stats.MaxBytes)),
	})
}

// HandleEvict frees cache space down to a target size.
// @Summary Evict Cache
// @Description Removes least-recently-used blobs until the cache is at or below the target size. Without a body the configured limit is the target.
// @Tags cache
// @Accept json
// @Produce json
// @Param target body evictRequest false "Eviction target"
// @Success 200 {object} map[string]interface{} "Eviction Report"
// @Failure 400 {object} map[string]string "Invalid Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /cache/evict [post]
func (h *Handler) HandleEvict(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	stats, err := h.service.Stats()
	if err != nil {
		l.Error("Cache stats failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	target := stats.MaxBytes
	if len(c.Body()) > 0 {
		var req evictRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body: " + err.Error(),
			})
		}
		if req.TargetBytes != nil {
			if *req.TargetBytes < 0 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "targetBytes must not be negative",
				})
			}
			target = *req.TargetBytes
		}
	}

	freed, err := h.service.Evict(c.Context(), target)
	if err != nil {
		l.Error("Cache eviction failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"targetBytes": target,
		"freedBytes":  freed,
		"freedHuman":  humanize.IBytes(uint64(freed)),
	})
}

// HandleClear removes every cached blob.
// @Summary Clear Cache
// @Description Removes all blobs and index entries from the content cache.
// @Tags cache
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Clear Confirmed"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /cache [delete]
func (h *Handler) HandleClear(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.Clear(c.Context()); err != nil {
		l.Error("Cache clear failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"cleared": true})
}
