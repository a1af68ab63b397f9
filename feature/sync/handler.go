package sync

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"media-mirror/core/logger"
	"media-mirror/core/syncer"
)

// Handler handles HTTP requests for sync runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/", h.HandleSyncAll)
	group.Post("/:providerID", h.HandleSyncProvider)
	group.Get("/:providerID/status", h.HandleStatus)
	group.Get("/:providerID/scan", h.HandleScan)
	group.Delete("/:providerID", h.HandleCancel)
}

// syncRequest is the optional request body. Pointer fields distinguish
// "absent, use the default" from an explicit false or zero.
type syncRequest struct {
	FullSync      *bool   `json:"fullSync"`
	RemoveDeleted *bool   `json:"removeDeleted"`
	SkipExisting  *bool   `json:"skipExisting"`
	MaxFiles      *int    `json:"maxFiles"`
	FolderID      *string `json:"folderId"`
	Recursive     *bool   `json:"recursive"`
}

func (r syncRequest) options() syncer.Options {
	opts := syncer.DefaultOptions()
	if r.FullSync != nil {
		opts.FullSync = *r.FullSync
	}
	if r.RemoveDeleted != nil {
		opts.RemoveDeleted = *r.RemoveDeleted
	}
	if r.SkipExisting != nil {
		opts.SkipExisting = *r.SkipExisting
	}
	if r.MaxFiles != nil {
		opts.MaxFiles = *r.MaxFiles
	}
	if r.FolderID != nil {
		opts.FolderID = *r.FolderID
	}
	if r.Recursive != nil {
		opts.Recursive = *r.Recursive
	}
	return opts
}

// parseOptions reads the request body. An empty body yields the defaults.
func parseOptions(c *fiber.Ctx) (syncer.Options, error) {
	if len(c.Body()) == 0 {
		return syncer.DefaultOptions(), nil
	}
	var req syncRequest
	if err := c.BodyParser(&req); err != nil {
		return syncer.Options{}, err
	}
	return req.options(), nil
}

// statusFor maps a failed Result to its HTTP status. Failures other than
// contention and unknown providers stay 200, the body carries the outcome.
func statusFor(res syncer.Result) int {
	switch {
	case res.Success:
		return fiber.StatusOK
	case strings.Contains(res.ErrorMessage, "already in progress"):
		return fiber.StatusConflict
	case strings.Contains(res.ErrorMessage, "not found"):
		return fiber.StatusNotFound
	default:
		return fiber.StatusOK
	}
}

// HandleSyncProvider starts a sync for one provider and waits for it.
// @Summary Sync Provider
// @Description Reconciles the catalog against the provider's current listing. The optional body overrides the default options.
// @Tags sync
// @Accept json
// @Produce json
// @Param providerID path string true "Provider ID"
// @Param options body syncRequest false "Sync options"
// @Success 200 {object} syncer.Result "Sync Result"
// @Failure 404 {object} syncer.Result "Unknown Provider"
// @Failure 409 {object} syncer.Result "Sync Already In Progress"
// @Router /sync/{providerID} [post]
func (h *Handler) HandleSyncProvider(c *fiber.Ctx) error {
	providerID := c.Params("providerID")
	l := logger.WithRayID(h.service.logger, c)

	opts, err := parseOptions(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body: " + err.Error(),
		})
	}

	res := h.service.SyncProvider(c.Context(), providerID, opts)
	if !res.Success {
		l.Warn("Sync request failed",
			zap.String("provider", providerID),
			zap.String("reason", res.ErrorMessage))
	}
	return c.Status(statusFor(res)).JSON(res)
}

// HandleSyncAll syncs every enabled provider.
// @Summary Sync All Providers
// @Description Runs a sync for every enabled provider with bounded parallelism and returns one result per provider.
// @Tags sync
// @Accept json
// @Produce json
// @Param options body syncRequest false "Sync options"
// @Success 200 {array} syncer.Result "Sync Results"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync [post]
func (h *Handler) HandleSyncAll(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	opts, err := parseOptions(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body: " + err.Error(),
		})
	}

	results, err := h.service.SyncAll(c.Context(), opts)
	if err != nil {
		l.Error("Sync all failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(results)
}

// HandleStatus reports the provider's active run.
// @Summary Sync Status
// @Description Returns progress of the provider's active sync, or an idle status when none is running.
// @Tags sync
// @Accept json
// @Produce json
// @Param providerID path string true "Provider ID"
// @Success 200 {object} syncer.Status "Sync Status"
// @Router /sync/{providerID}/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status(c.Params("providerID")))
}

// HandleScan previews what a sync would do.
// @Summary Scan Provider
// @Description Lists the provider's files and reports what a sync would add, without touching the catalog.
// @Tags sync
// @Accept json
// @Produce json
// @Param providerID path string true "Provider ID"
// @Param folderId query string false "Restrict the scan to a folder"
// @Param recursive query boolean false "Descend into subfolders (default true)"
// @Success 200 {object} syncer.ScanResult "Scan Result"
// @Failure 404 {object} syncer.ScanResult "Unknown Provider"
// @Router /sync/{providerID}/scan [get]
func (h *Handler) HandleScan(c *fiber.Ctx) error {
	providerID := c.Params("providerID")

	opts := syncer.DefaultOptions()
	if folder := c.Query("folderId"); folder != "" {
		opts.FolderID = folder
	}
	if c.Query("recursive") == "false" {
		opts.Recursive = false
	}

	res := h.service.Scan(c.Context(), providerID, opts)
	if !res.Success && strings.Contains(res.ErrorMessage, "not found") {
		return c.Status(fiber.StatusNotFound).JSON(res)
	}
	return c.JSON(res)
}

// HandleCancel aborts the provider's active run.
// @Summary Cancel Sync
// @Description Cancels the provider's active sync run.
// @Tags sync
// @Accept json
// @Produce json
// @Param providerID path string true "Provider ID"
// @Success 200 {object} map[string]interface{} "Cancellation Confirmed"
// @Failure 404 {object} map[string]string "No Active Run"
// @Router /sync/{providerID} [delete]
func (h *Handler) HandleCancel(c *fiber.Ctx) error {
	providerID := c.Params("providerID")
	l := logger.WithRayID(h.service.logger, c)

	if !h.service.Cancel(providerID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no sync in progress for provider " + providerID,
		})
	}

	l.Info("Sync cancellation requested", zap.String("provider", providerID))
	return c.JSON(fiber.Map{"cancelled": true, "providerId": providerID})
}
