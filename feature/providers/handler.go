package providers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"media-mirror/core/backend"
	"media-mirror/core/logger"
)

// Handler handles HTTP requests for providers.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the provider routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/providers")
	group.Get("/", h.HandleList)
	group.Get("/:providerID/test", h.HandleTest)
	group.Post("/refresh", h.HandleRefresh)
}

// HandleList returns all configured providers.
// @Summary List Providers
// @Description Returns every provider record in the catalog. Backend configs are never included.
// @Tags providers
// @Accept json
// @Produce json
// @Success 200 {array} catalog.Provider "Providers"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /providers [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	records, err := h.service.List(c.Context())
	if err != nil {
		l.Error("Provider listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(records)
}

// HandleTest probes the provider's backend connectivity.
// @Summary Test Provider
// @Description Resolves the provider's backend and checks whether it is reachable.
// @Tags providers
// @Accept json
// @Produce json
// @Param providerID path string true "Provider ID"
// @Success 200 {object} map[string]interface{} "Connectivity Report"
// @Failure 404 {object} map[string]string "Unknown Provider"
// @Failure 409 {object} map[string]string "Provider Disabled"
// @Router /providers/{providerID}/test [get]
func (h *Handler) HandleTest(c *fiber.Ctx) error {
	providerID := c.Params("providerID")
	l := logger.WithRayID(h.service.logger, c)

	reachable, err := h.service.Test(c.Context(), providerID)
	if err != nil {
		switch {
		case errors.Is(err, backend.ErrProviderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "provider " + providerID + " not found",
			})
		case errors.Is(err, backend.ErrProviderDisabled):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "provider " + providerID + " is disabled",
			})
		default:
			l.Error("Provider test failed",
				zap.String("provider", providerID),
				zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	if !reachable {
		l.Warn("Provider unreachable", zap.String("provider", providerID))
	}
	return c.JSON(fiber.Map{
		"providerId": providerID,
		"reachable":  reachable,
	})
}

// HandleRefresh drops all cached backend instances.
// @Summary Refresh Backends
// @Description Clears the backend cache so changed provider configs take effect on the next request.
// @Tags providers
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Refresh Confirmed"
// @Router /providers/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	h.service.Refresh()
	return c.JSON(fiber.Map{"refreshed": true})
}
