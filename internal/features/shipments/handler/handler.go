package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"shipdesk/internal/core/logger"
	"shipdesk/internal/core/server"
	"shipdesk/internal/features/shipments/domain"
	"shipdesk/internal/features/shipments/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ShipmentHandler handles HTTP requests for shipments and their maintenance passes.
type ShipmentHandler struct {
	queries    ports.ShipmentQueries
	reconciler ports.Reconciler
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(queries ports.ShipmentQueries, reconciler ports.Reconciler) *ShipmentHandler {
	return &ShipmentHandler{
		queries:    queries,
		reconciler: reconciler,
	}
}

// Register mounts the shipment routes on r.
func (h *ShipmentHandler) Register(r fiber.Router) {
	r.Get("/", h.ListShipments)
	r.Get("/stats", h.GetStats)
	r.Post("/sync", h.Sync)
	r.Post("/refresh-manifested", h.RefreshManifested)
	r.Post("/clear-batch-manifested", h.ClearBatchManifested)
	r.Get("/:id", h.GetShipment)
	r.Get("/:id/manifest-probe", h.ProbeManifest)
}

// ListShipments handles GET /api/shipments.
// @Summary List shipments
// @Description Paginated shipment listing with search and filters.
// @Tags Shipments
// @Produce json
// @Param page query int false "Page (1-based)"
// @Param page_size query int false "Page size (1-100)"
// @Param search query string false "Recipient name, tracking code or city"
// @Param method query string false "card or tracked"
// @Param carrier query string false "Carrier"
// @Param manifested query string false "yes or no"
// @Param start_date query string false "RFC3339 lower bound on creation time"
// @Param end_date query string false "RFC3339 upper bound on creation time"
// @Success 200 {object} domain.ShipmentPage
// @Failure 400 {object} server.ErrorResponse
// @Failure 500 {object} server.ErrorResponse
// @Router /api/shipments [get]
func (h *ShipmentHandler) ListShipments(c *fiber.Ctx) error {
	filter, err := parseListFilter(c)
	if err != nil {
		return server.SendError(c, http.StatusBadRequest, err.Error())
	}

	page, err := h.queries.List(c.UserContext(), filter)
	if err != nil {
		return h.fail(c, "Failed to list shipments", err)
	}
	return c.Status(http.StatusOK).JSON(page)
}

func parseListFilter(c *fiber.Ctx) (domain.ListFilter, error) {
	filter := domain.ListFilter{
		Search:  c.Query("search"),
		Carrier: c.Query("carrier"),
		Page:    c.QueryInt("page", 1),
	}
	filter.PageSize = c.QueryInt("page_size", domain.DefaultPageSize)
	if filter.Page < 1 {
		return filter, errors.New("page must be at least 1")
	}
	if filter.PageSize < 1 || filter.PageSize > domain.MaxPageSize {
		return filter, errors.New("page_size must be between 1 and 100")
	}

	if m := c.Query("method"); m != "" {
		filter.Method = domain.Method(m)
		if !filter.Method.Valid() {
			return filter, errors.New("method must be card or tracked")
		}
	}

	switch c.Query("manifested") {
	case "":
	case "yes":
		yes := true
		filter.Manifested = &yes
	case "no":
		no := false
		filter.Manifested = &no
	default:
		return filter, errors.New("manifested must be yes or no")
	}

	for _, p := range []struct {
		key string
		dst **time.Time
	}{
		{"start_date", &filter.StartDate},
		{"end_date", &filter.EndDate},
	} {
		raw := c.Query(p.key)
		if raw == "" {
			continue
		}
		t, err := parseDate(raw)
		if err != nil {
			return filter, errors.New(p.key + " must be an RFC3339 timestamp or YYYY-MM-DD date")
		}
		*p.dst = &t
	}
	return filter, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, raw)
}

// GetStats handles GET /api/shipments/stats.
// @Summary Dashboard statistics
// @Tags Shipments
// @Produce json
// @Success 200 {object} domain.Stats
// @Failure 500 {object} server.ErrorResponse
// @Router /api/shipments/stats [get]
func (h *ShipmentHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.queries.Stats(c.UserContext())
	if err != nil {
		return h.fail(c, "Failed to compute stats", err)
	}
	return c.Status(http.StatusOK).JSON(stats)
}

// GetShipment handles GET /api/shipments/:id.
// @Summary Get a shipment
// @Tags Shipments
// @Produce json
// @Param id path int true "Shipment ID"
// @Success 200 {object} domain.Shipment
// @Failure 400 {object} server.ErrorResponse
// @Failure 404 {object} server.ErrorResponse
// @Router /api/shipments/{id} [get]
func (h *ShipmentHandler) GetShipment(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return server.SendError(c, http.StatusBadRequest, "Shipment ID must be an integer")
	}

	shipment, err := h.queries.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "Failed to get shipment", err)
	}
	return c.Status(http.StatusOK).JSON(shipment)
}

// Sync handles POST /api/shipments/sync.
// @Summary Sync shipments from EasyPost
// @Description Imports new purchased shipments and backfills manifest and creation time on existing ones.
// @Tags Shipments
// @Produce json
// @Success 200 {object} domain.SyncResult
// @Failure 409 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Router /api/shipments/sync [post]
func (h *ShipmentHandler) Sync(c *fiber.Ctx) error {
	result, err := h.reconciler.Sync(c.UserContext())
	if err != nil {
		return h.fail(c, "Sync failed", err)
	}
	return c.Status(http.StatusOK).JSON(result)
}

// RefreshManifested handles POST /api/shipments/refresh-manifested.
// @Summary Refresh manifest status
// @Description Probes every tracked, unmanifested shipment and backfills its manifest.
// @Tags Shipments
// @Produce json
// @Success 200 {object} domain.RefreshResult
// @Failure 409 {object} server.ErrorResponse
// @Router /api/shipments/refresh-manifested [post]
func (h *ShipmentHandler) RefreshManifested(c *fiber.Ctx) error {
	result, err := h.reconciler.RefreshManifestStatus(c.UserContext())
	if err != nil {
		return h.fail(c, "Manifest refresh failed", err)
	}
	return c.Status(http.StatusOK).JSON(result)
}

// ClearBatchManifested handles POST /api/shipments/clear-batch-manifested.
// @Summary Clear batch-derived manifests
// @Description Resets manifest values that were inferred from a batch. ScanForm ids are kept.
// @Tags Shipments
// @Produce json
// @Success 200 {object} domain.CorrectionResult
// @Failure 409 {object} server.ErrorResponse
// @Router /api/shipments/clear-batch-manifested [post]
func (h *ShipmentHandler) ClearBatchManifested(c *fiber.Ctx) error {
	result, err := h.reconciler.CorrectBatchManifested(c.UserContext())
	if err != nil {
		return h.fail(c, "Clearing batch manifests failed", err)
	}
	return c.Status(http.StatusOK).JSON(result)
}

// ProbeManifest handles GET /api/shipments/:id/manifest-probe.
// @Summary Inspect manifest signals
// @Description Shows the stored manifest next to EasyPost's scan_form and batch_id for one shipment.
// @Tags Shipments
// @Produce json
// @Param id path int true "Shipment ID"
// @Success 200 {object} domain.ProbeResult
// @Failure 404 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Router /api/shipments/{id}/manifest-probe [get]
func (h *ShipmentHandler) ProbeManifest(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return server.SendError(c, http.StatusBadRequest, "Shipment ID must be an integer")
	}

	result, err := h.reconciler.Inspect(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "Manifest probe failed", err)
	}
	return c.Status(http.StatusOK).JSON(result)
}

// fail maps service errors to HTTP responses.
func (h *ShipmentHandler) fail(c *fiber.Ctx, msg string, err error) error {
	rayID := server.RayID(c)

	var perr *domain.ProviderError
	switch {
	case errors.Is(err, domain.ErrShipmentNotFound):
		return server.SendError(c, http.StatusNotFound, "Shipment not found")
	case errors.Is(err, domain.ErrPassInProgress):
		return server.SendError(c, http.StatusConflict, err.Error())
	case errors.As(err, &perr):
		logger.Get().Warn(msg, zap.String("ray_id", rayID), zap.Error(err))
		return c.Status(http.StatusBadGateway).JSON(server.ErrorResponse{
			Message: perr.Message,
			Code:    perr.Code,
			RayID:   rayID,
		})
	}

	logger.Get().Error(msg, zap.String("ray_id", rayID), zap.Error(err))
	return server.SendError(c, http.StatusInternalServerError, "Internal Server Error")
}
