package handler

import (
	"errors"
	"net/http"
	"strconv"

	"shipdesk/internal/core/logger"
	"shipdesk/internal/core/server"
	"shipdesk/internal/features/scanforms/domain"
	"shipdesk/internal/features/scanforms/ports"
	shipments "shipdesk/internal/features/shipments/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ScanFormHandler handles HTTP requests for scan forms.
type ScanFormHandler struct {
	service ports.ScanFormService
}

// NewScanFormHandler creates a new ScanFormHandler.
func NewScanFormHandler(service ports.ScanFormService) *ScanFormHandler {
	return &ScanFormHandler{service: service}
}

// Register mounts the scan form routes on r.
func (h *ScanFormHandler) Register(r fiber.Router) {
	r.Get("/", h.ListScanForms)
	r.Post("/", h.CreateScanForm)
	r.Post("/sync", h.Sync)
	r.Get("/:id", h.GetScanForm)
}

// ListScanForms handles GET /api/scanforms.
// @Summary List scan forms
// @Tags ScanForms
// @Produce json
// @Success 200 {array} domain.ScanForm
// @Router /api/scanforms [get]
func (h *ScanFormHandler) ListScanForms(c *fiber.Ctx) error {
	forms, err := h.service.List(c.UserContext())
	if err != nil {
		return h.fail(c, "Failed to list scan forms", err)
	}
	return c.Status(http.StatusOK).JSON(forms)
}

// GetScanForm handles GET /api/scanforms/:id.
// @Summary Get a scan form
// @Tags ScanForms
// @Produce json
// @Param id path int true "Scan form ID"
// @Success 200 {object} domain.ScanForm
// @Failure 404 {object} server.ErrorResponse
// @Router /api/scanforms/{id} [get]
func (h *ScanFormHandler) GetScanForm(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return server.SendError(c, http.StatusBadRequest, "Scan form ID must be an integer")
	}

	sf, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "Failed to get scan form", err)
	}
	return c.Status(http.StatusOK).JSON(sf)
}

// CreateScanForm handles POST /api/scanforms.
// @Summary Create a scan form
// @Description Manifests the selected tracked shipments with USPS.
// @Tags ScanForms
// @Accept json
// @Produce json
// @Param request body domain.CreateRequest true "Shipments to manifest"
// @Success 201 {object} domain.ScanForm
// @Failure 400 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Router /api/scanforms [post]
func (h *ScanFormHandler) CreateScanForm(c *fiber.Ctx) error {
	var req domain.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return server.SendError(c, http.StatusBadRequest, "Invalid request body")
	}

	sf, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return h.fail(c, "Scan form creation failed", err)
	}
	return c.Status(http.StatusCreated).JSON(sf)
}

// Sync handles POST /api/scanforms/sync.
// @Summary Sync scan forms from EasyPost
// @Tags ScanForms
// @Produce json
// @Success 200 {object} domain.SyncResult
// @Failure 409 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Router /api/scanforms/sync [post]
func (h *ScanFormHandler) Sync(c *fiber.Ctx) error {
	result, err := h.service.Sync(c.UserContext())
	if err != nil {
		return h.fail(c, "Scan form sync failed", err)
	}
	return c.Status(http.StatusOK).JSON(result)
}

func (h *ScanFormHandler) fail(c *fiber.Ctx, msg string, err error) error {
	rayID := server.RayID(c)

	var perr *shipments.ProviderError
	switch {
	case errors.Is(err, domain.ErrScanFormNotFound):
		return server.SendError(c, http.StatusNotFound, "Scan form not found")
	case errors.Is(err, domain.ErrNoShipments),
		errors.Is(err, domain.ErrUnknownShipment),
		errors.Is(err, domain.ErrCardShipment),
		errors.Is(err, domain.ErrAlreadyManifested):
		return server.SendError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, shipments.ErrPassInProgress):
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
