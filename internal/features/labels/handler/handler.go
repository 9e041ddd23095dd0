package handler

import (
	"errors"
	"net/http"

	"shipdesk/internal/core/logger"
	"shipdesk/internal/core/server"
	"shipdesk/internal/features/labels/domain"
	"shipdesk/internal/features/labels/ports"
	shipments "shipdesk/internal/features/shipments/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LabelHandler handles HTTP requests for rate quotes and label purchases.
type LabelHandler struct {
	service ports.LabelService
}

// NewLabelHandler creates a new LabelHandler.
func NewLabelHandler(service ports.LabelService) *LabelHandler {
	return &LabelHandler{service: service}
}

// Register mounts the label routes on r.
func (h *LabelHandler) Register(r fiber.Router) {
	r.Post("/rates", h.QuoteRates)
	r.Post("/create", h.CreateLabel)
}

// QuoteRates handles POST /api/labels/rates.
// @Summary Quote rates
// @Description Returns every carrier rate for the parcel, cheapest first. Quotes may be served from cache.
// @Tags Labels
// @Accept json
// @Produce json
// @Param request body domain.QuoteRequest true "Quote request"
// @Success 200 {object} domain.QuoteResponse
// @Failure 400 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Router /api/labels/rates [post]
func (h *LabelHandler) QuoteRates(c *fiber.Ctx) error {
	var req domain.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return server.SendError(c, http.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.service.QuoteRates(c.UserContext(), req)
	if err != nil {
		return h.fail(c, "Rate quote failed", err)
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// CreateLabel handles POST /api/labels/create.
// @Summary Purchase a label
// @Description Buys the cheapest rate and records the shipment.
// @Tags Labels
// @Accept json
// @Produce json
// @Param request body domain.PurchaseRequest true "Purchase request"
// @Success 201 {object} domain.Label
// @Failure 400 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Router /api/labels/create [post]
func (h *LabelHandler) CreateLabel(c *fiber.Ctx) error {
	var req domain.PurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return server.SendError(c, http.StatusBadRequest, "Invalid request body")
	}

	label, err := h.service.PurchaseLabel(c.UserContext(), req)
	if err != nil {
		return h.fail(c, "Label purchase failed", err)
	}
	return c.Status(http.StatusCreated).JSON(label)
}

func (h *LabelHandler) fail(c *fiber.Ctx, msg string, err error) error {
	rayID := server.RayID(c)

	var perr *shipments.ProviderError
	switch {
	case errors.Is(err, domain.ErrInvalidAddress),
		errors.Is(err, domain.ErrInvalidParcelType),
		errors.Is(err, domain.ErrInvalidInsurance):
		return server.SendError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNoRates):
		return server.SendError(c, http.StatusUnprocessableEntity, err.Error())
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
