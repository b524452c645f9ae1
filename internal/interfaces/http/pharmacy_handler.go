package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-farmaceutico/internal/application/dto"
	"github.com/jhoicas/crm-farmaceutico/internal/application/usecase"
	"github.com/jhoicas/crm-farmaceutico/pkg/logger"
)

// PharmacyHandler registro de farmacias (solo ADMIN).
type PharmacyHandler struct {
	uc  *usecase.PharmacyUseCase
	log *logger.Logger
}

// NewPharmacyHandler construye el handler.
func NewPharmacyHandler(uc *usecase.PharmacyUseCase, log *logger.Logger) *PharmacyHandler {
	return &PharmacyHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar farmacia
// @Tags         pharmacies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePharmacyRequest  true  "Datos de la farmacia"
// @Success      201   {object}  dto.PharmacyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/pharmacies [post]
func (h *PharmacyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePharmacyRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /pharmacies?limit=20&offset=0
func (h *PharmacyHandler) List(c *fiber.Ctx) error {
	p := page(c)
	out, err := h.uc.List(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"items": out, "page": dto.PageResponse{Limit: p.Limit, Offset: p.Offset}})
}

// GetByID GET /pharmacies/:id
func (h *PharmacyHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "farmacia no encontrada")
	}
	return c.JSON(out)
}
