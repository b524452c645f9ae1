package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-farmaceutico/internal/application/dto"
	"github.com/jhoicas/crm-farmaceutico/internal/application/inventory"
	"github.com/jhoicas/crm-farmaceutico/pkg/logger"
)

// InventoryHandler lotes, disponibilidad y alertas (protegido).
type InventoryHandler struct {
	lots   *inventory.LotUseCase
	alerts *inventory.AlertUseCase
	log    *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(lots *inventory.LotUseCase, alerts *inventory.AlertUseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{lots: lots, alerts: alerts, log: log}
}

// CreateLot godoc
// @Summary      Ingresar un lote de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockLotRequest  true  "product_id, batch, quantity, expiry_date, precios"
// @Success      201   {object}  dto.StockLotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/inventory/lots [post]
func (h *InventoryHandler) CreateLot(c *fiber.Ctx) error {
	pharmacyID := GetPharmacyID(c)
	if pharmacyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateStockLotRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.lots.Create(c.UserContext(), pharmacyID, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetLot GET /inventory/lots/:id
func (h *InventoryHandler) GetLot(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.lots.GetByID(c.UserContext(), GetPharmacyID(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "lote no encontrado")
	}
	return c.JSON(out)
}

// Availability godoc
// @Summary      Disponibilidad de un producto
// @Description  Cantidad vendible (lotes vigentes) y lotes en orden FEFO.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/inventory/{productId} [get]
func (h *InventoryHandler) Availability(c *fiber.Ctx) error {
	productID := c.Params("productId")
	if productID == "" {
		return missingID(c)
	}
	out, err := h.lots.Availability(c.UserContext(), GetPharmacyID(c), productID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Expiring GET /inventory/alerts/expiring?days=30
func (h *InventoryHandler) Expiring(c *fiber.Ctx) error {
	pharmacyID := GetPharmacyID(c)
	if pharmacyID == "" {
		return unauthorized(c)
	}
	days := c.QueryInt("days", 0)
	if days < 0 || days > 3650 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "days fuera de rango"})
	}
	out, err := h.alerts.Expiring(c.UserContext(), pharmacyID, days)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"items": out})
}

// LowStock GET /inventory/alerts/low-stock
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	pharmacyID := GetPharmacyID(c)
	if pharmacyID == "" {
		return unauthorized(c)
	}
	out, err := h.alerts.LowStock(c.UserContext(), pharmacyID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"items": out})
}
