package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-farmaceutico/internal/application/dto"
	"github.com/jhoicas/crm-farmaceutico/internal/application/sales"
	"github.com/jhoicas/crm-farmaceutico/pkg/logger"
)

// SaleHandler punto de venta: ventas, borradores y comprobantes.
type SaleHandler struct {
	uc       *sales.SaleUseCase
	receipts *sales.ReceiptUseCase
	log      *logger.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase, receipts *sales.ReceiptUseCase, log *logger.Logger) *SaleHandler {
	return &SaleHandler{uc: uc, receipts: receipts, log: log}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Arma y confirma la venta en una sola llamada. Todo o nada: ante un conflicto de stock no se descuenta ningún lote.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Ítems, forma de pago y descuentos"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK | STOCK_CONFLICT (retryable)"
// @Router       /api/v1/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	pharmacyID := GetPharmacyID(c)
	if pharmacyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateSaleRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.CreateSale(c.UserContext(), pharmacyID, GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /sales?limit=20&offset=0
func (h *SaleHandler) List(c *fiber.Ctx) error {
	pharmacyID := GetPharmacyID(c)
	if pharmacyID == "" {
		return unauthorized(c)
	}
	p := page(c)
	out, err := h.uc.List(c.UserContext(), pharmacyID, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID GET /sales/:id
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetPharmacyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "venta no encontrada")
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar venta
// @Description  Borrador: se descarta. Finalizada: devuelve cada línea a su lote. Ya cancelada: sin efecto.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta o del borrador"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/sales/{id} [delete]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.Cancel(c.UserContext(), GetPharmacyID(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// OpenDraft POST /sales/drafts
func (h *SaleHandler) OpenDraft(c *fiber.Ctx) error {
	pharmacyID := GetPharmacyID(c)
	if pharmacyID == "" {
		return unauthorized(c)
	}
	var in dto.OpenDraftRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.OpenDraft(c.UserContext(), pharmacyID, GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetDraft GET /sales/drafts/:id
func (h *SaleHandler) GetDraft(c *fiber.Ctx) error {
	out, err := h.uc.GetDraft(c.UserContext(), GetPharmacyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	if out == nil {
		return notFound(c, "borrador no encontrado o expirado")
	}
	return c.JSON(out)
}

// AddDraftItem POST /sales/drafts/:id/items
func (h *SaleHandler) AddDraftItem(c *fiber.Ctx) error {
	var in dto.SaleItemRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddDraftItem(c.UserContext(), GetPharmacyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// RemoveDraftItem DELETE /sales/drafts/:id/items/:lineId
func (h *SaleHandler) RemoveDraftItem(c *fiber.Ctx) error {
	out, err := h.uc.RemoveDraftItem(c.UserContext(), GetPharmacyID(c), c.Params("id"), c.Params("lineId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CommitDraft POST /sales/drafts/:id/commit. Ante STOCK_CONFLICT el borrador se conserva.
func (h *SaleHandler) CommitDraft(c *fiber.Ctx) error {
	out, err := h.uc.CommitDraft(c.UserContext(), GetPharmacyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ReceiptPDF GET /sales/:id/receipt.pdf
func (h *SaleHandler) ReceiptPDF(c *fiber.Ctx) error {
	out, filename, err := h.receipts.PDF(c.UserContext(), GetPharmacyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(out)
}

// ReceiptXML GET /sales/:id/receipt.xml
func (h *SaleHandler) ReceiptXML(c *fiber.Ctx) error {
	out, filename, err := h.receipts.XML(c.UserContext(), GetPharmacyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(out)
}
