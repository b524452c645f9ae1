package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/crm-farmaceutico/internal/application/analytics"
	"github.com/jhoicas/crm-farmaceutico/pkg/logger"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc  *appanalytics.DashboardUseCase
	log *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// GetSummary devuelve el resumen de la farmacia del token.
// GET /api/v1/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (vendas, produtos, clientes, receita, date_label).
// Las ventanas de hoy y del mes se calculan en el servidor (UTC).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	pharmacyID := GetPharmacyID(c)
	if pharmacyID == "" {
		return unauthorized(c)
	}
	summary, err := h.uc.GetSummary(c.UserContext(), pharmacyID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(summary)
}
