package repository

import (
	"context"
	"time"

	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
)

// SalesMetrics agregados de ventas FINALIZADAS en un período.
type SalesMetrics struct {
	Count   int
	Revenue entity.Cents
}

// InventoryMetrics agregados del catálogo y los lotes.
type InventoryMetrics struct {
	TotalProducts int
	ExpiringSoon  int // productos con al menos un lote vigente que vence dentro del umbral
	LowStock      int // productos con al menos un lote en o bajo el mínimo
}

// CustomerMetrics agregados de clientes.
type CustomerMetrics struct {
	Total    int
	NewSince int
}

// AnalyticsRepository consultas de solo lectura para el dashboard.
type AnalyticsRepository interface {
	// SalesMetrics cuenta e ingresos de ventas finalizadas con FinalizedAt en [from, to).
	SalesMetrics(ctx context.Context, pharmacyID string, from, to time.Time) (SalesMetrics, error)
	InventoryMetrics(ctx context.Context, pharmacyID string, today, expiringUntil time.Time) (InventoryMetrics, error)
	CustomerMetrics(ctx context.Context, pharmacyID string, since time.Time) (CustomerMetrics, error)
}
