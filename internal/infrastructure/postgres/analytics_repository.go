package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// SalesMetrics cantidad e ingresos de ventas FINALIZADAS con finalized_at en [from, to).
func (r *AnalyticsRepo) SalesMetrics(ctx context.Context, pharmacyID string, from, to time.Time) (repository.SalesMetrics, error) {
	const query = `
	SELECT COUNT(*), COALESCE(SUM(total), 0)
	FROM sales
	WHERE pharmacy_id = $1
	  AND status = 'FINALIZADA'
	  AND finalized_at >= $2
	  AND finalized_at <  $3`

	var m repository.SalesMetrics
	var revenue decimal.Decimal
	if err := r.q.QueryRow(ctx, query, pharmacyID, from, to).Scan(&m.Count, &revenue); err != nil {
		return m, fmt.Errorf("analytics.SalesMetrics: %w", err)
	}
	m.Revenue = cents(revenue)
	return m, nil
}

// InventoryMetrics productos totales, productos con lotes por vencer y productos con stock bajo.
func (r *AnalyticsRepo) InventoryMetrics(ctx context.Context, pharmacyID string, today, expiringUntil time.Time) (repository.InventoryMetrics, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM products WHERE pharmacy_id = $1),
	    (SELECT COUNT(DISTINCT product_id) FROM stock_lots
	       WHERE pharmacy_id = $1 AND quantity > 0 AND expiry_date BETWEEN $2 AND $3),
	    (SELECT COUNT(DISTINCT product_id) FROM stock_lots
	       WHERE pharmacy_id = $1 AND quantity <= min_quantity)`

	var m repository.InventoryMetrics
	err := r.q.QueryRow(ctx, query, pharmacyID, entity.DateOnly(today), entity.DateOnly(expiringUntil)).
		Scan(&m.TotalProducts, &m.ExpiringSoon, &m.LowStock)
	if err != nil {
		return m, fmt.Errorf("analytics.InventoryMetrics: %w", err)
	}
	return m, nil
}

// CustomerMetrics total de clientes y altas desde since.
func (r *AnalyticsRepo) CustomerMetrics(ctx context.Context, pharmacyID string, since time.Time) (repository.CustomerMetrics, error) {
	const query = `
	SELECT COUNT(*), COUNT(*) FILTER (WHERE created_at >= $2)
	FROM customers
	WHERE pharmacy_id = $1`

	var m repository.CustomerMetrics
	if err := r.q.QueryRow(ctx, query, pharmacyID, since).Scan(&m.Total, &m.NewSince); err != nil {
		return m, fmt.Errorf("analytics.CustomerMetrics: %w", err)
	}
	return m, nil
}
