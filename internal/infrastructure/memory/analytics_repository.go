package memory

import (
	"context"
	"time"

	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agregados del dashboard calculados sobre el store.
type AnalyticsRepo struct{ s *Store }

// SalesMetrics ventas FINALIZADAS con FinalizedAt en [from, to).
func (r *AnalyticsRepo) SalesMetrics(_ context.Context, pharmacyID string, from, to time.Time) (repository.SalesMetrics, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var m repository.SalesMetrics
	for _, s := range r.s.sales {
		if s.PharmacyID != pharmacyID || s.Status != entity.SaleStatusFinalized || s.FinalizedAt == nil {
			continue
		}
		if s.FinalizedAt.Before(from) || !s.FinalizedAt.Before(to) {
			continue
		}
		m.Count++
		m.Revenue += s.Total
	}
	return m, nil
}

// InventoryMetrics cuenta productos, productos con lotes por vencer y productos con stock bajo.
func (r *AnalyticsRepo) InventoryMetrics(_ context.Context, pharmacyID string, today, expiringUntil time.Time) (repository.InventoryMetrics, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	today, expiringUntil = entity.DateOnly(today), entity.DateOnly(expiringUntil)
	var m repository.InventoryMetrics
	expiring := make(map[string]struct{})
	low := make(map[string]struct{})
	for _, p := range r.s.products {
		if p.PharmacyID == pharmacyID {
			m.TotalProducts++
		}
	}
	for _, l := range r.s.lots {
		if l.PharmacyID != pharmacyID {
			continue
		}
		exp := entity.DateOnly(l.ExpiryDate)
		if l.Quantity > 0 && !exp.Before(today) && !exp.After(expiringUntil) {
			expiring[l.ProductID] = struct{}{}
		}
		if l.IsLow() {
			low[l.ProductID] = struct{}{}
		}
	}
	m.ExpiringSoon = len(expiring)
	m.LowStock = len(low)
	return m, nil
}

// CustomerMetrics total de clientes y altas desde since.
func (r *AnalyticsRepo) CustomerMetrics(_ context.Context, pharmacyID string, since time.Time) (repository.CustomerMetrics, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var m repository.CustomerMetrics
	for _, c := range r.s.customers {
		if c.PharmacyID != pharmacyID {
			continue
		}
		m.Total++
		if !c.CreatedAt.Before(since) {
			m.NewSince++
		}
	}
	return m, nil
}
