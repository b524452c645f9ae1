// Package analytics contiene los casos de uso del dashboard de la farmacia.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/crm-farmaceutico/internal/application/dto"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
)

const defaultExpiringDays = 30

// DashboardUseCase genera el resumen del día y del mes en curso.
//
// Fuente de datos: AnalyticsRepository (consultas read-only). Solo cuentan ventas FINALIZADAS.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
	expiringDays  int
}

// NewDashboardUseCase construye el caso de uso. now puede ser nil.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, now func() time.Time, expiringDays int) *DashboardUseCase {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	if expiringDays <= 0 {
		expiringDays = defaultExpiringDays
	}
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: now, expiringDays: expiringDays}
}

// GetSummary construye el DashboardSummaryDTO para la farmacia.
//
// Cinco consultas en paralelo:
//  1. SalesMetrics(hoy)
//  2. SalesMetrics(mes en curso)
//  3. SalesMetrics(mismo tramo del mes anterior)
//  4. InventoryMetrics
//  5. CustomerMetrics(desde el día 1)
func (uc *DashboardUseCase) GetSummary(ctx context.Context, pharmacyID string) (*dto.DashboardSummaryDTO, error) {
	now := uc.now().UTC()
	w := windowsFor(now)

	var today, month, prev repository.SalesMetrics
	var inv repository.InventoryMetrics
	var cust repository.CustomerMetrics

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if today, err = uc.analyticsRepo.SalesMetrics(gctx, pharmacyID, w.todayStart, w.tomorrow); err != nil {
			return fmt.Errorf("dashboard: métricas de hoy: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if month, err = uc.analyticsRepo.SalesMetrics(gctx, pharmacyID, w.monthStart, w.tomorrow); err != nil {
			return fmt.Errorf("dashboard: métricas del mes: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if prev, err = uc.analyticsRepo.SalesMetrics(gctx, pharmacyID, w.prevStart, w.prevEnd); err != nil {
			return fmt.Errorf("dashboard: métricas del mes anterior: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		until := w.todayStart.AddDate(0, 0, uc.expiringDays)
		if inv, err = uc.analyticsRepo.InventoryMetrics(gctx, pharmacyID, w.todayStart, until); err != nil {
			return fmt.Errorf("dashboard: inventario: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if cust, err = uc.analyticsRepo.CustomerMetrics(gctx, pharmacyID, w.monthStart); err != nil {
			return fmt.Errorf("dashboard: clientes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.DashboardSummaryDTO{
		Sales: dto.SalesCountBlock{
			Today:     today.Count,
			Month:     month.Count,
			Variation: Variation(int64(month.Count), int64(prev.Count)),
		},
		Products: dto.ProductsBlock{
			Total:        inv.TotalProducts,
			ExpiringSoon: inv.ExpiringSoon,
			LowStock:     inv.LowStock,
		},
		Customers: dto.CustomersBlock{
			Total:        cust.Total,
			NewThisMonth: cust.NewSince,
		},
		Revenue: dto.RevenueBlock{
			Today:     today.Revenue.Decimal(),
			Month:     month.Revenue.Decimal(),
			Variation: Variation(int64(month.Revenue), int64(prev.Revenue)),
		},
		DateLabel: monthLabel(now),
	}, nil
}

type windows struct {
	todayStart time.Time
	tomorrow   time.Time
	monthStart time.Time
	prevStart  time.Time
	prevEnd    time.Time
}

// windowsFor rangos semiabiertos [desde, hasta). El tramo del mes anterior cubre los mismos
// días transcurridos del mes en curso y nunca pasa del fin de ese mes.
func windowsFor(now time.Time) windows {
	todayStart := entity.DateOnly(now)
	monthStart := time.Date(todayStart.Year(), todayStart.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevStart := monthStart.AddDate(0, -1, 0)
	days := todayStart.Day()
	prevEnd := prevStart.AddDate(0, 0, days)
	if prevEnd.After(monthStart) {
		prevEnd = monthStart
	}
	return windows{
		todayStart: todayStart,
		tomorrow:   todayStart.AddDate(0, 0, 1),
		monthStart: monthStart,
		prevStart:  prevStart,
		prevEnd:    prevEnd,
	}
}

// Variation cambio porcentual de current respecto de previous, con 2 decimales.
// 0 si ambos son 0; 100 si solo previous es 0.
func Variation(current, previous int64) decimal.Decimal {
	switch {
	case previous == 0 && current == 0:
		return decimal.Zero
	case previous == 0:
		return decimal.NewFromInt(100)
	}
	cur := decimal.NewFromInt(current)
	prev := decimal.NewFromInt(previous)
	return cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(2)
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Outubro 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
		"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
