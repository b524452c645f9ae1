package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/crm-farmaceutico/internal/application/dto"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
)

const scanPageSize = 100

// AlertUseCase alertas de vencimiento y stock bajo.
type AlertUseCase struct {
	lots        repository.StockLotRepository
	products    repository.ProductRepository
	pharmacies  repository.PharmacyRepository
	clock       Clock
	defaultDays int
}

// NewAlertUseCase construye el caso de uso. defaultDays se usa cuando la consulta no indica umbral.
func NewAlertUseCase(
	lots repository.StockLotRepository,
	products repository.ProductRepository,
	pharmacies repository.PharmacyRepository,
	clock Clock,
	defaultDays int,
) *AlertUseCase {
	if defaultDays <= 0 {
		defaultDays = 30
	}
	return &AlertUseCase{
		lots:        lots,
		products:    products,
		pharmacies:  pharmacies,
		clock:       orSystem(clock),
		defaultDays: defaultDays,
	}
}

// Expiring lotes vigentes con stock que vencen en los próximos days días, del más próximo al más lejano.
func (uc *AlertUseCase) Expiring(ctx context.Context, pharmacyID string, days int) ([]dto.ExpiryAlertDTO, error) {
	if days <= 0 {
		days = uc.defaultDays
	}
	today := entity.DateOnly(uc.clock())
	lots, err := uc.lots.ListExpiring(ctx, pharmacyID, today, today.AddDate(0, 0, days))
	if err != nil {
		return nil, fmt.Errorf("alertas: lotes por vencer: %w", err)
	}
	names := uc.nameLookup(ctx)
	out := make([]dto.ExpiryAlertDTO, 0, len(lots))
	for _, l := range lots {
		out = append(out, dto.ExpiryAlertDTO{
			PharmacyID:  l.PharmacyID,
			LotID:       l.ID,
			ProductID:   l.ProductID,
			ProductName: names(l.ProductID),
			Batch:       l.Batch,
			Quantity:    l.Quantity,
			ExpiryDate:  l.ExpiryDate.Format(time.DateOnly),
			DaysLeft:    l.DaysToExpiry(today),
		})
	}
	return out, nil
}

// LowStock lotes en o por debajo de la cantidad mínima.
func (uc *AlertUseCase) LowStock(ctx context.Context, pharmacyID string) ([]dto.LowStockDTO, error) {
	lots, err := uc.lots.ListLow(ctx, pharmacyID)
	if err != nil {
		return nil, fmt.Errorf("alertas: stock bajo: %w", err)
	}
	names := uc.nameLookup(ctx)
	out := make([]dto.LowStockDTO, 0, len(lots))
	for _, l := range lots {
		out = append(out, dto.LowStockDTO{
			LotID:       l.ID,
			ProductID:   l.ProductID,
			ProductName: names(l.ProductID),
			Batch:       l.Batch,
			Quantity:    l.Quantity,
			MinQuantity: l.MinQuantity,
		})
	}
	return out, nil
}

// ScanAll recorre todas las farmacias y junta las alertas de vencimiento (tarea programada).
func (uc *AlertUseCase) ScanAll(ctx context.Context, days int) ([]dto.ExpiryAlertDTO, error) {
	var all []dto.ExpiryAlertDTO
	for offset := 0; ; offset += scanPageSize {
		page, err := uc.pharmacies.List(ctx, scanPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("alertas: listar farmacias: %w", err)
		}
		for _, ph := range page {
			alerts, err := uc.Expiring(ctx, ph.ID, days)
			if err != nil {
				return nil, err
			}
			all = append(all, alerts...)
		}
		if len(page) < scanPageSize {
			return all, nil
		}
	}
}

// nameLookup resuelve nombres de producto con cache por llamada.
func (uc *AlertUseCase) nameLookup(ctx context.Context) func(productID string) string {
	cache := map[string]string{}
	return func(productID string) string {
		if name, ok := cache[productID]; ok {
			return name
		}
		name := productID
		if p, err := uc.products.GetByID(ctx, productID); err == nil && p != nil {
			name = p.Name
		}
		cache[productID] = name
		return name
	}
}
