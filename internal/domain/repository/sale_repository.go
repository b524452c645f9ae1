package repository

import (
	"context"
	"time"

	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas confirmadas y sus líneas.
type SaleRepository interface {
	// Create persiste la venta con todas sus líneas.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con sus líneas, o (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	UpdateStatus(ctx context.Context, id string, status entity.SaleStatus, at time.Time) error
	ListByPharmacy(ctx context.Context, pharmacyID string, limit, offset int) ([]*entity.Sale, error)
}
