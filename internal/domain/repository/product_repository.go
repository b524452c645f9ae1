package repository

import (
	"context"

	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByPharmacyAndEAN(ctx context.Context, pharmacyID, ean string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	ListByPharmacy(ctx context.Context, pharmacyID string, limit, offset int) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
