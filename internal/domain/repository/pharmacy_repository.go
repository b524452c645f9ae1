package repository

import (
	"context"

	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
)

// PharmacyRepository define el puerto de persistencia para Pharmacy (tenant).
type PharmacyRepository interface {
	Create(ctx context.Context, pharmacy *entity.Pharmacy) error
	GetByID(ctx context.Context, id string) (*entity.Pharmacy, error)
	GetByCNPJ(ctx context.Context, cnpj string) (*entity.Pharmacy, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Pharmacy, error)
}
