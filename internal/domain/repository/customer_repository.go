package repository

import (
	"context"

	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByPharmacyAndCPF(ctx context.Context, pharmacyID, cpf string) (*entity.Customer, error)
	ListByPharmacy(ctx context.Context, pharmacyID string, limit, offset int) ([]*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id string) error
}
