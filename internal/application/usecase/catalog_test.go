package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-farmaceutico/internal/application/dto"
	"github.com/jhoicas/crm-farmaceutico/internal/application/usecase"
	"github.com/jhoicas/crm-farmaceutico/internal/domain"
	"github.com/jhoicas/crm-farmaceutico/internal/infrastructure/memory"
)

func strPtr(s string) *string { return &s }

func TestProductUseCase_CRUD(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products())
	ctx := context.Background()

	created, err := uc.Create(ctx, "ph1", dto.CreateProductRequest{
		Name: "Dipirona 500mg", EAN: "7891234567890", Price: decimal.RequireFromString("10.99"),
	})
	require.NoError(t, err)
	assert.Equal(t, "10.99", created.Price.StringFixed(2))

	_, err = uc.Create(ctx, "ph1", dto.CreateProductRequest{Name: "Outra", EAN: "7891234567890"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Create(ctx, "ph2", dto.CreateProductRequest{Name: "Outra", EAN: "7891234567890"})
	assert.NoError(t, err, "el EAN es único por farmacia")

	newPrice := decimal.RequireFromString("12.50")
	updated, err := uc.Update(ctx, "ph1", created.ID, dto.UpdateProductRequest{Price: &newPrice, Laboratory: strPtr("EMS")})
	require.NoError(t, err)
	assert.Equal(t, "12.50", updated.Price.StringFixed(2))
	assert.Equal(t, "EMS", updated.Laboratory)

	bad := decimal.RequireFromString("1.999")
	_, err = uc.Update(ctx, "ph1", created.ID, dto.UpdateProductRequest{Price: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	other, err := uc.GetByID(ctx, "ph2", created.ID)
	assert.NoError(t, err)
	assert.Nil(t, other)

	list, err := uc.List(ctx, "ph1", 20, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	require.NoError(t, uc.Delete(ctx, "ph1", created.ID))
	assert.ErrorIs(t, uc.Delete(ctx, "ph1", created.ID), domain.ErrNotFound)
}

func TestCustomerUseCase_CPFUnico(t *testing.T) {
	uc := usecase.NewCustomerUseCase(memory.NewStore().Customers())
	ctx := context.Background()

	c, err := uc.Create(ctx, "ph1", dto.CreateCustomerRequest{Name: "Maria Souza", CPF: "12345678901"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, "ph1", dto.CreateCustomerRequest{Name: "Outra", CPF: "12345678901"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Create(ctx, "ph1", dto.CreateCustomerRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	updated, err := uc.Update(ctx, "ph1", c.ID, dto.UpdateCustomerRequest{Phone: strPtr("11999990000")})
	require.NoError(t, err)
	assert.Equal(t, "11999990000", updated.Phone)
	assert.Equal(t, "12345678901", updated.CPF)

	assert.ErrorIs(t, uc.Delete(ctx, "ph2", c.ID), domain.ErrNotFound)
	require.NoError(t, uc.Delete(ctx, "ph1", c.ID))
}

func TestPharmacyUseCase_CNPJUnico(t *testing.T) {
	uc := usecase.NewPharmacyUseCase(memory.NewStore().Pharmacies())
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.CreatePharmacyRequest{Name: "Farmácia Central", CNPJ: "12345678000190"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreatePharmacyRequest{Name: "Outra", CNPJ: "12345678000190"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Farmácia Central", got.Name)
}
