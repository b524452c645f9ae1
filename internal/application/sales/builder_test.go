package sales_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-farmaceutico/internal/application/sales"
	"github.com/jhoicas/crm-farmaceutico/internal/domain"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
)

func TestAddItem_DivideFEFOEntreLotes(t *testing.T) {
	f := newFixture(t)
	f.product(t, "dipirona", 1000)
	f.lot(t, "B", "dipirona", 10, "2025-06-01", 0)
	f.lot(t, "A", "dipirona", 5, "2025-01-01", 0)
	d := newDraft("d1")

	items, err := f.builder.AddItem(context.Background(), d, sales.ItemInput{ProductID: "dipirona", Quantity: 7})

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].LotID)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, "B", items[1].LotID)
	assert.Equal(t, 2, items[1].Quantity)
	assert.Equal(t, entity.Cents(1000), items[0].UnitPrice)
	assert.Len(t, d.Lines, 2)
	assert.Equal(t, 5, f.qty(t, "A"), "armar no reserva")
}

func TestAddItem_ProyeccionDescuentaLoYaArmado(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p", 500)
	f.lot(t, "A", "p", 5, "2025-01-01", 0)
	f.lot(t, "B", "p", 5, "2025-02-01", 0)
	d := newDraft("d1")
	ctx := context.Background()

	_, err := f.builder.AddItem(ctx, d, sales.ItemInput{ProductID: "p", Quantity: 4})
	require.NoError(t, err)
	items, err := f.builder.AddItem(ctx, d, sales.ItemInput{ProductID: "p", Quantity: 3})
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].LotID)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, "B", items[1].LotID)
	assert.Equal(t, 2, items[1].Quantity)

	_, err = f.builder.AddItem(ctx, d, sales.ItemInput{ProductID: "p", Quantity: 4})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Available)
	assert.Len(t, d.Lines, 3, "un fallo no modifica el borrador")
}

func TestAddItem_LoteFijado(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p", 500)
	f.lot(t, "A", "p", 5, "2025-01-01", 0)
	f.lot(t, "B", "p", 5, "2025-02-01", 750)
	d := newDraft("d1")
	ctx := context.Background()

	items, err := f.builder.AddItem(ctx, d, sales.ItemInput{ProductID: "p", LotID: "B", Quantity: 2})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "B", items[0].LotID)
	assert.Equal(t, entity.Cents(750), items[0].UnitPrice, "precio del lote")

	_, err = f.builder.AddItem(ctx, d, sales.ItemInput{ProductID: "p", LotID: "B", Quantity: 4})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "B", insufficient.LotID)
	assert.Equal(t, 3, insufficient.Available)

	_, err = f.builder.AddItem(ctx, d, sales.ItemInput{ProductID: "p", LotID: "Z", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddItem_LoteVencidoNoSeVende(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p", 500)
	f.lot(t, "V", "p", 50, "2024-11-19", 0)
	f.lot(t, "H", "p", 1, "2024-11-20", 0)

	items, err := f.builder.AddItem(context.Background(), newDraft("d1"), sales.ItemInput{ProductID: "p", Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, "H", items[0].LotID, "vence hoy todavía se vende")

	_, err = f.builder.AddItem(context.Background(), newDraft("d2"), sales.ItemInput{ProductID: "p", LotID: "V", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestAddItem_DescuentoProporcional(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p", 1000)
	f.lot(t, "A", "p", 1, "2025-01-01", 0)
	f.lot(t, "B", "p", 2, "2025-02-01", 0)
	d := newDraft("d1")
	price := entity.Cents(1000)

	items, err := f.builder.AddItem(context.Background(), d, sales.ItemInput{
		ProductID: "p", Quantity: 3, UnitPrice: &price, Discount: 100,
	})

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, entity.Cents(34), items[0].Discount)
	assert.Equal(t, entity.Cents(66), items[1].Discount)
	tot := f.builder.ComputeTotal(d)
	assert.Equal(t, entity.Cents(3000), tot.Subtotal)
	assert.Equal(t, entity.Cents(100), tot.DiscountTotal)
	assert.Equal(t, entity.Cents(2900), tot.GrandTotal)
}

func TestAddItem_MontoQueDesbordaNoSeArma(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p", 1000)
	f.lot(t, "A", "p", 2000, "2025-01-01", 0)
	d := newDraft("d1")
	_, err := f.builder.AddItem(context.Background(), d, sales.ItemInput{ProductID: "p", Quantity: 1})
	require.NoError(t, err)
	price := entity.Cents(92233720368547758)

	_, err = f.builder.AddItem(context.Background(), d, sales.ItemInput{ProductID: "p", Quantity: 1000, UnitPrice: &price})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	require.Len(t, d.Lines, 1, "el borrador no cambia")
	assert.Equal(t, entity.Cents(1000), f.builder.ComputeTotal(d).GrandTotal)
}

func TestAddItem_ProductoInexistenteOAjeno(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Products().Create(context.Background(), &entity.Product{ID: "ajeno", PharmacyID: "ph2", Price: 100}))

	_, err := f.builder.AddItem(context.Background(), newDraft("d1"), sales.ItemInput{ProductID: "nada", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	_, err = f.builder.AddItem(context.Background(), newDraft("d1"), sales.ItemInput{ProductID: "ajeno", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	_, err = f.builder.AddItem(context.Background(), newDraft("d1"), sales.ItemInput{ProductID: "ajeno", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRemoveItem(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p", 1000)
	f.lot(t, "A", "p", 5, "2025-01-01", 0)
	d := newDraft("d1")
	items, err := f.builder.AddItem(context.Background(), d, sales.ItemInput{ProductID: "p", Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, f.builder.RemoveItem(d, items[0].ID))
	assert.Empty(t, d.Lines)
	assert.ErrorIs(t, f.builder.RemoveItem(d, items[0].ID), domain.ErrNotFound)
	assert.Equal(t, entity.Totals{}, f.builder.ComputeTotal(d))
}
