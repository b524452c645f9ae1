package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-farmaceutico/internal/application/sales"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/internal/infrastructure/memory"
)

var now = time.Date(2024, 11, 20, 14, 30, 0, 0, time.UTC)

func clock() time.Time { return now }

type fixture struct {
	store     *memory.Store
	builder   *sales.Builder
	committer *sales.Committer
	uc        *sales.SaleUseCase
	drafts    *memory.DraftStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, st.Pharmacies().Create(ctx, &entity.Pharmacy{ID: "ph1", Name: "Farmácia Central", CNPJ: "12345678000190", CreatedAt: now}))
	require.NoError(t, st.Pharmacies().Create(ctx, &entity.Pharmacy{ID: "ph2", Name: "Outra", CNPJ: "99999999000199", CreatedAt: now}))

	f := &fixture{store: st, drafts: memory.NewDraftStore(clock)}
	f.builder = sales.NewBuilder(st.Products(), st.Lots(), clock)
	f.committer = sales.NewCommitter(st.TxRunner(), st.Sales(), clock, nil)
	f.uc = sales.NewSaleUseCase(f.builder, f.committer, f.drafts, st.Sales(), st.Customers(), clock, time.Hour)
	return f
}

func (f *fixture) product(t *testing.T, id string, price entity.Cents) {
	t.Helper()
	require.NoError(t, f.store.Products().Create(context.Background(), &entity.Product{
		ID: id, PharmacyID: "ph1", Name: "Produto " + id, Price: price, CreatedAt: now,
	}))
}

func (f *fixture) lot(t *testing.T, id, productID string, qty int, expiry string, salePrice entity.Cents) {
	t.Helper()
	exp, err := time.Parse("2006-01-02", expiry)
	require.NoError(t, err)
	require.NoError(t, f.store.Lots().Create(context.Background(), &entity.StockLot{
		ID: id, ProductID: productID, PharmacyID: "ph1", Batch: "LOTE-" + id,
		Quantity: qty, ExpiryDate: exp, SalePrice: salePrice, CreatedAt: now,
	}))
}

func (f *fixture) qty(t *testing.T, lotID string) int {
	t.Helper()
	l, err := f.store.Lots().GetByID(context.Background(), lotID)
	require.NoError(t, err)
	require.NotNil(t, l)
	return l.Quantity
}

func newDraft(id string) *sales.Draft {
	return &sales.Draft{
		ID: id, PharmacyID: "ph1", SellerID: "u1",
		PaymentMethod: entity.PaymentPix, CreatedAt: now,
	}
}
