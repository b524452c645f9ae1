package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-farmaceutico/internal/application/sales"
	"github.com/jhoicas/crm-farmaceutico/internal/domain"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/internal/infrastructure/redis"
)

func newStore(t *testing.T) (*redis.DraftStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewDraftStore(client), mr
}

func TestDraftStore_GuardarYLeer(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()
	draft := &sales.Draft{
		ID:            "d1",
		PharmacyID:    "ph1",
		SellerID:      "u1",
		PaymentMethod: entity.PaymentCreditCard,
		SaleDiscount:  150,
		Lines: []entity.SaleItem{
			{ID: "l1", ProductID: "p1", LotID: "A", Quantity: 2, UnitPrice: 1099, Discount: 10},
		},
		CreatedAt: time.Date(2024, 11, 20, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, store.Save(ctx, draft, 30*time.Minute))
	assert.True(t, mr.Exists("draft:d1"))
	assert.Equal(t, 30*time.Minute, mr.TTL("draft:d1"))

	got, err := store.Get(ctx, "d1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, draft.Lines, got.Lines)
	assert.Equal(t, entity.PaymentCreditCard, got.PaymentMethod)
	assert.Equal(t, draft.Totals(), got.Totals())
}

func TestDraftStore_Expira(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &sales.Draft{ID: "d1"}, time.Minute))

	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "d1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestDraftStore_Delete(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &sales.Draft{ID: "d1"}, time.Minute))

	require.NoError(t, store.Delete(ctx, "d1"))
	require.NoError(t, store.Delete(ctx, "d1"))
	got, err := store.Get(ctx, "d1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestDraftStore_GuardadoConVersion(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	draft := &sales.Draft{ID: "d1", PharmacyID: "ph1"}
	require.NoError(t, store.Save(ctx, draft, time.Minute))
	assert.Equal(t, int64(1), draft.Version)

	a, err := store.Get(ctx, "d1")
	require.NoError(t, err)
	b, err := store.Get(ctx, "d1")
	require.NoError(t, err)

	a.Notes = "primero"
	require.NoError(t, store.Save(ctx, a, time.Minute))
	b.Notes = "segundo"
	assert.ErrorIs(t, store.Save(ctx, b, time.Minute), domain.ErrDraftConflict)

	got, err := store.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "primero", got.Notes)
	assert.Equal(t, int64(2), got.Version)

	require.NoError(t, store.Delete(ctx, "d1"))
	assert.ErrorIs(t, store.Save(ctx, got, time.Minute), domain.ErrDraftConflict, "un borrador borrado no reaparece")
	gone, err := store.Get(ctx, "d1")
	assert.NoError(t, err)
	assert.Nil(t, gone)
}

func TestDraftStore_ErrorDeConexion(t *testing.T) {
	store, mr := newStore(t)
	mr.Close()

	_, err := store.Get(context.Background(), "d1")
	assert.Error(t, err)
}
