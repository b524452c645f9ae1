package repository

import (
	"context"
	"time"

	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
)

// StockLotRepository define el puerto para los lotes de stock.
// Las implementaciones atadas a una transacción de venta asumen que los lotes ya están bloqueados.
type StockLotRepository interface {
	Create(ctx context.Context, lot *entity.StockLot) error
	GetByID(ctx context.Context, id string) (*entity.StockLot, error)
	// ListByProduct devuelve todos los lotes del producto, incluidos vencidos y en cero.
	ListByProduct(ctx context.Context, pharmacyID, productID string) ([]*entity.StockLot, error)
	// AdjustQuantity suma delta a la cantidad del lote de forma atómica y devuelve la nueva cantidad.
	// Falla con *domain.NegativeStockError si el resultado sería negativo (sin modificar el lote).
	AdjustQuantity(ctx context.Context, id string, delta int) (int, error)
	// ListExpiring lotes con cantidad > 0 que vencen entre from y until (inclusive), por vencimiento.
	ListExpiring(ctx context.Context, pharmacyID string, from, until time.Time) ([]*entity.StockLot, error)
	// ListLow lotes con cantidad <= cantidad mínima.
	ListLow(ctx context.Context, pharmacyID string) ([]*entity.StockLot, error)
}
