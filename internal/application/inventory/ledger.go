package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/crm-farmaceutico/internal/domain"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	fefo "github.com/jhoicas/crm-farmaceutico/internal/domain/inventory"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
)

// LotLedger vista autoritativa de cantidades por lote.
// Las lecturas no bloquean; Reserve/Release delegan la serialización por lote al repositorio.
type LotLedger struct {
	lots  repository.StockLotRepository
	clock Clock
}

// NewLotLedger construye el ledger sobre un repositorio de lotes (pool o transacción).
func NewLotLedger(lots repository.StockLotRepository, clock Clock) *LotLedger {
	return &LotLedger{lots: lots, clock: orSystem(clock)}
}

// Today fecha de referencia para vencimientos.
func (l *LotLedger) Today() time.Time {
	return entity.DateOnly(l.clock())
}

// Lots devuelve todos los lotes del producto (incluye vencidos y en cero).
func (l *LotLedger) Lots(ctx context.Context, pharmacyID, productID string) ([]*entity.StockLot, error) {
	lots, err := l.lots.ListByProduct(ctx, pharmacyID, productID)
	if err != nil {
		return nil, fmt.Errorf("ledger: listar lotes: %w", err)
	}
	return lots, nil
}

// AvailableQuantity suma las cantidades de los lotes no vencidos del producto en la farmacia.
func (l *LotLedger) AvailableQuantity(ctx context.Context, pharmacyID, productID string) (int, error) {
	lots, err := l.Lots(ctx, pharmacyID, productID)
	if err != nil {
		return 0, err
	}
	return fefo.Available(lots, l.Today()), nil
}

// SelectLotsForQuantity proyección FEFO de solo lectura; no reserva nada.
func (l *LotLedger) SelectLotsForQuantity(ctx context.Context, pharmacyID, productID string, qty int) ([]fefo.Allocation, error) {
	lots, err := l.Lots(ctx, pharmacyID, productID)
	if err != nil {
		return nil, err
	}
	return fefo.SelectLots(productID, lots, qty, l.Today())
}

// Reserve descuenta qty del lote. Falla con *domain.NegativeStockError si no alcanza.
func (l *LotLedger) Reserve(ctx context.Context, lotID string, qty int) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	_, err := l.lots.AdjustQuantity(ctx, lotID, -qty)
	return err
}

// Release devuelve qty al lote.
func (l *LotLedger) Release(ctx context.Context, lotID string, qty int) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	_, err := l.lots.AdjustQuantity(ctx, lotID, qty)
	return err
}
