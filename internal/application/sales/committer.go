package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/crm-farmaceutico/internal/application/inventory"
	"github.com/jhoicas/crm-farmaceutico/internal/domain"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
	"github.com/jhoicas/crm-farmaceutico/pkg/logger"
)

// Committer confirma ventas de forma atómica y compensa cancelaciones.
//
// Confirmar: revalidar todas las líneas contra el stock actual, reservar todo en dos fases
// (si una reserva falla se liberan las anteriores), persistir la venta FINALIZADA.
// Nunca queda una reserva parcial aplicada.
type Committer struct {
	tx    SaleTxRunner
	sales repository.SaleRepository
	clock inventory.Clock
	log   *logger.Logger
}

// NewCommitter construye el confirmador. log puede ser nil.
func NewCommitter(tx SaleTxRunner, sales repository.SaleRepository, clock inventory.Clock, log *logger.Logger) *Committer {
	if clock == nil {
		clock = inventory.SystemClock
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Committer{tx: tx, sales: sales, clock: clock, log: log}
}

// Commit aplica el borrador y devuelve la venta FINALIZADA.
// Un *domain.StockConflictError nombra la primera línea en conflicto y no deja efectos.
func (c *Committer) Commit(ctx context.Context, d *Draft) (*entity.Sale, error) {
	if len(d.Lines) == 0 || !d.PaymentMethod.Valid() || d.SaleDiscount < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := c.clock()
	sale := &entity.Sale{
		ID:            d.ID,
		PharmacyID:    d.PharmacyID,
		SellerID:      d.SellerID,
		CustomerID:    d.CustomerID,
		Status:        entity.SaleStatusPending,
		PaymentMethod: d.PaymentMethod,
		SaleDiscount:  d.SaleDiscount,
		Notes:         d.Notes,
		Items:         make([]entity.SaleItem, len(d.Lines)),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     now,
	}
	for i, l := range d.Lines {
		l.SaleID = sale.ID
		sale.Items[i] = l
	}
	if _, err := sale.ApplyTotals(); err != nil {
		return nil, err
	}

	err := c.tx.RunSale(ctx, d.LotIDs(), func(lots repository.StockLotRepository, sales repository.SaleRepository) error {
		ledger := inventory.NewLotLedger(lots, c.clock)
		if err := c.validate(ctx, lots, sale, ledger); err != nil {
			return err
		}
		reserved, err := c.reserveAll(ctx, ledger, sale)
		if err != nil {
			return err
		}
		if err := sale.Transition(entity.SaleStatusFinalized, now); err != nil {
			return c.rollback(ctx, ledger, sale, reserved, err)
		}
		if err := sales.Create(ctx, sale); err != nil {
			return c.rollback(ctx, ledger, sale, reserved, fmt.Errorf("commit: persistir venta: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.log.Info().
		Str("sale_id", sale.ID).
		Str("pharmacy_id", sale.PharmacyID).
		Int("lines", len(sale.Items)).
		Int64("total_cents", int64(sale.Total)).
		Msg("venta confirmada")
	return sale, nil
}

// validate revisa cada línea contra el estado actual; las cantidades se acumulan por lote.
func (c *Committer) validate(ctx context.Context, lots repository.StockLotRepository, sale *entity.Sale, ledger *inventory.LotLedger) error {
	today := ledger.Today()
	need := make(map[string]int, len(sale.Items))
	for _, it := range sale.Items {
		lot, err := lots.GetByID(ctx, it.LotID)
		if err != nil {
			return fmt.Errorf("commit: obtener lote: %w", err)
		}
		need[it.LotID] += it.Quantity
		available := 0
		if lot != nil && lot.PharmacyID == sale.PharmacyID && lot.ProductID == it.ProductID && !lot.IsExpired(today) {
			available = lot.Quantity
		}
		if need[it.LotID] > available {
			return &domain.StockConflictError{
				LineID: it.ID, LotID: it.LotID, Requested: need[it.LotID], Available: available,
			}
		}
	}
	return nil
}

// reserveAll fase de reserva. Si alguna falla, libera lo ya reservado antes de devolver el error.
func (c *Committer) reserveAll(ctx context.Context, ledger *inventory.LotLedger, sale *entity.Sale) ([]entity.SaleItem, error) {
	reserved := make([]entity.SaleItem, 0, len(sale.Items))
	for _, it := range sale.Items {
		if err := ledger.Reserve(ctx, it.LotID, it.Quantity); err != nil {
			return nil, c.rollback(ctx, ledger, sale, reserved, err)
		}
		reserved = append(reserved, it)
	}
	return reserved, nil
}

// rollback libera en orden inverso. Si la compensación falla se registra y se adjunta al error.
func (c *Committer) rollback(ctx context.Context, ledger *inventory.LotLedger, sale *entity.Sale, reserved []entity.SaleItem, cause error) error {
	var relErr error
	for i := len(reserved) - 1; i >= 0; i-- {
		it := reserved[i]
		if err := ledger.Release(ctx, it.LotID, it.Quantity); err != nil {
			c.log.Error().Err(err).
				Str("sale_id", sale.ID).
				Str("lot_id", it.LotID).
				Int("quantity", it.Quantity).
				Msg("compensación de reserva fallida")
			relErr = errors.Join(relErr, err)
		}
	}
	if relErr != nil {
		return errors.Join(cause, relErr)
	}
	return cause
}

// Cancel compensa una venta FINALIZADA devolviendo cada línea a su lote y la marca CANCELADA.
// Cancelar una venta ya cancelada no hace nada. El estado se relee con los lotes bloqueados.
func (c *Committer) Cancel(ctx context.Context, pharmacyID, saleID string) (*entity.Sale, error) {
	sale, err := c.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("cancel: obtener venta: %w", err)
	}
	if sale == nil || sale.PharmacyID != pharmacyID {
		return nil, domain.ErrNotFound
	}
	if sale.Status == entity.SaleStatusCanceled {
		return sale, nil
	}

	var result *entity.Sale
	err = c.tx.RunSale(ctx, lotIDs(sale.Items), func(lots repository.StockLotRepository, sales repository.SaleRepository) error {
		current, err := sales.GetByID(ctx, saleID)
		if err != nil {
			return fmt.Errorf("cancel: releer venta: %w", err)
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if current.Status == entity.SaleStatusCanceled {
			result = current
			return nil
		}
		now := c.clock()
		if !current.Status.CanTransitionTo(entity.SaleStatusCanceled) {
			return &domain.InvalidSaleStateError{SaleID: saleID, From: string(current.Status), To: string(entity.SaleStatusCanceled)}
		}

		ledger := inventory.NewLotLedger(lots, c.clock)
		released := make([]entity.SaleItem, 0, len(current.Items))
		if current.Status == entity.SaleStatusFinalized {
			for _, it := range current.Items {
				if err := ledger.Release(ctx, it.LotID, it.Quantity); err != nil {
					return c.undoRelease(ctx, ledger, current, released, err)
				}
				released = append(released, it)
			}
		}
		if err := current.Transition(entity.SaleStatusCanceled, now); err != nil {
			return c.undoRelease(ctx, ledger, current, released, err)
		}
		if err := sales.UpdateStatus(ctx, saleID, entity.SaleStatusCanceled, now); err != nil {
			return c.undoRelease(ctx, ledger, current, released, fmt.Errorf("cancel: actualizar estado: %w", err))
		}
		result = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.log.Info().Str("sale_id", saleID).Str("pharmacy_id", pharmacyID).Msg("venta cancelada")
	return result, nil
}

// undoRelease vuelve a descontar lo devuelto si la cancelación no pudo completarse.
func (c *Committer) undoRelease(ctx context.Context, ledger *inventory.LotLedger, sale *entity.Sale, released []entity.SaleItem, cause error) error {
	var undoErr error
	for i := len(released) - 1; i >= 0; i-- {
		it := released[i]
		if err := ledger.Reserve(ctx, it.LotID, it.Quantity); err != nil {
			c.log.Error().Err(err).
				Str("sale_id", sale.ID).
				Str("lot_id", it.LotID).
				Msg("no se pudo revertir la devolución al lote")
			undoErr = errors.Join(undoErr, err)
		}
	}
	if undoErr != nil {
		return errors.Join(cause, undoErr)
	}
	return cause
}
