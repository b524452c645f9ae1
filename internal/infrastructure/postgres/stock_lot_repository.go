package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-farmaceutico/internal/domain"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
)

var _ repository.StockLotRepository = (*StockLotRepo)(nil)

// StockLotRepo implementación de StockLotRepository sobre PostgreSQL (usable con pool o tx).
type StockLotRepo struct {
	q Querier
}

// NewStockLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewStockLotRepository(q Querier) *StockLotRepo {
	return &StockLotRepo{q: q}
}

const lotColumns = `id, product_id, pharmacy_id, batch, quantity, min_quantity, expiry_date,
	purchase_price, sale_price, created_at, updated_at`

// Create persiste un lote.
func (r *StockLotRepo) Create(ctx context.Context, l *entity.StockLot) error {
	query := `INSERT INTO stock_lots (` + lotColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.ProductID, l.PharmacyID, l.Batch, l.Quantity, l.MinQuantity, entity.DateOnly(l.ExpiryDate),
		l.PurchasePrice.Decimal(), l.SalePrice.Decimal(), l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *StockLotRepo) GetByID(ctx context.Context, id string) (*entity.StockLot, error) {
	l, err := scanLot(r.q.QueryRow(ctx, `SELECT `+lotColumns+` FROM stock_lots WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock lot: %w", err)
	}
	return l, nil
}

// ListByProduct lista todos los lotes del producto en orden FEFO.
func (r *StockLotRepo) ListByProduct(ctx context.Context, pharmacyID, productID string) ([]*entity.StockLot, error) {
	return r.list(ctx, `SELECT `+lotColumns+` FROM stock_lots
		WHERE pharmacy_id = $1 AND product_id = $2
		ORDER BY expiry_date, created_at, id`, pharmacyID, productID)
}

// AdjustQuantity suma delta en una sola sentencia; la condición evita cantidades negativas
// aun sin bloqueo previo de la fila.
func (r *StockLotRepo) AdjustQuantity(ctx context.Context, id string, delta int) (int, error) {
	var qty int
	err := r.q.QueryRow(ctx, `
		UPDATE stock_lots SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING quantity`, id, delta).Scan(&qty)
	if err == nil {
		return qty, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("adjust stock lot: %w", err)
	}
	var current int
	if err := r.q.QueryRow(ctx, `SELECT quantity FROM stock_lots WHERE id = $1`, id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("adjust stock lot: %w", err)
	}
	return current, &domain.NegativeStockError{LotID: id, Quantity: current, Delta: delta}
}

// ListExpiring lotes con stock que vencen en [from, until].
func (r *StockLotRepo) ListExpiring(ctx context.Context, pharmacyID string, from, until time.Time) ([]*entity.StockLot, error) {
	return r.list(ctx, `SELECT `+lotColumns+` FROM stock_lots
		WHERE pharmacy_id = $1 AND quantity > 0 AND expiry_date BETWEEN $2 AND $3
		ORDER BY expiry_date, id`, pharmacyID, entity.DateOnly(from), entity.DateOnly(until))
}

// ListLow lotes en o por debajo del mínimo.
func (r *StockLotRepo) ListLow(ctx context.Context, pharmacyID string) ([]*entity.StockLot, error) {
	return r.list(ctx, `SELECT `+lotColumns+` FROM stock_lots
		WHERE pharmacy_id = $1 AND quantity <= min_quantity
		ORDER BY quantity, id`, pharmacyID)
}

func (r *StockLotRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockLot, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLot
	for rows.Next() {
		l, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock lot: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func scanLot(row pgx.Row) (*entity.StockLot, error) {
	var l entity.StockLot
	var purchase, sale decimal.Decimal
	err := row.Scan(&l.ID, &l.ProductID, &l.PharmacyID, &l.Batch, &l.Quantity, &l.MinQuantity, &l.ExpiryDate,
		&purchase, &sale, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.ExpiryDate = entity.DateOnly(l.ExpiryDate)
	l.PurchasePrice = cents(purchase)
	l.SalePrice = cents(sale)
	return &l, nil
}
