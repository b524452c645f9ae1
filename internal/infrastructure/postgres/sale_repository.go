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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL. Create debe correr dentro de una tx
// (RunSale) para que cabecera e ítems queden juntos.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, pharmacy_id, seller_id, customer_id, status, payment_method, sale_discount,
	subtotal, discount_total, total, notes, created_at, updated_at, finalized_at, canceled_at`

// Create persiste la venta y sus ítems.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.PharmacyID, s.SellerID, nullIfEmpty(s.CustomerID), string(s.Status), string(s.PaymentMethod),
		s.SaleDiscount.Decimal(), s.Subtotal.Decimal(), s.DiscountTotal.Decimal(), s.Total.Decimal(), s.Notes,
		s.CreatedAt, s.UpdatedAt, s.FinalizedAt, s.CanceledAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isNumericOverflow(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	itemQuery := `INSERT INTO sale_items (id, sale_id, position, product_id, lot_id, quantity, unit_price, discount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i, it := range s.Items {
		if _, err := r.q.Exec(ctx, itemQuery,
			it.ID, s.ID, i, it.ProductID, it.LotID, it.Quantity, it.UnitPrice.Decimal(), it.Discount.Decimal(),
		); err != nil {
			if isNumericOverflow(err) {
				return domain.ErrInvalidInput
			}
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con sus ítems; (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Sale{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateStatus cambia el estado y registra la marca de tiempo correspondiente.
func (r *SaleRepo) UpdateStatus(ctx context.Context, id string, status entity.SaleStatus, at time.Time) error {
	query := `UPDATE sales SET status = $2, updated_at = $3,
		finalized_at = CASE WHEN $2 = 'FINALIZADA' THEN $3 ELSE finalized_at END,
		canceled_at  = CASE WHEN $2 = 'CANCELADA'  THEN $3 ELSE canceled_at END
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, string(status), at)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByPharmacy lista ventas con ítems, más recientes primero.
func (r *SaleRepo) ListByPharmacy(ctx context.Context, pharmacyID string, limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE pharmacy_id = $1
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, pharmacyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadItems carga los ítems de varias ventas en una sola consulta.
func (r *SaleRepo) loadItems(ctx context.Context, list []*entity.Sale) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, len(list))
	byID := make(map[string]*entity.Sale, len(list))
	for i, s := range list {
		ids[i] = s.ID
		byID[s.ID] = s
		s.Items = []entity.SaleItem{}
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, lot_id, quantity, unit_price, discount
		FROM sale_items WHERE sale_id = ANY($1) ORDER BY sale_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		var price, discount decimal.Decimal
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.LotID, &it.Quantity, &price, &discount); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		it.UnitPrice = cents(price)
		it.Discount = cents(discount)
		if s := byID[it.SaleID]; s != nil {
			s.Items = append(s.Items, it)
		}
	}
	return rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var customerID *string
	var status, payment string
	var saleDiscount, subtotal, discountTotal, total decimal.Decimal
	err := row.Scan(&s.ID, &s.PharmacyID, &s.SellerID, &customerID, &status, &payment, &saleDiscount,
		&subtotal, &discountTotal, &total, &s.Notes, &s.CreatedAt, &s.UpdatedAt, &s.FinalizedAt, &s.CanceledAt)
	if err != nil {
		return nil, err
	}
	s.CustomerID = deref(customerID)
	s.Status = entity.SaleStatus(status)
	s.PaymentMethod = entity.PaymentMethod(payment)
	s.SaleDiscount = cents(saleDiscount)
	s.Subtotal = cents(subtotal)
	s.DiscountTotal = cents(discountTotal)
	s.Total = cents(total)
	return &s, nil
}
