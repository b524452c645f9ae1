package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/crm-farmaceutico/internal/domain"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
)

var _ repository.StockLotRepository = (*StockLotRepo)(nil)

// StockLotRepo lotes en memoria.
// La variante locked se usa dentro de RunSale, donde el mutex del lote ya está tomado.
type StockLotRepo struct {
	s      *Store
	locked bool
}

// Create persiste un lote. Batch único por producto.
func (r *StockLotRepo) Create(_ context.Context, l *entity.StockLot) error {
	if l.Quantity < 0 {
		return domain.ErrInvalidInput
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.lots {
		if existing.ProductID == l.ProductID && existing.Batch == l.Batch {
			return domain.ErrDuplicate
		}
	}
	cp := *l
	r.s.lots[l.ID] = &cp
	return nil
}

// GetByID obtiene un lote por ID.
func (r *StockLotRepo) GetByID(_ context.Context, id string) (*entity.StockLot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.lots[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

// ListByProduct lista todos los lotes del producto, incluidos vencidos y en cero.
func (r *StockLotRepo) ListByProduct(_ context.Context, pharmacyID, productID string) ([]*entity.StockLot, error) {
	return r.filter(func(l *entity.StockLot) bool {
		return l.PharmacyID == pharmacyID && l.ProductID == productID
	}), nil
}

// AdjustQuantity suma delta a la cantidad del lote y devuelve la nueva cantidad.
// Nunca deja la cantidad negativa: en ese caso no aplica nada y devuelve *domain.NegativeStockError.
func (r *StockLotRepo) AdjustQuantity(ctx context.Context, id string, delta int) (int, error) {
	if !r.locked {
		m := r.s.lotLock(id)
		m.Lock()
		defer m.Unlock()
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lots[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	next := l.Quantity + delta
	if next < 0 {
		return l.Quantity, &domain.NegativeStockError{LotID: id, Quantity: l.Quantity, Delta: delta}
	}
	l.Quantity = next
	l.UpdatedAt = time.Now().UTC()
	return next, nil
}

// ListExpiring lotes con stock que vencen en [from, until], por vencimiento ascendente.
func (r *StockLotRepo) ListExpiring(_ context.Context, pharmacyID string, from, until time.Time) ([]*entity.StockLot, error) {
	from, until = entity.DateOnly(from), entity.DateOnly(until)
	out := r.filter(func(l *entity.StockLot) bool {
		exp := entity.DateOnly(l.ExpiryDate)
		return l.PharmacyID == pharmacyID && l.Quantity > 0 && !exp.Before(from) && !exp.After(until)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	return out, nil
}

// ListLow lotes en o por debajo de su cantidad mínima.
func (r *StockLotRepo) ListLow(_ context.Context, pharmacyID string) ([]*entity.StockLot, error) {
	out := r.filter(func(l *entity.StockLot) bool { return l.PharmacyID == pharmacyID && l.IsLow() })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity < out[j].Quantity })
	return out, nil
}

func (r *StockLotRepo) filter(keep func(*entity.StockLot) bool) []*entity.StockLot {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.StockLot, 0)
	for _, l := range r.s.lots {
		if keep(l) {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
