package inventory

import (
	"sort"
	"time"

	"github.com/jhoicas/crm-farmaceutico/internal/domain"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
)

// Allocation cantidad tomada de un lote.
type Allocation struct {
	LotID    string
	Quantity int
}

// lessFEFO ordena por vencimiento más próximo; empates por fecha de ingreso y luego por ID.
func lessFEFO(a, b *entity.StockLot) bool {
	ea, eb := entity.DateOnly(a.ExpiryDate), entity.DateOnly(b.ExpiryDate)
	if !ea.Equal(eb) {
		return ea.Before(eb)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// SortFEFO ordena los lotes in-place (First-Expire-First-Out).
func SortFEFO(lots []*entity.StockLot) {
	sort.SliceStable(lots, func(i, j int) bool { return lessFEFO(lots[i], lots[j]) })
}

// Available suma las cantidades de los lotes no vencidos.
func Available(lots []*entity.StockLot, today time.Time) int {
	total := 0
	for _, l := range lots {
		if l.Selectable(today) {
			total += l.Quantity
		}
	}
	return total
}

// SelectLots elige lotes FEFO hasta cubrir requested. No modifica los lotes.
// Omite lotes vencidos o en cero; si no alcanza devuelve *domain.InsufficientStockError.
func SelectLots(productID string, lots []*entity.StockLot, requested int, today time.Time) ([]Allocation, error) {
	if requested <= 0 {
		return nil, domain.ErrInvalidInput
	}
	candidates := make([]*entity.StockLot, 0, len(lots))
	for _, l := range lots {
		if l.ProductID == productID && l.Selectable(today) {
			candidates = append(candidates, l)
		}
	}
	if avail := Available(candidates, today); avail < requested {
		return nil, &domain.InsufficientStockError{ProductID: productID, Requested: requested, Available: avail}
	}
	SortFEFO(candidates)

	remaining := requested
	out := make([]Allocation, 0, 2)
	for _, l := range candidates {
		if remaining == 0 {
			break
		}
		take := l.Quantity
		if take > remaining {
			take = remaining
		}
		out = append(out, Allocation{LotID: l.ID, Quantity: take})
		remaining -= take
	}
	return out, nil
}
