package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/crm-farmaceutico/internal/application/sales"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
)

var _ sales.SaleTxRunner = (*TxRunner)(nil)

// TxRunner serializa las ventas que tocan los mismos lotes.
// Los mutex se toman en orden ascendente de ID; ventas con lotes disjuntos corren en paralelo.
type TxRunner struct{ s *Store }

// RunSale ejecuta fn con los lotes bloqueados. No hay rollback automático:
// fn compensa sus propios efectos antes de devolver error.
func (r *TxRunner) RunSale(ctx context.Context, lotIDs []string, fn func(lots repository.StockLotRepository, sales repository.SaleRepository) error) error {
	ids := append([]string(nil), lotIDs...)
	sort.Strings(ids)
	var prev string
	for i, id := range ids {
		if i > 0 && id == prev {
			continue
		}
		prev = id
		m := r.s.lotLock(id)
		m.Lock()
		defer m.Unlock()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(&StockLotRepo{s: r.s, locked: true}, r.s.Sales())
}
