package memory

import (
	"context"
	"time"

	"github.com/jhoicas/crm-farmaceutico/internal/domain"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria. Guarda copias profundas (ítems incluidos).
type SaleRepo struct{ s *Store }

func copySale(s *entity.Sale) *entity.Sale {
	cp := *s
	cp.Items = append([]entity.SaleItem(nil), s.Items...)
	if s.FinalizedAt != nil {
		t := *s.FinalizedAt
		cp.FinalizedAt = &t
	}
	if s.CanceledAt != nil {
		t := *s.CanceledAt
		cp.CanceledAt = &t
	}
	return &cp
}

// Create persiste la venta con sus ítems. ID repetido = ErrDuplicate.
func (r *SaleRepo) Create(_ context.Context, s *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sales[s.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.sales[s.ID] = copySale(s)
	return nil
}

// GetByID obtiene la venta con sus ítems; (nil, nil) si no existe.
func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	s, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	return copySale(s), nil
}

// UpdateStatus cambia el estado y registra la marca de tiempo correspondiente.
func (r *SaleRepo) UpdateStatus(_ context.Context, id string, status entity.SaleStatus, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = status
	s.UpdatedAt = at
	switch status {
	case entity.SaleStatusFinalized:
		s.FinalizedAt = &at
	case entity.SaleStatusCanceled:
		s.CanceledAt = &at
	}
	return nil
}

// ListByPharmacy lista ventas, más recientes primero.
func (r *SaleRepo) ListByPharmacy(_ context.Context, pharmacyID string, limit, offset int) ([]*entity.Sale, error) {
	r.s.mu.RLock()
	out := make([]*entity.Sale, 0)
	for _, s := range r.s.sales {
		if s.PharmacyID == pharmacyID {
			out = append(out, copySale(s))
		}
	}
	r.s.mu.RUnlock()
	sortNewestFirst(out, func(s *entity.Sale) int64 { return s.CreatedAt.UnixNano() }, func(s *entity.Sale) string { return s.ID })
	return page(out, limit, offset), nil
}
