package memory

import (
	"context"

	"github.com/jhoicas/crm-farmaceutico/internal/domain"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
)

var _ repository.PharmacyRepository = (*PharmacyRepo)(nil)

// PharmacyRepo farmacias en memoria.
type PharmacyRepo struct{ s *Store }

// Create persiste una farmacia. CNPJ único.
func (r *PharmacyRepo) Create(_ context.Context, p *entity.Pharmacy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.pharmacies {
		if existing.CNPJ == p.CNPJ {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.s.pharmacies[p.ID] = &cp
	return nil
}

// GetByID obtiene una farmacia por ID.
func (r *PharmacyRepo) GetByID(_ context.Context, id string) (*entity.Pharmacy, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.pharmacies[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// GetByCNPJ obtiene una farmacia por CNPJ.
func (r *PharmacyRepo) GetByCNPJ(_ context.Context, cnpj string) (*entity.Pharmacy, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.pharmacies {
		if p.CNPJ == cnpj {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

// List lista farmacias con paginación.
func (r *PharmacyRepo) List(_ context.Context, limit, offset int) ([]*entity.Pharmacy, error) {
	r.s.mu.RLock()
	out := make([]*entity.Pharmacy, 0, len(r.s.pharmacies))
	for _, p := range r.s.pharmacies {
		cp := *p
		out = append(out, &cp)
	}
	r.s.mu.RUnlock()
	sortNewestFirst(out, func(p *entity.Pharmacy) int64 { return p.CreatedAt.UnixNano() }, func(p *entity.Pharmacy) string { return p.ID })
	return page(out, limit, offset), nil
}
