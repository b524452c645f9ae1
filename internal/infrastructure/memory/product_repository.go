package memory

import (
	"context"

	"github.com/jhoicas/crm-farmaceutico/internal/domain"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct{ s *Store }

// Create persiste un producto. EAN único por farmacia cuando se informa.
func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.EAN != "" {
		for _, existing := range r.s.products {
			if existing.PharmacyID == p.PharmacyID && existing.EAN == p.EAN {
				return domain.ErrDuplicate
			}
		}
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// GetByPharmacyAndEAN obtiene un producto por farmacia y código de barras.
func (r *ProductRepo) GetByPharmacyAndEAN(_ context.Context, pharmacyID, ean string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.PharmacyID == pharmacyID && p.EAN == ean {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

// Update reemplaza los datos del producto.
func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

// ListByPharmacy lista productos de la farmacia con paginación.
func (r *ProductRepo) ListByPharmacy(_ context.Context, pharmacyID string, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	out := make([]*entity.Product, 0)
	for _, p := range r.s.products {
		if p.PharmacyID == pharmacyID {
			cp := *p
			out = append(out, &cp)
		}
	}
	r.s.mu.RUnlock()
	sortNewestFirst(out, func(p *entity.Product) int64 { return p.CreatedAt.UnixNano() }, func(p *entity.Product) string { return p.ID })
	return page(out, limit, offset), nil
}

// Delete elimina un producto. Un producto con lotes no se elimina (ErrInvalidInput).
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	for _, l := range r.s.lots {
		if l.ProductID == id {
			return domain.ErrInvalidInput
		}
	}
	delete(r.s.products, id)
	return nil
}
