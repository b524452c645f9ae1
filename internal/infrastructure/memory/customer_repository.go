package memory

import (
	"context"

	"github.com/jhoicas/crm-farmaceutico/internal/domain"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ s *Store }

func (r *CustomerRepo) cpfTaken(c *entity.Customer) bool {
	if c.CPF == "" {
		return false
	}
	for _, existing := range r.s.customers {
		if existing.ID != c.ID && existing.PharmacyID == c.PharmacyID && existing.CPF == c.CPF {
			return true
		}
	}
	return false
}

func copyCustomer(c *entity.Customer) *entity.Customer {
	cp := *c
	if c.BirthDate != nil {
		bd := *c.BirthDate
		cp.BirthDate = &bd
	}
	return &cp
}

// Create persiste un cliente. CPF único por farmacia cuando se informa.
func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.cpfTaken(c) {
		return domain.ErrDuplicate
	}
	r.s.customers[c.ID] = copyCustomer(c)
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	return copyCustomer(c), nil
}

// GetByPharmacyAndCPF obtiene un cliente por farmacia y CPF.
func (r *CustomerRepo) GetByPharmacyAndCPF(_ context.Context, pharmacyID, cpf string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.customers {
		if c.PharmacyID == pharmacyID && c.CPF == cpf {
			return copyCustomer(c), nil
		}
	}
	return nil, nil
}

// ListByPharmacy lista clientes con paginación.
func (r *CustomerRepo) ListByPharmacy(_ context.Context, pharmacyID string, limit, offset int) ([]*entity.Customer, error) {
	r.s.mu.RLock()
	out := make([]*entity.Customer, 0)
	for _, c := range r.s.customers {
		if c.PharmacyID == pharmacyID {
			out = append(out, copyCustomer(c))
		}
	}
	r.s.mu.RUnlock()
	sortNewestFirst(out, func(c *entity.Customer) int64 { return c.CreatedAt.UnixNano() }, func(c *entity.Customer) string { return c.ID })
	return page(out, limit, offset), nil
}

// Update reemplaza los datos del cliente.
func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.cpfTaken(c) {
		return domain.ErrDuplicate
	}
	r.s.customers[c.ID] = copyCustomer(c)
	return nil
}

// Delete elimina un cliente. Las ventas conservan su CustomerID.
func (r *CustomerRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.customers, id)
	return nil
}
