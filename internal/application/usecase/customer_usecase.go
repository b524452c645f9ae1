package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/crm-farmaceutico/internal/application/dto"
	"github.com/jhoicas/crm-farmaceutico/internal/domain"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
)

// CustomerUseCase casos de uso para clientes de la farmacia.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un nuevo cliente. El CPF, si se informa, es único por farmacia.
func (uc *CustomerUseCase) Create(ctx context.Context, pharmacyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.CPF != "" {
		existing, _ := uc.repo.GetByPharmacyAndCPF(ctx, pharmacyID, in.CPF)
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	customer := &entity.Customer{
		ID:         uuid.New().String(),
		PharmacyID: pharmacyID,
		Name:       strings.TrimSpace(in.Name),
		CPF:        in.CPF,
		Phone:      in.Phone,
		Email:      in.Email,
		Address:    in.Address,
		BirthDate:  in.BirthDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente. (nil, nil) si no existe en la farmacia.
func (uc *CustomerUseCase) GetByID(ctx context.Context, pharmacyID, id string) (*dto.CustomerResponse, error) {
	c, err := uc.get(ctx, pharmacyID, id)
	if err != nil || c == nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// Update actualiza datos de contacto. El CPF no se modifica.
func (uc *CustomerUseCase) Update(ctx context.Context, pharmacyID, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.get(ctx, pharmacyID, id)
	if err != nil || c == nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.BirthDate != nil {
		c.BirthDate = in.BirthDate
	}
	c.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// List lista clientes de la farmacia.
func (uc *CustomerUseCase) List(ctx context.Context, pharmacyID string, limit, offset int) (*dto.CustomerListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.ListByPharmacy(ctx, pharmacyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCustomerResponse(c))
	}
	return &dto.CustomerListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// Delete elimina un cliente.
func (uc *CustomerUseCase) Delete(ctx context.Context, pharmacyID, id string) error {
	c, err := uc.get(ctx, pharmacyID, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *CustomerUseCase) get(ctx context.Context, pharmacyID, id string) (*entity.Customer, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.PharmacyID != pharmacyID {
		return nil, nil
	}
	return c, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:         c.ID,
		PharmacyID: c.PharmacyID,
		Name:       c.Name,
		CPF:        c.CPF,
		Phone:      c.Phone,
		Email:      c.Email,
		Address:    c.Address,
		BirthDate:  c.BirthDate,
		CreatedAt:  c.CreatedAt,
	}
}
