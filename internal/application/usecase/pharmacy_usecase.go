package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/crm-farmaceutico/internal/application/dto"
	"github.com/jhoicas/crm-farmaceutico/internal/domain"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
)

// PharmacyUseCase aplica reglas de negocio para farmacias (tenants).
type PharmacyUseCase struct {
	repo repository.PharmacyRepository
}

// NewPharmacyUseCase construye el caso de uso con el puerto de persistencia.
func NewPharmacyUseCase(repo repository.PharmacyRepository) *PharmacyUseCase {
	return &PharmacyUseCase{repo: repo}
}

// Create registra una farmacia. Devuelve domain.ErrDuplicate si el CNPJ ya existe.
func (uc *PharmacyUseCase) Create(ctx context.Context, in dto.CreatePharmacyRequest) (*dto.PharmacyResponse, error) {
	existing, _ := uc.repo.GetByCNPJ(ctx, in.CNPJ)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now().UTC()
	p := &entity.Pharmacy{
		ID:                   uuid.New().String(),
		Name:                 in.Name,
		CNPJ:                 in.CNPJ,
		Address:              in.Address,
		Phone:                in.Phone,
		Email:                in.Email,
		TechnicalResponsible: in.TechnicalResponsible,
		CRF:                  in.CRF,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toPharmacyResponse(p), nil
}

// GetByID obtiene una farmacia por ID.
func (uc *PharmacyUseCase) GetByID(ctx context.Context, id string) (*dto.PharmacyResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	return toPharmacyResponse(p), nil
}

// List farmacias registradas, paginadas.
func (uc *PharmacyUseCase) List(ctx context.Context, limit, offset int) ([]dto.PharmacyResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PharmacyResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPharmacyResponse(p))
	}
	return out, nil
}

func toPharmacyResponse(p *entity.Pharmacy) *dto.PharmacyResponse {
	return &dto.PharmacyResponse{
		ID:                   p.ID,
		Name:                 p.Name,
		CNPJ:                 p.CNPJ,
		Address:              p.Address,
		Phone:                p.Phone,
		Email:                p.Email,
		TechnicalResponsible: p.TechnicalResponsible,
		CRF:                  p.CRF,
		CreatedAt:            p.CreatedAt,
	}
}
