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

// ProductUseCase casos de uso CRUD para productos. El stock se maneja por lotes.
type ProductUseCase struct {
	repo repository.ProductRepository
	now  func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Create crea un nuevo producto. Devuelve domain.ErrDuplicate si el EAN ya existe en la farmacia.
func (uc *ProductUseCase) Create(ctx context.Context, pharmacyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	price, err := entity.CentsFromDecimal(in.Price)
	if err != nil || price < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.EAN != "" {
		existing, err := uc.repo.GetByPharmacyAndEAN(ctx, pharmacyID, in.EAN)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := uc.now()
	product := &entity.Product{
		ID:                   uuid.New().String(),
		PharmacyID:           pharmacyID,
		Name:                 strings.TrimSpace(in.Name),
		Description:          in.Description,
		EAN:                  in.EAN,
		ActiveIngredient:     in.ActiveIngredient,
		Concentration:        in.Concentration,
		Form:                 in.Form,
		Presentation:         in.Presentation,
		Laboratory:           in.Laboratory,
		Category:             in.Category,
		Price:                price,
		PrescriptionRequired: in.PrescriptionRequired,
		Controlled:           in.Controlled,
		Generic:              in.Generic,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto. (nil, nil) si no existe o es de otra farmacia.
func (uc *ProductUseCase) GetByID(ctx context.Context, pharmacyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, pharmacyID, id)
	if err != nil || product == nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. El cambio de precio no toca ventas ya registradas.
func (uc *ProductUseCase) Update(ctx context.Context, pharmacyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, pharmacyID, id)
	if err != nil || product == nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Price != nil {
		price, err := entity.CentsFromDecimal(*in.Price)
		if err != nil || price < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.Price = price
	}
	setString(&product.Description, in.Description)
	setString(&product.ActiveIngredient, in.ActiveIngredient)
	setString(&product.Concentration, in.Concentration)
	setString(&product.Form, in.Form)
	setString(&product.Presentation, in.Presentation)
	setString(&product.Laboratory, in.Laboratory)
	setString(&product.Category, in.Category)
	if in.PrescriptionRequired != nil {
		product.PrescriptionRequired = *in.PrescriptionRequired
	}
	if in.Controlled != nil {
		product.Controlled = *in.Controlled
	}
	if in.Generic != nil {
		product.Generic = *in.Generic
	}
	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos de la farmacia con paginación.
func (uc *ProductUseCase) List(ctx context.Context, pharmacyID string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByPharmacy(ctx, pharmacyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un producto sin lotes.
func (uc *ProductUseCase) Delete(ctx context.Context, pharmacyID, id string) error {
	product, err := uc.get(ctx, pharmacyID, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) get(ctx context.Context, pharmacyID, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.PharmacyID != pharmacyID {
		return nil, nil
	}
	return product, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                   p.ID,
		PharmacyID:           p.PharmacyID,
		Name:                 p.Name,
		Description:          p.Description,
		EAN:                  p.EAN,
		ActiveIngredient:     p.ActiveIngredient,
		Concentration:        p.Concentration,
		Form:                 p.Form,
		Presentation:         p.Presentation,
		Laboratory:           p.Laboratory,
		Category:             p.Category,
		Price:                p.Price.Decimal(),
		PrescriptionRequired: p.PrescriptionRequired,
		Controlled:           p.Controlled,
		Generic:              p.Generic,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}
