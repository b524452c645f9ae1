package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/crm-farmaceutico/internal/application/dto"
	"github.com/jhoicas/crm-farmaceutico/internal/domain"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	fefo "github.com/jhoicas/crm-farmaceutico/internal/domain/inventory"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
)

// LotUseCase ingreso y consulta de lotes de stock.
type LotUseCase struct {
	lots     repository.StockLotRepository
	products repository.ProductRepository
	ledger   *LotLedger
	clock    Clock
}

// NewLotUseCase construye el caso de uso.
func NewLotUseCase(lots repository.StockLotRepository, products repository.ProductRepository, clock Clock) *LotUseCase {
	clock = orSystem(clock)
	return &LotUseCase{
		lots:     lots,
		products: products,
		ledger:   NewLotLedger(lots, clock),
		clock:    clock,
	}
}

// Create registra un lote recibido. El producto debe existir en la farmacia.
func (uc *LotUseCase) Create(ctx context.Context, pharmacyID string, in dto.CreateStockLotRequest) (*dto.StockLotResponse, error) {
	if strings.TrimSpace(in.Batch) == "" || in.Quantity < 0 || in.MinQuantity < 0 || in.ExpiryDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.product(ctx, pharmacyID, in.ProductID); err != nil {
		return nil, err
	}
	purchase, err := entity.CentsFromDecimal(in.PurchasePrice)
	if err != nil || purchase < 0 {
		return nil, domain.ErrInvalidInput
	}
	sale, err := entity.CentsFromDecimal(in.SalePrice)
	if err != nil || sale < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := uc.clock()
	lot := &entity.StockLot{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		PharmacyID:    pharmacyID,
		Batch:         strings.TrimSpace(in.Batch),
		Quantity:      in.Quantity,
		MinQuantity:   in.MinQuantity,
		ExpiryDate:    entity.DateOnly(in.ExpiryDate),
		PurchasePrice: purchase,
		SalePrice:     sale,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if lot.IsExpired(now) {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.lots.Create(ctx, lot); err != nil {
		return nil, err
	}
	out := ToStockLotResponse(lot, now)
	return &out, nil
}

// GetByID obtiene un lote. (nil, nil) si no existe.
func (uc *LotUseCase) GetByID(ctx context.Context, pharmacyID, id string) (*dto.StockLotResponse, error) {
	lot, err := uc.lots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, nil
	}
	if lot.PharmacyID != pharmacyID {
		return nil, domain.ErrForbidden
	}
	out := ToStockLotResponse(lot, uc.clock())
	return &out, nil
}

// Availability proyección del ledger para un producto: cantidad disponible y lotes en orden FEFO.
func (uc *LotUseCase) Availability(ctx context.Context, pharmacyID, productID string) (*dto.AvailabilityResponse, error) {
	product, err := uc.product(ctx, pharmacyID, productID)
	if err != nil {
		return nil, err
	}
	lots, err := uc.ledger.Lots(ctx, pharmacyID, productID)
	if err != nil {
		return nil, err
	}
	today := uc.ledger.Today()
	fefo.SortFEFO(lots)
	out := &dto.AvailabilityResponse{
		ProductID:         product.ID,
		ProductName:       product.Name,
		AvailableQuantity: fefo.Available(lots, today),
		Lots:              make([]dto.StockLotResponse, 0, len(lots)),
	}
	for _, l := range lots {
		out.Lots = append(out.Lots, ToStockLotResponse(l, today))
	}
	return out, nil
}

func (uc *LotUseCase) product(ctx context.Context, pharmacyID, productID string) (*entity.Product, error) {
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.PharmacyID != pharmacyID {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// ToStockLotResponse mapea un lote a su DTO marcando si está vencido a la fecha dada.
func ToStockLotResponse(l *entity.StockLot, today time.Time) dto.StockLotResponse {
	return dto.StockLotResponse{
		ID:            l.ID,
		ProductID:     l.ProductID,
		Batch:         l.Batch,
		Quantity:      l.Quantity,
		MinQuantity:   l.MinQuantity,
		ExpiryDate:    l.ExpiryDate.Format(time.DateOnly),
		Expired:       l.IsExpired(today),
		PurchasePrice: l.PurchasePrice.Decimal(),
		SalePrice:     l.SalePrice.Decimal(),
		CreatedAt:     l.CreatedAt,
	}
}
