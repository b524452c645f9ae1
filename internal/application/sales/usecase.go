package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-farmaceutico/internal/application/dto"
	"github.com/jhoicas/crm-farmaceutico/internal/application/inventory"
	"github.com/jhoicas/crm-farmaceutico/internal/domain"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
	"github.com/jhoicas/crm-farmaceutico/pkg/logger"
)

const defaultDraftTTL = 2 * time.Hour

// SaleUseCase orquesta el punto de venta: borradores, confirmación, cancelación y consultas.
type SaleUseCase struct {
	builder   *Builder
	committer *Committer
	drafts    DraftStore
	sales     repository.SaleRepository
	customers repository.CustomerRepository
	clock     inventory.Clock
	draftTTL  time.Duration
	log       *logger.Logger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	builder *Builder,
	committer *Committer,
	drafts DraftStore,
	sales repository.SaleRepository,
	customers repository.CustomerRepository,
	clock inventory.Clock,
	draftTTL time.Duration,
) *SaleUseCase {
	if clock == nil {
		clock = inventory.SystemClock
	}
	if draftTTL <= 0 {
		draftTTL = defaultDraftTTL
	}
	log := logger.Nop()
	if committer != nil {
		log = committer.log
	}
	return &SaleUseCase{
		builder:   builder,
		committer: committer,
		drafts:    drafts,
		sales:     sales,
		customers: customers,
		clock:     clock,
		draftTTL:  draftTTL,
		log:       log,
	}
}

// CreateSale arma y confirma en una sola llamada (POST /sales).
func (uc *SaleUseCase) CreateSale(ctx context.Context, pharmacyID, sellerID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	d, err := uc.newDraft(ctx, pharmacyID, sellerID, in.CustomerID, in.PaymentMethod, in.Discount, in.Notes)
	if err != nil {
		return nil, err
	}
	for _, item := range in.Items {
		input, err := toItemInput(item)
		if err != nil {
			return nil, err
		}
		if _, err := uc.builder.AddItem(ctx, d, input); err != nil {
			return nil, err
		}
	}
	sale, err := uc.committer.Commit(ctx, d)
	if err != nil {
		return nil, err
	}
	return ToSaleResponse(sale), nil
}

// OpenDraft abre una venta pendiente vacía.
func (uc *SaleUseCase) OpenDraft(ctx context.Context, pharmacyID, sellerID string, in dto.OpenDraftRequest) (*dto.DraftResponse, error) {
	d, err := uc.newDraft(ctx, pharmacyID, sellerID, in.CustomerID, in.PaymentMethod, in.Discount, in.Notes)
	if err != nil {
		return nil, err
	}
	if err := uc.drafts.Save(ctx, d, uc.draftTTL); err != nil {
		return nil, fmt.Errorf("guardar borrador: %w", err)
	}
	return ToDraftResponse(d), nil
}

// GetDraft devuelve el borrador con totales en vivo. (nil, nil) si no existe o expiró.
func (uc *SaleUseCase) GetDraft(ctx context.Context, pharmacyID, draftID string) (*dto.DraftResponse, error) {
	d, err := uc.draft(ctx, pharmacyID, draftID)
	if err != nil || d == nil {
		return nil, err
	}
	return ToDraftResponse(d), nil
}

// AddDraftItem agrega un ítem al borrador (proyección FEFO de solo lectura).
func (uc *SaleUseCase) AddDraftItem(ctx context.Context, pharmacyID, draftID string, in dto.SaleItemRequest) (*dto.DraftResponse, error) {
	d, err := uc.requireDraft(ctx, pharmacyID, draftID)
	if err != nil {
		return nil, err
	}
	input, err := toItemInput(in)
	if err != nil {
		return nil, err
	}
	if _, err := uc.builder.AddItem(ctx, d, input); err != nil {
		return nil, err
	}
	if err := uc.drafts.Save(ctx, d, uc.draftTTL); err != nil {
		return nil, fmt.Errorf("guardar borrador: %w", err)
	}
	return ToDraftResponse(d), nil
}

// RemoveDraftItem quita una línea del borrador.
func (uc *SaleUseCase) RemoveDraftItem(ctx context.Context, pharmacyID, draftID, lineID string) (*dto.DraftResponse, error) {
	d, err := uc.requireDraft(ctx, pharmacyID, draftID)
	if err != nil {
		return nil, err
	}
	if err := uc.builder.RemoveItem(d, lineID); err != nil {
		return nil, err
	}
	if err := uc.drafts.Save(ctx, d, uc.draftTTL); err != nil {
		return nil, fmt.Errorf("guardar borrador: %w", err)
	}
	return ToDraftResponse(d), nil
}

// CommitDraft confirma el borrador. Si hay conflicto de stock el borrador se conserva para re-armarlo.
func (uc *SaleUseCase) CommitDraft(ctx context.Context, pharmacyID, draftID string) (*dto.SaleResponse, error) {
	d, err := uc.requireDraft(ctx, pharmacyID, draftID)
	if err != nil {
		return nil, err
	}
	sale, err := uc.committer.Commit(ctx, d)
	if err != nil {
		return nil, err
	}
	// La venta ya está confirmada: un borrador que sobreviva queda bloqueado por requireDraft y expira solo.
	uc.dropDraft(ctx, draftID)
	return ToSaleResponse(sale), nil
}

// Cancel compensa una venta confirmada o descarta un borrador (PENDENTE). Idempotente.
// La venta persistida manda: un borrador con el mismo ID nunca oculta una venta FINALIZADA.
func (uc *SaleUseCase) Cancel(ctx context.Context, pharmacyID, id string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener venta: %w", err)
	}
	if sale != nil {
		return uc.cancelSale(ctx, pharmacyID, id)
	}
	d, err := uc.draft(ctx, pharmacyID, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.drafts.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("descartar borrador: %w", err)
	}
	// Una confirmación concurrente pudo ganarle al descarte.
	if sale, err := uc.sales.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("obtener venta: %w", err)
	} else if sale != nil {
		return uc.cancelSale(ctx, pharmacyID, id)
	}
	return discardedDraftResponse(d, uc.clock()), nil
}

func (uc *SaleUseCase) cancelSale(ctx context.Context, pharmacyID, id string) (*dto.SaleResponse, error) {
	sale, err := uc.committer.Cancel(ctx, pharmacyID, id)
	if err != nil {
		return nil, err
	}
	uc.dropDraft(ctx, id)
	return ToSaleResponse(sale), nil
}

// dropDraft borra un borrador ya confirmado. Si falla solo se registra: la venta es la fuente de verdad.
func (uc *SaleUseCase) dropDraft(ctx context.Context, id string) {
	if err := uc.drafts.Delete(ctx, id); err != nil {
		uc.log.Warn().Err(err).Str("draft_id", id).Msg("no se pudo borrar el borrador confirmado")
	}
}

// GetByID obtiene una venta confirmada o cancelada. (nil, nil) si no existe.
func (uc *SaleUseCase) GetByID(ctx context.Context, pharmacyID, id string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, nil
	}
	if sale.PharmacyID != pharmacyID {
		return nil, domain.ErrForbidden
	}
	return ToSaleResponse(sale), nil
}

// List historial de ventas de la farmacia, más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context, pharmacyID string, limit, offset int) (*dto.SaleListResponse, error) {
	list, err := uc.sales.ListByPharmacy(ctx, pharmacyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *ToSaleResponse(s))
	}
	return &dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

func (uc *SaleUseCase) newDraft(
	ctx context.Context,
	pharmacyID, sellerID, customerID, payment string,
	discount decimal.Decimal,
	notes string,
) (*Draft, error) {
	if pharmacyID == "" || sellerID == "" {
		return nil, domain.ErrInvalidInput
	}
	method, err := entity.ParsePaymentMethod(payment)
	if err != nil {
		return nil, err
	}
	saleDiscount, err := entity.CentsFromDecimal(discount)
	if err != nil || saleDiscount < 0 {
		return nil, domain.ErrInvalidInput
	}
	if customerID != "" {
		customer, err := uc.customers.GetByID(ctx, customerID)
		if err != nil {
			return nil, fmt.Errorf("obtener cliente: %w", err)
		}
		if customer == nil || customer.PharmacyID != pharmacyID {
			return nil, domain.ErrNotFound
		}
	}
	now := uc.clock()
	return &Draft{
		ID:            uuid.New().String(),
		PharmacyID:    pharmacyID,
		SellerID:      sellerID,
		CustomerID:    customerID,
		PaymentMethod: method,
		SaleDiscount:  saleDiscount,
		Notes:         notes,
		CreatedAt:     now,
		ExpiresAt:     now.Add(uc.draftTTL),
	}, nil
}

func (uc *SaleUseCase) draft(ctx context.Context, pharmacyID, id string) (*Draft, error) {
	d, err := uc.drafts.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener borrador: %w", err)
	}
	if d == nil || d.PharmacyID != pharmacyID {
		return nil, nil
	}
	return d, nil
}

func (uc *SaleUseCase) requireDraft(ctx context.Context, pharmacyID, id string) (*Draft, error) {
	d, err := uc.draft(ctx, pharmacyID, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener venta: %w", err)
	}
	if sale != nil {
		uc.dropDraft(ctx, id)
		return nil, &domain.InvalidSaleStateError{SaleID: id, From: string(sale.Status), To: string(entity.SaleStatusPending)}
	}
	// Cada modificación renueva el TTL.
	d.ExpiresAt = uc.clock().Add(uc.draftTTL)
	return d, nil
}

func toItemInput(in dto.SaleItemRequest) (ItemInput, error) {
	discount, err := entity.CentsFromDecimal(in.Discount)
	if err != nil {
		return ItemInput{}, err
	}
	out := ItemInput{
		ProductID: in.ProductID,
		LotID:     in.LotID,
		Quantity:  in.Quantity,
		Discount:  discount,
	}
	if in.UnitPrice != nil {
		price, err := entity.CentsFromDecimal(*in.UnitPrice)
		if err != nil {
			return ItemInput{}, err
		}
		out.UnitPrice = &price
	}
	return out, nil
}

// ToSaleResponse mapea una venta a su DTO.
func ToSaleResponse(s *entity.Sale) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:            s.ID,
		PharmacyID:    s.PharmacyID,
		SellerID:      s.SellerID,
		CustomerID:    s.CustomerID,
		Status:        string(s.Status),
		PaymentMethod: string(s.PaymentMethod),
		Discount:      s.SaleDiscount.Decimal(),
		Totals: toTotalsResponse(entity.Totals{
			Subtotal: s.Subtotal, DiscountTotal: s.DiscountTotal, GrandTotal: s.Total,
		}),
		Notes:       s.Notes,
		Items:       toItemResponses(s.Items),
		CreatedAt:   s.CreatedAt,
		FinalizedAt: s.FinalizedAt,
		CanceledAt:  s.CanceledAt,
	}
}

// ToDraftResponse mapea un borrador a su DTO con totales en vivo.
func ToDraftResponse(d *Draft) *dto.DraftResponse {
	return &dto.DraftResponse{
		ID:            d.ID,
		Status:        string(entity.SaleStatusPending),
		CustomerID:    d.CustomerID,
		PaymentMethod: string(d.PaymentMethod),
		Discount:      d.SaleDiscount.Decimal(),
		Totals:        toTotalsResponse(d.Totals()),
		Items:         toItemResponses(d.Lines),
		ExpiresAt:     d.ExpiresAt,
	}
}

func discardedDraftResponse(d *Draft, at time.Time) *dto.SaleResponse {
	t := d.Totals()
	return &dto.SaleResponse{
		ID:            d.ID,
		PharmacyID:    d.PharmacyID,
		SellerID:      d.SellerID,
		CustomerID:    d.CustomerID,
		Status:        string(entity.SaleStatusCanceled),
		PaymentMethod: string(d.PaymentMethod),
		Discount:      d.SaleDiscount.Decimal(),
		Totals:        toTotalsResponse(t),
		Notes:         d.Notes,
		Items:         toItemResponses(d.Lines),
		CreatedAt:     d.CreatedAt,
		CanceledAt:    &at,
	}
}

func toTotalsResponse(t entity.Totals) dto.TotalsResponse {
	return dto.TotalsResponse{
		Subtotal:      t.Subtotal.Decimal(),
		DiscountTotal: t.DiscountTotal.Decimal(),
		GrandTotal:    t.GrandTotal.Decimal(),
	}
}

func toItemResponses(items []entity.SaleItem) []dto.SaleItemResponse {
	out := make([]dto.SaleItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			LotID:     it.LotID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.Decimal(),
			Discount:  it.Discount.Decimal(),
			Total:     (it.Gross() - it.Discount).Decimal(),
		})
	}
	return out
}
