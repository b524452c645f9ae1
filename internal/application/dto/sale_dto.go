package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea pedida. LotID (estoqueId) fija el lote; vacío = selección FEFO.
// UnitPrice vacío toma el precio de venta del lote (o el del producto).
type SaleItemRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	LotID     string           `json:"lot_id,omitempty"`
	Quantity  int              `json:"quantity" validate:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Discount  decimal.Decimal  `json:"discount"`
}

// CreateSaleRequest body para POST /sales (CreateVendaDto). Farmacia y vendedor salen del token.
type CreateSaleRequest struct {
	CustomerID    string            `json:"customer_id,omitempty"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=DINHEIRO CARTAO_DEBITO CARTAO_CREDITO PIX CONVENIO"`
	Discount      decimal.Decimal   `json:"discount"`
	Notes         string            `json:"notes,omitempty" validate:"max=500"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OpenDraftRequest body para POST /sales/drafts.
type OpenDraftRequest struct {
	CustomerID    string          `json:"customer_id,omitempty"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=DINHEIRO CARTAO_DEBITO CARTAO_CREDITO PIX CONVENIO"`
	Discount      decimal.Decimal `json:"discount"`
	Notes         string          `json:"notes,omitempty" validate:"max=500"`
}

// SaleItemResponse línea de venta.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	LotID     string          `json:"lot_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
}

// TotalsResponse totales calculados en centavos y presentados con dos decimales.
type TotalsResponse struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// SaleResponse venta confirmada o cancelada.
type SaleResponse struct {
	ID            string             `json:"id"`
	PharmacyID    string             `json:"pharmacy_id"`
	SellerID      string             `json:"seller_id"`
	CustomerID    string             `json:"customer_id,omitempty"`
	Status        string             `json:"status"`
	PaymentMethod string             `json:"payment_method"`
	Discount      decimal.Decimal    `json:"discount"`
	Totals        TotalsResponse     `json:"totals"`
	Notes         string             `json:"notes,omitempty"`
	Items         []SaleItemResponse `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
	FinalizedAt   *time.Time         `json:"finalized_at,omitempty"`
	CanceledAt    *time.Time         `json:"canceled_at,omitempty"`
}

// DraftResponse venta pendiente (en armado) con totales en vivo.
type DraftResponse struct {
	ID            string             `json:"id"`
	Status        string             `json:"status"`
	CustomerID    string             `json:"customer_id,omitempty"`
	PaymentMethod string             `json:"payment_method"`
	Discount      decimal.Decimal    `json:"discount"`
	Totals        TotalsResponse     `json:"totals"`
	Items         []SaleItemResponse `json:"items"`
	ExpiresAt     time.Time          `json:"expires_at"`
}

// SaleListResponse historial paginado.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
