package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStockLotRequest body para POST /inventory/lots (ingreso de un lote).
type CreateStockLotRequest struct {
	ProductID     string          `json:"product_id" validate:"required,uuid"`
	Batch         string          `json:"batch" validate:"required,max=60"`
	Quantity      int             `json:"quantity" validate:"min=0"`
	MinQuantity   int             `json:"min_quantity" validate:"min=0"`
	ExpiryDate    time.Time       `json:"expiry_date" validate:"required"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
}

// StockLotResponse lote en respuestas.
type StockLotResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Batch         string          `json:"batch"`
	Quantity      int             `json:"quantity"`
	MinQuantity   int             `json:"min_quantity"`
	ExpiryDate    string          `json:"expiry_date"` // YYYY-MM-DD
	Expired       bool            `json:"expired"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	CreatedAt     time.Time       `json:"created_at"`
}

// AvailabilityResponse respuesta de GET /inventory/:productId.
// Lots va en orden FEFO e incluye lotes vencidos o en cero (marcados) para auditoría.
type AvailabilityResponse struct {
	ProductID         string             `json:"product_id"`
	ProductName       string             `json:"product_name"`
	AvailableQuantity int                `json:"available_quantity"`
	Lots              []StockLotResponse `json:"lots"`
}

// ExpiryAlertDTO lote que vence dentro del umbral configurado.
type ExpiryAlertDTO struct {
	PharmacyID  string `json:"pharmacy_id"`
	LotID       string `json:"lot_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Batch       string `json:"batch"`
	Quantity    int    `json:"quantity"`
	ExpiryDate  string `json:"expiry_date"`
	DaysLeft    int    `json:"days_left"`
}

// LowStockDTO lote en o por debajo de su cantidad mínima.
type LowStockDTO struct {
	LotID       string `json:"lot_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Batch       string `json:"batch"`
	Quantity    int    `json:"quantity"`
	MinQuantity int    `json:"min_quantity"`
}
