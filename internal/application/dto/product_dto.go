package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name                 string          `json:"name" validate:"required,min=1,max=200"`
	Description          string          `json:"description"`
	EAN                  string          `json:"ean" validate:"omitempty,numeric,min=8,max=14"`
	ActiveIngredient     string          `json:"active_ingredient"`
	Concentration        string          `json:"concentration"`
	Form                 string          `json:"form"`
	Presentation         string          `json:"presentation"`
	Laboratory           string          `json:"laboratory"`
	Category             string          `json:"category"`
	Price                decimal.Decimal `json:"price"`
	PrescriptionRequired bool            `json:"prescription_required"`
	Controlled           bool            `json:"controlled"`
	Generic              bool            `json:"generic"`
}

// UpdateProductRequest entrada para actualizar un producto. El cambio de precio no afecta ventas pasadas.
type UpdateProductRequest struct {
	Name                 *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description          *string          `json:"description"`
	ActiveIngredient     *string          `json:"active_ingredient"`
	Concentration        *string          `json:"concentration"`
	Form                 *string          `json:"form"`
	Presentation         *string          `json:"presentation"`
	Laboratory           *string          `json:"laboratory"`
	Category             *string          `json:"category"`
	Price                *decimal.Decimal `json:"price"`
	PrescriptionRequired *bool            `json:"prescription_required"`
	Controlled           *bool            `json:"controlled"`
	Generic              *bool            `json:"generic"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                   string          `json:"id"`
	PharmacyID           string          `json:"pharmacy_id"`
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	EAN                  string          `json:"ean"`
	ActiveIngredient     string          `json:"active_ingredient"`
	Concentration        string          `json:"concentration"`
	Form                 string          `json:"form"`
	Presentation         string          `json:"presentation"`
	Laboratory           string          `json:"laboratory"`
	Category             string          `json:"category"`
	Price                decimal.Decimal `json:"price"`
	PrescriptionRequired bool            `json:"prescription_required"`
	Controlled           bool            `json:"controlled"`
	Generic              bool            `json:"generic"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
