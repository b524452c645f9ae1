package entity

import "time"

// Product representa un medicamento o artículo del catálogo de la farmacia.
// El stock vive en los lotes (StockLot); aquí solo hay metadatos y precio de lista.
type Product struct {
	ID                   string
	PharmacyID           string
	Name                 string
	Description          string
	EAN                  string // código de barras, único por farmacia
	ActiveIngredient     string
	Concentration        string
	Form                 string // comprimido, solución, crema...
	Presentation         string
	Laboratory           string
	Category             string
	Price                Cents
	PrescriptionRequired bool
	Controlled           bool
	Generic              bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
