package entity

import "time"

// StockLot es un lote fabricado de un producto con su propia fecha de vencimiento.
// Invariante: Quantity >= 0. Un lote en cero sigue visible para auditoría pero no se vende.
type StockLot struct {
	ID            string
	ProductID     string
	PharmacyID    string
	Batch         string
	Quantity      int
	MinQuantity   int
	ExpiryDate    time.Time // solo la fecha cuenta (UTC)
	PurchasePrice Cents
	SalePrice     Cents
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsExpired indica si el lote venció antes de today. Un lote que vence hoy todavía se vende.
func (l *StockLot) IsExpired(today time.Time) bool {
	return DateOnly(l.ExpiryDate).Before(DateOnly(today))
}

// Selectable indica si el lote puede aportar unidades a una venta.
func (l *StockLot) Selectable(today time.Time) bool {
	return l.Quantity > 0 && !l.IsExpired(today)
}

// IsLow indica si el lote está en o por debajo de la cantidad mínima.
func (l *StockLot) IsLow() bool {
	return l.Quantity <= l.MinQuantity
}

// DaysToExpiry días completos hasta el vencimiento (negativo si ya venció).
func (l *StockLot) DaysToExpiry(today time.Time) int {
	return int(DateOnly(l.ExpiryDate).Sub(DateOnly(today)).Hours() / 24)
}

// DateOnly trunca t al inicio del día en UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
