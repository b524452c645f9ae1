package sales

import (
	"sort"
	"time"

	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
)

// Draft venta PENDENTE en armado. No reserva stock: solo guarda las líneas proyectadas.
// Su ID pasa a ser el ID de la venta al confirmarse.
type Draft struct {
	ID            string               `json:"id"`
	PharmacyID    string               `json:"pharmacy_id"`
	SellerID      string               `json:"seller_id"`
	CustomerID    string               `json:"customer_id,omitempty"`
	PaymentMethod entity.PaymentMethod `json:"payment_method"`
	SaleDiscount  entity.Cents         `json:"sale_discount"`
	Notes         string               `json:"notes,omitempty"`
	Lines         []entity.SaleItem    `json:"lines"`
	CreatedAt     time.Time            `json:"created_at"`
	ExpiresAt     time.Time            `json:"expires_at"`
	// Version la incrementa el store en cada guardado; 0 = nunca guardado.
	Version int64 `json:"version"`
}

// Totals totales en vivo del borrador.
func (d *Draft) Totals() entity.Totals {
	return entity.ComputeTotals(d.Lines, d.SaleDiscount)
}

// LotIDs lotes distintos referenciados por las líneas, en orden ascendente.
func (d *Draft) LotIDs() []string {
	return lotIDs(d.Lines)
}

// stagedByLot cantidades ya comprometidas en el borrador, por lote.
func (d *Draft) stagedByLot() map[string]int {
	staged := make(map[string]int, len(d.Lines))
	for _, l := range d.Lines {
		staged[l.LotID] += l.Quantity
	}
	return staged
}

func lotIDs(items []entity.SaleItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.LotID]; ok {
			continue
		}
		seen[it.LotID] = struct{}{}
		ids = append(ids, it.LotID)
	}
	sort.Strings(ids)
	return ids
}
