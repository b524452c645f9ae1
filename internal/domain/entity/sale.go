package entity

import (
	"time"

	"github.com/jhoicas/crm-farmaceutico/internal/domain"
)

// SaleStatus estado de la venta. Valores en portugués porque son los del contrato HTTP.
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "PENDENTE"
	SaleStatusFinalized SaleStatus = "FINALIZADA"
	SaleStatusCanceled  SaleStatus = "CANCELADA"
)

// CanTransitionTo: PENDENTE -> FINALIZADA | CANCELADA, FINALIZADA -> CANCELADA. Nada más.
func (s SaleStatus) CanTransitionTo(next SaleStatus) bool {
	switch s {
	case SaleStatusPending:
		return next == SaleStatusFinalized || next == SaleStatusCanceled
	case SaleStatusFinalized:
		return next == SaleStatusCanceled
	default:
		return false
	}
}

// PaymentMethod forma de pago. Conjunto cerrado: agregar una forma nueva implica tocar Valid.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "DINHEIRO"
	PaymentDebitCard  PaymentMethod = "CARTAO_DEBITO"
	PaymentCreditCard PaymentMethod = "CARTAO_CREDITO"
	PaymentPix        PaymentMethod = "PIX"
	PaymentInsurance  PaymentMethod = "CONVENIO"
)

// Valid indica si la forma de pago pertenece al conjunto soportado.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentDebitCard, PaymentCreditCard, PaymentPix, PaymentInsurance:
		return true
	}
	return false
}

// ParsePaymentMethod valida un valor recibido por la API.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	p := PaymentMethod(s)
	if !p.Valid() {
		return "", domain.ErrInvalidInput
	}
	return p, nil
}

// SaleItem línea de venta: un producto tomado de exactamente un lote.
// UnitPrice es una foto del precio al momento de la venta.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	LotID     string
	Quantity  int
	UnitPrice Cents
	Discount  Cents
}

// Gross importe bruto de la línea (sin descuento). Supone montos ya validados con CheckTotals.
func (i SaleItem) Gross() Cents {
	return i.UnitPrice * Cents(i.Quantity)
}

// Sale venta de una farmacia. Terminal una vez FINALIZADA o CANCELADA salvo la compensación.
type Sale struct {
	ID            string
	PharmacyID    string
	SellerID      string
	CustomerID    string // vacío = venta sin cliente
	Status        SaleStatus
	PaymentMethod PaymentMethod
	SaleDiscount  Cents // descuento a nivel de venta, además de los de línea
	Subtotal      Cents
	DiscountTotal Cents
	Total         Cents
	Notes         string
	Items         []SaleItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
	FinalizedAt   *time.Time
	CanceledAt    *time.Time
}

// Transition aplica un cambio de estado validado por la máquina de estados.
func (s *Sale) Transition(next SaleStatus, at time.Time) error {
	if !s.Status.CanTransitionTo(next) {
		return &domain.InvalidSaleStateError{SaleID: s.ID, From: string(s.Status), To: string(next)}
	}
	s.Status = next
	s.UpdatedAt = at
	switch next {
	case SaleStatusFinalized:
		s.FinalizedAt = &at
	case SaleStatusCanceled:
		s.CanceledAt = &at
	}
	return nil
}

// ApplyTotals recalcula y guarda los totales de la venta. Falla si algún monto desborda.
func (s *Sale) ApplyTotals() (Totals, error) {
	t, err := CheckTotals(s.Items, s.SaleDiscount)
	if err != nil {
		return Totals{}, err
	}
	s.Subtotal = t.Subtotal
	s.DiscountTotal = t.DiscountTotal
	s.Total = t.GrandTotal
	return t, nil
}

// Totals resultado del cálculo de una venta, en centavos.
type Totals struct {
	Subtotal      Cents
	DiscountTotal Cents
	GrandTotal    Cents
}

// ComputeTotals: subtotal = Σ qty×precio; descuentos = Σ línea + venta; total = subtotal - descuentos, mínimo 0.
func ComputeTotals(items []SaleItem, saleDiscount Cents) Totals {
	var t Totals
	for _, it := range items {
		t.Subtotal += it.Gross()
		t.DiscountTotal += it.Discount
	}
	t.DiscountTotal += saleDiscount
	t.GrandTotal = t.Subtotal - t.DiscountTotal
	if t.GrandTotal < 0 {
		t.GrandTotal = 0
	}
	return t
}

// CheckTotals calcula como ComputeTotals pero con aritmética verificada:
// devuelve domain.ErrInvalidInput si un importe o una suma no entra en int64.
func CheckTotals(items []SaleItem, saleDiscount Cents) (Totals, error) {
	var (
		t   Totals
		err error
	)
	for _, it := range items {
		gross, err := it.UnitPrice.Times(it.Quantity)
		if err != nil {
			return Totals{}, err
		}
		if t.Subtotal, err = t.Subtotal.Plus(gross); err != nil {
			return Totals{}, err
		}
		if t.DiscountTotal, err = t.DiscountTotal.Plus(it.Discount); err != nil {
			return Totals{}, err
		}
	}
	if t.DiscountTotal, err = t.DiscountTotal.Plus(saleDiscount); err != nil {
		return Totals{}, err
	}
	t.GrandTotal = t.Subtotal - t.DiscountTotal
	if t.GrandTotal < 0 {
		t.GrandTotal = 0
	}
	return t, nil
}
