package entity

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-farmaceutico/internal/domain"
)

// Cents monto en centavos de real. Toda la aritmética de ventas se hace en enteros;
// decimal solo aparece en los bordes (DTOs, columnas NUMERIC).
type Cents int64

var (
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// CentsFromDecimal convierte un monto decimal a centavos. Rechaza fracciones de centavo
// y montos que no entran en int64.
func CentsFromDecimal(d decimal.Decimal) (Cents, error) {
	shifted := d.Shift(2)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, domain.ErrInvalidInput
	}
	if shifted.GreaterThan(maxCents) || shifted.LessThan(minCents) {
		return 0, domain.ErrInvalidInput
	}
	return Cents(shifted.IntPart()), nil
}

// Decimal devuelve el monto con dos decimales.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Times multiplica por una cantidad de unidades. Falla con domain.ErrInvalidInput si desborda.
func (c Cents) Times(qty int) (Cents, error) {
	if qty < 0 {
		return 0, domain.ErrInvalidInput
	}
	if c == 0 || qty == 0 {
		return 0, nil
	}
	p := c * Cents(qty)
	if p/Cents(qty) != c {
		return 0, domain.ErrInvalidInput
	}
	return p, nil
}

// Plus suma dos montos. Falla con domain.ErrInvalidInput si desborda.
func (c Cents) Plus(o Cents) (Cents, error) {
	s := c + o
	if (o > 0 && s < c) || (o < 0 && s > c) {
		return 0, domain.ErrInvalidInput
	}
	return s, nil
}
