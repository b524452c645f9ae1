package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrProductNotFound   = errors.New("producto no encontrado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrStockConflict     = errors.New("conflicto de stock al confirmar la venta")
	ErrNegativeStock     = errors.New("el stock del lote quedaría negativo")
	ErrInvalidSaleState  = errors.New("transición de estado de venta inválida")
	ErrDraftConflict     = errors.New("el borrador fue modificado por otra operación")
)

// InsufficientStockError indica que los lotes vigentes no alcanzan para la cantidad pedida.
type InsufficientStockError struct {
	ProductID string
	LotID     string // vacío si la selección fue FEFO sobre todos los lotes
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	if e.LotID != "" {
		return fmt.Sprintf("stock insuficiente en lote %s: pedido %d, disponible %d", e.LotID, e.Requested, e.Available)
	}
	return fmt.Sprintf("stock insuficiente para producto %s: pedido %d, disponible %d", e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// StockConflictError se produce al confirmar una venta cuyo stock cambió desde que se armó.
// Es reintentable: el vendedor puede volver a armar la venta contra el stock actual.
type StockConflictError struct {
	LineID    string
	LotID     string
	Requested int
	Available int
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("conflicto de stock en línea %s (lote %s): pedido %d, disponible %d",
		e.LineID, e.LotID, e.Requested, e.Available)
}

func (e *StockConflictError) Unwrap() error { return ErrStockConflict }

// NegativeStockError es una violación de invariante: nunca debe llegar al usuario como error de negocio.
type NegativeStockError struct {
	LotID    string
	Quantity int
	Delta    int
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("lote %s: cantidad %d con ajuste %d quedaría negativa", e.LotID, e.Quantity, e.Delta)
}

func (e *NegativeStockError) Unwrap() error { return ErrNegativeStock }

// InvalidSaleStateError transición no permitida en la máquina de estados de la venta.
type InvalidSaleStateError struct {
	SaleID string
	From   string
	To     string
}

func (e *InvalidSaleStateError) Error() string {
	return fmt.Sprintf("venta %s: no se puede pasar de %s a %s", e.SaleID, e.From, e.To)
}

func (e *InvalidSaleStateError) Unwrap() error { return ErrInvalidSaleState }

// IsRetryable indica si el llamador puede reintentar tras volver a armar la venta.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStockConflict) || errors.Is(err, ErrDraftConflict)
}
