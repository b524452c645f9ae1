package sales

import (
	"context"
	"time"

	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
)

// SaleTxRunner ejecuta fn como unidad atómica con los lotes indicados bloqueados.
// Los lotes se bloquean en orden ascendente de ID para evitar deadlocks entre ventas.
// Con PostgreSQL es una transacción (SELECT ... FOR UPDATE); en memoria, mutex por lote.
type SaleTxRunner interface {
	RunSale(ctx context.Context, lotIDs []string, fn func(
		lots repository.StockLotRepository,
		sales repository.SaleRepository,
	) error) error
}

// DraftStore guarda las ventas pendientes (en armado) entre llamadas HTTP.
type DraftStore interface {
	// Save guarda solo si la versión almacenada sigue siendo draft.Version (0 = no existe)
	// y deja draft.Version con la nueva versión. Si no, domain.ErrDraftConflict.
	Save(ctx context.Context, draft *Draft, ttl time.Duration) error
	// Get devuelve (nil, nil) si el borrador no existe o expiró.
	Get(ctx context.Context, id string) (*Draft, error)
	Delete(ctx context.Context, id string) error
}

// ReceiptPDFGenerator genera el comprobante de venta en PDF.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, data *ReceiptData) ([]byte, error)
}

// ReceiptXMLBuilder genera el comprobante de venta en XML con sello de integridad.
type ReceiptXMLBuilder interface {
	BuildReceiptXML(data *ReceiptData) ([]byte, error)
}
