package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/crm-farmaceutico/internal/domain"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
)

// ReceiptLine línea del comprobante enriquecida con producto y lote.
type ReceiptLine struct {
	entity.SaleItem
	ProductName string
	Batch       string
	ExpiryDate  time.Time
}

// ReceiptData todo lo necesario para emitir el comprobante de una venta.
type ReceiptData struct {
	Sale     *entity.Sale
	Pharmacy *entity.Pharmacy
	Customer *entity.Customer // nil si la venta no tiene cliente
	Lines    []ReceiptLine
}

// ReceiptUseCase emite comprobantes (PDF y XML) de ventas confirmadas o canceladas.
type ReceiptUseCase struct {
	sales      repository.SaleRepository
	pharmacies repository.PharmacyRepository
	customers  repository.CustomerRepository
	products   repository.ProductRepository
	lots       repository.StockLotRepository
	pdf        ReceiptPDFGenerator
	xml        ReceiptXMLBuilder
}

// NewReceiptUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReceiptUseCase(
	sales repository.SaleRepository,
	pharmacies repository.PharmacyRepository,
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	lots repository.StockLotRepository,
	pdf ReceiptPDFGenerator,
	xml ReceiptXMLBuilder,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		sales:      sales,
		pharmacies: pharmacies,
		customers:  customers,
		products:   products,
		lots:       lots,
		pdf:        pdf,
		xml:        xml,
	}
}

// PDF genera el comprobante en PDF. Devuelve bytes y nombre de archivo sugerido.
func (uc *ReceiptUseCase) PDF(ctx context.Context, pharmacyID, saleID string) ([]byte, string, error) {
	data, err := uc.load(ctx, pharmacyID, saleID)
	if err != nil {
		return nil, "", err
	}
	out, err := uc.pdf.GenerateReceiptPDF(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generar pdf: %w", err)
	}
	return out, "comprovante_" + shortID(saleID) + ".pdf", nil
}

// XML genera el comprobante en XML con sello de integridad.
func (uc *ReceiptUseCase) XML(ctx context.Context, pharmacyID, saleID string) ([]byte, string, error) {
	data, err := uc.load(ctx, pharmacyID, saleID)
	if err != nil {
		return nil, "", err
	}
	out, err := uc.xml.BuildReceiptXML(data)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generar xml: %w", err)
	}
	return out, "comprovante_" + shortID(saleID) + ".xml", nil
}

func (uc *ReceiptUseCase) load(ctx context.Context, pharmacyID, saleID string) (*ReceiptData, error) {
	sale, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("comprobante: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.PharmacyID != pharmacyID {
		return nil, domain.ErrForbidden
	}
	pharmacy, err := uc.pharmacies.GetByID(ctx, pharmacyID)
	if err != nil {
		return nil, fmt.Errorf("comprobante: obtener farmacia: %w", err)
	}
	if pharmacy == nil {
		pharmacy = &entity.Pharmacy{ID: pharmacyID}
	}
	data := &ReceiptData{Sale: sale, Pharmacy: pharmacy, Lines: make([]ReceiptLine, 0, len(sale.Items))}
	if sale.CustomerID != "" {
		if c, err := uc.customers.GetByID(ctx, sale.CustomerID); err == nil {
			data.Customer = c
		}
	}
	for _, it := range sale.Items {
		line := ReceiptLine{SaleItem: it, ProductName: "Produto " + shortID(it.ProductID)}
		if p, err := uc.products.GetByID(ctx, it.ProductID); err == nil && p != nil {
			line.ProductName = p.Name
		}
		if l, err := uc.lots.GetByID(ctx, it.LotID); err == nil && l != nil {
			line.Batch = l.Batch
			line.ExpiryDate = l.ExpiryDate
		}
		data.Lines = append(data.Lines, line)
	}
	return data, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
