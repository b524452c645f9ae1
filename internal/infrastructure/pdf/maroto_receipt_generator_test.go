package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-farmaceutico/internal/application/sales"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
)

func receiptData() *sales.ReceiptData {
	at := time.Date(2024, 11, 20, 14, 30, 0, 0, time.UTC)
	sale := &entity.Sale{
		ID: "0f8e2d9c-5b1a-4c3e-9d7f-2a6b8c4e1f00", PharmacyID: "ph1", Status: entity.SaleStatusFinalized,
		PaymentMethod: entity.PaymentPix, Notes: "Retirar receita na próxima visita",
		CreatedAt: at, FinalizedAt: &at,
		Items: []entity.SaleItem{{ID: "i1", ProductID: "p1", LotID: "A", Quantity: 3, UnitPrice: 1099}},
	}
	sale.SaleDiscount = 100
	_, _ = sale.ApplyTotals()
	return &sales.ReceiptData{
		Sale:     sale,
		Pharmacy: &entity.Pharmacy{ID: "ph1", Name: "Farmácia Central", CNPJ: "12345678000190", CRF: "SP-12345"},
		Lines: []sales.ReceiptLine{{
			SaleItem: sale.Items[0], ProductName: "Dipirona 500mg", Batch: "L2024-11",
			ExpiryDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		}},
	}
}

func TestGenerateReceiptPDF(t *testing.T) {
	out, err := NewMarotoReceiptGenerator().GenerateReceiptPDF(context.Background(), receiptData())

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateReceiptPDF_SinCliente(t *testing.T) {
	data := receiptData()
	data.Customer = nil
	data.Sale.Status = entity.SaleStatusCanceled

	out, err := NewMarotoReceiptGenerator().GenerateReceiptPDF(context.Background(), data)

	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateReceiptPDF_DatosIncompletos(t *testing.T) {
	_, err := NewMarotoReceiptGenerator().GenerateReceiptPDF(context.Background(), &sales.ReceiptData{})
	assert.Error(t, err)
}

func TestFormatDocumentos(t *testing.T) {
	assert.Equal(t, "12.345.678/0001-90", formatCNPJ("12345678000190"))
	assert.Equal(t, "123.456.789-01", formatCPF("12345678901"))
	assert.Equal(t, "-", formatCPF(""))
	assert.Equal(t, []string{"abc", "de"}, splitEvery("abcde", 3))
}
