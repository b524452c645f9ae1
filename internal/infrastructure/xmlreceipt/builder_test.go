package xmlreceipt_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-farmaceutico/internal/application/sales"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/internal/infrastructure/xmlreceipt"
)

func receiptData() *sales.ReceiptData {
	at := time.Date(2024, 11, 20, 14, 30, 0, 0, time.UTC)
	sale := &entity.Sale{
		ID: "s1", PharmacyID: "ph1", SellerID: "u1", Status: entity.SaleStatusFinalized,
		PaymentMethod: entity.PaymentCash, SaleDiscount: 100, CreatedAt: at, FinalizedAt: &at,
		Items: []entity.SaleItem{{ID: "i1", ProductID: "p1", LotID: "A", Quantity: 3, UnitPrice: 1099}},
	}
	_, _ = sale.ApplyTotals()
	return &sales.ReceiptData{
		Sale:     sale,
		Pharmacy: &entity.Pharmacy{ID: "ph1", Name: "Farmácia Central", CNPJ: "12345678000190"},
		Customer: &entity.Customer{ID: "c1", Name: "Maria & Filhos", CPF: "12345678901"},
		Lines: []sales.ReceiptLine{{
			SaleItem: sale.Items[0], ProductName: "Dipirona <500mg>", Batch: "L-1",
			ExpiryDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		}},
	}
}

func TestBuildReceiptXML_Contenido(t *testing.T) {
	out, err := xmlreceipt.NewBuilder().BuildReceiptXML(receiptData())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "ComprovanteVenda", root.Tag)
	assert.Equal(t, "FINALIZADA", root.FindElement("./Venda/Status").Text())
	assert.Equal(t, "32.97", root.FindElement("./Totais/Subtotal").Text())
	assert.Equal(t, "31.97", root.FindElement("./Totais/Total").Text())
	assert.Equal(t, "Dipirona <500mg>", root.FindElement("./Itens/Item/Descricao").Text())
	assert.Equal(t, "2025-06-01", root.FindElement("./Itens/Item/Lote").SelectAttrValue("validade", ""))
	assert.NotEmpty(t, root.SelectElement("Integridade").Text())
}

func TestVerifyDigest(t *testing.T) {
	out, err := xmlreceipt.NewBuilder().BuildReceiptXML(receiptData())
	require.NoError(t, err)

	assert.NoError(t, xmlreceipt.VerifyDigest(out))

	tampered := bytes.Replace(out, []byte("<Total>31.97</Total>"), []byte("<Total>1.00</Total>"), 1)
	require.NotEqual(t, out, tampered)
	assert.ErrorIs(t, xmlreceipt.VerifyDigest(tampered), xmlreceipt.ErrIntegrity)
}

func TestVerifyDigest_SinSello(t *testing.T) {
	err := xmlreceipt.VerifyDigest([]byte(`<ComprovanteVenda versao="1.0"><Venda id="x"/></ComprovanteVenda>`))
	assert.ErrorIs(t, err, xmlreceipt.ErrIntegrity)
}

func TestBuildReceiptXML_Determinista(t *testing.T) {
	a, err := xmlreceipt.NewBuilder().BuildReceiptXML(receiptData())
	require.NoError(t, err)
	b, err := xmlreceipt.NewBuilder().BuildReceiptXML(receiptData())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
