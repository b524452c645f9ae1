// Package xmlreceipt arma el comprovante de venda en XML (ComprovanteVenda) con un sello de integridad:
// SHA-256 del documento canónico (C14N) sin el elemento Integridade.
package xmlreceipt

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/crm-farmaceutico/internal/application/sales"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
)

const (
	Namespace      = "urn:crm-farmaceutico:comprovante:v1"
	AlgC14N        = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgSHA256      = "http://www.w3.org/2001/04/xmlenc#sha256"
	integrityTag   = "Integridade"
	timestampStyle = time.RFC3339
)

// ErrIntegrity el sello no coincide con el contenido o falta.
var ErrIntegrity = errors.New("xmlreceipt: sello de integridad inválido")

var _ sales.ReceiptXMLBuilder = (*Builder)(nil)

// Builder implementa sales.ReceiptXMLBuilder.
type Builder struct{}

// NewBuilder construye el generador XML.
func NewBuilder() *Builder { return &Builder{} }

// BuildReceiptXML genera el XML sellado.
func (b *Builder) BuildReceiptXML(data *sales.ReceiptData) ([]byte, error) {
	if data == nil || data.Sale == nil || data.Pharmacy == nil {
		return nil, fmt.Errorf("xmlreceipt: datos del comprobante incompletos")
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("ComprovanteVenda")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("versao", "1.0")

	writeSale(root, data.Sale)
	writePharmacy(root, data.Pharmacy)
	if data.Customer != nil {
		c := root.CreateElement("Cliente")
		c.CreateAttr("id", data.Customer.ID)
		c.CreateElement("Nome").SetText(data.Customer.Name)
		if data.Customer.CPF != "" {
			c.CreateElement("CPF").SetText(data.Customer.CPF)
		}
	}
	writeItems(root, data.Lines)
	writeTotals(root, data.Sale)
	if data.Sale.Notes != "" {
		root.CreateElement("Observacoes").SetText(data.Sale.Notes)
	}

	digest, err := digestOf(root)
	if err != nil {
		return nil, err
	}
	seal := root.CreateElement(integrityTag)
	seal.CreateAttr("algoritmo", AlgSHA256)
	seal.CreateAttr("canonicalizacao", AlgC14N)
	seal.SetText(digest)

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xmlreceipt: serializar: %w", err)
	}
	return out, nil
}

// VerifyDigest recalcula el sello de un comprobante y lo compara con el declarado.
func VerifyDigest(xmlBytes []byte) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return fmt.Errorf("xmlreceipt: parsear: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return ErrIntegrity
	}
	seal := root.SelectElement(integrityTag)
	if seal == nil {
		return ErrIntegrity
	}
	declared := seal.Text()
	root.RemoveChild(seal)
	actual, err := digestOf(root)
	if err != nil {
		return err
	}
	if actual != declared {
		return ErrIntegrity
	}
	return nil
}

// digestOf SHA-256 (base64) de la forma canónica del elemento raíz.
func digestOf(root *etree.Element) (string, error) {
	tmp := etree.NewDocument()
	tmp.SetRoot(root.Copy())
	raw, err := tmp.WriteToBytes()
	if err != nil {
		return "", fmt.Errorf("xmlreceipt: serializar: %w", err)
	}
	canonical, err := canonicalize(raw)
	if err != nil {
		return "", fmt.Errorf("xmlreceipt: c14n: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

func canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

func writeSale(root *etree.Element, s *entity.Sale) {
	v := root.CreateElement("Venda")
	v.CreateAttr("id", s.ID)
	v.CreateElement("Status").SetText(string(s.Status))
	v.CreateElement("FormaPagamento").SetText(string(s.PaymentMethod))
	v.CreateElement("Vendedor").SetText(s.SellerID)
	v.CreateElement("CriadaEm").SetText(s.CreatedAt.UTC().Format(timestampStyle))
	if s.FinalizedAt != nil {
		v.CreateElement("FinalizadaEm").SetText(s.FinalizedAt.UTC().Format(timestampStyle))
	}
	if s.CanceledAt != nil {
		v.CreateElement("CanceladaEm").SetText(s.CanceledAt.UTC().Format(timestampStyle))
	}
}

func writePharmacy(root *etree.Element, p *entity.Pharmacy) {
	f := root.CreateElement("Farmacia")
	f.CreateAttr("id", p.ID)
	f.CreateElement("Nome").SetText(p.Name)
	f.CreateElement("CNPJ").SetText(p.CNPJ)
	if p.Address != "" {
		f.CreateElement("Endereco").SetText(p.Address)
	}
	if p.CRF != "" {
		f.CreateElement("CRF").SetText(p.CRF)
	}
}

func writeItems(root *etree.Element, lines []sales.ReceiptLine) {
	items := root.CreateElement("Itens")
	for i, l := range lines {
		it := items.CreateElement("Item")
		it.CreateAttr("numero", strconv.Itoa(i+1))
		it.CreateElement("ProdutoId").SetText(l.ProductID)
		it.CreateElement("Descricao").SetText(l.ProductName)
		lot := it.CreateElement("Lote")
		lot.CreateAttr("id", l.LotID)
		if l.Batch != "" {
			lot.CreateAttr("numero", l.Batch)
		}
		if !l.ExpiryDate.IsZero() {
			lot.CreateAttr("validade", l.ExpiryDate.Format(time.DateOnly))
		}
		it.CreateElement("Quantidade").SetText(strconv.Itoa(l.Quantity))
		it.CreateElement("ValorUnitario").SetText(money(l.UnitPrice))
		it.CreateElement("Desconto").SetText(money(l.Discount))
		it.CreateElement("ValorTotal").SetText(money(l.Gross() - l.Discount))
	}
}

func writeTotals(root *etree.Element, s *entity.Sale) {
	t := root.CreateElement("Totais")
	t.CreateElement("Subtotal").SetText(money(s.Subtotal))
	t.CreateElement("DescontoVenda").SetText(money(s.SaleDiscount))
	t.CreateElement("Descontos").SetText(money(s.DiscountTotal))
	t.CreateElement("Total").SetText(money(s.Total))
}

func money(c entity.Cents) string {
	return c.Decimal().StringFixed(2)
}
