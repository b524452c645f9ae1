package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/crm-farmaceutico/internal/application/analytics"
	"github.com/jhoicas/crm-farmaceutico/internal/application/dto"
	"github.com/jhoicas/crm-farmaceutico/internal/application/inventory"
	"github.com/jhoicas/crm-farmaceutico/internal/application/sales"
	"github.com/jhoicas/crm-farmaceutico/internal/application/usecase"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	"github.com/jhoicas/crm-farmaceutico/internal/infrastructure/memory"
	"github.com/jhoicas/crm-farmaceutico/internal/infrastructure/pdf"
	"github.com/jhoicas/crm-farmaceutico/internal/infrastructure/xmlreceipt"
	apphttp "github.com/jhoicas/crm-farmaceutico/internal/interfaces/http"
	"github.com/jhoicas/crm-farmaceutico/pkg/logger"
	pkgjwt "github.com/jhoicas/crm-farmaceutico/pkg/jwt"
)

const apiPharmacy = "ph-central"

var apiNow = time.Date(2024, 11, 20, 14, 30, 0, 0, time.UTC)

type testAPI struct {
	app   *fiber.App
	store *memory.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	clock := func() time.Time { return apiNow }
	st := memory.NewStore()
	require.NoError(t, st.Pharmacies().Create(context.Background(), &entity.Pharmacy{
		ID: apiPharmacy, Name: "Farmácia Central", CNPJ: "12345678000190", CreatedAt: apiNow,
	}))

	log := logger.Nop()
	builder := sales.NewBuilder(st.Products(), st.Lots(), clock)
	committer := sales.NewCommitter(st.TxRunner(), st.Sales(), clock, log)
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		PharmacyUC: usecase.NewPharmacyUseCase(st.Pharmacies()),
		ProductUC:  usecase.NewProductUseCase(st.Products()),
		CustomerUC: usecase.NewCustomerUseCase(st.Customers()),
		LotUC:      inventory.NewLotUseCase(st.Lots(), st.Products(), clock),
		AlertUC:    inventory.NewAlertUseCase(st.Lots(), st.Products(), st.Pharmacies(), clock, 30),
		SaleUC: sales.NewSaleUseCase(builder, committer, memory.NewDraftStore(clock),
			st.Sales(), st.Customers(), clock, time.Hour),
		ReceiptUC: sales.NewReceiptUseCase(st.Sales(), st.Pharmacies(), st.Customers(), st.Products(), st.Lots(),
			pdf.NewMarotoReceiptGenerator(), xmlreceipt.NewBuilder()),
		DashboardUC: appanalytics.NewDashboardUseCase(st.Analytics(), clock, 30),
		JWTSecret:   testJWTSecret,
		ServiceName: "CRM Farmacêutico API",
		Version:     "test",
		Logger:      log,
	})
	return &testAPI{app: app, store: st}
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, apiPharmacy, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (a *testAPI) do(t *testing.T, method, path, role string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", bearer(t, role))
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

// seedProduct crea un producto a 10,99 con dos lotes: A (5, vence antes) y B (10).
func (a *testAPI) seedProduct(t *testing.T) (productID, lotA, lotB string) {
	t.Helper()
	resp, body := a.do(t, http.MethodPost, "/products", "ADMIN", map[string]any{
		"name": "Dipirona 500mg", "ean": "7891234567890", "price": "10.99",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var p dto.ProductResponse
	require.NoError(t, json.Unmarshal(body, &p))

	lot := func(batch string, qty int, expiry string) string {
		resp, body := a.do(t, http.MethodPost, "/inventory/lots", "FARMACEUTICO", map[string]any{
			"product_id": p.ID, "batch": batch, "quantity": qty, "min_quantity": 2,
			"expiry_date": expiry + "T00:00:00Z", "purchase_price": "5.00",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
		var l dto.StockLotResponse
		require.NoError(t, json.Unmarshal(body, &l))
		return l.ID
	}
	return p.ID, lot("A-001", 5, "2025-01-01"), lot("B-001", 10, "2025-06-01")
}

func (a *testAPI) available(t *testing.T, productID string) int {
	t.Helper()
	resp, body := a.do(t, http.MethodGet, "/inventory/"+productID, "VENDEDOR", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var av dto.AvailabilityResponse
	require.NoError(t, json.Unmarshal(body, &av))
	return av.AvailableQuantity
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "CRM Farmacêutico API", body["service"])
	assert.Equal(t, "test", body["version"])
}

func TestCreateSale_FEFOyTotales(t *testing.T) {
	api := newTestAPI(t)
	productID, lotA, lotB := api.seedProduct(t)

	resp, body := api.do(t, http.MethodPost, "/sales", "VENDEDOR", map[string]any{
		"payment_method": "PIX",
		"discount":       "1.00",
		"items":          []map[string]any{{"product_id": productID, "quantity": 7}},
	})

	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var sale dto.SaleResponse
	require.NoError(t, json.Unmarshal(body, &sale))
	assert.Equal(t, "FINALIZADA", sale.Status)
	assert.Equal(t, testUserID, sale.SellerID)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, lotA, sale.Items[0].LotID)
	assert.Equal(t, 5, sale.Items[0].Quantity)
	assert.Equal(t, lotB, sale.Items[1].LotID)
	assert.Equal(t, 2, sale.Items[1].Quantity)
	assert.Equal(t, "76.93", sale.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "1.00", sale.Totals.DiscountTotal.StringFixed(2))
	assert.Equal(t, "75.93", sale.Totals.GrandTotal.StringFixed(2))
	assert.Equal(t, 8, api.available(t, productID))
}

func TestCreateSale_StockInsuficienteNoDescuenta(t *testing.T) {
	api := newTestAPI(t)
	productID, _, _ := api.seedProduct(t)

	resp, body := api.do(t, http.MethodPost, "/sales", "VENDEDOR", map[string]any{
		"payment_method": "DINHEIRO",
		"items":          []map[string]any{{"product_id": productID, "quantity": 16}},
	})

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)
	assert.Equal(t, 15, api.available(t, productID))
}

func TestCreateSale_Validaciones(t *testing.T) {
	api := newTestAPI(t)
	productID, _, _ := api.seedProduct(t)

	tests := []struct {
		name string
		body map[string]any
		code string
		want int
	}{
		{"forma de pago inválida", map[string]any{"payment_method": "BITCOIN", "items": []map[string]any{{"product_id": productID, "quantity": 1}}}, "VALIDATION", http.StatusBadRequest},
		{"sin ítems", map[string]any{"payment_method": "PIX", "items": []map[string]any{}}, "VALIDATION", http.StatusBadRequest},
		{"cantidad cero", map[string]any{"payment_method": "PIX", "items": []map[string]any{{"product_id": productID, "quantity": 0}}}, "VALIDATION", http.StatusBadRequest},
		{"producto inexistente", map[string]any{"payment_method": "PIX", "items": []map[string]any{{"product_id": "nope", "quantity": 1}}}, "PRODUCT_NOT_FOUND", http.StatusNotFound},
		{"descuento fuera de rango", map[string]any{"payment_method": "PIX", "discount": "100000000000000000000", "items": []map[string]any{{"product_id": productID, "quantity": 1}}}, "VALIDATION", http.StatusBadRequest},
		{"precio unitario fuera de rango", map[string]any{"payment_method": "PIX", "items": []map[string]any{{"product_id": productID, "quantity": 1, "unit_price": "184467440737095516.15"}}}, "VALIDATION", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := api.do(t, http.MethodPost, "/sales", "VENDEDOR", tt.body)
			assert.Equal(t, tt.want, resp.StatusCode, string(body))
			var e dto.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &e))
			assert.Equal(t, tt.code, e.Code)
		})
	}
	assert.Equal(t, 15, api.available(t, productID))
}

func TestCancelSale_DevuelveStockEsIdempotente(t *testing.T) {
	api := newTestAPI(t)
	productID, _, _ := api.seedProduct(t)
	resp, body := api.do(t, http.MethodPost, "/sales", "VENDEDOR", map[string]any{
		"payment_method": "CARTAO_DEBITO",
		"items":          []map[string]any{{"product_id": productID, "quantity": 6}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var sale dto.SaleResponse
	require.NoError(t, json.Unmarshal(body, &sale))
	require.Equal(t, 9, api.available(t, productID))

	for i := 0; i < 2; i++ {
		resp, body = api.do(t, http.MethodDelete, "/sales/"+sale.ID, "GERENTE", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		var canceled dto.SaleResponse
		require.NoError(t, json.Unmarshal(body, &canceled))
		assert.Equal(t, "CANCELADA", canceled.Status)
		assert.Equal(t, 15, api.available(t, productID))
	}

	resp, _ = api.do(t, http.MethodDelete, "/sales/inexistente", "GERENTE", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDraftFlow(t *testing.T) {
	api := newTestAPI(t)
	productID, lotA, lotB := api.seedProduct(t)

	resp, body := api.do(t, http.MethodPost, "/sales/drafts", "VENDEDOR", map[string]any{"payment_method": "PIX"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var draft dto.DraftResponse
	require.NoError(t, json.Unmarshal(body, &draft))
	assert.Equal(t, "PENDENTE", draft.Status)

	// Fijar el lote B; luego FEFO toma de A.
	resp, body = api.do(t, http.MethodPost, "/sales/drafts/"+draft.ID+"/items", "VENDEDOR",
		map[string]any{"product_id": productID, "lot_id": lotB, "quantity": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	resp, body = api.do(t, http.MethodPost, "/sales/drafts/"+draft.ID+"/items", "VENDEDOR",
		map[string]any{"product_id": productID, "quantity": 1, "unit_price": "9.99"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &draft))
	require.Len(t, draft.Items, 2)
	assert.Equal(t, lotA, draft.Items[1].LotID)
	assert.Equal(t, "31.97", draft.Totals.GrandTotal.StringFixed(2))
	assert.Equal(t, 15, api.available(t, productID), "armar no descuenta stock")

	resp, body = api.do(t, http.MethodDelete, "/sales/drafts/"+draft.ID+"/items/"+draft.Items[1].ID, "VENDEDOR", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = api.do(t, http.MethodPost, "/sales/drafts/"+draft.ID+"/commit", "VENDEDOR", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var sale dto.SaleResponse
	require.NoError(t, json.Unmarshal(body, &sale))
	assert.Equal(t, draft.ID, sale.ID)
	assert.Equal(t, "21.98", sale.Totals.GrandTotal.StringFixed(2))
	assert.Equal(t, 13, api.available(t, productID))

	resp, _ = api.do(t, http.MethodGet, "/sales/drafts/"+draft.ID, "VENDEDOR", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "confirmar elimina el borrador")
	resp, _ = api.do(t, http.MethodGet, "/sales/"+sale.ID, "VENDEDOR", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReceipts(t *testing.T) {
	api := newTestAPI(t)
	productID, _, _ := api.seedProduct(t)
	resp, body := api.do(t, http.MethodPost, "/sales", "VENDEDOR", map[string]any{
		"payment_method": "PIX",
		"items":          []map[string]any{{"product_id": productID, "quantity": 3}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var sale dto.SaleResponse
	require.NoError(t, json.Unmarshal(body, &sale))

	resp, body = api.do(t, http.MethodGet, "/sales/"+sale.ID+"/receipt.pdf", "VENDEDOR", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp, body = api.do(t, http.MethodGet, "/sales/"+sale.ID+"/receipt.xml", "VENDEDOR", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")
	assert.NoError(t, xmlreceipt.VerifyDigest(body))
}

func TestInventoryAlertsYDashboard(t *testing.T) {
	api := newTestAPI(t)
	productID, lotA, _ := api.seedProduct(t)
	resp, body := api.do(t, http.MethodPost, "/sales", "VENDEDOR", map[string]any{
		"payment_method": "DINHEIRO",
		"items":          []map[string]any{{"product_id": productID, "lot_id": lotA, "quantity": 4}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = api.do(t, http.MethodGet, "/inventory/alerts/expiring?days=60", "VENDEDOR", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var expiring struct {
		Items []dto.ExpiryAlertDTO `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body, &expiring))
	require.Len(t, expiring.Items, 1)
	assert.Equal(t, lotA, expiring.Items[0].LotID)

	resp, body = api.do(t, http.MethodGet, "/inventory/alerts/low-stock", "VENDEDOR", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var low struct {
		Items []dto.LowStockDTO `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body, &low))
	require.Len(t, low.Items, 1)
	assert.Equal(t, 1, low.Items[0].Quantity)

	resp, body = api.do(t, http.MethodGet, "/dashboard/summary", "GERENTE", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var summary dto.DashboardSummaryDTO
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, 1, summary.Sales.Today)
	assert.Equal(t, "43.96", summary.Revenue.Today.StringFixed(2))
	assert.Equal(t, "Novembro 2024", summary.DateLabel)
}

func TestRBACyTenancy(t *testing.T) {
	api := newTestAPI(t)

	resp, _ := api.do(t, http.MethodPost, "/pharmacies", "VENDEDOR", map[string]any{"name": "X", "cnpj": "11111111000111"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := api.do(t, http.MethodPost, "/pharmacies", "ADMIN", map[string]any{"name": "Filial", "cnpj": "11111111000111"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	resp, _ = api.do(t, http.MethodPost, "/pharmacies", "ADMIN", map[string]any{"name": "Filial 2", "cnpj": "11111111000111"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = api.do(t, http.MethodPost, "/products", "VENDEDOR", map[string]any{"name": "X", "price": "1.00"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Lote de otra farmacia: 403.
	require.NoError(t, api.store.Lots().Create(context.Background(), &entity.StockLot{
		ID: "lote-ajeno", ProductID: "p-ajeno", PharmacyID: "otra", Batch: "Z", Quantity: 1,
		ExpiryDate: apiNow.AddDate(1, 0, 0), CreatedAt: apiNow,
	}))
	resp, _ = api.do(t, http.MethodGet, "/inventory/lots/lote-ajeno", "VENDEDOR", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCustomersCRUD(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.do(t, http.MethodPost, "/customers", "VENDEDOR", map[string]any{"name": "Maria", "cpf": "12345678901"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var c dto.CustomerResponse
	require.NoError(t, json.Unmarshal(body, &c))

	resp, _ = api.do(t, http.MethodPost, "/customers", "VENDEDOR", map[string]any{"name": "Outra", "cpf": "12345678901"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp, _ = api.do(t, http.MethodPost, "/customers", "VENDEDOR", map[string]any{"name": "Outra", "cpf": "123"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = api.do(t, http.MethodPut, "/customers/"+c.ID, "VENDEDOR", map[string]any{"phone": "11999990000"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &c))
	assert.Equal(t, "11999990000", c.Phone)

	resp, _ = api.do(t, http.MethodDelete, "/customers/"+c.ID, "VENDEDOR", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = api.do(t, http.MethodDelete, "/customers/"+c.ID, "ADMIN", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = api.do(t, http.MethodGet, "/customers/"+c.ID, "ADMIN", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
