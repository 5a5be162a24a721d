package terminalserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"posdash/internal/checkout"
	"posdash/internal/domain"
)

type stubBackend struct {
	products []domain.Product
	business *domain.Business
	sales    []domain.SaleRequest
	txnErr   error
	history  []domain.SalesTransaction
	histErr  error
}

func (s *stubBackend) ListProducts(_ context.Context) ([]domain.Product, error) {
	return s.products, nil
}

func (s *stubBackend) GetSettings(_ context.Context) (*domain.Business, error) {
	return s.business, nil
}

func (s *stubBackend) CreateTransaction(_ context.Context, sale domain.SaleRequest) ([]domain.SalesTransaction, error) {
	s.sales = append(s.sales, sale)
	if s.txnErr != nil {
		return nil, s.txnErr
	}
	return []domain.SalesTransaction{}, nil
}

func (s *stubBackend) ListTransactions(_ context.Context) ([]domain.SalesTransaction, error) {
	return s.history, s.histErr
}

func newTestTerminal(t *testing.T, backend *stubBackend) *gin.Engine {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	session := checkout.NewSession(backend, backend, backend, logger)
	if err := session.Load(context.Background()); err != nil {
		t.Fatalf("load session: %v", err)
	}
	return buildRouter(logger, Deps{Session: session, History: backend})
}

func demoBackend() *stubBackend {
	return &stubBackend{
		products: []domain.Product{
			{ID: 1, Name: "Ceramic Mug", SKU: "SKU-MUG-1", Price: decimal.RequireFromString("8.00"), Quantity: 10},
			{ID: 2, Name: "Espresso Beans", SKU: "SKU-ESP-1", Price: decimal.RequireFromString("18.50"), Quantity: 3},
		},
		business: &domain.Business{ID: 1, Name: "Demo", Currency: "USD", TaxRate: decimal.RequireFromString("0.08")},
	}
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) checkout.View {
	t.Helper()
	var view checkout.View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return view
}

func TestViewStartsIdleAndEmpty(t *testing.T) {
	router := newTestTerminal(t, demoBackend())

	rec := do(router, http.MethodGet, "/view", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	view := decodeView(t, rec)
	if view.State != checkout.StateIdle {
		t.Fatalf("expected IDLE, got %s", view.State)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(view.Lines))
	}
	if view.Currency != "USD" {
		t.Fatalf("expected USD, got %s", view.Currency)
	}
}

func TestProductsFilter(t *testing.T) {
	router := newTestTerminal(t, demoBackend())

	rec := do(router, http.MethodGet, "/products?q=mug", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var products []domain.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &products); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(products) != 1 || products[0].SKU != "SKU-MUG-1" {
		t.Fatalf("unexpected filter result %+v", products)
	}

	rec = do(router, http.MethodGet, "/products?q=sku-esp", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &products); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(products) != 1 || products[0].ID != 2 {
		t.Fatalf("expected sku match, got %+v", products)
	}
}

func TestAddAndAdjustCart(t *testing.T) {
	router := newTestTerminal(t, demoBackend())

	rec := do(router, http.MethodPost, "/cart/items", `{"productId":1}`)
	view := decodeView(t, rec)
	if len(view.Lines) != 1 || view.Lines[0].Quantity != 1 {
		t.Fatalf("unexpected cart after add: %+v", view.Lines)
	}

	rec = do(router, http.MethodPatch, "/cart/items/1", `{"quantity":4}`)
	view = decodeView(t, rec)
	if view.Lines[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", view.Lines[0].Quantity)
	}
	if !view.Summary.Subtotal.Equal(decimal.RequireFromString("32")) {
		t.Fatalf("expected subtotal 32, got %s", view.Summary.Subtotal)
	}

	rec = do(router, http.MethodPatch, "/cart/items/1", `{"delta":-1}`)
	view = decodeView(t, rec)
	if view.Lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", view.Lines[0].Quantity)
	}

	rec = do(router, http.MethodPatch, "/cart/items/1", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body, got %d", rec.Code)
	}
}

func TestRemoveAndClear(t *testing.T) {
	router := newTestTerminal(t, demoBackend())

	do(router, http.MethodPost, "/cart/items", `{"productId":1}`)
	do(router, http.MethodPost, "/cart/items", `{"productId":2}`)

	rec := do(router, http.MethodDelete, "/cart/items/1", "")
	view := decodeView(t, rec)
	if len(view.Lines) != 1 || view.Lines[0].ProductID != 2 {
		t.Fatalf("unexpected cart after remove: %+v", view.Lines)
	}

	rec = do(router, http.MethodDelete, "/cart", "")
	view = decodeView(t, rec)
	if len(view.Lines) != 0 {
		t.Fatalf("expected empty cart after clear, got %+v", view.Lines)
	}
	if !view.Summary.GrandTotal.IsZero() {
		t.Fatalf("expected zero total, got %s", view.Summary.GrandTotal)
	}
}

func TestCheckoutFlow(t *testing.T) {
	backend := demoBackend()
	router := newTestTerminal(t, backend)

	do(router, http.MethodPost, "/cart/items", `{"productId":1}`)
	do(router, http.MethodPatch, "/cart/items/1", `{"quantity":2}`)

	rec := do(router, http.MethodPost, "/checkout", "")
	view := decodeView(t, rec)
	if view.State != checkout.StateSucceeded {
		t.Fatalf("expected SUCCEEDED, got %s (%s)", view.State, view.Message)
	}
	if view.Message != "Sale complete! Total: $17.28" {
		t.Fatalf("unexpected message %q", view.Message)
	}
	if len(backend.sales) != 1 {
		t.Fatalf("expected 1 sale, got %d", len(backend.sales))
	}
	if backend.sales[0].IdempotencyKey == "" {
		t.Fatalf("expected idempotency key on sale request")
	}

	rec = do(router, http.MethodPost, "/checkout/ack", "")
	view = decodeView(t, rec)
	if view.State != checkout.StateIdle {
		t.Fatalf("expected IDLE after ack, got %s", view.State)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("expected cart cleared, got %+v", view.Lines)
	}
}

func TestCheckoutFailureKeepsCart(t *testing.T) {
	backend := demoBackend()
	backend.txnErr = errors.New("backend unavailable")
	router := newTestTerminal(t, backend)

	do(router, http.MethodPost, "/cart/items", `{"productId":1}`)

	rec := do(router, http.MethodPost, "/checkout", "")
	view := decodeView(t, rec)
	if view.State != checkout.StateFailed {
		t.Fatalf("expected FAILED, got %s", view.State)
	}
	if view.Message != "Transaction failed. Please try again." {
		t.Fatalf("unexpected message %q", view.Message)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("expected cart kept, got %+v", view.Lines)
	}
}

func TestEmptyCartCheckoutIsNoOp(t *testing.T) {
	backend := demoBackend()
	router := newTestTerminal(t, backend)

	rec := do(router, http.MethodPost, "/checkout", "")
	view := decodeView(t, rec)
	if view.State != checkout.StateIdle {
		t.Fatalf("expected IDLE, got %s", view.State)
	}
	if len(backend.sales) != 0 {
		t.Fatalf("expected no network call, got %d", len(backend.sales))
	}
}

func TestHistory(t *testing.T) {
	backend := demoBackend()
	backend.history = []domain.SalesTransaction{
		{ID: 1, ProductID: 1, ProductSKU: "SKU-MUG-1", QuantitySold: 2, TotalPrice: decimal.RequireFromString("16.00")},
	}
	router := newTestTerminal(t, backend)

	rec := do(router, http.MethodGet, "/transactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var txns []domain.SalesTransaction
	if err := json.Unmarshal(rec.Body.Bytes(), &txns); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(txns) != 1 || txns[0].ProductSKU != "SKU-MUG-1" {
		t.Fatalf("unexpected history %+v", txns)
	}
}

func TestHistoryBackendDown(t *testing.T) {
	backend := demoBackend()
	backend.histErr = errors.New("backend unavailable")
	router := newTestTerminal(t, backend)

	rec := do(router, http.MethodGet, "/transactions", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}
