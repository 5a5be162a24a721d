package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"posdash/internal/domain"
	businessrepo "posdash/internal/repository/business"
	productrepo "posdash/internal/repository/product"
)

type stubProductSvc struct {
	products  []domain.Product
	listErr   error
	created   *domain.Product
	createErr error
	updated   *domain.Product
	updateErr error
	adjusted  *domain.Product
	adjustErr error
	deleteErr error
}

func (s *stubProductSvc) List(_ context.Context) ([]domain.Product, error) {
	return s.products, s.listErr
}

func (s *stubProductSvc) Create(_ context.Context, _ productrepo.CreateInput) (*domain.Product, error) {
	return s.created, s.createErr
}

func (s *stubProductSvc) UpdateDetails(_ context.Context, _ int64, _ productrepo.DetailsInput) (*domain.Product, error) {
	return s.updated, s.updateErr
}

func (s *stubProductSvc) AdjustStock(_ context.Context, _ int64, _ int) (*domain.Product, error) {
	return s.adjusted, s.adjustErr
}

func (s *stubProductSvc) Delete(_ context.Context, _ int64) error {
	return s.deleteErr
}

type stubTransactionSvc struct {
	lines     []domain.SalesTransaction
	createErr error
	history   []domain.SalesTransaction
	histErr   error
	lastSale  domain.SaleRequest
}

func (s *stubTransactionSvc) Create(_ context.Context, sale domain.SaleRequest) ([]domain.SalesTransaction, error) {
	s.lastSale = sale
	return s.lines, s.createErr
}

func (s *stubTransactionSvc) History(_ context.Context) ([]domain.SalesTransaction, error) {
	return s.history, s.histErr
}

type stubBusinessSvc struct {
	business  *domain.Business
	getErr    error
	updated   *domain.Business
	updateErr error
}

func (s *stubBusinessSvc) Get(_ context.Context) (*domain.Business, error) {
	return s.business, s.getErr
}

func (s *stubBusinessSvc) Update(_ context.Context, _ businessrepo.UpdateInput) (*domain.Business, error) {
	return s.updated, s.updateErr
}

func testRouter(deps Deps) *gin.Engine {
	logger := log.New(io.Discard, "", 0)
	return buildRouter(logger, nil, deps, nil)
}

func doRequest(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router := testRouter(Deps{})
	rec := doRequest(router, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestListProductsEmptyIsJSONArray(t *testing.T) {
	router := testRouter(Deps{ProductSvc: &stubProductSvc{}})
	rec := doRequest(router, http.MethodGet, "/products", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestCreateProduct(t *testing.T) {
	created := &domain.Product{ID: 1, Name: "Mug", SKU: "SKU-1", Price: decimal.RequireFromString("12.99")}
	router := testRouter(Deps{ProductSvc: &stubProductSvc{created: created}})

	rec := doRequest(router, http.MethodPost, "/products",
		`{"name":"Mug","sku":"SKU-1","price":"12.99","cost":"4.20","quantity":10,"reorderThreshold":3}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateProductRejectsMissingFields(t *testing.T) {
	router := testRouter(Deps{ProductSvc: &stubProductSvc{}})
	rec := doRequest(router, http.MethodPost, "/products", `{"price":"1.00"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	router := testRouter(Deps{ProductSvc: &stubProductSvc{createErr: domain.ErrDuplicateSKU}})
	rec := doRequest(router, http.MethodPost, "/products",
		`{"name":"Mug","sku":"SKU-1","price":"12.99"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAdjustStockNotFound(t *testing.T) {
	router := testRouter(Deps{ProductSvc: &stubProductSvc{adjustErr: domain.ErrNotFound}})
	rec := doRequest(router, http.MethodPatch, "/products/5/stock", `{"quantityChange":-2}`, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAdjustStockBadID(t *testing.T) {
	router := testRouter(Deps{ProductSvc: &stubProductSvc{}})
	rec := doRequest(router, http.MethodPatch, "/products/abc/stock", `{"quantityChange":1}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDeleteProduct(t *testing.T) {
	router := testRouter(Deps{ProductSvc: &stubProductSvc{}})
	rec := doRequest(router, http.MethodDelete, "/products/3", "", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestCreateTransactionUsesHeaderKey(t *testing.T) {
	svc := &stubTransactionSvc{lines: []domain.SalesTransaction{}}
	router := testRouter(Deps{TransactionSvc: svc})

	rec := doRequest(router, http.MethodPost, "/transactions",
		`{"items":[{"productId":1,"quantity":2}]}`,
		map[string]string{"Idempotency-Key": "key-9"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastSale.IdempotencyKey != "key-9" {
		t.Fatalf("expected header key forwarded, got %q", svc.lastSale.IdempotencyKey)
	}
}

func TestCreateTransactionStockConflict(t *testing.T) {
	svc := &stubTransactionSvc{createErr: domain.ErrInsufficientStock}
	router := testRouter(Deps{TransactionSvc: svc})

	rec := doRequest(router, http.MethodPost, "/transactions",
		`{"items":[{"productId":1,"quantity":99}]}`, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestGetBusinessNotConfigured(t *testing.T) {
	router := testRouter(Deps{BusinessSvc: &stubBusinessSvc{getErr: domain.ErrNotFound}})
	rec := doRequest(router, http.MethodGet, "/business", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateBusiness(t *testing.T) {
	updated := &domain.Business{ID: 1, Name: "Shop", Currency: "USD", TaxRate: decimal.RequireFromString("0.08")}
	router := testRouter(Deps{BusinessSvc: &stubBusinessSvc{updated: updated}})

	rec := doRequest(router, http.MethodPut, "/business",
		`{"name":"Shop","currency":"USD","taxRate":"0.08","lowStockThreshold":5}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
