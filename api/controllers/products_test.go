package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mvalverde/cartfront-backend/internal/catalog"
	pkgerrors "github.com/mvalverde/cartfront-backend/pkg/errors"
)

type stubCatalogService struct {
	product  *catalog.ProductDTO
	products []catalog.ProductDTO
	err      error
	deleted  []uuid.UUID
}

func (s *stubCatalogService) CreateProduct(ctx context.Context, input catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubCatalogService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, productID)
	return nil
}

func (s *stubCatalogService) GetProduct(ctx context.Context, productID uuid.UUID) (*catalog.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubCatalogService) ListProducts(ctx context.Context) ([]catalog.ProductDTO, error) {
	return s.products, s.err
}

func TestProductCreateSuccess(t *testing.T) {
	product := &catalog.ProductDTO{
		ID:    uuid.New(),
		Name:  "Widget",
		Price: decimal.RequireFromString("9.99"),
		Stock: 5,
		Tags:  []string{"tools"},
	}
	handler := ProductCreate(&stubCatalogService{product: product}, nil)

	req := jsonRequest(http.MethodPost, "/api/admin/v1/products",
		`{"name":"Widget","description":"a widget","price":"9.99","stock":5,"category":"tools","tags":["Tools"]}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var envelope struct {
		Data catalog.ProductDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Name != "Widget" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestProductCreateMissingName(t *testing.T) {
	handler := ProductCreate(&stubCatalogService{}, nil)

	req := jsonRequest(http.MethodPost, "/api/admin/v1/products", `{"price":"1.00","stock":1}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProductCreateDuplicateName(t *testing.T) {
	svc := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeConflict, "product name already exists")}
	handler := ProductCreate(svc, nil)

	req := jsonRequest(http.MethodPost, "/api/admin/v1/products",
		`{"name":"Widget","price":"1.00","stock":1}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func newProductsRouter(svc catalog.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/products", ProductList(svc, nil))
	r.Get("/products/{productId}", ProductGet(svc, nil))
	r.Delete("/products/{productId}", ProductDelete(svc, nil))
	return r
}

func TestProductDelete(t *testing.T) {
	svc := &stubCatalogService{}
	router := newProductsRouter(svc)
	productID := uuid.New()

	req := httptest.NewRequest(http.MethodDelete, "/products/"+productID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != productID {
		t.Fatalf("expected delete for %s, got %v", productID, svc.deleted)
	}
}

func TestProductDeleteInvalidID(t *testing.T) {
	router := newProductsRouter(&stubCatalogService{})

	req := httptest.NewRequest(http.MethodDelete, "/products/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProductGetNotFound(t *testing.T) {
	svc := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	router := newProductsRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/products/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestProductList(t *testing.T) {
	svc := &stubCatalogService{products: []catalog.ProductDTO{
		{ID: uuid.New(), Name: "A"},
		{ID: uuid.New(), Name: "B"},
	}}
	router := newProductsRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data []catalog.ProductDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected 2 products, got %d", len(envelope.Data))
	}
}
