package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	checkoutsvc "github.com/mvalverde/cartfront-backend/internal/checkout"
	pkgerrors "github.com/mvalverde/cartfront-backend/pkg/errors"
)

type stubCheckoutService struct {
	result *checkoutsvc.Result
	err    error
}

func (s *stubCheckoutService) Execute(ctx context.Context, userID uuid.UUID) (*checkoutsvc.Result, error) {
	return s.result, s.err
}

func TestCheckoutSuccess(t *testing.T) {
	result := &checkoutsvc.Result{TotalCost: decimal.RequireFromString("27.50")}
	handler := Checkout(&stubCheckoutService{result: result}, nil)

	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/v1/cart/checkout", nil), uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data checkoutsvc.Result `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !envelope.Data.TotalCost.Equal(result.TotalCost) {
		t.Fatalf("unexpected total %s", envelope.Data.TotalCost)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")}
	handler := Checkout(svc, nil)

	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/v1/cart/checkout", nil), uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCheckoutConflict(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeConflict, "checkout conflicted with concurrent purchases, please retry")}
	handler := Checkout(svc, nil)

	req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/v1/cart/checkout", nil), uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestCheckoutRequiresAuthContext(t *testing.T) {
	handler := Checkout(&stubCheckoutService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/checkout", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
