package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quadworks/storefront/api/middleware"
	"github.com/quadworks/storefront/internal/orders"
	"github.com/quadworks/storefront/pkg/db/models"
	"github.com/quadworks/storefront/pkg/enums"
	pkgerrors "github.com/quadworks/storefront/pkg/errors"
)

type stubOrdersService struct {
	orders.Service
	createResult *orders.CreateResult
	createInput  orders.CreateInput
	order        *models.Order
	err          error
}

func (s *stubOrdersService) Create(ctx context.Context, input orders.CreateInput) (*orders.CreateResult, error) {
	s.createInput = input
	return s.createResult, s.err
}

func (s *stubOrdersService) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrdersService) Cancel(ctx context.Context, input orders.CancelInput) error {
	return s.err
}

func TestOrdersCreateReturnsCreated(t *testing.T) {
	userID := uuid.New()
	svc := &stubOrdersService{createResult: &orders.CreateResult{
		OrderID:     uuid.New(),
		OrderNumber: "ORD-20260831-0001",
	}}
	handler := OrdersCreate(svc, nil)

	body := `{"shipping_address":"1 Main St","billing_address":"1 Main St","phone_number":"555-0100"}`
	req := authedRequest(http.MethodPost, "/api/v1/orders", body, userID)
	req = req.WithContext(middleware.WithEmail(req.Context(), "ana@example.com"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.createInput.UserID != userID {
		t.Fatalf("expected order for %s, got %s", userID, svc.createInput.UserID)
	}
	if svc.createInput.Email != "ana@example.com" {
		t.Fatalf("expected email from token, got %q", svc.createInput.Email)
	}

	var envelope struct {
		Data orders.CreateResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderNumber != "ORD-20260831-0001" {
		t.Fatalf("unexpected order number %q", envelope.Data.OrderNumber)
	}
}

func TestOrdersCreateEmptyCartConflict(t *testing.T) {
	svc := &stubOrdersService{err: orders.ErrEmptyCart}
	handler := OrdersCreate(svc, nil)

	body := `{"shipping_address":"1 Main St","billing_address":"1 Main St"}`
	req := authedRequest(http.MethodPost, "/api/v1/orders", body, uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestOrdersCreateMissingAddresses(t *testing.T) {
	handler := OrdersCreate(&stubOrdersService{}, nil)

	req := authedRequest(http.MethodPost, "/api/v1/orders", `{"notes":"leave at door"}`, uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrdersDetailHidesForeignOrders(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	handler := OrdersDetail(svc, nil)

	orderID := uuid.New()
	req := authedRequest(http.MethodGet, "/api/v1/orders/"+orderID.String(), "", uuid.New())
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestOrdersDetailComputesGrandTotal(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{order: &models.Order{
		ID:           orderID,
		OrderNumber:  "ORD-20260831-0002",
		Status:       enums.OrderStatusPending,
		TotalAmount:  decimal.RequireFromString("100.00"),
		TaxAmount:    decimal.RequireFromString("20.00"),
		ShippingCost: decimal.RequireFromString("10.00"),
	}}
	handler := OrdersDetail(svc, nil)

	req := authedRequest(http.MethodGet, "/api/v1/orders/"+orderID.String(), "", uuid.New())
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data orders.OrderDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.GrandTotal.Equal(decimal.RequireFromString("130.00")) {
		t.Fatalf("expected grand total 130.00, got %s", envelope.Data.GrandTotal)
	}
}

func TestOrdersCancelInvalidOrderID(t *testing.T) {
	handler := OrdersCancel(&stubOrdersService{}, nil)

	req := authedRequest(http.MethodPost, "/api/v1/orders/not-a-uuid/cancel", "", uuid.New())
	req = withURLParam(req, "orderId", "not-a-uuid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
