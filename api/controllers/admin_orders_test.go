package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/quadworks/storefront/api/middleware"
	"github.com/quadworks/storefront/internal/orders"
	"github.com/quadworks/storefront/pkg/db/models"
	"github.com/quadworks/storefront/pkg/enums"
	"github.com/quadworks/storefront/pkg/pagination"
)

type stubAdminOrdersService struct {
	orders.Service
	list         *orders.OrderList
	listFilters  orders.ListFilters
	order        *models.Order
	statusInput  orders.UpdateStatusInput
	paymentInput orders.UpdatePaymentInput
	err          error
}

func (s *stubAdminOrdersService) ListAdmin(ctx context.Context, filters orders.ListFilters, params pagination.Params) (*orders.OrderList, error) {
	s.listFilters = filters
	return s.list, s.err
}

func (s *stubAdminOrdersService) UpdateStatus(ctx context.Context, input orders.UpdateStatusInput) (*models.Order, error) {
	s.statusInput = input
	return s.order, s.err
}

func (s *stubAdminOrdersService) UpdatePaymentStatus(ctx context.Context, input orders.UpdatePaymentInput) (*models.Order, error) {
	s.paymentInput = input
	return s.order, s.err
}

func TestAdminOrdersListStatusFilter(t *testing.T) {
	svc := &stubAdminOrdersService{list: &orders.OrderList{
		Orders: []models.Order{{ID: uuid.New(), Status: enums.OrderStatusShipped}},
	}}
	handler := AdminOrdersList(svc, nil)

	req := authedRequest(http.MethodGet, "/api/admin/v1/orders?status=shipped", "", uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.listFilters.Status == nil || *svc.listFilters.Status != enums.OrderStatusShipped {
		t.Fatalf("expected shipped filter, got %v", svc.listFilters.Status)
	}

	var envelope struct {
		Data []orders.OrderDTO `json:"data"`
		Meta struct {
			Count int `json:"count"`
		} `json:"meta"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Meta.Count != 1 {
		t.Fatalf("expected count 1, got %d", envelope.Meta.Count)
	}
}

func TestAdminOrdersListRejectsUnknownStatus(t *testing.T) {
	handler := AdminOrdersList(&stubAdminOrdersService{}, nil)

	req := authedRequest(http.MethodGet, "/api/admin/v1/orders?status=teleported", "", uuid.New())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminOrderStatusPassesActor(t *testing.T) {
	adminID := uuid.New()
	orderID := uuid.New()
	svc := &stubAdminOrdersService{order: &models.Order{ID: orderID, Status: enums.OrderStatusProcessing}}
	handler := AdminOrderStatus(svc, nil)

	body := `{"status":"processing","notes":"packing started"}`
	req := authedRequest(http.MethodPost, "/api/admin/v1/orders/"+orderID.String()+"/status", body, adminID)
	req = req.WithContext(middleware.WithRole(req.Context(), "admin"))
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.statusInput.ActorUserID != adminID {
		t.Fatalf("expected actor %s, got %s", adminID, svc.statusInput.ActorUserID)
	}
	if svc.statusInput.ActorRole != enums.UserRoleAdmin {
		t.Fatalf("expected admin actor role, got %q", svc.statusInput.ActorRole)
	}
	if svc.statusInput.Notes != "packing started" {
		t.Fatalf("expected notes carried, got %q", svc.statusInput.Notes)
	}
}

func TestAdminOrderStatusUnknownValue(t *testing.T) {
	orderID := uuid.New()
	handler := AdminOrderStatus(&stubAdminOrdersService{}, nil)

	req := authedRequest(http.MethodPost, "/api/admin/v1/orders/"+orderID.String()+"/status", `{"status":"vanished"}`, uuid.New())
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminOrderPaymentStatusPassesActor(t *testing.T) {
	adminID := uuid.New()
	orderID := uuid.New()
	svc := &stubAdminOrdersService{order: &models.Order{ID: orderID, PaymentStatus: enums.PaymentStatusPaid}}
	handler := AdminOrderPaymentStatus(svc, nil)

	req := authedRequest(http.MethodPost, "/api/admin/v1/orders/"+orderID.String()+"/payment-status", `{"payment_status":"paid"}`, adminID)
	req = req.WithContext(middleware.WithRole(req.Context(), "admin"))
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.paymentInput.ActorUserID != adminID {
		t.Fatalf("expected actor %s, got %s", adminID, svc.paymentInput.ActorUserID)
	}
	if svc.paymentInput.ActorRole != enums.UserRoleAdmin {
		t.Fatalf("expected admin actor role, got %q", svc.paymentInput.ActorRole)
	}
}

func TestAdminOrderPaymentStatusUnknownValue(t *testing.T) {
	orderID := uuid.New()
	handler := AdminOrderPaymentStatus(&stubAdminOrdersService{}, nil)

	req := authedRequest(http.MethodPost, "/api/admin/v1/orders/"+orderID.String()+"/payment-status", `{"payment_status":"maybe"}`, uuid.New())
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
