package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/internal/customers"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/internal/search"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type stubCustomerService struct {
	customers.Service
	patch      *orders.Patch
	patchCalls int
	deleted    []string
	status     enums.OrderStatus
}

func (s *stubCustomerService) UpdateOrder(_ context.Context, customerID, orderID string, patch *orders.Patch) (*orders.Order, error) {
	s.patchCalls++
	s.patch = patch
	if patch == nil {
		s.deleted = append(s.deleted, customerID+"/"+orderID)
		return nil, nil
	}
	o := &orders.Order{ID: orderID, CustomerID: customerID, Status: enums.OrderStatusPending}
	if err := patch.Apply(o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *stubCustomerService) DeleteOrder(_ context.Context, customerID, orderID string) error {
	if orderID == "missing" {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	s.deleted = append(s.deleted, customerID+"/"+orderID)
	return nil
}

func (s *stubCustomerService) SetOrderStatus(_ context.Context, customerID, orderID string, status enums.OrderStatus) (*orders.Order, error) {
	s.status = status
	return &orders.Order{ID: orderID, CustomerID: customerID, Status: status}, nil
}

type stubSearchService struct {
	search.Service
	filter search.OrderFilter
	orders []orders.Order
}

func (s *stubSearchService) Orders(_ context.Context, f search.OrderFilter) ([]orders.Order, error) {
	s.filter = f
	return s.orders, nil
}

func orderParams() map[string]string {
	return map[string]string{"customerId": "c1", "orderId": "o1"}
}

func TestAdminPutOrderNullDeletes(t *testing.T) {
	svc := &stubCustomerService{}
	req := newRequest(http.MethodPut, "/", strings.NewReader(" null "), orderParams(), "", "admin")
	rec := httptest.NewRecorder()

	AdminPutOrder(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.patchCalls != 1 || svc.patch != nil {
		t.Fatalf("expected a single nil patch, got %d calls patch=%v", svc.patchCalls, svc.patch)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != "c1/o1" {
		t.Fatalf("unexpected deletions %v", svc.deleted)
	}
}

func TestAdminPutOrderAppliesPatch(t *testing.T) {
	svc := &stubCustomerService{}
	req := newRequest(http.MethodPut, "/", strings.NewReader(`{"status":"completado","comment":"ok"}`), orderParams(), "", "admin")
	rec := httptest.NewRecorder()

	AdminPutOrder(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var got orders.Order
	decodeData(t, rec, &got)
	if got.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected completado got %s", got.Status)
	}
}

func TestAdminPutOrderRejectsBadBodies(t *testing.T) {
	for name, body := range map[string]string{
		"empty":          "",
		"unknown status": `{"status":"shipped"}`,
		"unknown field":  `{"total":10}`,
	} {
		t.Run(name, func(t *testing.T) {
			svc := &stubCustomerService{}
			req := newRequest(http.MethodPut, "/", strings.NewReader(body), orderParams(), "", "admin")
			rec := httptest.NewRecorder()

			AdminPutOrder(svc, testLogger()).ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", rec.Code)
			}
			if svc.patchCalls != 0 {
				t.Fatal("service should not be called")
			}
		})
	}
}

func TestAdminDeleteOrderNotFound(t *testing.T) {
	params := map[string]string{"customerId": "c1", "orderId": "missing"}
	req := newRequest(http.MethodDelete, "/", nil, params, "", "admin")
	rec := httptest.NewRecorder()

	AdminDeleteOrder(&stubCustomerService{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestAdminSetOrderStatus(t *testing.T) {
	svc := &stubCustomerService{}
	req := newRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"cancelado"}`), orderParams(), "", "admin")
	rec := httptest.NewRecorder()

	AdminSetOrderStatus(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.status != enums.OrderStatusCancelled {
		t.Fatalf("unexpected status %s", svc.status)
	}
}

func TestAdminOrdersParsesFilters(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	svc := &stubSearchService{}
	req := newRequest(http.MethodGet, "/api/admin/v1/orders?status=Pendiente&from=2024-03-01&to=2024-03-31&q=ana", nil, nil, "", "admin")
	rec := httptest.NewRecorder()

	AdminOrders(svc, loc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.filter.Status != "pendiente" || svc.filter.Query != "ana" {
		t.Fatalf("unexpected filter %+v", svc.filter)
	}
	if svc.filter.From == nil || svc.filter.From.Location() != loc || svc.filter.To == nil {
		t.Fatalf("expected dates in the store location, got %+v", svc.filter)
	}
}

func TestAdminOrdersRejectsUnknownStatus(t *testing.T) {
	req := newRequest(http.MethodGet, "/api/admin/v1/orders?status=shipped", nil, nil, "", "admin")
	rec := httptest.NewRecorder()

	AdminOrders(&stubSearchService{}, time.UTC, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestAdminExportOrders(t *testing.T) {
	svc := &stubSearchService{orders: []orders.Order{{
		ID:         "o1",
		CustomerID: "c1",
		Date:       time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC),
		Status:     enums.OrderStatusPending,
		Total:      decimal.NewFromInt(50),
	}}}
	req := newRequest(http.MethodGet, "/api/admin/v1/orders/export?status=all", nil, nil, "", "admin")
	rec := httptest.NewRecorder()

	AdminExportOrders(svc, time.UTC, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %s", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "order_id,") {
		t.Fatalf("expected csv header, got %q", rec.Body.String())
	}
}
