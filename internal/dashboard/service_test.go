package dashboard

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/customers"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

type stubProducts []catalog.Product

func (s stubProducts) ListAll(context.Context) ([]catalog.Product, error) { return s, nil }

type stubCustomers struct {
	customers []customers.Customer
	orders    []orders.Order
}

func (s stubCustomers) List(context.Context) ([]customers.Customer, error) { return s.customers, nil }
func (s stubCustomers) ListOrders(context.Context) ([]orders.Order, error) { return s.orders, nil }

func TestSummary(t *testing.T) {
	hidden := false
	products := stubProducts{
		{ID: "p1", Name: "Mate", Stock: 20},
		{ID: "p2", Name: "Termo", Stock: 3, Visible: &hidden},
		{ID: "p3", Name: "Yerba", Stock: 0},
	}
	custs := stubCustomers{
		customers: []customers.Customer{{ID: "c1"}, {ID: "c2"}},
		orders: []orders.Order{
			{ID: "o1", Total: decimal.RequireFromString("100.50"), Status: enums.OrderStatusCompleted},
			{ID: "o2", Total: decimal.RequireFromString("200")},
			{ID: "o3", Total: decimal.RequireFromString("50"), Status: enums.OrderStatusCompleted},
			{ID: "o4", Total: decimal.RequireFromString("75"), Status: enums.OrderStatusCancelled},
		},
	}
	svc, err := NewService(products, custs, 5)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	got, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got.Products != 3 || got.HiddenProducts != 1 || got.Customers != 2 || got.Orders != 4 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if len(got.LowStock) != 2 || got.LowStock[0].ID != "p3" || got.LowStock[1].ID != "p2" {
		t.Fatalf("unexpected low stock: %+v", got.LowStock)
	}
	if got.OrdersByStatus[enums.OrderStatusPending] != 1 || got.OrdersByStatus[enums.OrderStatusCompleted] != 2 || got.OrdersByStatus[enums.OrderStatusCancelled] != 1 {
		t.Fatalf("unexpected status counts: %+v", got.OrdersByStatus)
	}
	if !got.CompletedRevenue.Equal(decimal.RequireFromString("150.50")) {
		t.Fatalf("expected revenue 150.50, got %s", got.CompletedRevenue)
	}
}
