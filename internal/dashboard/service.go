package dashboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/customers"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Summary is the admin landing page overview.
type Summary struct {
	Products         int                       `json:"products"`
	HiddenProducts   int                       `json:"hidden_products"`
	LowStock         []LowStockProduct         `json:"low_stock"`
	Customers        int                       `json:"customers"`
	Orders           int                       `json:"orders"`
	OrdersByStatus   map[enums.OrderStatus]int `json:"orders_by_status"`
	CompletedRevenue decimal.Decimal           `json:"completed_revenue"`
}

type LowStockProduct struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

type productLister interface {
	ListAll(ctx context.Context) ([]catalog.Product, error)
}

type customerLister interface {
	List(ctx context.Context) ([]customers.Customer, error)
	ListOrders(ctx context.Context) ([]orders.Order, error)
}

type Service interface {
	Summary(ctx context.Context) (*Summary, error)
}

type service struct {
	products  productLister
	customers customerLister
	threshold int
}

func NewService(products productLister, customers customerLister, lowStockThreshold int) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product lister is required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer lister is required")
	}
	return &service{products: products, customers: customers, threshold: lowStockThreshold}, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	custs, err := s.customers.List(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.customers.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	out := &Summary{
		Products:         len(products),
		LowStock:         []LowStockProduct{},
		Customers:        len(custs),
		Orders:           len(list),
		OrdersByStatus:   map[enums.OrderStatus]int{},
		CompletedRevenue: decimal.Zero,
	}
	for _, status := range enums.OrderStatuses() {
		out.OrdersByStatus[status] = 0
	}
	for _, p := range products {
		if !p.IsVisible() {
			out.HiddenProducts++
		}
		if p.Stock <= s.threshold {
			out.LowStock = append(out.LowStock, LowStockProduct{ID: p.ID, Name: p.Name, Stock: p.Stock})
		}
	}
	sort.SliceStable(out.LowStock, func(i, j int) bool { return out.LowStock[i].Stock < out.LowStock[j].Stock })

	for _, o := range list {
		status := o.EffectiveStatus()
		out.OrdersByStatus[status]++
		if status == enums.OrderStatusCompleted {
			out.CompletedRevenue = out.CompletedRevenue.Add(o.Total)
		}
	}
	return out, nil
}
