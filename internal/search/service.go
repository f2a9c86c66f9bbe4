package search

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/customers"
	"github.com/angelmondragon/storefront-backend/internal/orders"
)

type productLister interface {
	ListAll(ctx context.Context) ([]catalog.Product, error)
	ListVisible(ctx context.Context) ([]catalog.Product, error)
}

type customerLister interface {
	List(ctx context.Context) ([]customers.Customer, error)
	ListOrders(ctx context.Context) ([]orders.Order, error)
	OrdersForCustomer(ctx context.Context, customerID string) ([]orders.Order, error)
}

// Service loads collections from persistence and runs the filters over them.
type Service interface {
	StorefrontProducts(ctx context.Context, f ProductFilter) ([]catalog.Product, error)
	AdminProducts(ctx context.Context, f ProductFilter) ([]catalog.Product, error)
	Orders(ctx context.Context, f OrderFilter) ([]orders.Order, error)
	CustomerOrders(ctx context.Context, customerID string) ([]orders.Order, error)
	Customers(ctx context.Context, f CustomerFilter) ([]customers.Customer, error)
}

type service struct {
	products  productLister
	customers customerLister
	loc       *time.Location
}

// NewService wires the search service. loc is the storefront time zone used
// for calendar-day order filters.
func NewService(products productLister, customers customerLister, loc *time.Location) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product lister is required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer lister is required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{products: products, customers: customers, loc: loc}, nil
}

// StorefrontProducts never returns hidden products whatever the filter says.
func (s *service) StorefrontProducts(ctx context.Context, f ProductFilter) ([]catalog.Product, error) {
	list, err := s.products.ListVisible(ctx)
	if err != nil {
		return nil, err
	}
	f.Visibility = ""
	return FilterProducts(list, f), nil
}

func (s *service) AdminProducts(ctx context.Context, f ProductFilter) ([]catalog.Product, error) {
	list, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterProducts(list, f), nil
}

func (s *service) Orders(ctx context.Context, f OrderFilter) ([]orders.Order, error) {
	list, err := s.customers.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	if f.Location == nil {
		f.Location = s.loc
	}
	return FilterOrders(list, f), nil
}

func (s *service) CustomerOrders(ctx context.Context, customerID string) ([]orders.Order, error) {
	list, err := s.customers.OrdersForCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := append([]orders.Order(nil), list...)
	SortNewestFirst(out)
	if out == nil {
		out = []orders.Order{}
	}
	return out, nil
}

func (s *service) Customers(ctx context.Context, f CustomerFilter) ([]customers.Customer, error) {
	list, err := s.customers.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterCustomers(list, f), nil
}
