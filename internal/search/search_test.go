package search

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/customers"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }

func catalogFixture() []catalog.Product {
	return []catalog.Product{
		{ID: "z1", Name: "Zapatillas Urbanas Cóndor", Description: "Calzado liviano", Category: "Calzado", Vendor: "Cóndor"},
		{ID: "m1", Name: "Mate Imperial", Description: "Calabaza forrada en cuero", Category: "Mates", Vendor: "Pampa"},
		{ID: "m2", Name: "Mate Camionero", Description: "Oculto", Category: "Mates", Vendor: "pampa", Visible: boolPtr(false)},
		{ID: "b1", Name: "Bombilla Pico de Loro", Category: "Bombillas", Vendor: "Pampa", Visible: boolPtr(true)},
	}
}

func ids(products []catalog.Product) []string {
	out := []string{}
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func orderIDs(list []orders.Order) []string {
	out := []string{}
	for _, o := range list {
		out = append(out, o.ID)
	}
	return out
}

func TestFreeTextRequiresEveryTerm(t *testing.T) {
	got := FilterProducts(catalogFixture(), ProductFilter{Query: "zapatillas urbanas"})
	assert.Equal(t, []string{"z1"}, ids(got))

	got = FilterProducts(catalogFixture(), ProductFilter{Query: "  MATE   cuero "})
	assert.Equal(t, []string{"m1"}, ids(got))

	got = FilterProducts(catalogFixture(), ProductFilter{Query: "   "})
	assert.Len(t, got, 4)
}

func TestCategorySentinelsBypass(t *testing.T) {
	for _, category := range []string{"", "all", "ALL", "Todos"} {
		got := FilterProducts(catalogFixture(), ProductFilter{Category: category})
		assert.Len(t, got, 4, "category %q", category)
	}
	got := FilterProducts(catalogFixture(), ProductFilter{Category: "Mates"})
	assert.Equal(t, []string{"m1", "m2"}, ids(got))

	got = FilterProducts(catalogFixture(), ProductFilter{Category: "mates"})
	assert.Empty(t, got, "category match is exact")
}

func TestVisibilityFilterTreatsUnsetAsVisible(t *testing.T) {
	visible := FilterProducts(catalogFixture(), ProductFilter{Visibility: enums.VisibilityVisible})
	assert.Equal(t, []string{"z1", "m1", "b1"}, ids(visible))

	hidden := FilterProducts(catalogFixture(), ProductFilter{Visibility: enums.VisibilityHidden})
	assert.Equal(t, []string{"m2"}, ids(hidden))
}

func TestVendorFilterIsCaseInsensitive(t *testing.T) {
	got := FilterProducts(catalogFixture(), ProductFilter{Vendor: "PAMPA"})
	assert.Equal(t, []string{"m1", "m2", "b1"}, ids(got))
}

func TestOrderDateRangeIsInclusiveAndNewestFirst(t *testing.T) {
	loc := time.UTC
	list := []orders.Order{
		{ID: "jan1", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, loc)},
		{ID: "jan15", Date: time.Date(2024, 1, 15, 9, 30, 0, 0, loc)},
		{ID: "feb1", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, loc)},
	}
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, loc)

	got := FilterOrders(list, OrderFilter{From: &from, To: &to, Location: loc})
	assert.Equal(t, []string{"jan15", "jan1"}, orderIDs(got))
}

func TestOrderRangeEndIncludesLastMillisecond(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	day := time.Date(2024, 1, 31, 0, 0, 0, 0, loc)
	list := []orders.Order{
		{ID: "late", Date: time.Date(2024, 1, 31, 23, 59, 59, int(999*time.Millisecond), loc)},
		{ID: "next", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, loc)},
		// 02:30 UTC on Feb 1 is still Jan 31 in Buenos Aires.
		{ID: "utc", Date: time.Date(2024, 2, 1, 2, 30, 0, 0, time.UTC)},
	}
	got := FilterOrders(list, OrderFilter{From: &day, To: &day, Location: loc})
	assert.ElementsMatch(t, []string{"late", "utc"}, orderIDs(got))
}

func TestOrderStatusDefaultsToPending(t *testing.T) {
	list := []orders.Order{
		{ID: "a", Status: enums.OrderStatusCompleted},
		{ID: "b"},
		{ID: "c", Status: enums.OrderStatusPending},
	}
	got := FilterOrders(list, OrderFilter{Status: "pendiente"})
	assert.ElementsMatch(t, []string{"b", "c"}, orderIDs(got))

	got = FilterOrders(list, OrderFilter{Status: "all"})
	assert.Len(t, got, 3)
}

func TestOrderTextSearchCoversCustomerAndProducts(t *testing.T) {
	list := []orders.Order{
		{ID: "o-1", CustomerID: "c-1", CustomerName: "Ana Perez", Items: []orders.Line{{Product: catalog.Product{ID: "z1", Name: "Zapatillas Urbanas Cóndor"}}}},
		{ID: "o-2", CustomerID: "c-2", CustomerName: "Luis Gomez", Items: []orders.Line{{Product: catalog.Product{ID: "m1", Name: "Mate Imperial"}}}},
	}
	assert.Equal(t, []string{"o-1"}, orderIDs(FilterOrders(list, OrderFilter{Query: "ana cóndor"})))
	assert.Equal(t, []string{"o-2"}, orderIDs(FilterOrders(list, OrderFilter{Query: "m1"})))
	assert.Equal(t, []string{"o-2"}, orderIDs(FilterOrders(list, OrderFilter{Query: "c-2"})))
	assert.Empty(t, FilterOrders(list, OrderFilter{Query: "ana imperial"}))
}

func TestFilterCustomers(t *testing.T) {
	list := []customers.Customer{
		{ID: "c-1", FirstName: "Ana", LastName: "Perez", Email: "ana@example.com", Phone: "341-555"},
		{ID: "c-2", FirstName: "Luis", LastName: "Gomez", Email: "luis@example.com"},
	}
	got := FilterCustomers(list, CustomerFilter{Query: "perez 341"})
	require.Len(t, got, 1)
	assert.Equal(t, "c-1", got[0].ID)
	assert.Len(t, FilterCustomers(list, CustomerFilter{}), 2)
}

func TestFiltersDoNotMutateInput(t *testing.T) {
	list := []orders.Order{
		{ID: "old", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "new", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	_ = FilterOrders(list, OrderFilter{})
	assert.Equal(t, "old", list[0].ID)
}

type stubLister struct {
	products []catalog.Product
	orders   []orders.Order
}

func (s stubLister) ListAll(context.Context) ([]catalog.Product, error) { return s.products, nil }
func (s stubLister) ListVisible(context.Context) ([]catalog.Product, error) {
	out := []catalog.Product{}
	for _, p := range s.products {
		if p.IsVisible() {
			out = append(out, p)
		}
	}
	return out, nil
}
func (s stubLister) List(context.Context) ([]customers.Customer, error)  { return nil, nil }
func (s stubLister) ListOrders(context.Context) ([]orders.Order, error) { return s.orders, nil }
func (s stubLister) OrdersForCustomer(context.Context, string) ([]orders.Order, error) {
	return s.orders, nil
}

func TestServiceStorefrontIgnoresVisibilityOverride(t *testing.T) {
	stub := stubLister{products: catalogFixture()}
	svc, err := NewService(stub, stub, nil)
	require.NoError(t, err)

	got, err := svc.StorefrontProducts(context.Background(), ProductFilter{Visibility: enums.VisibilityHidden})
	require.NoError(t, err)
	assert.Equal(t, []string{"z1", "m1", "b1"}, ids(got))

	admin, err := svc.AdminProducts(context.Background(), ProductFilter{Visibility: enums.VisibilityHidden})
	require.NoError(t, err)
	assert.Equal(t, []string{"m2"}, ids(admin))
}

func TestServiceCustomerOrdersNewestFirst(t *testing.T) {
	stub := stubLister{orders: []orders.Order{
		{ID: "a", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "b", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}}
	svc, err := NewService(stub, stub, time.UTC)
	require.NoError(t, err)
	got, err := svc.CustomerOrders(context.Background(), "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, orderIDs(got))
	assert.Equal(t, "a", stub.orders[0].ID)
}
