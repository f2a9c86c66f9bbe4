package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/customers"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/internal/session"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	redisclient "github.com/angelmondragon/storefront-backend/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shelf map[string]catalog.Product

func (s shelf) GetVisible(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := s[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &p, nil
}

type recordingNotifier struct {
	placed []orders.Order
}

func (r *recordingNotifier) OrderCreated(_ context.Context, o orders.Order) {
	r.placed = append(r.placed, o)
}

type fixture struct {
	svc       Service
	carts     cart.Service
	customers customers.Service
	notifier  *recordingNotifier
	products  shelf
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	mr := miniredis.RunT(t)
	rc := redisclient.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = rc.Close() })
	store, err := session.NewStore(rc, time.Hour, nil)
	require.NoError(t, err)

	bulk := 6
	products := shelf{
		"mate":  {ID: "mate", Name: "Mate Imperial", Category: "Mates", Price: decimal.RequireFromString("12000")},
		"yerba": {ID: "yerba", Name: "Yerba Organica", Category: "Yerbas", Price: decimal.RequireFromString("3200"), UnitsPerBulk: &bulk},
	}
	carts, err := cart.NewService(products, store, nil)
	require.NoError(t, err)
	custs, err := customers.NewService(customers.NewRepository(client.DB()), client)
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	svc, err := NewService(ServiceParams{
		Carts:    carts,
		Orders:   custs,
		Notifier: notifier,
		Now:      func() time.Time { return time.Date(2024, 5, 2, 15, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return fixture{svc: svc, carts: carts, customers: custs, notifier: notifier, products: products}
}

func validInput() Input {
	comment := " dejar en porteria "
	return Input{
		FirstName:  "Ana",
		LastName:   "Paz",
		Phone:      "+54 341 555 0101",
		Address:    "Cordoba 1234",
		City:       "Rosario",
		Province:   "Santa Fe",
		PostalCode: "2000",
		Comment:    &comment,
	}
}

func TestExecutePlacesOrderFromCapturedPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	buyer := Buyer{UserID: "user-1", Email: "ana@example.com", SessionID: "sess-1"}

	_, err := f.carts.AddItem(ctx, "sess-1", cart.AddItemInput{ProductID: "mate", Quantity: 1})
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, "sess-1", cart.AddItemInput{ProductID: "yerba", Quantity: 2, Presentation: enums.PresentationBulk})
	require.NoError(t, err)

	// A later price change must not affect the order.
	mate := f.products["mate"]
	mate.Price = decimal.RequireFromString("99999")
	f.products["mate"] = mate

	order, err := f.svc.Execute(ctx, buyer, validInput())
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("50400")), order.Total.String())
	assert.Equal(t, "dejar en porteria", *order.Comment)
	assert.Equal(t, "Ana Paz", order.CustomerName)

	c, err := f.carts.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	require.Len(t, f.notifier.placed, 1)
	assert.Equal(t, order.ID, f.notifier.placed[0].ID)

	customer, err := f.customers.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", customer.Email)
	assert.Equal(t, "Rosario", customer.City)
	require.Len(t, customer.Orders, 1)
	assert.True(t, customer.Orders[0].Total.Equal(order.Total))
}

func TestExecuteRejectsEmptyCartAndAnonymousBuyer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Execute(ctx, Buyer{UserID: "user-1", SessionID: "sess-empty"}, validInput())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.Execute(ctx, Buyer{SessionID: "sess-empty"}, validInput())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
	assert.Empty(t, f.notifier.placed)
}
