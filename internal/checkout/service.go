package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/customers"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/google/uuid"
)

// Input is the contact and delivery form submitted at checkout.
type Input struct {
	FirstName  string  `json:"first_name" validate:"required,max=100"`
	LastName   string  `json:"last_name" validate:"required,max=100"`
	Email      string  `json:"email" validate:"omitempty,email,max=254"`
	Phone      string  `json:"phone" validate:"required,max=40"`
	Address    string  `json:"address" validate:"required,max=200"`
	City       string  `json:"city" validate:"required,max=100"`
	Province   string  `json:"province" validate:"required,max=100"`
	PostalCode string  `json:"postal_code" validate:"required,max=20"`
	Comment    *string `json:"comment" validate:"omitempty,max=2000"`
}

// Buyer identifies the signed-in shopper placing the order.
type Buyer struct {
	UserID    string
	Email     string
	SessionID string
}

type cartStore interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type orderPlacer interface {
	PlaceOrder(ctx context.Context, profile customers.CustomerInput, order orders.Order) (*orders.Order, error)
}

type orderNotifier interface {
	OrderCreated(ctx context.Context, o orders.Order)
}

// Service executes checkout orchestration.
type Service interface {
	Execute(ctx context.Context, buyer Buyer, input Input) (*orders.Order, error)
}

type ServiceParams struct {
	Carts    cartStore
	Orders   orderPlacer
	Notifier orderNotifier
	Metrics  *metrics.Metrics
	Logger   *logger.Logger
	Now      func() time.Time
}

type service struct {
	carts    cartStore
	orders   orderPlacer
	notifier orderNotifier
	metrics  *metrics.Metrics
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart store is required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order placer is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("order notifier is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		carts:    params.Carts,
		orders:   params.Orders,
		notifier: params.Notifier,
		metrics:  params.Metrics,
		logg:     logg,
		now:      now,
	}, nil
}

// Execute turns the session cart into a pending order for the buyer, then
// empties the cart. The order total comes from the unit prices captured
// when each line entered the cart.
func (s *service) Execute(ctx context.Context, buyer Buyer, input Input) (*orders.Order, error) {
	if strings.TrimSpace(buyer.UserID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to place an order")
	}
	current, err := s.carts.Get(ctx, buyer.SessionID)
	if err != nil {
		s.metrics.IncCheckout("failed")
		return nil, err
	}
	if current.IsEmpty() {
		s.metrics.IncCheckout("empty_cart")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lines := make([]orders.Line, 0, len(current.Items))
	for _, item := range current.Items {
		lines = append(lines, orders.Line{
			Product:      item.Product,
			Quantity:     item.Quantity,
			Presentation: item.Presentation,
			UnitPrice:    item.UnitPrice,
		})
	}
	order, err := orders.New(uuid.NewString(), buyer.UserID, lines, input.Comment, s.now())
	if err != nil {
		s.metrics.IncCheckout("failed")
		return nil, err
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		email = buyer.Email
	}
	placed, err := s.orders.PlaceOrder(ctx, customers.CustomerInput{
		ID:         buyer.UserID,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      email,
		Phone:      input.Phone,
		Address:    input.Address,
		City:       input.City,
		Province:   input.Province,
		PostalCode: input.PostalCode,
	}, order)
	if err != nil {
		s.metrics.IncCheckout("failed")
		return nil, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{"order_id": placed.ID, "customer_id": placed.CustomerID})
	if err := s.carts.Clear(ctx, buyer.SessionID); err != nil {
		s.logg.Error(logCtx, "checkout.cart_clear_failed", err)
	}
	s.notifier.OrderCreated(ctx, *placed)
	s.metrics.IncCheckout("placed")
	s.logg.Info(logCtx, "checkout.order_placed")
	return placed, nil
}
