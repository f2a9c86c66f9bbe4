package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/session"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

// ProductReader resolves shopper-visible products.
type ProductReader interface {
	GetVisible(ctx context.Context, id string) (*catalog.Product, error)
}

// SnapshotStore is the durable slot the cart is loaded from and saved to.
type SnapshotStore interface {
	Load(ctx context.Context, slot session.Slot, sessionID string, dest any) (bool, error)
	Save(ctx context.Context, slot session.Slot, sessionID string, value any) error
	Delete(ctx context.Context, slot session.Slot, sessionID string) error
}

// Service applies one cart operation per call: load, mutate, save.
type Service interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	ItemQuantity(ctx context.Context, sessionID, productID string, presentation enums.Presentation) (int, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (*Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, presentation enums.Presentation, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, sessionID, productID string, presentation enums.Presentation) (*Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	products ProductReader
	store    SnapshotStore
	metrics  *metrics.Metrics
}

// NewService builds a cart service with the required dependencies.
func NewService(products ProductReader, store SnapshotStore, m *metrics.Metrics) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product reader is required")
	}
	if store == nil {
		return nil, fmt.Errorf("snapshot store is required")
	}
	return &service{products: products, store: store, metrics: m}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	return s.load(ctx, sessionID)
}

func (s *service) ItemQuantity(ctx context.Context, sessionID, productID string, presentation enums.Presentation) (int, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return c.Quantity(strings.TrimSpace(productID), presentation), nil
}

// AddItem only accepts products that exist and are visible.
func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*Cart, error) {
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	presentation := input.Presentation
	if presentation == "" {
		presentation = enums.PresentationUnit
	}
	if !presentation.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid presentation")
	}

	product, err := s.products.GetVisible(ctx, strings.TrimSpace(input.ProductID))
	if err != nil {
		return nil, err
	}

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.Add(*product, quantity, presentation)
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	s.metrics.IncStoreMutation("cart", "add")
	return c, nil
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID, productID string, presentation enums.Presentation, quantity int) (*Cart, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	productID = strings.TrimSpace(productID)
	if quantity > 0 && !c.Has(productID, presentation) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	c.UpdateQuantity(productID, presentation, quantity)
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	s.metrics.IncStoreMutation("cart", "update")
	return c, nil
}

func (s *service) RemoveItem(ctx context.Context, sessionID, productID string, presentation enums.Presentation) (*Cart, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.Remove(strings.TrimSpace(productID), presentation)
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	s.metrics.IncStoreMutation("cart", "remove")
	return c, nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, session.SlotCart, sessionID); err != nil {
		return snapshotError(err, "clear cart")
	}
	s.metrics.IncStoreMutation("cart", "clear")
	return nil
}

func (s *service) load(ctx context.Context, sessionID string) (*Cart, error) {
	var c Cart
	found, err := s.store.Load(ctx, session.SlotCart, sessionID, &c)
	if err != nil {
		return nil, snapshotError(err, "load cart")
	}
	if !found {
		return &Cart{}, nil
	}
	c.normalize()
	return &c, nil
}

func (s *service) save(ctx context.Context, sessionID string, c *Cart) error {
	if err := s.store.Save(ctx, session.SlotCart, sessionID, c); err != nil {
		return snapshotError(err, "save cart")
	}
	return nil
}

func snapshotError(err error, msg string) error {
	if errors.Is(err, session.ErrSessionRequired) {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
