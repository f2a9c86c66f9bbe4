package wishlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/session"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

// ProductReader resolves shopper-visible products.
type ProductReader interface {
	GetVisible(ctx context.Context, id string) (*catalog.Product, error)
}

// SnapshotStore is the durable slot the wishlist is loaded from and saved to.
type SnapshotStore interface {
	Load(ctx context.Context, slot session.Slot, sessionID string, dest any) (bool, error)
	Save(ctx context.Context, slot session.Slot, sessionID string, value any) error
}

// View is the wishlist as returned to clients.
type View struct {
	Items []catalog.Product `json:"items"`
	Count int               `json:"count"`
}

// Membership answers "is this product liked".
type Membership struct {
	ProductID  string `json:"product_id"`
	InWishlist bool   `json:"in_wishlist"`
}

func NewView(w *Wishlist) View {
	items := w.Items
	if items == nil {
		items = []catalog.Product{}
	}
	return View{Items: items, Count: w.Count()}
}

// Service exposes wishlist operations over the session slot.
type Service interface {
	Get(ctx context.Context, sessionID string) (*Wishlist, error)
	Contains(ctx context.Context, sessionID, productID string) (bool, error)
	Add(ctx context.Context, sessionID, productID string) (*Wishlist, error)
	Remove(ctx context.Context, sessionID, productID string) (*Wishlist, error)
	Toggle(ctx context.Context, sessionID, productID string) (bool, *Wishlist, error)
}

type service struct {
	products ProductReader
	store    SnapshotStore
	metrics  *metrics.Metrics
}

// NewService builds a wishlist service with the required dependencies.
func NewService(products ProductReader, store SnapshotStore, m *metrics.Metrics) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product reader is required")
	}
	if store == nil {
		return nil, fmt.Errorf("snapshot store is required")
	}
	return &service{products: products, store: store, metrics: m}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*Wishlist, error) {
	return s.load(ctx, sessionID)
}

func (s *service) Contains(ctx context.Context, sessionID, productID string) (bool, error) {
	w, err := s.load(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return w.Contains(strings.TrimSpace(productID)), nil
}

func (s *service) Add(ctx context.Context, sessionID, productID string) (*Wishlist, error) {
	product, err := s.products.GetVisible(ctx, strings.TrimSpace(productID))
	if err != nil {
		return nil, err
	}
	w, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	w.Add(*product)
	if err := s.save(ctx, sessionID, w); err != nil {
		return nil, err
	}
	s.metrics.IncStoreMutation("wishlist", "add")
	return w, nil
}

// Remove does not consult the catalog so deleted products can still be unliked.
func (s *service) Remove(ctx context.Context, sessionID, productID string) (*Wishlist, error) {
	w, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	w.Remove(strings.TrimSpace(productID))
	if err := s.save(ctx, sessionID, w); err != nil {
		return nil, err
	}
	s.metrics.IncStoreMutation("wishlist", "remove")
	return w, nil
}

func (s *service) Toggle(ctx context.Context, sessionID, productID string) (bool, *Wishlist, error) {
	productID = strings.TrimSpace(productID)
	w, err := s.load(ctx, sessionID)
	if err != nil {
		return false, nil, err
	}
	if w.Contains(productID) {
		w.Remove(productID)
	} else {
		product, err := s.products.GetVisible(ctx, productID)
		if err != nil {
			return false, nil, err
		}
		w.Add(*product)
	}
	if err := s.save(ctx, sessionID, w); err != nil {
		return false, nil, err
	}
	s.metrics.IncStoreMutation("wishlist", "toggle")
	return w.Contains(productID), w, nil
}

func (s *service) load(ctx context.Context, sessionID string) (*Wishlist, error) {
	var w Wishlist
	found, err := s.store.Load(ctx, session.SlotWishlist, sessionID, &w)
	if err != nil {
		return nil, snapshotError(err, "load wishlist")
	}
	if !found {
		return &Wishlist{}, nil
	}
	w.normalize()
	return &w, nil
}

func (s *service) save(ctx context.Context, sessionID string, w *Wishlist) error {
	if err := s.store.Save(ctx, session.SlotWishlist, sessionID, w); err != nil {
		return snapshotError(err, "save wishlist")
	}
	return nil
}

func snapshotError(err error, msg string) error {
	if errors.Is(err, session.ErrSessionRequired) {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
