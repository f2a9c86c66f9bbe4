package recommendations

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/wishlist"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

const (
	DefaultLimit = 4
	MaxLimit     = 12
)

type ProductReader interface {
	ListVisible(ctx context.Context) ([]catalog.Product, error)
	GetVisible(ctx context.Context, id string) (*catalog.Product, error)
}

type CartReader interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
}

type WishlistReader interface {
	Get(ctx context.Context, sessionID string) (*wishlist.Wishlist, error)
}

// Request describes who is asking and what they are looking at.
type Request struct {
	SessionID string
	ProductID string
	Limit     int
}

// Result carries the products and the strategy that chose them.
type Result struct {
	Source   enums.RecommendationSource `json:"source"`
	Products []catalog.Product          `json:"products"`
}

type Service interface {
	Recommend(ctx context.Context, req Request) (*Result, error)
}

type Options struct {
	// AI may be nil; recommendations then come from the fallbacks only.
	AI      Recommender
	Metrics *metrics.Metrics
	Logger  *logger.Logger
	Rand    *rand.Rand
}

type service struct {
	products  ProductReader
	carts     CartReader
	wishlists WishlistReader
	ai        Recommender
	metrics   *metrics.Metrics
	logg      *logger.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewService(products ProductReader, carts CartReader, wishlists WishlistReader, opts Options) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product reader is required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart reader is required")
	}
	if wishlists == nil {
		return nil, fmt.Errorf("wishlist reader is required")
	}
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	rnd := opts.Rand
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &service{
		products:  products,
		carts:     carts,
		wishlists: wishlists,
		ai:        opts.AI,
		metrics:   opts.Metrics,
		logg:      logg,
		rnd:       rnd,
	}, nil
}

// Recommend tries the AI model first, then products from the shopper's
// categories, then a random sample. The current product and anything
// already in the cart are never recommended.
func (s *service) Recommend(ctx context.Context, req Request) (*Result, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var current *catalog.Product
	if id := strings.TrimSpace(req.ProductID); id != "" {
		p, err := s.products.GetVisible(ctx, id)
		if err != nil {
			return nil, err
		}
		current = p
	}

	cartItems := s.cartProducts(ctx, req.SessionID)
	liked := s.wishlistProducts(ctx, req.SessionID)

	visible, err := s.products.ListVisible(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	excluded := map[string]struct{}{}
	if current != nil {
		excluded[current.ID] = struct{}{}
	}
	for _, p := range cartItems {
		excluded[p.ID] = struct{}{}
	}
	candidates := make([]catalog.Product, 0, len(visible))
	for _, p := range visible {
		if _, skip := excluded[p.ID]; !skip {
			candidates = append(candidates, p)
		}
	}

	result := &Result{Products: []catalog.Product{}}
	if picked := s.fromAI(ctx, current, cartItems, liked, candidates, limit); len(picked) > 0 {
		result.Source, result.Products = enums.RecommendationSourceAI, picked
	} else if picked := byCategory(current, cartItems, liked, candidates, limit); len(picked) > 0 {
		result.Source, result.Products = enums.RecommendationSourceCategory, picked
	} else {
		result.Source, result.Products = enums.RecommendationSourceRandom, s.sample(candidates, limit)
	}
	s.metrics.IncRecommendation(result.Source.String())
	return result, nil
}

func (s *service) fromAI(ctx context.Context, current *catalog.Product, cartItems, liked, candidates []catalog.Product, limit int) []catalog.Product {
	if s.ai == nil || len(candidates) == 0 {
		return nil
	}
	names := make([]string, 0, len(candidates))
	byName := make(map[string]catalog.Product, len(candidates))
	for _, p := range candidates {
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if _, dup := byName[key]; dup {
			continue
		}
		byName[key] = p
		names = append(names, p.Name)
	}

	suggested, err := s.ai.RecommendNames(ctx, HistorySummary(current, cartItems, liked), names, limit)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "recommendations.ai_failed")
		return nil
	}
	out := []catalog.Product{}
	seen := map[string]struct{}{}
	for _, name := range suggested {
		p, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out
}

func byCategory(current *catalog.Product, cartItems, liked, candidates []catalog.Product, limit int) []catalog.Product {
	categories := map[string]struct{}{}
	if current != nil {
		categories[current.Category] = struct{}{}
	}
	for _, p := range cartItems {
		categories[p.Category] = struct{}{}
	}
	for _, p := range liked {
		categories[p.Category] = struct{}{}
	}
	out := []catalog.Product{}
	for _, p := range candidates {
		if _, ok := categories[p.Category]; !ok {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out
}

func (s *service) sample(candidates []catalog.Product, limit int) []catalog.Product {
	pool := append([]catalog.Product(nil), candidates...)
	s.mu.Lock()
	s.rnd.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	s.mu.Unlock()
	if len(pool) > limit {
		pool = pool[:limit]
	}
	return pool
}

// Snapshot read failures degrade to an empty history.
func (s *service) cartProducts(ctx context.Context, sessionID string) []catalog.Product {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "recommendations.cart_unavailable")
		return nil
	}
	out := make([]catalog.Product, 0, len(c.Items))
	for _, line := range c.Items {
		out = append(out, line.Product)
	}
	return out
}

func (s *service) wishlistProducts(ctx context.Context, sessionID string) []catalog.Product {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	w, err := s.wishlists.Get(ctx, sessionID)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "recommendations.wishlist_unavailable")
		return nil
	}
	return w.Items
}

// HistorySummary renders the free-text history sent to the model.
func HistorySummary(current *catalog.Product, cartItems, liked []catalog.Product) string {
	var b strings.Builder
	if current != nil {
		fmt.Fprintf(&b, "Viewing: %s (%s)\n", current.Name, current.Category)
	}
	if len(cartItems) > 0 {
		fmt.Fprintf(&b, "In cart: %s\n", joinNames(cartItems))
	}
	if len(liked) > 0 {
		fmt.Fprintf(&b, "Liked: %s\n", joinNames(liked))
	}
	if b.Len() == 0 {
		return "New shopper with no history."
	}
	return strings.TrimSpace(b.String())
}

func joinNames(products []catalog.Product) string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, fmt.Sprintf("%s (%s)", p.Name, p.Category))
	}
	return strings.Join(names, ", ")
}
