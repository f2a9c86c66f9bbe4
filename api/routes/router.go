package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/bulk"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/customers"
	"github.com/angelmondragon/storefront-backend/internal/dashboard"
	"github.com/angelmondragon/storefront-backend/internal/promotions"
	"github.com/angelmondragon/storefront-backend/internal/recommendations"
	"github.com/angelmondragon/storefront-backend/internal/search"
	"github.com/angelmondragon/storefront-backend/internal/settings"
	"github.com/angelmondragon/storefront-backend/internal/wishlist"
	"github.com/angelmondragon/storefront-backend/pkg/auth/session"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

// Services bundles everything the router hands to controllers.
type Services struct {
	Catalog         catalog.Service
	Customers       customers.Service
	Search          search.Service
	Cart            cart.Service
	Wishlist        wishlist.Service
	Checkout        checkout.Service
	Promotions      promotions.Service
	Settings        settings.Service
	Dashboard       dashboard.Service
	Recommendations recommendations.Service
	Auth            auth.Service
	Importer        *bulk.Importer
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	m *metrics.Metrics,
	loc *time.Location,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(m),
		middleware.CORS(cfg.Storefront.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    dbP,
			"redis": redisClient,
		}))
	})
	r.Handle("/metrics", m.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svc.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svc.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/google", controllers.AuthGoogle(svc.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(svc.Auth, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, sessions, logg))
				r.Post("/logout", controllers.AuthLogout(svc.Auth, logg))
				r.Get("/me", controllers.AuthMe(svc.Auth, logg))
			})
		})

		r.Get("/products", controllers.StorefrontProducts(svc.Search, logg))
		r.Get("/products/{productId}", controllers.StorefrontProduct(svc.Catalog, logg))
		r.Get("/categories", controllers.Categories(svc.Catalog, logg))
		r.Get("/vendors", controllers.Vendors(svc.Catalog, logg))
		r.Get("/vendors/{vendor}/products", controllers.VendorProducts(svc.Search, logg))
		r.Get("/promotions", controllers.Promotions(svc.Promotions, logg))
		r.Get("/settings", controllers.Settings(svc.Settings, logg))
		r.Get("/settings/{key}", controllers.Setting(svc.Settings, logg))

		// Session scoped shopper state. Signed-in shoppers keep using their session id.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(logg))
			r.Use(middleware.OptionalAuth(cfg.JWT, sessions, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(svc.Cart, logg))
				r.Delete("/", controllers.CartClear(svc.Cart, logg))
				r.Post("/items", controllers.CartAddItem(svc.Cart, logg))
				r.Put("/items/{productId}/{presentation}", controllers.CartUpdateItem(svc.Cart, logg))
				r.Delete("/items/{productId}/{presentation}", controllers.CartRemoveItem(svc.Cart, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistGet(svc.Wishlist, logg))
				r.Post("/", controllers.WishlistAdd(svc.Wishlist, logg))
				r.Get("/{productId}", controllers.WishlistContains(svc.Wishlist, logg))
				r.Delete("/{productId}", controllers.WishlistRemove(svc.Wishlist, logg))
				r.Post("/{productId}/toggle", controllers.WishlistToggle(svc.Wishlist, logg))
			})

			r.Get("/recommendations", controllers.Recommendations(svc.Recommendations, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, sessions, logg))
				r.Post("/checkout", controllers.Checkout(svc.Checkout, logg))
				r.Get("/me/orders", controllers.MyOrders(svc.Search, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Get("/dashboard", controllers.AdminDashboard(svc.Dashboard, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProducts(svc.Search, logg))
			r.Post("/", controllers.AdminCreateProduct(svc.Catalog, logg))
			r.Post("/import", controllers.AdminImport(svc.Importer, bulk.KindProducts, cfg.Storefront.ImportMaxBytes, logg))
			r.Get("/{productId}", controllers.AdminProduct(svc.Catalog, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(svc.Catalog, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(svc.Catalog, logg))
			r.Patch("/{productId}/visibility", controllers.AdminSetProductVisibility(svc.Catalog, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.AdminCustomers(svc.Search, logg))
			r.Post("/", controllers.AdminCreateCustomer(svc.Customers, logg))
			r.Post("/import", controllers.AdminImport(svc.Importer, bulk.KindCustomers, cfg.Storefront.ImportMaxBytes, logg))
			r.Get("/{customerId}", controllers.AdminCustomer(svc.Customers, logg))
			r.Patch("/{customerId}", controllers.AdminUpdateCustomer(svc.Customers, logg))
			r.Delete("/{customerId}", controllers.AdminDeleteCustomer(svc.Customers, logg))
			r.Get("/{customerId}/orders", controllers.AdminCustomerOrders(svc.Search, logg))
			r.Put("/{customerId}/orders/{orderId}", controllers.AdminPutOrder(svc.Customers, logg))
			r.Delete("/{customerId}/orders/{orderId}", controllers.AdminDeleteOrder(svc.Customers, logg))
			r.Patch("/{customerId}/orders/{orderId}/status", controllers.AdminSetOrderStatus(svc.Customers, logg))
		})

		r.Get("/orders", controllers.AdminOrders(svc.Search, loc, logg))
		r.Get("/orders/export", controllers.AdminExportOrders(svc.Search, loc, logg))

		r.Route("/promotions", func(r chi.Router) {
			r.Get("/", controllers.Promotions(svc.Promotions, logg))
			r.Post("/", controllers.AdminCreatePromotion(svc.Promotions, logg))
			r.Get("/{promotionId}", controllers.Promotion(svc.Promotions, logg))
			r.Put("/{promotionId}", controllers.AdminUpdatePromotion(svc.Promotions, logg))
			r.Delete("/{promotionId}", controllers.AdminDeletePromotion(svc.Promotions, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.Settings(svc.Settings, logg))
			r.Get("/{key}", controllers.Setting(svc.Settings, logg))
			r.Put("/{key}", controllers.AdminPutSetting(svc.Settings, logg))
			r.Delete("/{key}", controllers.AdminDeleteSetting(svc.Settings, logg))
		})
	})

	return r
}
