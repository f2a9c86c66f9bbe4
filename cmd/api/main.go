package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-backend/api"
	"github.com/angelmondragon/storefront-backend/api/routes"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/bulk"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/customers"
	"github.com/angelmondragon/storefront-backend/internal/dashboard"
	"github.com/angelmondragon/storefront-backend/internal/events"
	"github.com/angelmondragon/storefront-backend/internal/promotions"
	"github.com/angelmondragon/storefront-backend/internal/recommendations"
	"github.com/angelmondragon/storefront-backend/internal/search"
	shopsession "github.com/angelmondragon/storefront-backend/internal/session"
	"github.com/angelmondragon/storefront-backend/internal/settings"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/internal/wishlist"
	"github.com/angelmondragon/storefront-backend/pkg/auth/session"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/instance"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
	"github.com/angelmondragon/storefront-backend/pkg/pubsub"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
	"github.com/angelmondragon/storefront-backend/pkg/security"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	loc, err := cfg.Storefront.Location()
	if err != nil {
		return err
	}

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, redisClient.Close()) }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}
	snapshots, err := shopsession.NewStore(redisClient, cfg.Storefront.SessionTTL, logg)
	if err != nil {
		return err
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.PubSub.Enabled() {
		psClient, psErr := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, pubsub.Options{RequireTopic: true}, logg)
		if psErr != nil {
			return psErr
		}
		defer func() { err = multierr.Append(err, psClient.Close()) }()
		pub, psErr := events.NewPubSubPublisher(psClient.OrdersPublisher())
		if psErr != nil {
			return psErr
		}
		publisher = pub
	}

	catalogSvc, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}
	customerSvc, err := customers.NewService(customers.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		return err
	}
	searchSvc, err := search.NewService(catalogSvc, customerSvc, loc)
	if err != nil {
		return err
	}
	cartSvc, err := cart.NewService(catalogSvc, snapshots, m)
	if err != nil {
		return err
	}
	wishlistSvc, err := wishlist.NewService(catalogSvc, snapshots, m)
	if err != nil {
		return err
	}
	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		Carts:    cartSvc,
		Orders:   customerSvc,
		Notifier: events.NewOrderNotifier(publisher, logg),
		Metrics:  m,
		Logger:   logg,
	})
	if err != nil {
		return err
	}
	promotionSvc, err := promotions.NewService(promotions.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}
	settingsSvc, err := settings.NewService(settings.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}
	dashboardSvc, err := dashboard.NewService(catalogSvc, customerSvc, cfg.Storefront.LowStockThreshold)
	if err != nil {
		return err
	}

	ai, err := recommendations.NewOpenAIRecommender(cfg.OpenAI)
	if err != nil {
		return err
	}
	recommendationSvc, err := recommendations.NewService(catalogSvc, cartSvc, wishlistSvc, recommendations.Options{
		AI:      ai,
		Metrics: m,
		Logger:  logg,
	})
	if err != nil {
		return err
	}

	authParams := auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		Hasher:         security.NewHasher(cfg.Password),
		JWTConfig:      cfg.JWT,
		Storefront:     cfg.Storefront,
	}
	if cfg.Google.ClientID != "" {
		verifier, verr := auth.NewIDTokenVerifier(cfg.Google.ClientID)
		if verr != nil {
			return verr
		}
		authParams.Google = verifier
	}
	authSvc, err := auth.NewService(authParams)
	if err != nil {
		return err
	}

	importer, err := bulk.NewImporter(catalogSvc, customerSvc, m, logg)
	if err != nil {
		return err
	}

	router := routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, m, loc, routes.Services{
		Catalog:         catalogSvc,
		Customers:       customerSvc,
		Search:          searchSvc,
		Cart:            cartSvc,
		Wishlist:        wishlistSvc,
		Checkout:        checkoutSvc,
		Promotions:      promotionSvc,
		Settings:        settingsSvc,
		Dashboard:       dashboardSvc,
		Recommendations: recommendationSvc,
		Auth:            authSvc,
		Importer:        importer,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"instance":    instance.GetID("api-0"),
		"addr":        addr,
		"ai_enabled":  ai != nil,
		"events":      cfg.PubSub.Enabled(),
		"google_auth": authParams.Google != nil,
	})
	logg.Info(logCtx, "starting api server")

	return api.Serve(ctx, api.NewServer(addr, router), logg)
}
