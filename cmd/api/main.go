package main

import (
	"context"
	"net/http"
	"os"

	"github.com/MyResellApp/MyResell/api/routes"
	"github.com/MyResellApp/MyResell/internal/admin"
	"github.com/MyResellApp/MyResell/internal/auth"
	"github.com/MyResellApp/MyResell/internal/checkout"
	"github.com/MyResellApp/MyResell/internal/orders"
	"github.com/MyResellApp/MyResell/internal/payments"
	"github.com/MyResellApp/MyResell/internal/plans"
	"github.com/MyResellApp/MyResell/internal/products"
	"github.com/MyResellApp/MyResell/internal/session"
	"github.com/MyResellApp/MyResell/internal/subscriptions"
	"github.com/MyResellApp/MyResell/internal/users"
	sessionpkg "github.com/MyResellApp/MyResell/pkg/auth/session"
	"github.com/MyResellApp/MyResell/pkg/config"
	"github.com/MyResellApp/MyResell/pkg/db"
	"github.com/MyResellApp/MyResell/pkg/logger"
	"github.com/MyResellApp/MyResell/pkg/metrics"
	"github.com/MyResellApp/MyResell/pkg/migrate"
	"github.com/MyResellApp/MyResell/pkg/redis"
	pkgstripe "github.com/MyResellApp/MyResell/pkg/stripe"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := sessionpkg.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	adminRepo := admin.NewRepository(dbClient.DB())
	planRepo := plans.NewRepository(dbClient.DB())
	subscriptionRepo := subscriptions.NewRepository(dbClient.DB())
	paymentRepo := payments.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())

	sessionStore, err := session.NewStore(session.StoreParams{
		Users:         userRepo,
		Subscriptions: subscriptionRepo,
		Admins:        adminRepo,
		Bus:           redisClient,
		Logger:        logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create session store", err)
		os.Exit(1)
	}

	storeCtx, stopStore := context.WithCancel(context.Background())
	defer stopStore()
	go func() {
		if err := sessionStore.Run(storeCtx); err != nil && storeCtx.Err() == nil {
			logg.Error(storeCtx, "session invalidation listener stopped", err)
		}
	}()

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		AdminRepo:      adminRepo,
		SessionManager: sessionManager,
		Sessions:       sessionStore,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	planService, err := plans.NewService(plans.ServiceParams{Repo: planRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create plan service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.ServiceParams{Repo: productRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:     orderRepo,
		Products: productRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	var stripeClient checkout.StripeCheckoutClient
	if cfg.Stripe.Configured() {
		api, err := pkgstripe.NewClient(context.Background(), cfg.Stripe, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to configure stripe", err)
			os.Exit(1)
		}
		stripeClient = checkout.NewStripeClient(api)
	} else {
		logg.Warn(context.Background(), "stripe keys missing or placeholder, hosted checkout disabled")
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Plans:         planRepo,
		Subscriptions: subscriptionRepo,
		Payments:      paymentRepo,
		Sessions:      sessionStore,
		Stripe:        stripeClient,
		Simulator:     checkout.NewSimulatedProvider(cfg.Checkout),
		StripeConfig:  cfg.Stripe,
		Checkout:      cfg.Checkout,
		Metrics:       checkoutMetrics,
		Logger:        logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			SessionManager: sessionManager,
			SessionStore:   sessionStore,
			Auth:           authService,
			Plans:          planService,
			Products:       productService,
			Orders:         orderService,
			Checkout:       checkoutService,
			Payments:       paymentRepo,
			Subscriptions:  subscriptionRepo,
			Users:          userRepo,
			Admins:         adminRepo,
			Metrics:        registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
