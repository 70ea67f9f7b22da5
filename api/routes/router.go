package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MyResellApp/MyResell/api/controllers"
	"github.com/MyResellApp/MyResell/api/middleware"
	"github.com/MyResellApp/MyResell/internal/admin"
	authsvc "github.com/MyResellApp/MyResell/internal/auth"
	checkoutsvc "github.com/MyResellApp/MyResell/internal/checkout"
	"github.com/MyResellApp/MyResell/internal/entitlement"
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
	"github.com/MyResellApp/MyResell/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionManager sessionpkg.AccessSessionChecker
	SessionStore   *session.Store
	Auth           authsvc.Service
	Plans          plans.Service
	Products       products.Service
	Orders         orders.Service
	Checkout       checkoutsvc.Service
	Payments       *payments.Repository
	Subscriptions  *subscriptions.Repository
	Users          *users.Repository
	Admins         *admin.Repository
	Metrics        *prometheus.Registry
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Route("/v1/plans", func(r chi.Router) {
			r.Get("/", controllers.PlanList(d.Plans, logg))
			r.Get("/{planId}", controllers.PlanDetail(d.Plans, logg))
		})
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.AuthRegister(d.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(d.Auth, cfg.JWT, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.SessionManager, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/me", func(r chi.Router) {
			r.Get("/", controllers.SessionMe(d.SessionStore, logg))
			r.Patch("/", controllers.SessionUpdateProfile(d.Auth, logg))
		})

		r.Route("/v1/checkout", func(r chi.Router) {
			r.Post("/", controllers.CheckoutBegin(d.Checkout, logg))
			r.Get("/success", controllers.CheckoutSuccess(d.Checkout, logg))
			r.Get("/cancel", controllers.CheckoutCancel(d.Checkout, logg))
		})

		r.Route("/v1/billing", func(r chi.Router) {
			r.Get("/payments", controllers.PaymentHistory(d.Payments, logg))
			r.Get("/subscriptions", controllers.SubscriptionHistory(d.Subscriptions, logg))
		})

		// The reseller catalog and ordering are subscription-gated.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireTier(d.SessionStore, entitlement.TierBasic, logg))

			r.Route("/v1/products", func(r chi.Router) {
				r.Get("/", controllers.ProductList(d.Products, logg))
				r.Get("/{productId}", controllers.ProductDetail(d.Products, logg))
			})
			r.Route("/v1/orders", func(r chi.Router) {
				r.Post("/", controllers.OrderPlace(d.Orders, logg))
				r.Get("/", controllers.OrderList(d.Orders, logg))
				r.Get("/{orderId}", controllers.OrderDetail(d.Orders, logg))
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.SessionManager, logg))
		r.Use(middleware.RequireAdmin(d.SessionStore, logg))

		r.Get("/ping", controllers.AdminPing())

		r.Route("/v1/plans", func(r chi.Router) {
			r.Post("/", controllers.AdminPlanCreate(d.Plans, logg))
			r.Patch("/{planId}", controllers.AdminPlanUpdate(d.Plans, logg))
			r.Delete("/{planId}", controllers.AdminPlanDelete(d.Plans, logg))
		})
		r.Route("/v1/products", func(r chi.Router) {
			r.Post("/", controllers.AdminProductCreate(d.Products, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(d.Products, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(d.Products, logg))
		})
		r.Route("/v1/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUserList(d.Users, logg))
			r.Post("/{userId}/admin", controllers.AdminUserToggle(d.Admins, d.Users, d.SessionStore, logg))
		})
		r.Route("/v1/orders", func(r chi.Router) {
			r.Post("/{orderId}/status", controllers.AdminOrderStatus(d.Orders, logg))
		})
	})

	return r
}
