package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ardiansetya/kasirpoint-backend/api/controllers"
	"github.com/ardiansetya/kasirpoint-backend/api/middleware"
	"github.com/ardiansetya/kasirpoint-backend/internal/audit"
	"github.com/ardiansetya/kasirpoint-backend/internal/auth"
	"github.com/ardiansetya/kasirpoint-backend/internal/cart"
	"github.com/ardiansetya/kasirpoint-backend/internal/media"
	"github.com/ardiansetya/kasirpoint-backend/internal/products"
	"github.com/ardiansetya/kasirpoint-backend/internal/reports"
	"github.com/ardiansetya/kasirpoint-backend/internal/settings"
	"github.com/ardiansetya/kasirpoint-backend/internal/transactions"
	"github.com/ardiansetya/kasirpoint-backend/internal/users"
	"github.com/ardiansetya/kasirpoint-backend/pkg/config"
	"github.com/ardiansetya/kasirpoint-backend/pkg/enums"
	"github.com/ardiansetya/kasirpoint-backend/pkg/logger"
	"github.com/ardiansetya/kasirpoint-backend/pkg/metrics"
	"github.com/ardiansetya/kasirpoint-backend/pkg/redis"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Logger    *logger.Logger
	Redis     *redis.Client
	Metrics   *metrics.HTTPMetrics
	Pingers   map[string]controllers.Pinger
	CartStore *cart.Store

	AuthService     auth.Service
	UsersRepo       *users.Repository
	ProductsSvc     products.Service
	TransactionsSvc transactions.Service
	ReportsSvc      *reports.Service
	SettingsSvc     settings.Service
	AuditSvc        audit.Service
	MediaSvc        media.Service
}

func NewRouter(cfg *config.Config, deps Deps) http.Handler {
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(
		prometheus.DefaultGatherer,
		promhttp.HandlerOpts{},
	))

	authed := middleware.Auth(cfg.JWT, deps.Redis, logg)
	adminOnly := middleware.RequireRole(enums.UserRoleAdmin, logg)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(authed).Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
		r.With(authed, adminOnly).Post("/register", controllers.AuthRegister(deps.AuthService, logg))
	})

	maxUpload := int64(cfg.Media.MaxUploadMB) << 20

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authed)

		r.Get("/me", controllers.Me(deps.UsersRepo, logg))
		r.Put("/me/image", controllers.MeUploadImage(deps.UsersRepo, deps.MediaSvc, logg, maxUpload))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(deps.ProductsSvc, logg, false))
			r.Get("/{productID}", controllers.ProductsGet(deps.ProductsSvc, logg))
		})

		r.Get("/categories", controllers.CategoriesList(deps.ProductsSvc, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.CartStore, logg))
			r.Post("/items", controllers.CartAddItem(deps.CartStore, deps.ProductsSvc, logg))
			r.Put("/items/{productID}", controllers.CartSetQuantity(deps.CartStore, logg))
			r.Delete("/items/{productID}", controllers.CartRemoveItem(deps.CartStore, logg))
			r.Delete("/", controllers.CartClear(deps.CartStore, logg))
		})

		r.Post("/checkout", controllers.Checkout(deps.TransactionsSvc, deps.CartStore, logg))

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", controllers.TransactionsHistory(deps.TransactionsSvc, logg))
			r.Get("/{transactionID}", controllers.TransactionsGet(deps.TransactionsSvc, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/search", controllers.ReportsSearch(deps.ReportsSvc, logg))
			r.Post("/load-more", controllers.ReportsLoadMore(deps.ReportsSvc, logg))
			r.Get("/totals", controllers.ReportsTotals(deps.ReportsSvc, logg))
		})

		r.Get("/settings", controllers.SettingsList(deps.SettingsSvc, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Use(adminOnly)

			r.Get("/products", controllers.ProductsList(deps.ProductsSvc, logg, true))
			r.Post("/products", controllers.ProductsCreate(deps.ProductsSvc, logg))
			r.Put("/products/{productID}", controllers.ProductsUpdate(deps.ProductsSvc, logg))
			r.Delete("/products/{productID}", controllers.ProductsDelete(deps.ProductsSvc, logg))

			r.Post("/categories", controllers.CategoriesCreate(deps.ProductsSvc, logg))

			r.Put("/settings", controllers.SettingsUpdate(deps.SettingsSvc, logg))

			r.Get("/users", controllers.UsersList(deps.UsersRepo, logg))
			r.Get("/audit", controllers.AuditList(deps.AuditSvc, logg))

			r.Post("/media/products", controllers.MediaUpload(deps.MediaSvc, logg, media.KindProduct, maxUpload))
			r.Post("/media/users", controllers.MediaUpload(deps.MediaSvc, logg, media.KindUser, maxUpload))
		})
	})

	return r
}
