package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ardiansetya/kasirpoint-backend/api/controllers"
	"github.com/ardiansetya/kasirpoint-backend/api/routes"
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
	"github.com/ardiansetya/kasirpoint-backend/pkg/db"
	"github.com/ardiansetya/kasirpoint-backend/pkg/logger"
	"github.com/ardiansetya/kasirpoint-backend/pkg/metrics"
	"github.com/ardiansetya/kasirpoint-backend/pkg/migrate"
	"github.com/ardiansetya/kasirpoint-backend/pkg/redis"
	"github.com/ardiansetya/kasirpoint-backend/pkg/storage/gcs"
	"gorm.io/gorm"
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

	gcsClient, err := gcs.NewClient(cfg.GCS, cfg.GCP)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap cloud storage", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	auditService, err := audit.NewService(audit.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create audit service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		TokenRevoker:   redisClient,
		Audit:          auditService,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	settingsService, err := settings.NewService(settings.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(products.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	transactionsService, err := transactions.NewService(transactions.ServiceParams{
		Tx: dbClient,
		Repos: func(tx *gorm.DB) transactions.TxRepos {
			return transactions.TxRepos{
				Transactions: transactions.NewRepository(tx),
				Stock:        products.NewRepository(tx),
			}
		},
		History:  transactions.NewRepository(dbClient.DB()),
		Settings: settingsService,
		Audit:    auditService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create transactions service", err)
		os.Exit(1)
	}

	reportsService, err := reports.NewService(reports.NewRepository(dbClient.DB()), cfg.Report.PageSize, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	mediaService, err := media.NewService(gcsClient, cfg.Media)
	if err != nil {
		logg.Error(context.Background(), "failed to create media service", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewStore(cart.NewSnapshotRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}
	if err := cartStore.Load(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to load cart snapshots", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, routes.Deps{
			Logger:  logg,
			Redis:   redisClient,
			Metrics: httpMetrics,
			Pingers: map[string]controllers.Pinger{
				"database": dbClient,
				"redis":    redisClient,
				"gcs":      gcsClient,
			},
			CartStore:       cartStore,
			AuthService:     authService,
			UsersRepo:       usersRepo,
			ProductsSvc:     productsService,
			TransactionsSvc: transactionsService,
			ReportsSvc:      reportsService,
			SettingsSvc:     settingsService,
			AuditSvc:        auditService,
			MediaSvc:        mediaService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
