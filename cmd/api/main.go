package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/quadworks/storefront/api/routes"
	"github.com/quadworks/storefront/internal/auth"
	"github.com/quadworks/storefront/internal/cart"
	"github.com/quadworks/storefront/internal/catalog"
	"github.com/quadworks/storefront/internal/orders"
	"github.com/quadworks/storefront/internal/users"
	"github.com/quadworks/storefront/pkg/auth/session"
	"github.com/quadworks/storefront/pkg/config"
	"github.com/quadworks/storefront/pkg/db"
	"github.com/quadworks/storefront/pkg/logger"
	"github.com/quadworks/storefront/pkg/outbox"
	"github.com/quadworks/storefront/pkg/redis"
	"github.com/quadworks/storefront/pkg/security"
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

	dbClient, err := db.New(cfg.DB)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if cfg.FeatureFlags.AutoMigrate {
		if err := db.AutoMigrate(dbClient.DB); err != nil {
			logg.Error(context.Background(), "failed to auto-migrate schema", err)
			os.Exit(1)
		}
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	hasher, err := security.NewHasher(cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create password hasher", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB)
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		TxRunner:       dbClient,
		SessionManager: sessionManager,
		Hasher:         hasher,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(usersRepo, hasher)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewStore(redisClient, cfg.Cart.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB), logg)
	ordersService, err := orders.NewService(
		orders.NewRepository(dbClient.DB),
		dbClient,
		outboxService,
		cartStore,
		logg,
		cfg.Order,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		Redis:          redisClient,
		DB:             dbClient,
		Sessions:       sessionManager,
		AuthService:    authService,
		UsersService:   usersService,
		CatalogService: catalogService,
		CartStore:      cartStore,
		OrdersService:  ordersService,
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "server error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "graceful shutdown failed", err)
	}
	logg.Info(context.Background(), "api stopped")
}
