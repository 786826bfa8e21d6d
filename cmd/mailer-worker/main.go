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

	"github.com/quadworks/storefront/internal/notifications"
	"github.com/quadworks/storefront/pkg/config"
	"github.com/quadworks/storefront/pkg/db"
	"github.com/quadworks/storefront/pkg/logger"
	"github.com/quadworks/storefront/pkg/mailer"
	"github.com/quadworks/storefront/pkg/metrics"
	"github.com/quadworks/storefront/pkg/outbox"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "mailer-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "mailer-worker",
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

	smtpClient, err := mailer.New(cfg.SMTP)
	if err != nil {
		logg.Error(context.Background(), "failed to create smtp client", err)
		os.Exit(1)
	}

	workerMetrics := metrics.NewMailer()

	service, err := NewService(ServiceParams{
		Config:   cfg,
		Logger:   logg,
		Outbox:   outbox.NewRepository(dbClient.DB),
		Composer: notifications.NewComposer(cfg.SMTP.AdminEmails),
		Sender:   smtpClient,
		Metrics:  workerMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create mailer service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", workerMetrics.Handler())
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	metricsServer := &http.Server{
		Addr:              ":" + cfg.Outbox.MetricsPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics server error", err)
		}
	}()

	logg.Info(logg.WithField(ctx, "metrics_port", cfg.Outbox.MetricsPort), "mailer worker started")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "worker stopped with error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "metrics server shutdown failed", err)
	}
	logg.Info(context.Background(), "mailer worker stopped")
}
