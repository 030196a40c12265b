package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pubsubv2 "cloud.google.com/go/pubsub/v2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Oleksa-32/car-sharing-app/api/controllers"
	"github.com/Oleksa-32/car-sharing-app/api/routes"
	"github.com/Oleksa-32/car-sharing-app/internal/checkout"
	"github.com/Oleksa-32/car-sharing-app/internal/notify"
	"github.com/Oleksa-32/car-sharing-app/internal/payments"
	"github.com/Oleksa-32/car-sharing-app/internal/rentals"
	"github.com/Oleksa-32/car-sharing-app/internal/users"
	"github.com/Oleksa-32/car-sharing-app/internal/vehicles"
	stripewebhook "github.com/Oleksa-32/car-sharing-app/internal/webhooks/stripe"
	"github.com/Oleksa-32/car-sharing-app/pkg/config"
	"github.com/Oleksa-32/car-sharing-app/pkg/db"
	"github.com/Oleksa-32/car-sharing-app/pkg/logger"
	"github.com/Oleksa-32/car-sharing-app/pkg/metrics"
	"github.com/Oleksa-32/car-sharing-app/pkg/migrate"
	"github.com/Oleksa-32/car-sharing-app/pkg/pubsub"
	"github.com/Oleksa-32/car-sharing-app/pkg/redis"
	"github.com/Oleksa-32/car-sharing-app/pkg/stripe"
)

const (
	webhookIdempotencyTTL = 72 * time.Hour
	shutdownTimeout       = 15 * time.Second
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
	logg.Info(ctx, "api server shut down gracefully")
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	fleetMetrics := metrics.NewFleetMetrics(registry)

	pingers := map[string]controllers.Pinger{"db": dbClient, "redis": redisClient}

	var publisher *pubsubv2.Publisher
	if cfg.PubSub.Enabled() {
		psClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			return err
		}
		defer func() {
			if err := psClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		publisher = psClient.NotificationPublisher()
		pingers["pubsub"] = psClient
	}

	notifier, err := notify.FromConfig(ctx, cfg.Telegram, publisher, logg, fleetMetrics)
	if err != nil {
		return err
	}

	stripeClient, err := stripe.NewClient(ctx, cfg.Stripe, logg)
	if err != nil {
		return err
	}
	gateway, err := payments.NewStripeGateway(stripeClient)
	if err != nil {
		return err
	}

	multiplier, err := cfg.Pricing.Multiplier()
	if err != nil {
		return err
	}

	vehicleRepo := vehicles.NewRepository(dbClient.DB())
	rentalRepo := rentals.NewRepository(dbClient.DB())
	userRepo := users.NewRepository(dbClient.DB())

	vehicleService, err := vehicles.NewService(vehicleRepo, dbClient)
	if err != nil {
		return err
	}
	ledger, err := vehicles.NewLedger(vehicleRepo)
	if err != nil {
		return err
	}
	rentalService, err := rentals.NewService(rentals.ServiceParams{
		Repo:     rentalRepo,
		Vehicles: vehicleRepo,
		Users:    userRepo,
		Ledger:   ledger,
		Tx:       dbClient,
		Notifier: notifier,
		Logger:   logg,
		Metrics:  fleetMetrics,
	})
	if err != nil {
		return err
	}

	calculator, err := checkout.NewCalculator(rentalRepo, vehicleRepo, multiplier, time.Now)
	if err != nil {
		return err
	}
	paymentService, err := payments.NewService(payments.ServiceParams{
		Repo:       payments.NewRepository(dbClient.DB()),
		Calculator: calculator,
		Gateway:    gateway,
		Rentals:    rentalRepo,
		Vehicles:   vehicleRepo,
		Users:      userRepo,
		Notifier:   notifier,
		Logger:     logg,
		Metrics:    fleetMetrics,
		Currency:   cfg.Pricing.Currency,
	})
	if err != nil {
		return err
	}

	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{Payments: paymentService, Logger: logg})
	if err != nil {
		return err
	}
	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, webhookIdempotencyTTL, stripewebhook.DefaultScope)
	if err != nil {
		return err
	}

	redirect, err := controllers.NewRedirectURLs(cfg.App.PublicURL)
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":        cfg.App.Env,
		"addr":       addr,
		"stripe_env": stripeClient.Environment(),
		"notifiers":  notifier.SinkNames(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:               cfg,
			Logger:               logg,
			Pingers:              pingers,
			Gatherer:             registry,
			Idempotency:          redisClient,
			Vehicles:             vehicleService,
			Rentals:              rentalService,
			Payments:             paymentService,
			Redirect:             redirect,
			StripeClient:         stripeClient,
			StripeWebhookService: webhookService,
			StripeWebhookGuard:   webhookGuard,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
