package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pubsubv2 "cloud.google.com/go/pubsub/v2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Oleksa-32/car-sharing-app/internal/cron"
	"github.com/Oleksa-32/car-sharing-app/internal/notify"
	"github.com/Oleksa-32/car-sharing-app/internal/overdue"
	"github.com/Oleksa-32/car-sharing-app/internal/rentals"
	"github.com/Oleksa-32/car-sharing-app/internal/users"
	"github.com/Oleksa-32/car-sharing-app/internal/vehicles"
	"github.com/Oleksa-32/car-sharing-app/pkg/config"
	"github.com/Oleksa-32/car-sharing-app/pkg/db"
	"github.com/Oleksa-32/car-sharing-app/pkg/instance"
	"github.com/Oleksa-32/car-sharing-app/pkg/logger"
	"github.com/Oleksa-32/car-sharing-app/pkg/metrics"
	"github.com/Oleksa-32/car-sharing-app/pkg/migrate"
	"github.com/Oleksa-32/car-sharing-app/pkg/pubsub"
	"github.com/Oleksa-32/car-sharing-app/pkg/redis"
)

func main() {
	once := flag.Bool("once", false, "run every job a single time and exit")
	metricsAddr := flag.String("metrics-addr", "", "optional listen address for /metrics")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	cronMetrics := metrics.NewCronJobMetrics(registry)
	fleetMetrics := metrics.NewFleetMetrics(registry)

	var publisher *pubsubv2.Publisher
	if cfg.PubSub.Enabled() {
		psClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := psClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		publisher = psClient.NotificationPublisher()
	}

	notifier, err := notify.FromConfig(context.Background(), cfg.Telegram, publisher, logg, fleetMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to build notifier", err)
		os.Exit(1)
	}

	loc, err := cfg.Cron.Location()
	if err != nil {
		logg.Error(context.Background(), "invalid cron time zone", err)
		os.Exit(1)
	}

	scanner, err := overdue.NewScanner(overdue.ScannerParams{
		Rentals:  rentals.NewRepository(dbClient.DB()),
		Users:    users.NewRepository(dbClient.DB()),
		Vehicles: vehicles.NewRepository(dbClient.DB()),
		Notifier: notifier,
		Logger:   logg,
		Metrics:  fleetMetrics,
		Location: loc,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create overdue scanner", err)
		os.Exit(1)
	}
	overdueJob, err := cron.NewOverdueJob(cron.OverdueJobParams{Scanner: scanner, Logger: logg})
	if err != nil {
		logg.Error(context.Background(), "failed to create overdue job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(cron.OverdueJobName), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(overdueJob),
		Lock:     lock,
		Metrics:  cronMetrics,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"instance":    instance.GetID(),
		"interval":    service.Interval().String(),
		"timezone":    loc.String(),
	})

	if *metricsAddr != "" {
		serveMetrics(ctx, logg, *metricsAddr, registry)
	}

	if *once {
		logg.Info(ctx, "running cron jobs once")
		if err := service.RunOnce(ctx); err != nil {
			logg.Error(ctx, "cron run failed", err)
			os.Exit(1)
		}
		return
	}

	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func serveMetrics(ctx context.Context, logg *logger.Logger, addr string, gatherer prometheus.Gatherer) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics server stopped", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}
