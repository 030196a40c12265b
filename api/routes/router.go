package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stripe/stripe-go/v84"

	"github.com/Oleksa-32/car-sharing-app/api/controllers"
	webhookcontrollers "github.com/Oleksa-32/car-sharing-app/api/controllers/webhooks"
	"github.com/Oleksa-32/car-sharing-app/api/middleware"
	"github.com/Oleksa-32/car-sharing-app/internal/payments"
	"github.com/Oleksa-32/car-sharing-app/internal/rentals"
	"github.com/Oleksa-32/car-sharing-app/internal/vehicles"
	"github.com/Oleksa-32/car-sharing-app/pkg/config"
	"github.com/Oleksa-32/car-sharing-app/pkg/enums"
	"github.com/Oleksa-32/car-sharing-app/pkg/logger"
	"github.com/Oleksa-32/car-sharing-app/pkg/redis"
)

type stripeWebhookService interface {
	HandleEvent(ctx context.Context, event *stripe.Event) error
}

type stripeWebhookGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

type signingClient interface {
	SigningSecret() string
}

// RouterParams collects everything the HTTP surface is wired to.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	Pingers  map[string]controllers.Pinger
	Gatherer prometheus.Gatherer

	Idempotency redis.IdempotencyStore

	Vehicles vehicles.Service
	Rentals  rentals.Service
	Payments payments.Service
	Redirect controllers.RedirectURLs

	StripeClient         signingClient
	StripeWebhookService stripeWebhookService
	StripeWebhookGuard   stripeWebhookGuard
}

func NewRouter(p RouterParams) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.Pingers, logg))
	})

	if p.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(p.StripeWebhookService, p.StripeClient, p.StripeWebhookGuard, logg))
	})

	// Gateway redirect targets carry no bearer token.
	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Get("/success", controllers.PaymentSuccess(p.Payments, logg))
		r.Get("/cancel", controllers.PaymentCancel(p.Payments, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(p.Idempotency, logg))
			r.Get("/", controllers.ListPayments(p.Payments, logg))
			r.Post("/", controllers.CreatePayment(p.Payments, p.Rentals, p.Redirect, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(p.Idempotency, logg))

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", controllers.ListVehicles(p.Vehicles, logg))
			r.Get("/{id}", controllers.GetVehicle(p.Vehicles, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.RoleManager, logg))
				r.Post("/", controllers.CreateVehicle(p.Vehicles, logg))
				r.Patch("/{id}", controllers.UpdateVehicle(p.Vehicles, logg))
				r.Delete("/{id}", controllers.DeleteVehicle(p.Vehicles, logg))
			})
		})

		r.Route("/rentals", func(r chi.Router) {
			r.Get("/", controllers.ListRentals(p.Rentals, logg))
			r.Post("/", controllers.CreateRental(p.Rentals, logg))
			r.Get("/{id}", controllers.GetRental(p.Rentals, logg))
			r.Post("/{id}/return", controllers.ReturnRental(p.Rentals, logg))
		})
	})

	return r
}
