package router

import (
	"hms/config"
	"hms/infras/metrics"
	"hms/internal/handlers/availability"
	"hms/internal/handlers/booking"
	"hms/internal/handlers/customer"
	"hms/internal/handlers/health"
	"hms/internal/handlers/records"
	"hms/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

type DomainHandlers struct {
	Availability availability.Handler
	Customer     customer.Handler
	Booking      booking.Handler
	Records      records.Handler
	Health       health.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Middleware     middleware.AppMiddleware
	Metrics        metrics.Metrics
	Config         *config.Config
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(
		chiMiddleware.Recoverer,
		r.Middleware.RequestID,
		r.Middleware.CORS(),
		r.Middleware.Tracing,
		r.Middleware.Metrics,
	)

	r.DomainHandlers.Health.Router(router)

	if r.Config.Metrics.Enable {
		router.Handle(r.Config.Metrics.Path, r.Metrics.Handler())
	}

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.Middleware.RateLimit())

		r.DomainHandlers.Availability.Router(routerGroup)
		r.DomainHandlers.Customer.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Records.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, appMiddleware middleware.AppMiddleware, metrics metrics.Metrics, config *config.Config) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Middleware:     appMiddleware,
		Metrics:        metrics,
		Config:         config,
	}
}
