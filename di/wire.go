//go:build wireinject
// +build wireinject

package di

import (
	"hms/config"
	"hms/infras/kafka"
	"hms/infras/metrics"
	"hms/infras/otel"
	"hms/infras/postgres"
	"hms/infras/redis"
	"hms/infras/s3"
	"hms/shared/cache"
	"hms/shared/timezone"
	"hms/shared/transaction"
	"hms/transport/http"
	"hms/transport/http/middleware"
	"hms/transport/http/router"

	bookingRepository "hms/internal/domains/booking/repository"
	bookingService "hms/internal/domains/booking/service"
	customerRepository "hms/internal/domains/customer/repository"
	customerService "hms/internal/domains/customer/service"
	recordsService "hms/internal/domains/records/service"

	availabilityHandler "hms/internal/handlers/availability"
	bookingHandler "hms/internal/handlers/booking"
	customerHandler "hms/internal/handlers/customer"
	healthHandler "hms/internal/handlers/health"
	recordsHandler "hms/internal/handlers/records"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
	s3.New,
	metrics.Provide,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	transaction.New,
	timezone.NewClock,
)

var customerDomain = wire.NewSet(
	customerRepository.New,
	customerService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
	bookingService.NewAvailability,
	bookingService.NewReservation,
	bookingService.NewSweeper,
)

var recordsDomain = wire.NewSet(
	recordsService.New,
)

var domains = wire.NewSet(
	customerDomain,
	bookingDomain,
	recordsDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	wire.Bind(new(healthHandler.Pinger), new(*postgres.Connection)),
	availabilityHandler.New,
	customerHandler.New,
	bookingHandler.New,
	recordsHandler.New,
	healthHandler.New,
	router.New,
)

func InitializeService() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
