package di

import (
	"context"
	"errors"
	"hms/infras/kafka"
	"hms/infras/otel"
	"hms/infras/postgres"
	bookingService "hms/internal/domains/booking/service"
	"hms/transport/http"
)

// App holds the HTTP server plus everything main has to start or close around it.
type App struct {
	HTTP    *http.HTTP
	Sweeper bookingService.Sweeper
	Otel    otel.Otel
	Kafka   kafka.Client
	DB      *postgres.Connection
}

// Close releases the producers, the tracer and the pools, in that order.
func (a *App) Close(ctx context.Context) error {
	return errors.Join(
		a.Kafka.Close(),
		a.Otel.Shutdown(ctx),
		a.DB.Close(),
	)
}
