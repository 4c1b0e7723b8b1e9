package health

import (
	"context"
	"hms/infras/otel"
	"hms/shared/constant"
	"hms/shared/logger"
	"hms/transport/http/response"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *postgres.Connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	db   Pinger
	otel otel.Otel
}

func New(db Pinger, otel otel.Otel) Handler {
	return Handler{
		db:   db,
		otel: otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/health", handler.Health)
}

// Health reports whether the reservation store answers.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Message
// @Failure 503 {object} response.Message
// @Router /health [get]
func (handler *Handler) Health(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Health")
	defer scope.End()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := handler.db.Ping(ctx); err != nil {
		scope.TraceError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("health check failed")

		response.WithUnhealthy(writer)

		return
	}

	response.WithMessage(writer, http.StatusOK, "OK")
}
