package availability

import (
	"hms/infras/otel"
	"hms/internal/domains/booking/model/dto"
	"hms/internal/domains/booking/service"
	"hms/shared/constant"
	"hms/shared/logger"
	"hms/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/availability", handler.GetAvailableRooms)
}

// GetAvailableRooms lists the rooms free for a whole stay.
// @Summary Get available rooms
// @Description List, ascending, every room with no active booking overlapping [checkin, checkout).
// @Tags Availability
// @Produce json
// @Param checkin query string true "Check-in date (YYYY-MM-DD)"
// @Param checkout query string true "Check-out date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.AvailabilityResponse]
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/availability [get]
func (handler *Handler) GetAvailableRooms(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailableRooms")
	defer scope.End()

	query := request.URL.Query()

	req := dto.AvailabilityRequest{
		Checkin:  query.Get(constant.RequestParamCheckin),
		Checkout: query.Get(constant.RequestParamCheckout),
	}

	res, err := handler.service.GetAvailableRooms(ctx, req)
	if err != nil {
		scope.TraceError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("failed to get available rooms")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}
