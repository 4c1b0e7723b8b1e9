package booking

import (
	"hms/infras/otel"
	"hms/internal/domains/booking/model/dto"
	"hms/internal/domains/booking/service"
	"hms/shared/constant"
	"hms/shared/failure"
	"hms/shared/logger"
	"hms/shared/validator"
	"hms/transport/http/response"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service     service.Booking
	reservation service.Reservation
	otel        otel.Otel
}

func New(service service.Booking, reservation service.Reservation, otel otel.Otel) Handler {
	return Handler{
		service:     service,
		reservation: reservation,
		otel:        otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Post("/checkin/{customer_id}", handler.CheckIn)
		routerGroup.Post("/checkout/{customer_id}/{room_number}", handler.CheckOut)
	})
}

// CreateBooking registers the guest (or finds them) and books the room.
// @Summary Book a room
// @Description Register or look up the guest by government id, then book [checkin, checkout) in the given room.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.BookingRequest true "Booking Request"
// @Success 201 {object} response.Data[dto.ReservationResult] "Room booked"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Data[dto.ReservationResult] "Registration conflict or room unavailable"
// @Failure 503 {object} response.Error
// @Router /v1/bookings [post]
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.BookingRequest{}

	if err := validator.Decode(request.Body, &req); err != nil {
		scope.TraceError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("failed to decode request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.reservation.Reserve(ctx, req)
	if err != nil {
		scope.TraceError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	response.WithOutcome(writer, http.StatusCreated, res.Success(), res)
}

// CheckIn moves the guest's earliest pending booking to checked in.
// @Summary Check in
// @Tags Booking
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Success 200 {object} response.Data[dto.BookingResult]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Data[dto.BookingResult] "No pending booking or arrival too early"
// @Failure 503 {object} response.Error
// @Router /v1/bookings/checkin/{customer_id} [post]
func (handler *Handler) CheckIn(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckIn")
	defer scope.End()

	customerID := chi.URLParam(request, constant.RequestParamCustomerID)

	res, err := handler.service.CheckIn(ctx, customerID)
	if err != nil {
		scope.TraceError(err)
		logger.Ctx(ctx).Error().Err(err).Str("customer_id", customerID).Msg("failed to check in")

		response.WithError(writer, err)

		return
	}

	response.WithOutcome(writer, http.StatusOK, res.Success, res)
}

// CheckOut closes the guest's active stay in a room.
// @Summary Check out
// @Tags Booking
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Param room_number path int true "Room number"
// @Success 200 {object} response.Data[dto.BookingResult]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Data[dto.BookingResult] "No active check-in"
// @Failure 503 {object} response.Error
// @Router /v1/bookings/checkout/{customer_id}/{room_number} [post]
func (handler *Handler) CheckOut(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckOut")
	defer scope.End()

	customerID := chi.URLParam(request, constant.RequestParamCustomerID)

	roomNumber, err := strconv.Atoi(chi.URLParam(request, constant.RequestParamRoomNumber))
	if err != nil {
		response.WithError(writer, failure.BadRequestFromString("room number must be an integer"))

		return
	}

	res, err := handler.service.CheckOut(ctx, customerID, roomNumber)
	if err != nil {
		scope.TraceError(err)
		logger.Ctx(ctx).Error().Err(err).Str("customer_id", customerID).Int("room_number", roomNumber).Msg("failed to check out")

		response.WithError(writer, err)

		return
	}

	response.WithOutcome(writer, http.StatusOK, res.Success, res)
}
