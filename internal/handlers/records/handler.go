package records

import (
	"hms/infras/otel"
	bookingModel "hms/internal/domains/booking/model"
	customerModel "hms/internal/domains/customer/model"
	"hms/internal/domains/records/model/dto"
	"hms/internal/domains/records/service"
	"hms/shared/constant"
	gDto "hms/shared/dto"
	"hms/shared/failure"
	"hms/shared/logger"
	"hms/transport/http/response"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Records
	otel    otel.Otel
}

func New(service service.Records, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/records", func(routerGroup chi.Router) {
		routerGroup.Get("/customers", handler.GetCustomers)
		routerGroup.Get("/bookings", handler.GetBookings)
		routerGroup.Get("/rooms", handler.GetOccupancy)
		routerGroup.Get("/arrivals", handler.GetArrivals)
		routerGroup.Post("/export", handler.Export)
	})
}

// GetCustomers lists registered customers.
// @Summary List customers
// @Tags Records
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Case-insensitive name fragment"
// @Param govt_id_type query string false "Filter by id type (UID, DL, PSP)"
// @Success 200 {object} response.Data[customerDto.GetCustomersResponse]
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/records/customers [get]
func (handler *Handler) GetCustomers(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCustomers")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	query := request.URL.Query()

	filter := dto.CustomerFilter{
		Name:       query.Get(customerModel.FieldName),
		GovtIDType: query.Get(customerModel.FieldGovtIDType),
	}

	res, err := handler.service.Customers(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("failed to get customers")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetBookings lists bookings.
// @Summary List bookings
// @Tags Records
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (not_arrived, checkedin, checkedout)"
// @Param customer_id query string false "Filter by customer ID"
// @Param room_number query int false "Filter by room number"
// @Success 200 {object} response.Data[bookingDto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/records/bookings [get]
func (handler *Handler) GetBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	query := request.URL.Query()

	filter := dto.BookingFilter{
		Status:     query.Get(bookingModel.FieldStatus),
		CustomerID: query.Get(bookingModel.FieldCustomerID),
	}

	if room := query.Get(bookingModel.FieldRoomNumber); room != "" {
		roomNumber, err := strconv.Atoi(room)
		if err != nil {
			response.WithError(writer, failure.BadRequestFromString("room number must be an integer"))

			return
		}

		filter.RoomNumber = roomNumber
	}

	res, err := handler.service.Bookings(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("failed to get bookings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetOccupancy splits the hotel into rooms held by an active booking and free rooms.
// @Summary Room occupancy
// @Tags Records
// @Produce json
// @Success 200 {object} response.Data[dto.OccupancyResponse]
// @Failure 503 {object} response.Error
// @Router /v1/records/rooms [get]
func (handler *Handler) GetOccupancy(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOccupancy")
	defer scope.End()

	res, err := handler.service.Occupancy(ctx)
	if err != nil {
		scope.TraceError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("failed to get occupancy")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetArrivals lists customers holding an active booking.
// @Summary Expected and current guests
// @Tags Records
// @Produce json
// @Success 200 {object} response.Data[dto.ArrivalsResponse]
// @Failure 503 {object} response.Error
// @Router /v1/records/arrivals [get]
func (handler *Handler) GetArrivals(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetArrivals")
	defer scope.End()

	res, err := handler.service.Arrivals(ctx)
	if err != nil {
		scope.TraceError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("failed to get arrivals")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// Export uploads CSV snapshots of customers and bookings to object storage.
// @Summary Export records
// @Tags Records
// @Produce json
// @Success 201 {object} response.Data[dto.ExportResponse]
// @Failure 503 {object} response.Error
// @Router /v1/records/export [post]
func (handler *Handler) Export(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Export")
	defer scope.End()

	res, err := handler.service.Export(ctx)
	if err != nil {
		scope.TraceError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("failed to export records")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("records exported to " + res.CustomersURL)

	response.WithJSON(writer, http.StatusCreated, res)
}
