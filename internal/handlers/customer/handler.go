package customer

import (
	"hms/infras/otel"
	"hms/internal/domains/customer/model"
	"hms/internal/domains/customer/model/dto"
	"hms/internal/domains/customer/service"
	recordsService "hms/internal/domains/records/service"
	"hms/shared/constant"
	"hms/shared/logger"
	"hms/shared/validator"
	"hms/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Customer
	records recordsService.Records
	otel    otel.Otel
}

func New(service service.Customer, records recordsService.Records, otel otel.Otel) Handler {
	return Handler{
		service: service,
		records: records,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/customers", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.UpsertCustomer)
		routerGroup.Get("/{id}", handler.GetCustomerDetails)
	})
}

// UpsertCustomer registers a guest by government id.
// @Summary Register a customer
// @Description Register a guest, or return the existing id when the government id is already known.
// @Tags Customer
// @Accept json
// @Produce json
// @Param request body dto.UpsertCustomerRequest true "Customer"
// @Success 201 {object} response.Data[dto.CustomerResult] "Customer registered"
// @Success 200 {object} response.Data[dto.CustomerResult] "Customer already registered"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Data[dto.CustomerResult]
// @Failure 503 {object} response.Error
// @Router /v1/customers [post]
func (handler *Handler) UpsertCustomer(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpsertCustomer")
	defer scope.End()

	req := dto.UpsertCustomerRequest{}

	if err := validator.Decode(request.Body, &req); err != nil {
		scope.TraceError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("failed to decode request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Upsert(ctx, req)
	if err != nil {
		scope.TraceError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("failed to upsert customer")

		response.WithError(writer, err)

		return
	}

	code := http.StatusOK
	if res.Outcome == model.OutcomeCreated {
		code = http.StatusCreated
	}

	response.WithOutcome(writer, code, res.Success, res)
}

// GetCustomerDetails returns a customer with their active bookings.
// @Summary Get customer details
// @Tags Customer
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} response.Data[recordsDto.CustomerDetailsResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/customers/{id} [get]
func (handler *Handler) GetCustomerDetails(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCustomerDetails")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	res, err := handler.records.CustomerDetails(ctx, id)
	if err != nil {
		scope.TraceError(err)
		logger.Ctx(ctx).Error().Err(err).Str("customer_id", id).Msg("failed to get customer details")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}
