package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Records=MockRecordsService

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"hms/config"
	"hms/infras/otel"
	"hms/infras/s3"
	bookingModel "hms/internal/domains/booking/model"
	bookingDto "hms/internal/domains/booking/model/dto"
	bookingRepo "hms/internal/domains/booking/repository"
	customerModel "hms/internal/domains/customer/model"
	customerDto "hms/internal/domains/customer/model/dto"
	customerRepo "hms/internal/domains/customer/repository"
	customerService "hms/internal/domains/customer/service"
	"hms/internal/domains/records/model/dto"
	"hms/shared"
	"hms/shared/cache"
	"hms/shared/constant"
	gDto "hms/shared/dto"
	"hms/shared/failure"
	"hms/shared/logger"
	"hms/shared/timezone"
	"hms/shared/validator"
	"slices"
	"strconv"
)

const (
	cacheGetBookings = constant.CacheKeyRecords + ":bookings"
	cacheOccupancy   = constant.CacheKeyRecords + ":rooms"
	cacheArrivals    = constant.CacheKeyRecords + ":arrivals"

	exportDirectory = "records"
)

type Records interface {
	Customers(ctx context.Context, params gDto.QueryParams, filter dto.CustomerFilter) (customerDto.GetCustomersResponse, error)
	Bookings(ctx context.Context, params gDto.QueryParams, filter dto.BookingFilter) (bookingDto.GetBookingsResponse, error)
	Occupancy(ctx context.Context) (dto.OccupancyResponse, error)
	Arrivals(ctx context.Context) (dto.ArrivalsResponse, error)
	CustomerDetails(ctx context.Context, id string) (dto.CustomerDetailsResponse, error)
	Export(ctx context.Context) (dto.ExportResponse, error)
}

type serviceImpl struct {
	customers   customerRepo.Customer
	bookings    bookingRepo.Booking
	customerSvc customerService.Customer
	cfg         *config.Config
	cache       cache.RedisCache
	s3          s3.S3
	otel        otel.Otel
}

func New(
	customers customerRepo.Customer,
	bookings bookingRepo.Booking,
	customerSvc customerService.Customer,
	cfg *config.Config,
	cache cache.RedisCache,
	s3 s3.S3,
	otel otel.Otel,
) Records {
	return &serviceImpl{
		customers:   customers,
		bookings:    bookings,
		customerSvc: customerSvc,
		cfg:         cfg,
		cache:       cache,
		s3:          s3,
		otel:        otel,
	}
}

func (s *serviceImpl) Customers(ctx context.Context, params gDto.QueryParams, filter dto.CustomerFilter) (res customerDto.GetCustomersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".records.Customers")
	defer scope.End()

	if err = validator.ValidateStruct(&filter); err != nil {
		return res, err
	}

	group := filter.ToFilterGroup()

	customers, err := s.customers.GetAll(ctx, params, group)
	if err != nil {
		scope.TraceError(err)

		return res, failure.Unavailable(err)
	}

	total, err := s.customers.Count(ctx, group)
	if err != nil {
		scope.TraceError(err)

		return res, failure.Unavailable(err)
	}

	res.FromModels(customers, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) Bookings(ctx context.Context, params gDto.QueryParams, filter dto.BookingFilter) (res bookingDto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".records.Bookings")
	defer scope.End()

	if err = validator.ValidateStruct(&filter); err != nil {
		return res, err
	}

	group := filter.ToFilterGroup()
	key, hit := s.fromCache(ctx, shared.BuildCacheKeyWithQuery(cacheGetBookings, params, group), &res)
	if hit {
		return res, nil
	}

	bookings, err := s.bookings.GetAll(ctx, params, group)
	if err != nil {
		scope.TraceError(err)

		return res, failure.Unavailable(err)
	}

	total, err := s.bookings.Count(ctx, group)
	if err != nil {
		scope.TraceError(err)

		return res, failure.Unavailable(err)
	}

	res.FromModels(bookings, total, params.Limit)

	s.toCache(ctx, key, res)

	return res, nil
}

// Occupancy splits the hotel into rooms held by any active booking and the rest.
func (s *serviceImpl) Occupancy(ctx context.Context) (res dto.OccupancyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".records.Occupancy")
	defer scope.End()

	key, hit := s.fromCache(ctx, cacheOccupancy, &res)
	if hit {
		return res, nil
	}

	booked, err := s.bookings.OccupiedRooms(ctx)
	if err != nil {
		scope.TraceError(err)

		return res, failure.Unavailable(err)
	}

	res.Booked = booked
	res.Available = make([]int, 0, s.cfg.Hotel.RoomCount)

	for room := 1; room <= s.cfg.Hotel.RoomCount; room++ {
		if !slices.Contains(booked, room) {
			res.Available = append(res.Available, room)
		}
	}

	res.BookedCount = len(res.Booked)
	res.AvailableCount = len(res.Available)

	s.toCache(ctx, key, res)

	return res, nil
}

// Arrivals lists, by name, the customers holding at least one active booking.
func (s *serviceImpl) Arrivals(ctx context.Context) (res dto.ArrivalsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".records.Arrivals")
	defer scope.End()

	key, hit := s.fromCache(ctx, cacheArrivals, &res)
	if hit {
		return res, nil
	}

	params := gDto.QueryParams{SortBy: customerModel.FieldName, SortDir: gDto.SortDirAsc}

	customers, err := s.customers.GetAll(ctx, params, activeCustomers())
	if err != nil {
		scope.TraceError(err)

		return res, failure.Unavailable(err)
	}

	res.FromModels(customers)

	s.toCache(ctx, key, res)

	return res, nil
}

func activeCustomers() gDto.FilterGroup {
	subquery := fmt.Sprintf(
		"%s.%s IN (SELECT %s FROM %s WHERE %s <> '%s')",
		customerModel.TableName, customerModel.FieldID,
		bookingModel.FieldCustomerID, bookingModel.TableName,
		bookingModel.FieldStatus, bookingModel.StatusCheckedOut,
	)

	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Value: subquery, Operator: gDto.FilterPlainQuery},
		},
	}
}

// CustomerDetails returns the customer with their active bookings, earliest first.
func (s *serviceImpl) CustomerDetails(ctx context.Context, id string) (res dto.CustomerDetailsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".records.CustomerDetails")
	defer scope.End()

	customer, err := s.customerSvc.Get(ctx, id)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: bookingModel.FieldCustomerID, Value: customer.ID, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName},
			gDto.Filter{Field: bookingModel.FieldStatus, Value: bookingModel.StatusCheckedOut.String(), Operator: gDto.FilterOperatorNotEq, Table: bookingModel.TableName},
		},
	}

	bookings, err := s.bookings.GetAll(ctx, gDto.QueryParams{SortBy: bookingModel.FieldCheckin, SortDir: gDto.SortDirAsc}, filter)
	if err != nil {
		scope.TraceError(err)

		return res, failure.Unavailable(err)
	}

	res.FromModels(customer, bookings)

	return res, nil
}

// Export writes a CSV snapshot of both tables to object storage.
func (s *serviceImpl) Export(ctx context.Context) (res dto.ExportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".records.Export")
	defer scope.End()

	customers, err := s.customers.GetAll(ctx, gDto.QueryParams{SortBy: customerModel.FieldID, SortDir: gDto.SortDirAsc}, gDto.FilterGroup{})
	if err != nil {
		scope.TraceError(err)

		return res, failure.Unavailable(err)
	}

	bookings, err := s.bookings.GetAll(ctx, gDto.QueryParams{SortBy: bookingModel.FieldSerial, SortDir: gDto.SortDirAsc}, gDto.FilterGroup{})
	if err != nil {
		scope.TraceError(err)

		return res, failure.Unavailable(err)
	}

	customerCSV, err := encodeCSV(customerHeader, customers, customerRow)
	if err != nil {
		scope.TraceError(err)

		return res, failure.InternalError(err)
	}

	bookingCSV, err := encodeCSV(bookingHeader, bookings, bookingRow)
	if err != nil {
		scope.TraceError(err)

		return res, failure.InternalError(err)
	}

	stamp := timezone.Now().Format(constant.ExportLayout)

	res.CustomersURL, err = s.s3.UploadFileBytes(ctx, constant.Empty, exportDirectory, stamp+"-customers.csv", constant.ContentTypeCSV, customerCSV)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("failed to upload customers export")

		return res, failure.Unavailable(err)
	}

	res.BookingsURL, err = s.s3.UploadFileBytes(ctx, constant.Empty, exportDirectory, stamp+"-bookings.csv", constant.ContentTypeCSV, bookingCSV)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("failed to upload bookings export")

		return res, failure.Unavailable(err)
	}

	res.Customers = len(customers)
	res.Bookings = len(bookings)

	return res, nil
}

var customerHeader = []string{
	customerModel.FieldID,
	customerModel.FieldName,
	customerModel.FieldPhone,
	customerModel.FieldAddress,
	customerModel.FieldGovtIDType,
	customerModel.FieldGovtIDNumber,
	constant.FieldCreatedAt,
}

func customerRow(c customerModel.Customer) []string {
	return []string{
		c.ID,
		c.Name,
		c.Phone,
		c.Address,
		c.GovtIDType,
		c.GovtIDNumber,
		timezone.Format(c.CreatedAt, constant.DateFormat),
	}
}

var bookingHeader = []string{
	bookingModel.FieldSerial,
	bookingModel.FieldCustomerID,
	bookingModel.FieldCheckin,
	bookingModel.FieldCheckout,
	bookingModel.FieldRoomNumber,
	bookingModel.FieldStatus,
	constant.FieldCreatedAt,
}

func bookingRow(b bookingModel.Booking) []string {
	return []string{
		strconv.FormatInt(b.Serial, 10),
		b.CustomerID,
		b.Checkin.Format(constant.CalendarDate),
		b.Checkout.Format(constant.CalendarDate),
		strconv.Itoa(b.RoomNumber),
		b.Status.String(),
		timezone.Format(b.CreatedAt, constant.DateFormat),
	}
}

func encodeCSV[T any](header []string, rows []T, toRow func(T) []string) ([]byte, error) {
	var buf bytes.Buffer

	writer := csv.NewWriter(&buf)

	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range rows {
		if err := writer.Write(toRow(row)); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

// fromCache looks name up under the current records generation. It returns the key to
// pass to toCache, empty when the cache cannot be used.
func (s *serviceImpl) fromCache(ctx context.Context, name string, value any) (key string, hit bool) {
	generation, ok := shared.CacheGeneration(ctx, s.cache, constant.CacheKeyRecords)
	if !ok {
		return "", false
	}

	key = shared.BuildCacheKey(name, generation)

	err := s.cache.Get(ctx, key, value)
	if err == nil {
		return key, true
	}

	if !cache.IsMiss(err) {
		logger.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to read records cache")
	}

	return key, false
}

func (s *serviceImpl) toCache(ctx context.Context, key string, value any) {
	if key == "" {
		return
	}

	if err := s.cache.Save(ctx, key, value, s.cfg.Cache.TTL); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to save records cache")
	}
}
