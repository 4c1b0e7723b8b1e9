package service_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hms/config"
	"hms/infras/otel/mocks"
	s3Mocks "hms/infras/s3/mocks"
	bookingMocks "hms/internal/domains/booking/mocks"
	bookingModel "hms/internal/domains/booking/model"
	customerMocks "hms/internal/domains/customer/mocks"
	customerModel "hms/internal/domains/customer/model"
	customerDto "hms/internal/domains/customer/model/dto"
	"hms/internal/domains/records/model/dto"
	"hms/internal/domains/records/service"
	"hms/shared/cache"
	cacheMocks "hms/shared/cache/mocks"
	gDto "hms/shared/dto"
	"hms/shared/failure"
)

type fixture struct {
	customers   *customerMocks.MockCustomer
	bookings    *bookingMocks.MockBooking
	customerSvc *customerMocks.MockCustomerService
	cache       *cacheMocks.MockRedisCache
	s3          *s3Mocks.MockS3
	svc         service.Records
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Hotel.RoomCount = 5
	cfg.Cache.TTL = 60

	f := fixture{
		customers:   customerMocks.NewMockCustomer(ctrl),
		bookings:    bookingMocks.NewMockBooking(ctrl),
		customerSvc: customerMocks.NewMockCustomerService(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
		s3:          s3Mocks.NewMockS3(ctrl),
	}

	f.svc = service.New(f.customers, f.bookings, f.customerSvc, cfg, f.cache, f.s3, mocks.NewOtel())

	return f
}

func booking(serial int64, customerID string, room int, status bookingModel.Status) bookingModel.Booking {
	return bookingModel.Booking{
		Serial:     serial,
		CustomerID: customerID,
		Checkin:    time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		Checkout:   time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC),
		RoomNumber: room,
		Status:     status,
	}
}

func TestRecordsService_Customers(t *testing.T) {
	f := newFixture(t)

	params := gDto.QueryParams{Page: 1, Limit: 2}

	f.customers.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]customerModel.Customer, error) {
			where, args := filter.GetWhereClause()

			assert.Equal(t, "(LOWER(customers.name) LIKE LOWER(:name) )", where)
			assert.Equal(t, "%rao%", args["name"])

			return []customerModel.Customer{{ID: "AAAAA", Name: "Asha Rao"}, {ID: "BBBBB", Name: "Ravi Rao"}}, nil
		},
	)
	f.customers.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)

	res, err := f.svc.Customers(context.Background(), params, dto.CustomerFilter{Name: "rao"})

	require.NoError(t, err)
	assert.Len(t, res.Customers, 2)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
}

func TestRecordsService_Bookings(t *testing.T) {
	t.Run("filters by status and room and caches the page", func(t *testing.T) {
		f := newFixture(t)

		params := gDto.QueryParams{Page: 1, Limit: 10}

		f.cache.EXPECT().Get(gomock.Any(), "records:generation", gomock.Any()).Return(cache.Nil)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		f.bookings.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]bookingModel.Booking, error) {
				where, args := filter.GetWhereClause()

				assert.Equal(t, "(bookings.status = :status AND bookings.room_number = :room_number)", where)
				assert.Equal(t, "checkedin", args["status"])
				assert.Equal(t, 7, args["room_number"])

				return []bookingModel.Booking{booking(1, "AAAAA", 7, bookingModel.StatusCheckedIn)}, nil
			},
		)
		f.bookings.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
		f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), 60).DoAndReturn(
			func(_ context.Context, key string, _ any, _ int) error {
				assert.True(t, strings.HasPrefix(key, "records:bookings:"))
				assert.True(t, strings.HasSuffix(key, ":0"))

				return nil
			},
		)

		res, err := f.svc.Bookings(context.Background(), params, dto.BookingFilter{Status: "checkedin", RoomNumber: 7})

		require.NoError(t, err)
		require.Len(t, res.Bookings, 1)
		assert.Equal(t, "2024-06-01", res.Bookings[0].Checkin)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Bookings(context.Background(), gDto.QueryParams{}, dto.BookingFilter{Status: "cancelled"})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func expectGeneration(mockCache *cacheMocks.MockRedisCache, key, generation string) {
	mockCache.EXPECT().Get(gomock.Any(), key, gomock.Any()).DoAndReturn(func(_ context.Context, _ string, value any) error {
		*value.(*string) = generation

		return nil
	})
}

func TestRecordsService_Occupancy(t *testing.T) {
	t.Run("computes and caches under the current generation", func(t *testing.T) {
		f := newFixture(t)

		expectGeneration(f.cache, "records:generation", "4")
		f.cache.EXPECT().Get(gomock.Any(), "records:rooms:4", gomock.Any()).Return(cache.Nil)
		f.bookings.EXPECT().OccupiedRooms(gomock.Any()).Return([]int{2, 4}, nil)
		f.cache.EXPECT().Save(gomock.Any(), "records:rooms:4", gomock.Any(), 60).Return(nil)

		res, err := f.svc.Occupancy(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []int{2, 4}, res.Booked)
		assert.Equal(t, []int{1, 3, 5}, res.Available)
		assert.Equal(t, 2, res.BookedCount)
		assert.Equal(t, 3, res.AvailableCount)
	})

	t.Run("unreadable generation bypasses the cache", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "records:generation", gomock.Any()).Return(errors.New("redis down"))
		f.bookings.EXPECT().OccupiedRooms(gomock.Any()).Return([]int{1}, nil)

		res, err := f.svc.Occupancy(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []int{1}, res.Booked)
	})
}

func TestRecordsService_Arrivals(t *testing.T) {
	t.Run("customers with active bookings sorted by name", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "records:generation", gomock.Any()).Return(cache.Nil)
		f.cache.EXPECT().Get(gomock.Any(), "records:arrivals:0", gomock.Any()).Return(cache.Nil)
		f.customers.EXPECT().GetAll(gomock.Any(), gDto.QueryParams{SortBy: "name", SortDir: "ASC"}, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]customerModel.Customer, error) {
				where, _ := filter.GetWhereClause()

				assert.Equal(t, "((customers.id IN (SELECT customer_id FROM bookings WHERE status <> 'checkedout')))", where)

				return []customerModel.Customer{{ID: "AAAAA", Name: "Asha Rao"}}, nil
			},
		)
		f.cache.EXPECT().Save(gomock.Any(), "records:arrivals:0", gomock.Any(), 60).Return(nil)

		res, err := f.svc.Arrivals(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Equal(t, "AAAAA", res.Customers[0].ID)
	})

	t.Run("storage failure is unavailable", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
		f.customers.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

		_, err := f.svc.Arrivals(context.Background())

		assert.Equal(t, http.StatusServiceUnavailable, failure.GetCode(err))
	})
}

func TestRecordsService_CustomerDetails(t *testing.T) {
	t.Run("customer with active bookings", func(t *testing.T) {
		f := newFixture(t)

		f.customerSvc.EXPECT().Get(gomock.Any(), "AAAAA").Return(customerDto.CustomerResponse{ID: "AAAAA", Name: "Asha Rao"}, nil)
		f.bookings.EXPECT().GetAll(gomock.Any(), gDto.QueryParams{SortBy: "checkin", SortDir: "ASC"}, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]bookingModel.Booking, error) {
				where, _ := filter.GetWhereClause()

				assert.Equal(t, "(bookings.customer_id = :customer_id AND bookings.status != :status)", where)

				return []bookingModel.Booking{booking(9, "AAAAA", 3, bookingModel.StatusNotArrived)}, nil
			},
		)

		res, err := f.svc.CustomerDetails(context.Background(), "AAAAA")

		require.NoError(t, err)
		assert.Equal(t, "Asha Rao", res.Customer.Name)
		require.Len(t, res.Bookings, 1)
		assert.Equal(t, bookingModel.StatusNotArrived.String(), res.Bookings[0].Status)
		assert.Equal(t, int64(9), res.Bookings[0].Serial)
	})

	t.Run("unknown customer", func(t *testing.T) {
		f := newFixture(t)

		f.customerSvc.EXPECT().Get(gomock.Any(), "ZZZZZ").Return(customerDto.CustomerResponse{}, failure.NotFound("customer not found"))

		_, err := f.svc.CustomerDetails(context.Background(), "ZZZZZ")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestRecordsService_Export(t *testing.T) {
	t.Run("uploads both snapshots", func(t *testing.T) {
		f := newFixture(t)

		f.customers.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]customerModel.Customer{
			{ID: "AAAAA", Name: "Asha Rao", Address: "12, MG Road"},
		}, nil)
		f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]bookingModel.Booking{
			booking(1, "AAAAA", 3, bookingModel.StatusCheckedOut),
			booking(2, "AAAAA", 4, bookingModel.StatusNotArrived),
		}, nil)
		f.s3.EXPECT().UploadFileBytes(gomock.Any(), "", "records", gomock.Any(), "text/csv", gomock.Any()).DoAndReturn(
			func(_ context.Context, _, directory, fileName, _ string, data []byte) (string, error) {
				assert.True(t, strings.HasSuffix(fileName, "-customers.csv"))

				lines := strings.Split(strings.TrimSpace(string(data)), "\n")
				assert.Len(t, lines, 2)
				assert.Equal(t, "id,name,phone,address,govt_id_type,govt_id_number,created_at", lines[0])
				assert.Contains(t, lines[1], `"12, MG Road"`)

				return "https://cdn.example.com/" + directory + "/" + fileName, nil
			},
		)
		f.s3.EXPECT().UploadFileBytes(gomock.Any(), "", "records", gomock.Any(), "text/csv", gomock.Any()).DoAndReturn(
			func(_ context.Context, _, directory, fileName, _ string, data []byte) (string, error) {
				assert.True(t, strings.HasSuffix(fileName, "-bookings.csv"))

				lines := strings.Split(strings.TrimSpace(string(data)), "\n")
				assert.Len(t, lines, 3)
				assert.True(t, strings.HasPrefix(lines[1], "1,AAAAA,2024-06-01,2024-06-05,3,checkedout,"))

				return "https://cdn.example.com/" + directory + "/" + fileName, nil
			},
		)

		res, err := f.svc.Export(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, res.Customers)
		assert.Equal(t, 2, res.Bookings)
		assert.Contains(t, res.CustomersURL, "-customers.csv")
		assert.Contains(t, res.BookingsURL, "-bookings.csv")
	})

	t.Run("upload failure is unavailable", func(t *testing.T) {
		f := newFixture(t)

		f.customers.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]customerModel.Customer{}, nil)
		f.bookings.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]bookingModel.Booking{}, nil)
		f.s3.EXPECT().UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("access denied"))

		_, err := f.svc.Export(context.Background())

		assert.Equal(t, http.StatusServiceUnavailable, failure.GetCode(err))
	})
}
