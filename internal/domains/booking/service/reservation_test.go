package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hms/infras/otel/mocks"
	bookingMocks "hms/internal/domains/booking/mocks"
	"hms/internal/domains/booking/model"
	"hms/internal/domains/booking/model/dto"
	"hms/internal/domains/booking/service"
	customerMocks "hms/internal/domains/customer/mocks"
	customerModel "hms/internal/domains/customer/model"
	customerDto "hms/internal/domains/customer/model/dto"
	"hms/shared/failure"
	"hms/shared/timezone"
)

func walkIn(checkin, checkout string, room int) dto.BookingRequest {
	return dto.BookingRequest{
		UpsertCustomerRequest: customerDto.UpsertCustomerRequest{
			Name:         "asha rao",
			Phone:        "9876543210",
			Address:      "12 mg road",
			GovtIDType:   "psp",
			GovtIDNumber: "a1234567",
		},
		Checkin:    checkin,
		Checkout:   checkout,
		RoomNumber: room,
	}
}

func TestReservationService_Reserve(t *testing.T) {
	t.Run("registers the guest then books the room", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockCustomers := customerMocks.NewMockCustomerService(ctrl)
		mockBookings := bookingMocks.NewMockBookingService(ctrl)

		mockCustomers.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req customerDto.UpsertCustomerRequest) (customerDto.CustomerResult, error) {
				assert.Equal(t, "PSP", req.GovtIDType)

				return customerDto.CustomerResult{Success: true, Outcome: customerModel.OutcomeCreated, CustomerID: "K9Z2Q"}, nil
			},
		)
		mockBookings.EXPECT().Create(gomock.Any(), dto.CreateBookingRequest{
			CustomerID: "K9Z2Q",
			Checkin:    "2024-06-01",
			Checkout:   "2024-06-05",
			RoomNumber: 10,
		}).Return(dto.BookingResult{Success: true, Outcome: model.OutcomeBooked}, nil)

		svc := service.NewReservation(mockCustomers, mockBookings, newConfig(), timezone.FixedClock(date("2024-05-20")), mocks.NewOtel())

		res, err := svc.Reserve(context.Background(), walkIn("2024-06-01", "2024-06-05", 10))

		require.NoError(t, err)
		assert.True(t, res.Success())
		assert.Equal(t, "K9Z2Q", res.Customer.CustomerID)
		assert.Equal(t, model.OutcomeBooked, res.Booking.Outcome)
	})

	t.Run("registration conflict stops before booking", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockCustomers := customerMocks.NewMockCustomerService(ctrl)

		mockCustomers.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(customerDto.CustomerResult{Outcome: customerModel.OutcomeConflict}, nil)

		svc := service.NewReservation(mockCustomers, bookingMocks.NewMockBookingService(ctrl), newConfig(), timezone.FixedClock(date("2024-05-20")), mocks.NewOtel())

		res, err := svc.Reserve(context.Background(), walkIn("2024-06-01", "2024-06-05", 10))

		require.NoError(t, err)
		assert.False(t, res.Success())
		assert.Nil(t, res.Booking)
	})

	t.Run("bad stay never reaches the registry", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		svc := service.NewReservation(customerMocks.NewMockCustomerService(ctrl), bookingMocks.NewMockBookingService(ctrl), newConfig(), timezone.FixedClock(date("2024-05-20")), mocks.NewOtel())

		for _, req := range []dto.BookingRequest{
			walkIn("2024-06-05", "2024-06-01", 10),
			walkIn("2024-05-01", "2024-06-01", 10),
			walkIn("2024-06-01", "2024-06-05", 0),
			walkIn("2024-06-01", "2024-06-05", 101),
		} {
			_, err := svc.Reserve(context.Background(), req)

			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err), "%+v", req)
		}
	})
}
