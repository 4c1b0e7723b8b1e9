package service

//go:generate go run go.uber.org/mock/mockgen -source=./reservation.go -destination=../mocks/reservation_mock.go -package=mocks

import (
	"context"
	"hms/config"
	"hms/infras/otel"
	"hms/internal/domains/booking/model/dto"
	customerService "hms/internal/domains/customer/service"
	"hms/shared/constant"
	"hms/shared/failure"
	"hms/shared/timezone"
	"hms/shared/validator"
)

// Reservation registers a walk-in guest and books the room in one call.
type Reservation interface {
	Reserve(ctx context.Context, req dto.BookingRequest) (dto.ReservationResult, error)
}

type reservationImpl struct {
	customers customerService.Customer
	bookings  Booking
	cfg       *config.Config
	clock     timezone.Clock
	otel      otel.Otel
}

func NewReservation(customers customerService.Customer, bookings Booking, cfg *config.Config, clock timezone.Clock, otel otel.Otel) Reservation {
	return &reservationImpl{
		customers: customers,
		bookings:  bookings,
		cfg:       cfg,
		clock:     clock,
		otel:      otel,
	}
}

// Reserve checks the stay before touching the registry so a bad date never leaves a
// customer behind. A registration conflict stops before the booking is attempted.
func (s *reservationImpl) Reserve(ctx context.Context, req dto.BookingRequest) (res dto.ReservationResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Reserve")
	defer scope.End()

	req.Normalize()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	checkin, _, err := parseStay(req.Checkin, req.Checkout)
	if err != nil {
		return res, err
	}

	if checkin.Before(s.clock.Today()) {
		return res, failure.CheckinInPast
	}

	if err = validateRoom(req.RoomNumber, s.cfg.Hotel.RoomCount); err != nil {
		return res, err
	}

	res.Customer, err = s.customers.Upsert(ctx, req.Customer())
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if !res.Customer.Success {
		return res, nil
	}

	booking, err := s.bookings.Create(ctx, req.Booking(res.Customer.CustomerID))
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res.Booking = &booking

	return res, nil
}
