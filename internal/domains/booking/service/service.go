package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"fmt"
	"hms/config"
	"hms/infras/kafka"
	"hms/infras/metrics"
	"hms/infras/otel"
	"hms/internal/domains/booking/model"
	"hms/internal/domains/booking/model/dto"
	"hms/internal/domains/booking/repository"
	"hms/shared"
	"hms/shared/cache"
	"hms/shared/constant"
	"hms/shared/failure"
	"hms/shared/logger"
	"hms/shared/timezone"
	"hms/shared/transaction"
	"hms/shared/validator"
	"time"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResult, error)
	CheckIn(ctx context.Context, customerID string) (dto.BookingResult, error)
	CheckOut(ctx context.Context, customerID string, roomNumber int) (dto.BookingResult, error)
}

type serviceImpl struct {
	repo    repository.Booking
	tx      transaction.Manager
	cfg     *config.Config
	cache   cache.RedisCache
	kafka   kafka.Client
	metrics metrics.Metrics
	clock   timezone.Clock
	otel    otel.Otel
}

func New(
	repo repository.Booking,
	tx transaction.Manager,
	cfg *config.Config,
	cache cache.RedisCache,
	kafka kafka.Client,
	metrics metrics.Metrics,
	clock timezone.Clock,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:    repo,
		tx:      tx,
		cfg:     cfg,
		cache:   cache,
		kafka:   kafka,
		metrics: metrics,
		clock:   clock,
		otel:    otel,
	}
}

// Create books a room for [checkin, checkout). The overlap check and the insert share one
// serializable transaction; the exclusion constraint catches anything that slips past it.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	checkin, checkout, err := parseStay(req.Checkin, req.Checkout)
	if err != nil {
		return res, err
	}

	today := s.clock.Today()
	if checkin.Before(today) {
		return res, failure.CheckinInPast
	}

	if err = validateRoom(req.RoomNumber, s.cfg.Hotel.RoomCount); err != nil {
		return res, err
	}

	scope.SetAttributes(map[string]any{
		"booking.room_number": req.RoomNumber,
		"booking.checkin":     checkin,
		"booking.checkout":    checkout,
	})

	booking := req.ToModel(checkin, checkout, today, timezone.Now())

	var unavailable bool

	err = s.tx.WithinSerializable(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		unavailable = false

		count, err := s.repo.CountOverlappingTx(ctx, tx, booking.RoomNumber, checkin, checkout)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if count > 0 {
			unavailable = true

			return nil
		}

		booking.Serial, err = s.repo.InsertTx(ctx, tx, booking)

		return err //nolint:wrapcheck
	})

	switch {
	case err == nil:
	case transaction.IsRetryable(err):
		// every retry lost to a concurrent booking of the room
		unavailable = true
	case transaction.Constraint(err) == model.ConstraintNoOverlap:
		unavailable = true
	case transaction.Constraint(err) == model.ConstraintCustomerFK:
		return res, failure.NotFound("customer not found")
	case transaction.Constraint(err) == model.ConstraintDates:
		return res, failure.InvalidDateRange
	default:
		scope.TraceError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("failed to create booking")

		return res, failure.Unavailable(err)
	}

	if unavailable {
		msg := fmt.Sprintf("room %d is not available from %s to %s", req.RoomNumber, req.Checkin, req.Checkout)

		return s.result(model.OperationCreate, model.OutcomeRoomUnavailable, msg, nil), nil
	}

	s.afterCommit(ctx, dto.EventBookingCreated, booking)

	msg := fmt.Sprintf("room %d booked from %s to %s", booking.RoomNumber, req.Checkin, req.Checkout)

	return s.result(model.OperationCreate, model.OutcomeBooked, msg, &booking), nil
}

// CheckIn moves the customer's earliest pending booking to checkedin once its checkin date
// has arrived.
func (s *serviceImpl) CheckIn(ctx context.Context, customerID string) (res dto.BookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CheckIn")
	defer scope.End()

	if err = validator.ValidateVar(customerID, "required,customerid"); err != nil {
		return res, err
	}

	today := s.clock.Today()

	var (
		booking model.Booking
		found   bool
	)

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var err error

		booking, found, err = s.repo.LockEarliestPendingTx(ctx, tx, customerID)
		if err != nil || !found {
			return err //nolint:wrapcheck
		}

		if booking.Checkin.After(today) || !booking.Status.CanTransitionTo(model.StatusCheckedIn) {
			return nil
		}

		booking.Status = model.StatusCheckedIn

		return s.repo.UpdateTx(ctx, tx,
			shared.TransformFields(model.StatusUpdate{Status: booking.Status}),
			shared.FilterByID(booking.Serial, model.FieldSerial, model.TableName),
		)
	})
	if err != nil {
		scope.TraceError(err)
		logger.Ctx(ctx).Error().Err(err).Str("customer_id", customerID).Msg("failed to check in")

		return res, failure.Unavailable(err)
	}

	if !found {
		return s.result(model.OperationCheckIn, model.OutcomeNoPendingBooking, "no pending booking for this customer", nil), nil
	}

	if booking.Status != model.StatusCheckedIn {
		msg := "check-in opens on " + booking.Checkin.Format(constant.CalendarDate)

		return s.result(model.OperationCheckIn, model.OutcomeTooEarly, msg, nil), nil
	}

	s.afterCommit(ctx, dto.EventBookingCheckedIn, booking)

	msg := fmt.Sprintf("checked in to room %d", booking.RoomNumber)

	return s.result(model.OperationCheckIn, model.OutcomeCheckedIn, msg, &booking), nil
}

// CheckOut closes the customer's stay in roomNumber. Leaving before the scheduled date
// shortens the stay to end today, but never to fewer than one night.
func (s *serviceImpl) CheckOut(ctx context.Context, customerID string, roomNumber int) (res dto.BookingResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CheckOut")
	defer scope.End()

	if err = validator.ValidateVar(customerID, "required,customerid"); err != nil {
		return res, err
	}

	if err = validateRoom(roomNumber, s.cfg.Hotel.RoomCount); err != nil {
		return res, err
	}

	today := s.clock.Today()

	var (
		booking model.Booking
		found   bool
	)

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var err error

		booking, found, err = s.repo.LockCheckedInTx(ctx, tx, customerID, roomNumber)
		if err != nil || !found {
			return err //nolint:wrapcheck
		}

		update := model.StatusUpdate{Status: model.StatusCheckedOut}

		// Early departure ends the stay today. A same-day departure keeps one night so the
		// row still satisfies bookings_dates_check (checkin < checkout).
		if today.Before(timezone.Date(booking.Checkout)) {
			booking.Checkout = earlyCheckout(today, booking.Checkin)
			update.Checkout = booking.Checkout.Format(constant.CalendarDate)
		}

		booking.Status = model.StatusCheckedOut

		return s.repo.UpdateTx(ctx, tx,
			shared.TransformFields(update),
			shared.FilterByID(booking.Serial, model.FieldSerial, model.TableName),
		)
	})
	if err != nil {
		scope.TraceError(err)
		logger.Ctx(ctx).Error().Err(err).Str("customer_id", customerID).Int("room_number", roomNumber).Msg("failed to check out")

		return res, failure.Unavailable(err)
	}

	if !found {
		msg := fmt.Sprintf("no active check-in for this customer in room %d", roomNumber)

		return s.result(model.OperationCheckOut, model.OutcomeNoActiveCheckin, msg, nil), nil
	}

	s.afterCommit(ctx, dto.EventBookingCheckedOut, booking)

	msg := fmt.Sprintf("checked out of room %d", booking.RoomNumber)

	return s.result(model.OperationCheckOut, model.OutcomeCheckedOut, msg, &booking), nil
}

func validateRoom(roomNumber, roomCount int) error {
	if roomNumber < 1 || roomNumber > roomCount {
		return failure.BadRequestFromString(fmt.Sprintf("room number must be between 1 and %d", roomCount))
	}

	return nil
}

// earlyCheckout is max(today, checkin + 1 day).
func earlyCheckout(today, checkin time.Time) time.Time {
	minimum := timezone.Date(checkin).AddDate(0, 0, constant.DaysInOneStay)
	if today.Before(minimum) {
		return minimum
	}

	return today
}

func (s *serviceImpl) result(operation, outcome, message string, booking *model.Booking) dto.BookingResult {
	s.metrics.BookingOutcome(operation, outcome)

	res := dto.BookingResult{
		Success: booking != nil,
		Outcome: outcome,
		Message: message,
	}

	if booking != nil {
		res.Booking = &dto.BookingResponse{}
		res.Booking.FromModel(*booking)
	}

	return res
}

// afterCommit drops stale availability and announces the change. Neither step can alter
// the outcome of the committed operation.
func (s *serviceImpl) afterCommit(ctx context.Context, eventType string, booking model.Booking) {
	shared.InvalidateCaches(ctx, s.cache, constant.CacheKeyAvailability)
	shared.InvalidateCaches(ctx, s.cache, constant.CacheKeyRecords)

	event := dto.NewBookingEvent(eventType, booking, timezone.Now())

	err := s.kafka.SendMessages(ctx, s.cfg.Kafka.Topics.Booking, kafka.Message{
		Key:   booking.CustomerID,
		Value: event,
	})
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("event", eventType).Int64("serial", booking.Serial).Msg("failed to publish booking event")
	}
}
