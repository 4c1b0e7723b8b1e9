package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hms/infras/otel"
	"hms/infras/postgres"
	"hms/internal/domains/booking/model"
	"hms/shared/constant"
	gDto "hms/shared/dto"
	gRepo "hms/shared/repository"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var errBuildQuery = errors.New("failed to build query")

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var selectColumns = []string{
	model.FieldSerial,
	model.FieldCustomerID,
	model.FieldCheckin,
	model.FieldCheckout,
	model.FieldRoomNumber,
	model.FieldStatus,
	constant.FieldCreatedAt,
	constant.FieldModifiedAt,
}

type Booking interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, mod map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (int64, error)

	// BookedRooms lists the rooms held by a non checked-out booking overlapping [checkin, checkout).
	BookedRooms(ctx context.Context, checkin, checkout time.Time) ([]int, error)
	// OccupiedRooms lists the rooms held by any non checked-out booking.
	OccupiedRooms(ctx context.Context) ([]int, error)
	CountOverlappingTx(ctx context.Context, sqltx *sqlx.Tx, roomNumber int, checkin, checkout time.Time) (int, error)
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, booking model.Booking) (int64, error)
	// LockEarliestPendingTx locks the customer's earliest not_arrived booking.
	LockEarliestPendingTx(ctx context.Context, sqltx *sqlx.Tx, customerID string) (model.Booking, bool, error)
	// LockCheckedInTx locks the checked-in booking of customerID in roomNumber.
	LockCheckedInTx(ctx context.Context, sqltx *sqlx.Tx, customerID string, roomNumber int) (model.Booking, bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldSerial, db, otel),
		db:         db,
		otel:       otel,
	}
}

// calendarDate renders t the way DATE parameters are sent to postgres.
func calendarDate(t time.Time) string {
	return t.Format(constant.CalendarDate)
}

// overlapping is the negated-disjoint test against the half-open range [checkin, checkout).
func overlapping(checkin, checkout time.Time) sq.Sqlizer {
	return sq.Expr(
		"NOT ("+model.FieldCheckout+" <= ? OR "+model.FieldCheckin+" >= ?)",
		calendarDate(checkin),
		calendarDate(checkout),
	)
}

func notCheckedOut() sq.Sqlizer {
	return sq.NotEq{model.FieldStatus: model.StatusCheckedOut.String()}
}

func (r *repositoryImpl) BookedRooms(ctx context.Context, checkin, checkout time.Time) (rooms []int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.BookedRooms")
	defer scope.End()

	query, args, err := psql.
		Select(model.FieldRoomNumber).
		Distinct().
		From(model.TableName).
		Where(notCheckedOut()).
		Where(overlapping(checkin, checkout)).
		OrderBy(model.FieldRoomNumber).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: BookedRooms: %w", errBuildQuery, err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	rooms = []int{}
	if err = r.db.Read.SelectContext(ctx, &rooms, query, args...); err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to select booked rooms: %w", err)
	}

	return rooms, nil
}

func (r *repositoryImpl) OccupiedRooms(ctx context.Context) (rooms []int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.OccupiedRooms")
	defer scope.End()

	query, args, err := psql.
		Select(model.FieldRoomNumber).
		Distinct().
		From(model.TableName).
		Where(notCheckedOut()).
		OrderBy(model.FieldRoomNumber).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: OccupiedRooms: %w", errBuildQuery, err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	rooms = []int{}
	if err = r.db.Read.SelectContext(ctx, &rooms, query, args...); err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to select occupied rooms: %w", err)
	}

	return rooms, nil
}

func (r *repositoryImpl) CountOverlappingTx(ctx context.Context, sqltx *sqlx.Tx, roomNumber int, checkin, checkout time.Time) (count int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CountOverlappingTx")
	defer scope.End()

	query, args, err := psql.
		Select("COUNT(*)").
		From(model.TableName).
		Where(sq.Eq{model.FieldRoomNumber: roomNumber}).
		Where(notCheckedOut()).
		Where(overlapping(checkin, checkout)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountOverlappingTx: %w", errBuildQuery, err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = sqltx.GetContext(ctx, &count, query, args...); err != nil {
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}

	return count, nil
}

func (r *repositoryImpl) InsertTx(ctx context.Context, sqltx *sqlx.Tx, booking model.Booking) (serial int64, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.InsertTx")
	defer scope.End()

	query, args, err := psql.
		Insert(model.TableName).
		Columns(r.InsertColumns...).
		Values(
			booking.CustomerID,
			calendarDate(booking.Checkin),
			calendarDate(booking.Checkout),
			booking.RoomNumber,
			booking.Status.String(),
			booking.CreatedAt,
			booking.ModifiedAt,
		).
		Suffix("RETURNING " + model.FieldSerial).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: InsertTx: %w", errBuildQuery, err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = sqltx.QueryRowxContext(ctx, query, args...).Scan(&serial); err != nil {
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to insert booking: %w", err)
	}

	return serial, nil
}

func (r *repositoryImpl) LockEarliestPendingTx(ctx context.Context, sqltx *sqlx.Tx, customerID string) (model.Booking, bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.LockEarliestPendingTx")
	defer scope.End()

	builder := psql.
		Select(selectColumns...).
		From(model.TableName).
		Where(sq.Eq{
			model.FieldCustomerID: customerID,
			model.FieldStatus:     model.StatusNotArrived.String(),
		}).
		OrderBy(model.FieldCheckin, model.FieldSerial).
		Limit(1).
		Suffix("FOR UPDATE")

	return r.lockOne(ctx, scope, sqltx, builder)
}

func (r *repositoryImpl) LockCheckedInTx(ctx context.Context, sqltx *sqlx.Tx, customerID string, roomNumber int) (model.Booking, bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.LockCheckedInTx")
	defer scope.End()

	builder := psql.
		Select(selectColumns...).
		From(model.TableName).
		Where(sq.Eq{
			model.FieldCustomerID: customerID,
			model.FieldRoomNumber: roomNumber,
			model.FieldStatus:     model.StatusCheckedIn.String(),
		}).
		OrderBy(model.FieldCheckin, model.FieldSerial).
		Limit(1).
		Suffix("FOR UPDATE")

	return r.lockOne(ctx, scope, sqltx, builder)
}

func (r *repositoryImpl) lockOne(ctx context.Context, scope otel.Scope, sqltx *sqlx.Tx, builder sq.SelectBuilder) (booking model.Booking, found bool, err error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return booking, false, fmt.Errorf("%w: lock booking: %w", errBuildQuery, err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = sqltx.GetContext(ctx, &booking, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return booking, false, nil
	}

	if err != nil {
		scope.TraceError(err)

		return booking, false, fmt.Errorf("failed to lock booking: %w", err)
	}

	return booking, true, nil
}
