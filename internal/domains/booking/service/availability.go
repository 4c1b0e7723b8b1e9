package service

//go:generate go run go.uber.org/mock/mockgen -source=./availability.go -destination=../mocks/availability_mock.go -package=mocks

import (
	"context"
	"hms/config"
	"hms/infras/otel"
	"hms/internal/domains/booking/model/dto"
	"hms/internal/domains/booking/repository"
	"hms/shared"
	"hms/shared/cache"
	"hms/shared/constant"
	"hms/shared/failure"
	"hms/shared/logger"
	"hms/shared/timezone"
	"hms/shared/validator"
	"slices"
	"time"
)

type Availability interface {
	GetAvailableRooms(ctx context.Context, req dto.AvailabilityRequest) (dto.AvailabilityResponse, error)
}

type availabilityImpl struct {
	repo  repository.Booking
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func NewAvailability(repo repository.Booking, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Availability {
	return &availabilityImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// GetAvailableRooms lists, ascending, every room with no active booking overlapping
// [checkin, checkout).
func (s *availabilityImpl) GetAvailableRooms(ctx context.Context, req dto.AvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAvailableRooms")
	defer scope.End()

	checkin, checkout, err := parseStay(req.Checkin, req.Checkout)
	if err != nil {
		return res, err
	}

	generation, cacheable := shared.CacheGeneration(ctx, s.cache, constant.CacheKeyAvailability)
	key := shared.BuildCacheKey(constant.CacheKeyAvailability, generation, req.Checkin, req.Checkout)

	if cacheable {
		err = s.cache.Get(ctx, key, &res)
		if err == nil {
			return res, nil
		}

		if !cache.IsMiss(err) {
			logger.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to read availability cache")
		}
	}

	booked, err := s.repo.BookedRooms(ctx, checkin, checkout)
	if err != nil {
		scope.TraceError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("failed to query booked rooms")

		return res, failure.Unavailable(err)
	}

	rooms := freeRooms(s.cfg.Hotel.RoomCount, booked)

	res = dto.AvailabilityResponse{
		Checkin:  req.Checkin,
		Checkout: req.Checkout,
		Rooms:    rooms,
		Count:    len(rooms),
	}

	if !cacheable {
		return res, nil
	}

	if err := s.cache.Save(ctx, key, res, s.cfg.Cache.TTL); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to save availability cache")
	}

	return res, nil
}

// freeRooms is the complement of booked over 1..roomCount.
func freeRooms(roomCount int, booked []int) []int {
	rooms := make([]int, 0, roomCount)

	for room := 1; room <= roomCount; room++ {
		if !slices.Contains(booked, room) {
			rooms = append(rooms, room)
		}
	}

	return rooms
}

// parseStay validates a pair of ISO dates and requires checkin < checkout.
func parseStay(checkinValue, checkoutValue string) (checkin, checkout time.Time, err error) {
	req := dto.AvailabilityRequest{Checkin: checkinValue, Checkout: checkoutValue}

	if err = validator.ValidateStruct(&req); err != nil {
		return checkin, checkout, err //nolint:wrapcheck
	}

	checkin, err = timezone.ParseDate(checkinValue)
	if err != nil {
		return checkin, checkout, failure.BadRequest(err) //nolint:wrapcheck
	}

	checkout, err = timezone.ParseDate(checkoutValue)
	if err != nil {
		return checkin, checkout, failure.BadRequest(err) //nolint:wrapcheck
	}

	if !checkin.Before(checkout) {
		return checkin, checkout, failure.InvalidDateRange
	}

	return checkin, checkout, nil
}
