package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hms/infras/otel/mocks"
	bookingMocks "hms/internal/domains/booking/mocks"
	"hms/internal/domains/booking/model/dto"
	"hms/internal/domains/booking/service"
	"hms/shared"
	"hms/shared/cache"
	cacheMocks "hms/shared/cache/mocks"
	"hms/shared/constant"
	"hms/shared/failure"
)

func expectGeneration(mockCache *cacheMocks.MockRedisCache, generation string) {
	mockCache.EXPECT().Get(gomock.Any(), "availability:generation", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, value any) error {
			*value.(*string) = generation

			return nil
		},
	)
}

// memoryCache is a single-goroutine stand-in for Redis that keeps values as JSON.
type memoryCache struct {
	values map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (c *memoryCache) Save(_ context.Context, key string, value any, _ int) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.values[key] = string(raw)

	return nil
}

func (c *memoryCache) Get(_ context.Context, key string, value any) error {
	raw, ok := c.values[key]
	if !ok {
		return cache.Nil
	}

	if v, isString := value.(*string); isString {
		*v = raw

		return nil
	}

	return json.Unmarshal([]byte(raw), value)
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	delete(c.values, key)

	return nil
}

func (c *memoryCache) Clear(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")

	for key := range c.values {
		if strings.HasPrefix(key, prefix) {
			delete(c.values, key)
		}
	}

	return nil
}

func (c *memoryCache) Incr(_ context.Context, key string) (int64, error) {
	current, _ := strconv.ParseInt(c.values[key], 10, 64)
	current++
	c.values[key] = strconv.FormatInt(current, 10)

	return current, nil
}

func TestAvailabilityService_BookingDuringReadIsNotCachedStale(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := bookingMocks.NewMockBooking(ctrl)
	memory := newMemoryCache()
	req := dto.AvailabilityRequest{Checkin: "2024-06-01", Checkout: "2024-06-05"}

	// The first read sees the hotel empty while a booking for room 10 commits and
	// invalidates the cache before the read stores its result.
	mockRepo.EXPECT().BookedRooms(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _, _ time.Time) ([]int, error) {
			shared.InvalidateCaches(ctx, memory, constant.CacheKeyAvailability)

			return []int{}, nil
		},
	)
	mockRepo.EXPECT().BookedRooms(gomock.Any(), gomock.Any(), gomock.Any()).Return([]int{10}, nil)

	svc := service.NewAvailability(mockRepo, newConfig(), memory, mocks.NewOtel())

	first, err := svc.GetAvailableRooms(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, first.Rooms, 10)

	second, err := svc.GetAvailableRooms(context.Background(), req)
	require.NoError(t, err)
	assert.NotContains(t, second.Rooms, 10)
	assert.Equal(t, 99, second.Count)

	third, err := svc.GetAvailableRooms(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, second, third)
}

func TestAvailabilityService_GetAvailableRooms(t *testing.T) {
	req := dto.AvailabilityRequest{Checkin: "2024-06-01", Checkout: "2024-06-05"}
	key := "availability:3:2024-06-01:2024-06-05"

	t.Run("cache hit skips the database", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := bookingMocks.NewMockBooking(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)

		cached := dto.AvailabilityResponse{Checkin: req.Checkin, Checkout: req.Checkout, Rooms: []int{3}, Count: 1}
		expectGeneration(mockCache, "3")
		mockCache.EXPECT().Get(gomock.Any(), key, gomock.Any()).DoAndReturn(func(_ context.Context, _ string, value any) error {
			*value.(*dto.AvailabilityResponse) = cached

			return nil
		})

		svc := service.NewAvailability(mockRepo, newConfig(), mockCache, mocks.NewOtel())

		res, err := svc.GetAvailableRooms(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, cached, res)
	})

	t.Run("cache miss computes the complement and stores it", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := bookingMocks.NewMockBooking(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)

		expectGeneration(mockCache, "3")
		mockCache.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(cache.Nil)
		mockRepo.EXPECT().BookedRooms(gomock.Any(), date("2024-06-01"), date("2024-06-05")).Return([]int{1, 10, 100}, nil)
		mockCache.EXPECT().Save(gomock.Any(), key, gomock.Any(), 60).Return(nil)

		svc := service.NewAvailability(mockRepo, newConfig(), mockCache, mocks.NewOtel())

		res, err := svc.GetAvailableRooms(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, 97, res.Count)
		assert.Len(t, res.Rooms, 97)
		assert.Equal(t, 2, res.Rooms[0])
		assert.Equal(t, 99, res.Rooms[len(res.Rooms)-1])
		assert.NotContains(t, res.Rooms, 10)
		assert.True(t, slices.IsSorted(res.Rooms))
	})

	t.Run("cache failures never fail the request", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := bookingMocks.NewMockBooking(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)

		expectGeneration(mockCache, "3")
		mockCache.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(errors.New("redis down"))
		mockRepo.EXPECT().BookedRooms(gomock.Any(), gomock.Any(), gomock.Any()).Return([]int{}, nil)
		mockCache.EXPECT().Save(gomock.Any(), key, gomock.Any(), 60).Return(errors.New("redis down"))

		svc := service.NewAvailability(mockRepo, newConfig(), mockCache, mocks.NewOtel())

		res, err := svc.GetAvailableRooms(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, 100, res.Count)
	})

	t.Run("unreadable generation skips the cache entirely", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := bookingMocks.NewMockBooking(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)

		mockCache.EXPECT().Get(gomock.Any(), "availability:generation", gomock.Any()).Return(errors.New("redis down"))
		mockRepo.EXPECT().BookedRooms(gomock.Any(), gomock.Any(), gomock.Any()).Return([]int{4}, nil)

		svc := service.NewAvailability(mockRepo, newConfig(), mockCache, mocks.NewOtel())

		res, err := svc.GetAvailableRooms(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, 99, res.Count)
	})

	t.Run("storage failure is unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := bookingMocks.NewMockBooking(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)

		expectGeneration(mockCache, "3")
		mockCache.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(cache.Nil)
		mockRepo.EXPECT().BookedRooms(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

		svc := service.NewAvailability(mockRepo, newConfig(), mockCache, mocks.NewOtel())

		_, err := svc.GetAvailableRooms(context.Background(), req)

		assert.Equal(t, http.StatusServiceUnavailable, failure.GetCode(err))
	})

	t.Run("invalid ranges are rejected before any lookup", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := service.NewAvailability(bookingMocks.NewMockBooking(ctrl), newConfig(), cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())

		for _, bad := range []dto.AvailabilityRequest{
			{Checkin: "2024-06-05", Checkout: "2024-06-05"},
			{Checkin: "2024-06-05", Checkout: "2024-06-01"},
			{Checkin: "2024-13-01", Checkout: "2024-06-01"},
			{Checkin: "", Checkout: "2024-06-01"},
		} {
			_, err := svc.GetAvailableRooms(context.Background(), bad)

			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err), "%+v", bad)
		}
	})
}

func TestAvailabilityService_ComplementProperty(t *testing.T) {
	bookedSets := [][]int{
		{},
		{1},
		{100},
		{5, 6, 7, 50},
	}

	for _, booked := range bookedSets {
		ctrl := gomock.NewController(t)
		mockRepo := bookingMocks.NewMockBooking(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)

		expectGeneration(mockCache, "0")
		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		mockRepo.EXPECT().BookedRooms(gomock.Any(), gomock.Any(), gomock.Any()).Return(booked, nil)
		mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		svc := service.NewAvailability(mockRepo, newConfig(), mockCache, mocks.NewOtel())

		res, err := svc.GetAvailableRooms(context.Background(), dto.AvailabilityRequest{Checkin: "2024-06-01", Checkout: "2024-06-02"})
		require.NoError(t, err)

		all := slices.Concat(res.Rooms, booked)
		slices.Sort(all)

		require.Len(t, all, 100, "booked %v", booked)

		for i, room := range all {
			assert.Equal(t, i+1, room)
		}
	}
}
